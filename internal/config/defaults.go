package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	clipboard := "wl-copy --trim-newline"

	return Config{
		Capture: CaptureConfig{Device: "auto"},
		Inference: InferenceConfig{
			DelayMS: 2000,
			Phrases: []string{
				"أنا أحتاج للماء",
				"كيف حالك؟",
				"شكراً لمساعدتكم",
			},
			Locale: "ar-SA",
		},
		Alert: AlertConfig{
			WindowMS:       5000,
			VibratePattern: []int{100, 30, 100, 30, 500, 30, 500},
			Text:           "تنبيه طوارئ",
		},
		Speech: SpeechConfig{
			Enable:  true,
			Backend: "espeak",
			Binary:  "espeak-ng",
		},
		Indicator: IndicatorConfig{
			Enable:         true,
			Backend:        "desktop",
			DesktopAppName: "maak",
			BuzzEnable:     true,
			BuzzHz:         180,
		},
		Radar: RadarConfig{
			Input:         "default",
			Fallback:      "default",
			ThresholdDBFS: -18,
			HoldMS:        300,
		},
		Clipboard: CommandConfig{Raw: clipboard, Argv: mustParseArgv(clipboard)},
		Log:       LogConfig{Level: "info"},
	}
}
