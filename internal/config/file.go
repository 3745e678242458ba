package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape shared by the JSONC and YAML formats.
// Pointer fields distinguish "absent" from zero values.
type fileConfig struct {
	Capture   *fileCapture   `json:"capture" yaml:"capture"`
	Inference *fileInference `json:"inference" yaml:"inference"`
	Alert     *fileAlert     `json:"alert" yaml:"alert"`
	Speech    *fileSpeech    `json:"speech" yaml:"speech"`
	Indicator *fileIndicator `json:"indicator" yaml:"indicator"`
	Radar     *fileRadar     `json:"radar" yaml:"radar"`
	Log       *fileLog       `json:"log" yaml:"log"`

	ClipboardCmd *string `json:"clipboard_cmd" yaml:"clipboard_cmd"`
}

type fileCapture struct {
	Device *string `json:"device" yaml:"device"`
}

type fileInference struct {
	DelayMS *int        `json:"delay_ms" yaml:"delay_ms"`
	Phrases *stringList `json:"phrases" yaml:"phrases"`
	Locale  *string     `json:"locale" yaml:"locale"`
}

type fileAlert struct {
	WindowMS       *int    `json:"window_ms" yaml:"window_ms"`
	VibratePattern []int   `json:"vibrate_pattern" yaml:"vibrate_pattern"`
	Text           *string `json:"text" yaml:"text"`
}

type fileSpeech struct {
	Enable    *bool   `json:"enable" yaml:"enable"`
	Backend   *string `json:"backend" yaml:"backend"`
	Binary    *string `json:"binary" yaml:"binary"`
	Voice     *string `json:"voice" yaml:"voice"`
	ModelPath *string `json:"model_path" yaml:"model_path"`
}

type fileIndicator struct {
	Enable         *bool    `json:"enable" yaml:"enable"`
	Backend        *string  `json:"backend" yaml:"backend"`
	DesktopAppName *string  `json:"desktop_app_name" yaml:"desktop_app_name"`
	BuzzEnable     *bool    `json:"buzz_enable" yaml:"buzz_enable"`
	BuzzHz         *float64 `json:"buzz_hz" yaml:"buzz_hz"`
}

type fileRadar struct {
	Input         *string  `json:"input" yaml:"input"`
	Fallback      *string  `json:"fallback" yaml:"fallback"`
	ThresholdDBFS *float64 `json:"threshold_dbfs" yaml:"threshold_dbfs"`
	HoldMS        *int     `json:"hold_ms" yaml:"hold_ms"`
}

type fileLog struct {
	Level *string `json:"level" yaml:"level"`
}

// stringList accepts either a list of strings or one comma-delimited string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = splitCommaList(single)
		return nil
	}

	return fmt.Errorf("expected string array or comma-delimited string")
}

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	case yaml.ScalarNode:
		*l = splitCommaList(node.Value)
		return nil
	default:
		return fmt.Errorf("line %d: expected string array or comma-delimited string", node.Line)
	}
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func (payload fileConfig) applyTo(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if payload.Capture != nil && payload.Capture.Device != nil {
		cfg.Capture.Device = strings.TrimSpace(*payload.Capture.Device)
	}

	if p := payload.Inference; p != nil {
		if p.DelayMS != nil {
			cfg.Inference.DelayMS = *p.DelayMS
		}
		if p.Phrases != nil {
			phrases, dupes := dedupePhrases(*p.Phrases)
			for _, dupe := range dupes {
				warnings = append(warnings, Warning{Message: fmt.Sprintf("inference.phrases contains %q more than once; keeping one", dupe)})
			}
			cfg.Inference.Phrases = phrases
		}
		if p.Locale != nil {
			cfg.Inference.Locale = strings.TrimSpace(*p.Locale)
		}
	}

	if p := payload.Alert; p != nil {
		if p.WindowMS != nil {
			cfg.Alert.WindowMS = *p.WindowMS
		}
		if p.VibratePattern != nil {
			cfg.Alert.VibratePattern = append([]int(nil), p.VibratePattern...)
		}
		if p.Text != nil {
			cfg.Alert.Text = strings.TrimSpace(*p.Text)
		}
	}

	if p := payload.Speech; p != nil {
		if p.Enable != nil {
			cfg.Speech.Enable = *p.Enable
		}
		if p.Backend != nil {
			cfg.Speech.Backend = strings.ToLower(strings.TrimSpace(*p.Backend))
		}
		if p.Binary != nil {
			cfg.Speech.Binary = strings.TrimSpace(*p.Binary)
		}
		if p.Voice != nil {
			cfg.Speech.Voice = strings.TrimSpace(*p.Voice)
		}
		if p.ModelPath != nil {
			cfg.Speech.ModelPath = strings.TrimSpace(*p.ModelPath)
		}
	}

	if p := payload.Indicator; p != nil {
		if p.Enable != nil {
			cfg.Indicator.Enable = *p.Enable
		}
		if p.Backend != nil {
			cfg.Indicator.Backend = strings.ToLower(strings.TrimSpace(*p.Backend))
		}
		if p.DesktopAppName != nil {
			cfg.Indicator.DesktopAppName = strings.TrimSpace(*p.DesktopAppName)
		}
		if p.BuzzEnable != nil {
			cfg.Indicator.BuzzEnable = *p.BuzzEnable
		}
		if p.BuzzHz != nil {
			cfg.Indicator.BuzzHz = *p.BuzzHz
		}
	}

	if p := payload.Radar; p != nil {
		if p.Input != nil {
			cfg.Radar.Input = *p.Input
		}
		if p.Fallback != nil {
			cfg.Radar.Fallback = *p.Fallback
		}
		if p.ThresholdDBFS != nil {
			cfg.Radar.ThresholdDBFS = *p.ThresholdDBFS
		}
		if p.HoldMS != nil {
			cfg.Radar.HoldMS = *p.HoldMS
		}
	}

	if payload.Log != nil && payload.Log.Level != nil {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(*payload.Log.Level))
	}

	if payload.ClipboardCmd != nil {
		raw := *payload.ClipboardCmd
		argv, err := parseArgv(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid clipboard_cmd: %w", err)
		}
		cfg.Clipboard = CommandConfig{Raw: raw, Argv: argv}
	}

	return warnings, nil
}

// dedupePhrases trims phrases, drops blanks, and keeps first occurrences.
func dedupePhrases(raw []string) ([]string, []string) {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	var dupes []string
	for _, phrase := range raw {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		if _, ok := seen[phrase]; ok {
			dupes = append(dupes, phrase)
			continue
		}
		seen[phrase] = struct{}{}
		out = append(out, phrase)
	}
	return out, dupes
}
