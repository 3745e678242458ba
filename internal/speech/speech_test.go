package speech

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/maak/internal/config"
)

func TestNewSelectsBackend(t *testing.T) {
	cfg := config.Default().Speech

	speaker, err := New(cfg, nil)
	require.NoError(t, err)
	require.IsType(t, &Espeak{}, speaker)

	cfg.Backend = "piper"
	cfg.ModelPath = "/tmp/voice.onnx"
	speaker, err = New(cfg, nil)
	require.NoError(t, err)
	require.IsType(t, &Piper{}, speaker)

	cfg.Backend = "none"
	speaker, err = New(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, Silent{}, speaker)

	cfg.Backend = "espeak"
	cfg.Enable = false
	speaker, err = New(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, Silent{}, speaker)

	cfg.Enable = true
	cfg.Backend = "festival"
	_, err = New(cfg, nil)
	require.ErrorContains(t, err, `unsupported speech backend "festival"`)
}

func TestLanguageTag(t *testing.T) {
	tests := map[string]string{
		"ar-SA":       "ar",
		"en_US.UTF-8": "en",
		"FR":          "fr",
		"  ":          "",
	}
	for input, want := range tests {
		require.Equal(t, want, languageTag(input), input)
	}
}

func TestEspeakPassesVoiceAndText(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "espeak-args.log")
	t.Setenv("ESPEAK_ARGS_FILE", argsFile)
	installStub(t, "espeak-ng", `printf '%s\n' "$*" >> "${ESPEAK_ARGS_FILE}"`)

	speaker := &Espeak{Binary: "espeak-ng"}
	require.NoError(t, speaker.Speak(context.Background(), "كيف حالك؟", "ar-SA"))
	require.NoError(t, speaker.Speak(context.Background(), "   ", "ar-SA"))

	speaker.Voice = "en-us"
	require.NoError(t, speaker.Speak(context.Background(), "-hello", "ar-SA"))

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, []string{
		"-v ar -- كيف حالك؟",
		"-v en-us -- -hello",
	}, strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestEspeakReportsStderr(t *testing.T) {
	installStub(t, "espeak-ng", `echo "voice not found" >&2; exit 1`)

	err := (&Espeak{Binary: "espeak-ng"}).Speak(context.Background(), "hi", "xx")
	require.Error(t, err)
	require.Contains(t, err.Error(), "voice not found")
}

func TestPiperSynthesizesAndPlays(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "voice.onnx")
	require.NoError(t, os.WriteFile(model+".json", []byte(`{"audio":{"sample_rate":16000}}`), 0o600))

	argsFile := filepath.Join(dir, "piper-args.log")
	t.Setenv("PIPER_ARGS_FILE", argsFile)
	installStub(t, "piper", `
printf '%s\n' "$*" > "${PIPER_ARGS_FILE}"
cat > /dev/null
printf '\x01\x00\x02\x00'
`)

	speaker := NewPiper("", model, nil)
	var gotSamples []int16
	var gotRate int
	speaker.play = func(_ context.Context, samples []int16, rate int) error {
		gotSamples = samples
		gotRate = rate
		return nil
	}

	require.NoError(t, speaker.Speak(context.Background(), "hello", "en-US"))
	require.Equal(t, []int16{1, 2}, gotSamples)
	require.Equal(t, 16000, gotRate)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "--model "+model+" --output_raw --config "+model+".json", strings.TrimSpace(string(data)))
}

func TestPiperDefaultsSampleRateWithoutVoiceConfig(t *testing.T) {
	speaker := NewPiper("piper", filepath.Join(t.TempDir(), "missing.onnx"), nil)
	require.Equal(t, defaultPiperSampleRate, speaker.sampleRate())
}

func TestPiperFailsOnEmptyOutput(t *testing.T) {
	installStub(t, "piper", `cat > /dev/null`)

	speaker := NewPiper("piper", filepath.Join(t.TempDir(), "voice.onnx"), nil)
	speaker.play = func(context.Context, []int16, int) error {
		t.Fatal("play must not run without audio")
		return nil
	}
	require.ErrorContains(t, speaker.Speak(context.Background(), "hello", "en"), "piper produced no audio")
}

func installStub(t *testing.T, name string, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}
