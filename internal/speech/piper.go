package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/rbright/maak/internal/audio"
)

const defaultPiperSampleRate = 22050

// Piper synthesizes raw PCM with a piper voice model and plays it through
// Pulse.
type Piper struct {
	Binary    string
	ModelPath string

	logger *slog.Logger
	play   func(ctx context.Context, samples []int16, sampleRate int) error
}

// NewPiper creates a piper speaker. An empty binary means "piper" on PATH.
func NewPiper(binary string, modelPath string, logger *slog.Logger) *Piper {
	if binary == "" {
		binary = "piper"
	}
	return &Piper{
		Binary:    binary,
		ModelPath: modelPath,
		logger:    logger,
		play: func(ctx context.Context, samples []int16, sampleRate int) error {
			return audio.Play(ctx, samples, sampleRate, "maak speech")
		},
	}
}

// Speak implements Speaker. Piper voices are single-language, so locale is
// only logged.
func (p *Piper) Speak(ctx context.Context, text string, locale string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	pcm, err := p.synthesize(ctx, text)
	if err != nil {
		return err
	}
	rate := p.sampleRate()
	if err := p.play(ctx, audio.SamplesFromPCM(pcm), rate); err != nil {
		return fmt.Errorf("play speech: %w", err)
	}
	if p.logger != nil {
		p.logger.Debug("speech spoken", "backend", "piper", "locale", locale, "sample_rate", rate, "bytes", len(pcm))
	}
	return nil
}

func (p *Piper) synthesize(ctx context.Context, text string) ([]byte, error) {
	args := []string{"--model", p.ModelPath, "--output_raw"}
	if _, err := os.Stat(p.configPath()); err == nil {
		args = append(args, "--config", p.configPath())
	}

	cmd := exec.CommandContext(ctx, p.Binary, args...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("piper failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("piper produced no audio")
	}
	return stdout.Bytes(), nil
}

func (p *Piper) configPath() string {
	return p.ModelPath + ".json"
}

// sampleRate reads audio.sample_rate from the voice config, falling back to
// the piper default.
func (p *Piper) sampleRate() int {
	data, err := os.ReadFile(p.configPath())
	if err != nil {
		return defaultPiperSampleRate
	}
	var voice struct {
		Audio struct {
			SampleRate int `json:"sample_rate"`
		} `json:"audio"`
	}
	if err := json.Unmarshal(data, &voice); err != nil || voice.Audio.SampleRate <= 0 {
		return defaultPiperSampleRate
	}
	return voice.Audio.SampleRate
}
