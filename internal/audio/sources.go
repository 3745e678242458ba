// Package audio lists PulseAudio input sources and meters their loudness.
package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// Source describes one Pulse input source.
type Source struct {
	ID          string
	Description string
	State       string
	Available   bool
	Muted       bool
	Default     bool
}

// Selection is the resolved source plus a warning when a fallback was used.
type Selection struct {
	Source   Source
	Warning  string
	Fallback bool
}

func newClient() (*pulse.Client, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("maak"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	return client, nil
}

// ListSources returns Pulse input sources with default/availability metadata.
func ListSources(_ context.Context) ([]Source, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	defaultSource, err := client.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("read default source: %w", err)
	}

	var infos pulseproto.GetSourceInfoListReply
	if err := client.RawRequest(&pulseproto.GetSourceInfoList{}, &infos); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	sources := make([]Source, 0, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}
		sources = append(sources, Source{
			ID:          info.SourceName,
			Description: info.Device,
			State:       sourceState(info.State),
			Available:   portAvailable(info),
			Muted:       info.Mute,
			Default:     info.SourceName == defaultSource.ID(),
		})
	}
	return sources, nil
}

// SelectSource resolves radar.input/radar.fallback against live sources.
func SelectSource(ctx context.Context, input string, fallback string) (Selection, error) {
	sources, err := ListSources(ctx)
	if err != nil {
		return Selection{}, err
	}
	return selectSource(sources, input, fallback)
}

// selectSource prefers input, then fallback, then the server default. A
// muted or unavailable pick falls through to the next candidate.
func selectSource(sources []Source, input string, fallback string) (Selection, error) {
	if len(sources) == 0 {
		return Selection{}, errors.New("no audio input sources found")
	}

	input = normalizeTerm(input)
	fallback = normalizeTerm(fallback)

	find := func(term string) *Source {
		for i := range sources {
			if term == "" {
				if sources[i].Default {
					return &sources[i]
				}
				continue
			}
			if sourceMatches(sources[i], term) {
				return &sources[i]
			}
		}
		return nil
	}

	primary := find(input)
	if primary == nil {
		if input == "" {
			return Selection{}, errors.New("default audio source is unavailable")
		}
		return Selection{}, fmt.Errorf("radar.input %q did not match any source", input)
	}
	if usable(*primary) {
		return Selection{Source: *primary}, nil
	}

	reason := "unavailable"
	if primary.Muted {
		reason = "muted"
	}

	backup := find(fallback)
	if backup == nil {
		return Selection{}, fmt.Errorf("radar input %q is %s and fallback %q not found", primary.ID, reason, fallback)
	}
	if !usable(*backup) {
		return Selection{}, fmt.Errorf("radar input %q is %s and fallback %q is not usable", primary.ID, reason, backup.ID)
	}

	return Selection{
		Source:   *backup,
		Warning:  fmt.Sprintf("radar input %q is %s; falling back to %q", primary.ID, reason, backup.ID),
		Fallback: backup.ID != primary.ID,
	}, nil
}

// normalizeTerm maps "default" and blanks to the empty term.
func normalizeTerm(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "default" {
		return ""
	}
	return term
}

func usable(source Source) bool {
	return source.Available && !source.Muted
}

func sourceMatches(source Source, term string) bool {
	return strings.Contains(strings.ToLower(source.ID), term) ||
		strings.Contains(strings.ToLower(source.Description), term)
}

func sourceState(state uint32) string {
	switch state {
	case 0:
		return "running"
	case 1:
		return "idle"
	case 2:
		return "suspended"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}

// portAvailable reports the active port availability. Pulse values are
// unknown=0, no=1, yes=2.
func portAvailable(info *pulseproto.GetSourceInfoReply) bool {
	if info == nil {
		return false
	}
	for _, port := range info.Ports {
		if port.Name == info.ActivePortName {
			return port.Available != 1
		}
	}
	return true
}
