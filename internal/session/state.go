// Package session owns the maak application state and coordinates screen
// routing, feature panels, device capture, simulated inference and alerts.
package session

import (
	"fmt"
	"strings"

	"github.com/rbright/maak/internal/fsm"
)

// Feature identifies one of the assistance panels. The zero value means no
// panel is open.
type Feature string

const (
	FeatureNone         Feature = ""
	FeatureSignToText   Feature = "sign_to_text"
	FeatureTextToAvatar Feature = "text_to_avatar"
	FeatureSoundRadar   Feature = "sound_radar"
	FeatureImageOCR     Feature = "image_ocr"
)

// Features lists every selectable panel in display order.
func Features() []Feature {
	return []Feature{FeatureSignToText, FeatureTextToAvatar, FeatureSoundRadar, FeatureImageOCR}
}

// Valid reports whether f names a selectable panel.
func (f Feature) Valid() bool {
	switch f {
	case FeatureSignToText, FeatureTextToAvatar, FeatureSoundRadar, FeatureImageOCR:
		return true
	default:
		return false
	}
}

// ParseFeature accepts feature ids with either '-' or '_' separators.
func ParseFeature(raw string) (Feature, error) {
	f := Feature(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if !f.Valid() {
		return FeatureNone, fmt.Errorf("unknown feature %q", raw)
	}
	return f, nil
}

// AgeGroup is the self-reported age bracket chosen at login.
type AgeGroup string

const (
	AgeGroupNone   AgeGroup = ""
	AgeGroupYoung  AgeGroup = "young"
	AgeGroupSenior AgeGroup = "senior"
)

// Valid reports whether g is a selectable age group.
func (g AgeGroup) Valid() bool {
	return g == AgeGroupYoung || g == AgeGroupSenior
}

// Profile holds the login fields.
type Profile struct {
	AgeGroup AgeGroup
	Email    string
}

// Complete reports whether the profile satisfies the login guard.
func (p Profile) Complete() bool {
	return p.AgeGroup.Valid() && strings.TrimSpace(p.Email) != ""
}

// InferenceJob is the simulated recognition job of the sign panel.
type InferenceJob struct {
	Running bool
	Result  string
}

// State is an immutable snapshot of the application state.
type State struct {
	SessionID  string
	Screen     fsm.Screen
	Profile    Profile
	Feature    Feature
	Capturing  bool
	Radar      bool
	Inference  InferenceJob
	Emergency  bool
	AvatarText string
	Notice     string
}
