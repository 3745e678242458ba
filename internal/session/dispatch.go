package session

import (
	"context"
	"fmt"
)

// ActionKind names one controller operation.
type ActionKind string

const (
	ActionBegin         ActionKind = "begin"
	ActionSetAgeGroup   ActionKind = "set_age_group"
	ActionSetEmail      ActionKind = "set_email"
	ActionSubmit        ActionKind = "submit"
	ActionLogout        ActionKind = "logout"
	ActionReset         ActionKind = "reset"
	ActionOpenFeature   ActionKind = "open_feature"
	ActionCloseFeature  ActionKind = "close_feature"
	ActionToggleCapture ActionKind = "toggle_capture"
	ActionRunInference  ActionKind = "run_inference"
	ActionTriggerAlert  ActionKind = "trigger_alert"
	ActionToggleRadar   ActionKind = "toggle_radar"
	ActionSetAvatarText ActionKind = "set_avatar_text"
	ActionCopyResult    ActionKind = "copy_result"
)

// Action is one dispatched user intent. Only the payload field matching
// Kind is read.
type Action struct {
	Kind     ActionKind
	Feature  Feature
	AgeGroup AgeGroup
	Text     string
}

// Dispatch routes an action to its controller operation.
func (c *Controller) Dispatch(ctx context.Context, action Action) error {
	switch action.Kind {
	case ActionBegin:
		return c.Begin(ctx)
	case ActionSetAgeGroup:
		return c.SetAgeGroup(ctx, action.AgeGroup)
	case ActionSetEmail:
		return c.SetEmail(ctx, action.Text)
	case ActionSubmit:
		return c.Submit(ctx)
	case ActionLogout:
		return c.Logout(ctx)
	case ActionReset:
		return c.ResetSession(ctx)
	case ActionOpenFeature:
		return c.OpenFeature(ctx, action.Feature)
	case ActionCloseFeature:
		return c.CloseFeature(ctx)
	case ActionToggleCapture:
		return c.ToggleCapture(ctx)
	case ActionRunInference:
		return c.RunInference(ctx)
	case ActionTriggerAlert:
		return c.TriggerAlert(ctx)
	case ActionToggleRadar:
		return c.ToggleRadar(ctx)
	case ActionSetAvatarText:
		return c.SetAvatarText(ctx, action.Text)
	case ActionCopyResult:
		return c.CopyResult(ctx)
	default:
		return fmt.Errorf("unknown action %q", action.Kind)
	}
}
