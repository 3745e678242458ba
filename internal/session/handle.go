package session

import (
	"context"
	"fmt"

	"github.com/rbright/maak/internal/ipc"
)

// Handle serves remote control commands for the running UI.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	var (
		err     error
		message string
	)

	switch req.Command {
	case "status":
		message = "status"
	case "alert":
		err = c.TriggerAlert(ctx)
		message = "alert raised"
	case "close":
		err = c.CloseFeature(ctx)
		message = "panel closed"
	case "open":
		var feature Feature
		feature, err = ParseFeature(req.Arg)
		if err == nil {
			err = c.OpenFeature(ctx, feature)
		}
		message = "panel opened"
	default:
		return statusResponse(c.Snapshot(), false, "", fmt.Sprintf("unknown command: %s", req.Command))
	}

	if err != nil {
		return statusResponse(c.Snapshot(), false, "", err.Error())
	}
	return statusResponse(c.Snapshot(), true, message, "")
}

func statusResponse(state State, ok bool, message string, errText string) ipc.Response {
	return ipc.Response{
		OK:        ok,
		Screen:    string(state.Screen),
		Feature:   string(state.Feature),
		Emergency: state.Emergency,
		Message:   message,
		Error:     errText,
	}
}
