package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
)

// DefaultLocale tags spoken inference results.
const DefaultLocale = "ar-SA"

// DefaultPhrases is the fixed phrase set of the simulated recognizer.
var DefaultPhrases = []string{
	"أنا أحتاج للماء",
	"كيف حالك؟",
	"شكراً لمساعدتكم",
}

// InferenceProvider produces one recognition result. A real recognizer can
// replace the phrase stub without touching the controller.
type InferenceProvider interface {
	Infer(context.Context) (string, error)
}

// InferenceFunc adapts a function to the InferenceProvider interface.
type InferenceFunc func(context.Context) (string, error)

func (f InferenceFunc) Infer(ctx context.Context) (string, error) {
	return f(ctx)
}

// PhraseStub picks one phrase uniformly at random.
type PhraseStub struct {
	phrases []string
	pick    func(n int) int
}

// NewPhraseStub copies phrases into a new stub.
func NewPhraseStub(phrases []string) *PhraseStub {
	return &PhraseStub{
		phrases: append([]string(nil), phrases...),
		pick:    rand.IntN,
	}
}

func (s *PhraseStub) Infer(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.phrases) == 0 {
		return "", errors.New("phrase stub has no phrases")
	}
	return s.phrases[s.pick(len(s.phrases))], nil
}

// RunInference starts a simulated recognition job. It requires the
// SignToText panel with capture held. A call while a job is running is
// ignored.
func (c *Controller) RunInference(context.Context) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.state.Feature != FeatureSignToText || c.captureHandle == nil {
		return fmt.Errorf("%w: inference needs an active capture", ErrNotAllowed)
	}
	if c.state.Inference.Running {
		return nil
	}

	c.jobToken++
	token := c.jobToken
	c.state.Inference = InferenceJob{Running: true}
	c.jobTimer = c.clock.AfterFunc(c.inferenceDelay, func() { c.completeInference(token) })
	c.logger.Info("inference started", "session_id", c.state.SessionID, "job", token)
	c.publishLocked()
	return nil
}

// completeInference applies a job result only if token is still current.
func (c *Controller) completeInference(token uint64) {
	if err := c.lock(); err != nil {
		return
	}
	if token != c.jobToken || !c.state.Inference.Running {
		c.mu.Unlock()
		return
	}
	c.jobTimer = nil
	c.mu.Unlock()

	phrase, inferErr := c.inference.Infer(c.ctx)

	if err := c.lock(); err != nil {
		return
	}
	defer c.mu.Unlock()
	if token != c.jobToken {
		return
	}

	c.state.Inference.Running = false
	if inferErr != nil {
		c.state.Notice = "recognition failed"
		c.logger.Error("inference failed", "session_id", c.state.SessionID, "job", token, "error", inferErr.Error())
		c.publishLocked()
		return
	}

	c.state.Inference.Result = phrase
	c.logger.Info("inference complete", "session_id", c.state.SessionID, "job", token)
	c.publishLocked()

	locale := c.locale
	c.spawn(func() {
		if err := c.speaker.Speak(c.ctx, phrase, locale); err != nil {
			c.logger.Warn("speak result", "error", err.Error())
		}
	})
}

// cancelJobLocked invalidates any pending job timer.
func (c *Controller) cancelJobLocked() {
	c.jobToken++
	if c.jobTimer != nil {
		c.jobTimer.Stop()
		c.jobTimer = nil
	}
}
