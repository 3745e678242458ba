// Package tui renders the maak screens and panels as a bubbletea program
// driven by controller snapshots.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbright/maak/internal/fsm"
	"github.com/rbright/maak/internal/session"
)

// Controller is the slice of the session controller the UI drives.
type Controller interface {
	Dispatch(ctx context.Context, action session.Action) error
	Subscribe() (<-chan session.State, func())
}

var featureLabels = map[session.Feature]string{
	session.FeatureSignToText:   "Sign to text",
	session.FeatureTextToAvatar: "Text to avatar",
	session.FeatureSoundRadar:   "Sound radar",
	session.FeatureImageOCR:     "Image to text",
}

// Model is the root bubbletea model.
type Model struct {
	ctx         context.Context
	ctrl        Controller
	updates     <-chan session.State
	unsubscribe func()
	queue       *actionQueue

	state  session.State
	synced bool

	emailInput  textinput.Model
	avatarInput textinput.Model
	cursor      int

	width        int
	height       int
	errorMessage string
}

// New subscribes to ctrl and builds the initial model.
func New(ctx context.Context, ctrl Controller) Model {
	updates, unsubscribe := ctrl.Subscribe()

	email := textinput.New()
	email.Placeholder = "name@example.com"
	email.CharLimit = 254
	email.Width = 40

	avatar := textinput.New()
	avatar.Placeholder = "Type a message for the avatar"
	avatar.CharLimit = 500
	avatar.Width = 60

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		updates:     updates,
		unsubscribe: unsubscribe,
		queue:       &actionQueue{},
		emailInput:  email,
		avatarInput: avatar,
	}
}

// Run starts the program and blocks until the user quits, ctx is done, or
// the controller closes.
func Run(ctx context.Context, ctrl Controller, opts ...tea.ProgramOption) error {
	model := New(ctx, ctrl)
	defer model.unsubscribe()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(model, opts...).Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init waits for the first snapshot.
func (m Model) Init() tea.Cmd {
	return waitForStateCmd(m.updates)
}

// waitForStateCmd reads the next snapshot from the subscription.
func waitForStateCmd(updates <-chan session.State) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return StateClosedMsg{}
		}
		return StateMsg{State: state}
	}
}

// dispatchCmd runs one action off the UI goroutine. Actions rejected for
// the current state are dropped silently. Model.dispatch orders them.
func dispatchCmd(ctx context.Context, ctrl Controller, action session.Action) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Dispatch(ctx, action)
		if err == nil || errors.Is(err, session.ErrNotAllowed) || errors.Is(err, session.ErrClosed) {
			return nil
		}
		return ActionErrorMsg{Kind: action.Kind, Err: err}
	}
}

// actionQueue chains dispatch commands so each waits for the one issued
// before it. Bubbletea runs commands on separate goroutines, and without the
// chain a later text edit or Submit could reach the controller first.
type actionQueue struct {
	tail chan struct{}
}

func (q *actionQueue) then(ctx context.Context, cmd tea.Cmd) tea.Cmd {
	prev := q.tail
	done := make(chan struct{})
	q.tail = done
	return func() tea.Msg {
		defer close(done)
		if prev != nil {
			select {
			case <-prev:
			case <-ctx.Done():
				return nil
			}
		}
		return cmd()
	}
}

func clearErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StateMsg:
		cmd := m.applyState(msg.State)
		return m, tea.Batch(cmd, waitForStateCmd(m.updates))

	case StateClosedMsg:
		return m, tea.Quit

	case ActionErrorMsg:
		m.errorMessage = msg.Err.Error()
		return m, clearErrorCmd()

	case ClearErrorMsg:
		m.errorMessage = ""
		return m, nil
	}

	return m, nil
}

// applyState stores a snapshot and re-seeds inputs when the visible surface
// changes.
func (m *Model) applyState(next session.State) tea.Cmd {
	prev := m.state
	first := !m.synced
	m.state = next
	m.synced = true

	var cmd tea.Cmd
	if first || prev.Screen != next.Screen {
		m.avatarInput.Blur()
		m.emailInput.Blur()
		if next.Screen == fsm.ScreenLogin {
			m.emailInput.SetValue(next.Profile.Email)
			m.emailInput.CursorEnd()
			cmd = m.emailInput.Focus()
		}
	}
	if first || prev.Feature != next.Feature {
		m.avatarInput.Blur()
		if next.Feature == session.FeatureTextToAvatar {
			m.avatarInput.SetValue(next.AvatarText)
			m.avatarInput.CursorEnd()
			cmd = m.avatarInput.Focus()
		}
	}
	if next.Feature == session.FeatureNone && m.cursor >= len(session.Features()) {
		m.cursor = 0
	}
	return cmd
}

// dispatch queues action behind every action issued before it.
func (m Model) dispatch(action session.Action) tea.Cmd {
	return m.queue.then(m.ctx, dispatchCmd(m.ctx, m.ctrl, action))
}

// alert skips the queue so a slow device request cannot hold it back.
func (m Model) alert() tea.Cmd {
	return dispatchCmd(m.ctx, m.ctrl, session.Action{Kind: session.ActionTriggerAlert})
}

// handleKey processes key presses for the visible surface.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case KeyCtrlC:
		return m, tea.Quit
	case KeyCtrlAlert:
		return m, m.alert()
	}

	if !m.synced {
		return m, nil
	}

	switch m.state.Screen {
	case fsm.ScreenWelcome:
		return m.handleWelcomeKey(key)
	case fsm.ScreenLogin:
		return m.handleLoginKey(msg)
	case fsm.ScreenHome:
		if m.state.Feature != session.FeatureNone {
			return m.handleFeatureKey(msg)
		}
		return m.handleHomeKey(key)
	}
	return m, nil
}

func (m Model) handleWelcomeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyQuit:
		return m, tea.Quit
	case KeyEnter, KeySpace:
		return m, m.dispatch(session.Action{Kind: session.ActionBegin})
	case KeyAlert:
		return m, m.alert()
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		return m, m.dispatch(session.Action{Kind: session.ActionReset})
	case KeyTab:
		return m, m.dispatch(session.Action{Kind: session.ActionSetAgeGroup, AgeGroup: nextAgeGroup(m.state.Profile.AgeGroup)})
	case KeyEnter:
		// The guard judges the email on screen, not an older edit.
		return m, tea.Batch(
			m.dispatch(session.Action{Kind: session.ActionSetEmail, Text: m.emailInput.Value()}),
			m.dispatch(session.Action{Kind: session.ActionSubmit}),
		)
	}

	before := m.emailInput.Value()
	var cmd tea.Cmd
	m.emailInput, cmd = m.emailInput.Update(msg)
	if after := m.emailInput.Value(); after != before {
		return m, tea.Batch(cmd, m.dispatch(session.Action{Kind: session.ActionSetEmail, Text: after}))
	}
	return m, cmd
}

func nextAgeGroup(current session.AgeGroup) session.AgeGroup {
	if current == session.AgeGroupYoung {
		return session.AgeGroupSenior
	}
	return session.AgeGroupYoung
}

func (m Model) handleHomeKey(key string) (tea.Model, tea.Cmd) {
	features := session.Features()

	switch key {
	case KeyQuit:
		return m, tea.Quit
	case KeyUp, KeyK:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case KeyDown, KeyJ:
		if m.cursor < len(features)-1 {
			m.cursor++
		}
		return m, nil
	case KeyEnter:
		return m, m.dispatch(session.Action{Kind: session.ActionOpenFeature, Feature: features[m.cursor]})
	case "1", "2", "3", "4":
		idx := int(key[0] - '1')
		m.cursor = idx
		return m, m.dispatch(session.Action{Kind: session.ActionOpenFeature, Feature: features[idx]})
	case KeyAlert:
		return m, m.alert()
	case KeyLogout:
		return m, m.dispatch(session.Action{Kind: session.ActionLogout})
	case KeyReset:
		return m, m.dispatch(session.Action{Kind: session.ActionReset})
	}
	return m, nil
}

func (m Model) handleFeatureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == KeyEsc {
		return m, m.dispatch(session.Action{Kind: session.ActionCloseFeature})
	}

	switch m.state.Feature {
	case session.FeatureTextToAvatar:
		before := m.avatarInput.Value()
		var cmd tea.Cmd
		m.avatarInput, cmd = m.avatarInput.Update(msg)
		if after := m.avatarInput.Value(); after != before {
			return m, tea.Batch(cmd, m.dispatch(session.Action{Kind: session.ActionSetAvatarText, Text: after}))
		}
		return m, cmd

	case session.FeatureSignToText:
		switch key {
		case KeyCapture:
			return m, m.dispatch(session.Action{Kind: session.ActionToggleCapture})
		case KeyEnter, KeySpace:
			return m, m.dispatch(session.Action{Kind: session.ActionRunInference})
		case KeyCopy:
			return m, m.dispatch(session.Action{Kind: session.ActionCopyResult})
		}

	case session.FeatureSoundRadar:
		if key == KeySpace || key == KeyEnter {
			return m, m.dispatch(session.Action{Kind: session.ActionToggleRadar})
		}
	}

	switch key {
	case KeyQuit:
		return m, tea.Quit
	case KeyAlert:
		return m, m.alert()
	}
	return m, nil
}

func (m Model) viewWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width
}

// View renders the full TUI.
func (m Model) View() string {
	if !m.synced {
		return "Starting maak..."
	}

	sections := []string{m.renderHeader()}
	if m.state.Emergency {
		sections = append(sections, EmergencyStyle.Render("EMERGENCY ALERT ACTIVE"))
	}
	sections = append(sections, DividerStyle.Render(strings.Repeat("─", m.viewWidth())))

	switch m.state.Screen {
	case fsm.ScreenWelcome:
		sections = append(sections, m.renderWelcome())
	case fsm.ScreenLogin:
		sections = append(sections, m.renderLogin())
	case fsm.ScreenHome:
		if m.state.Feature != session.FeatureNone {
			sections = append(sections, m.renderFeature())
		} else {
			sections = append(sections, m.renderHome())
		}
	}

	sections = append(sections, DividerStyle.Render(strings.Repeat("─", m.viewWidth())))
	if m.state.Notice != "" {
		sections = append(sections, NoticeStyle.Render(m.state.Notice))
	}
	if m.errorMessage != "" {
		sections = append(sections, ErrorTextStyle.Render("error: "+m.errorMessage))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("MAAK")
	sid := m.state.SessionID
	if len(sid) > 8 {
		sid = sid[:8]
	}
	return title + DimStyle.Render(fmt.Sprintf(" · %s · session %s", m.state.Screen, sid))
}

func (m Model) renderWelcome() string {
	return strings.Join([]string{
		PanelTitleStyle.Render("Welcome"),
		"",
		"Communication tools for deaf, hard-of-hearing and senior users.",
		DimStyle.Render("Press enter to begin."),
	}, "\n")
}

func (m Model) renderLogin() string {
	young := OffStyle.Render("( ) Young")
	senior := OffStyle.Render("( ) Senior")
	switch m.state.Profile.AgeGroup {
	case session.AgeGroupYoung:
		young = SelectedStyle.Render("(•) Young")
	case session.AgeGroupSenior:
		senior = SelectedStyle.Render("(•) Senior")
	}

	lines := []string{
		PanelTitleStyle.Render("Sign in"),
		"",
		"Age group: " + young + "  " + senior,
		"Email:     " + m.emailInput.View(),
	}
	if !m.state.Profile.Complete() {
		lines = append(lines, "", DimStyle.Render("Choose an age group and enter an email to continue."))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHome() string {
	lines := []string{PanelTitleStyle.Render("Choose a tool"), ""}
	for i, feature := range session.Features() {
		label := fmt.Sprintf("%d. %s", i+1, featureLabels[feature])
		if i == m.cursor {
			lines = append(lines, SelectedStyle.Render("▸ "+label))
			continue
		}
		lines = append(lines, "  "+label)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFeature() string {
	title := PanelTitleStyle.Render(featureLabels[m.state.Feature])
	var body []string

	switch m.state.Feature {
	case session.FeatureSignToText:
		body = append(body, "Camera:  "+onOff(m.state.Capturing))
		switch {
		case m.state.Inference.Running:
			body = append(body, LiveStyle.Render("Recognizing..."))
		case m.state.Inference.Result != "":
			body = append(body, "Result:  "+ResultStyle.Render(m.state.Inference.Result))
		case m.state.Capturing:
			body = append(body, DimStyle.Render("Press enter to translate the current sign."))
		default:
			body = append(body, DimStyle.Render("Press c to start the camera."))
		}

	case session.FeatureTextToAvatar:
		body = append(body, m.avatarInput.View())
		if text := strings.TrimSpace(m.state.AvatarText); text != "" {
			body = append(body, "", "Avatar signs: "+ResultStyle.Render(text))
		}

	case session.FeatureSoundRadar:
		body = append(body, "Listening: "+onOff(m.state.Radar))
		body = append(body, DimStyle.Render("Loud sounds raise an emergency alert."))

	case session.FeatureImageOCR:
		body = append(body, DimStyle.Render("Point the camera at printed text to read it aloud."))
	}

	panelWidth := min(m.viewWidth()-2, 72)
	return PanelStyle.Width(panelWidth).Render(title + "\n\n" + strings.Join(body, "\n"))
}

func onOff(on bool) string {
	if on {
		return LiveStyle.Render("● on")
	}
	return OffStyle.Render("○ off")
}

func (m Model) renderFooter() string {
	var keys [][2]string
	switch m.state.Screen {
	case fsm.ScreenWelcome:
		keys = [][2]string{{"enter", "begin"}, {"!", "alert"}, {"q", "quit"}}
	case fsm.ScreenLogin:
		keys = [][2]string{{"tab", "age group"}, {"enter", "continue"}, {"esc", "back"}, {"ctrl+e", "alert"}}
	case fsm.ScreenHome:
		switch m.state.Feature {
		case session.FeatureNone:
			keys = [][2]string{{"↑/↓", "select"}, {"enter", "open"}, {"!", "alert"}, {"l", "logout"}, {"r", "reset"}, {"q", "quit"}}
		case session.FeatureSignToText:
			keys = [][2]string{{"c", "camera"}, {"enter", "translate"}, {"y", "copy"}, {"esc", "close"}}
		case session.FeatureSoundRadar:
			keys = [][2]string{{"space", "listen"}, {"esc", "close"}}
		case session.FeatureTextToAvatar:
			keys = [][2]string{{"esc", "close"}, {"ctrl+e", "alert"}}
		default:
			keys = [][2]string{{"esc", "close"}, {"!", "alert"}}
		}
	}

	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, FooterKeyStyle.Render(kv[0])+" "+FooterDescStyle.Render(kv[1]))
	}
	return strings.Join(parts, "  ")
}
