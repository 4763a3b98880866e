package tui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// Slash command constants.
const (
	cmdHelp  = "/help"
	cmdClear = "/clear"
	cmdExit  = "/exit"
	cmdQuit  = "/quit"
)

// keyMap holds key bindings for help bar display.
type keyMap struct {
	Submit   key.Binding
	NewLine  key.Binding
	NextTab  key.Binding
	Theme    key.Binding
	Like     key.Binding
	Dislike  key.Binding
	Score    key.Binding
	Save     key.Binding
	Toggle   key.Binding
	Quit     key.Binding
	ScrollUp key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		NewLine:  key.NewBinding(key.WithKeys("shift+enter"), key.WithHelp("s+enter", "newline")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Like:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "like reply")),
		Dislike:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "dislike reply")),
		Score:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "score")),
		Save:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Toggle:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start/stop")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "exit")),
		ScrollUp: key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "scroll")),
	}
}

//nolint:gocyclo // Keyboard handler requires branching for all key combinations
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	if k.Mod&tea.ModCtrl != 0 {
		switch k.Code {
		case 'c':
			return m.handleCtrlC()
		case 'd':
			return m, m.cleanup()
		case 't':
			m.toggleTheme()
			return m, nil
		case 'l':
			if m.tab == TabChat {
				m.toggleLastAssistant(true)
			}
			return m, nil
		case 'x':
			if m.tab == TabChat {
				m.toggleLastAssistant(false)
			}
			return m, nil
		}
	}

	switch k.Code {
	case tea.KeyTab:
		m.nextTab()
		return m, nil

	case tea.KeyEnter:
		// Shift+Enter passes through to the textarea as a newline
		if k.Mod&tea.ModShift == 0 {
			return m.handleSubmit()
		}

	case tea.KeyUp:
		if m.tab == TabMood {
			m.adjustMoodScore(1)
			return m, nil
		}

	case tea.KeyDown:
		if m.tab == TabMood {
			m.adjustMoodScore(-1)
			return m, nil
		}

	case tea.KeyPgUp:
		m.viewport.PageUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.PageDown()
		return m, nil
	}

	// Route remaining keys to the focused input. Typing stays available
	// during streaming so the next message can be prepared.
	return m.updateFocusedInput(msg)
}

func (m *Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case TabMood:
		m.moodNote, cmd = m.moodNote.Update(msg)
	case TabBreathe:
		// No text input on the breathing tab
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) nextTab() {
	m.tab = (m.tab + 1) % tabCount
	switch m.tab {
	case TabMood:
		m.input.Blur()
		m.moodNote.Focus()
	case TabBreathe:
		m.input.Blur()
		m.moodNote.Blur()
	default:
		m.moodNote.Blur()
		m.input.Focus()
		m.rebuildViewportContent()
	}
}

func (m *Model) adjustMoodScore(delta int) {
	m.moodScore += delta
	if m.moodScore < moodMin {
		m.moodScore = moodMin
	}
	if m.moodScore > moodMax {
		m.moodScore = moodMax
	}
}

// toggleLastAssistant flips the like (or dislike) flag on the most recent
// assistant reply. The two flags are independent.
func (m *Model) toggleLastAssistant(like bool) {
	msg, ok := m.session.LastAssistant()
	if !ok {
		return
	}
	if like {
		m.session.ToggleLiked(msg.ID)
	} else {
		m.session.ToggleDisliked(msg.ID)
	}
	m.rebuildViewportContent()
}

func (m *Model) handleCtrlC() (tea.Model, tea.Cmd) {
	now := m.clk.Now()

	// Double Ctrl+C within 1 second = quit
	if now.Sub(m.lastCtrlC) < time.Second {
		return m, m.cleanup()
	}
	m.lastCtrlC = now

	switch m.tab {
	case TabMood:
		m.moodNote.Reset()
	case TabBreathe:
		m.breath.Stop()
	default:
		m.input.Reset()
	}
	return m, nil
}

func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabMood:
		return m.handleMoodSave()
	case TabBreathe:
		return m.handleBreatheToggle()
	default:
		return m.handleChatSubmit()
	}
}

func (m *Model) handleChatSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if strings.HasPrefix(text, "/") {
		return m.handleSlashCommand(text)
	}

	sent, ok := m.session.Send(text)
	if !ok {
		// Empty input or a turn already in flight: silently ignored
		return m, nil
	}

	// One user-initiated turn = one activity record
	m.tracker.RecordActivity(m.clk.Now())

	m.input.Reset()
	m.rebuildViewportContent()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.spinner.Tick,
		m.startStream(sent),
	)
}

func (m *Model) handleMoodSave() (tea.Model, tea.Cmd) {
	m.journal.Record(m.moodScore, strings.TrimSpace(m.moodNote.Value()), m.clk.Now())
	m.moodNote.Reset()
	return m, nil
}

func (m *Model) handleBreatheToggle() (tea.Model, tea.Cmd) {
	if m.breath.Running() {
		m.breath.Stop()
		return m, nil
	}
	if !m.breath.Start() {
		return m, nil
	}
	return m, m.breathTickCmd()
}

func (m *Model) handleSlashCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case cmdHelp:
		m.queue.Post("Keys: enter send · tab switch · ctrl+t theme · ctrl+l/ctrl+x rate · ctrl+d exit", m.clk.Now())
	case cmdClear:
		m.session.Clear()
		m.rebuildViewportContent()
	case cmdExit, cmdQuit:
		return m, m.cleanup()
	default:
		m.queue.Post("Unknown command: "+cmd, m.clk.Now())
	}
	m.input.Reset()
	return m, nil
}

// cleanup releases the stream subscription and returns the quit command.
func (m *Model) cleanup() tea.Cmd {
	// Cancel main context first - this unblocks any goroutine using m.ctx
	if m.ctxCancel != nil {
		m.ctxCancel()
		m.ctxCancel = nil
	}
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
	m.streamEventCh = nil

	return tea.Quit
}
