package tui

import (
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
)

// breathTickMsg drives the breathing countdown, one per second while a
// session runs.
type breathTickMsg struct{}

func (m *Model) breathTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return breathTickMsg{}
	})
}

// Update implements tea.Model. All engine mutations happen here, on the
// event loop; the stream goroutine only ever feeds the union channel.
//
//nolint:gocognit,gocyclo // Bubble Tea Update requires type switch on all message types
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputHeight := m.input.Height() + promptLines
		fixedHeight := tabBarLines + notifyLines + separatorLines + inputHeight + helpLines
		vpHeight := max(msg.Height-fixedHeight, minViewport)

		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(vpHeight)
		m.input.SetWidth(msg.Width - 4) // Room for "> " prompt
		m.moodNote.SetWidth(msg.Width - 4)
		m.help.SetWidth(msg.Width)
		m.markdown.UpdateWidth(msg.Width)

		m.rebuildViewportContent()
		return m, nil

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// Keep the spinner animating in the transcript while connecting
		if m.session.Connecting() {
			m.rebuildViewportContent()
		}
		return m, cmd

	case streamStartedMsg:
		m.streamCancel = msg.cancel
		m.streamEventCh = msg.eventCh
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, listenForStream(msg.eventCh)

	case streamOpenedMsg:
		// Connection established: initial feedback flag clears, the turn
		// itself stays open until close/error.
		m.session.StreamOpened()
		m.rebuildViewportContent()
		return m, listenForStream(m.streamEventCh)

	case streamTextMsg:
		m.session.ApplyFragment(msg.text)
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, listenForStream(m.streamEventCh)

	case streamDoneMsg:
		m.endTurn(nil)
		return m, m.input.Focus()

	case streamErrorMsg:
		m.endTurn(msg.err)
		return m, m.input.Focus()

	case breathTickMsg:
		if !m.breath.Running() {
			return m, nil
		}
		m.breath.Tick(m.clk.Now())
		if m.breath.Running() {
			return m, m.breathTickCmd()
		}
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// endTurn closes the current turn, releasing the subscription context on
// every path. Partial content already reconciled into the transcript is
// kept; a transport error only adds an advisory.
func (m *Model) endTurn(err error) {
	m.session.StreamClosed(err)

	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}
	m.streamEventCh = nil

	if err != nil {
		m.queue.Post("Connection interrupted — reply kept as received", m.clk.Now())
	}

	m.rebuildViewportContent()
	m.viewport.GotoBottom()
}
