package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/soothhq/sooth/internal/breathing"
	"github.com/soothhq/sooth/internal/chat"
)

// View implements tea.Model.
// Uses AltScreen with a viewport for the scrollable transcript.
func (m *Model) View() tea.View {
	m.viewBuf.Reset()

	_, _ = m.viewBuf.WriteString(m.renderTabBar())
	_, _ = m.viewBuf.WriteString("\n")
	_, _ = m.viewBuf.WriteString(m.renderNotifyBar())
	_, _ = m.viewBuf.WriteString("\n")

	switch m.tab {
	case TabMood:
		_, _ = m.viewBuf.WriteString(m.renderMoodView())
	case TabBreathe:
		_, _ = m.viewBuf.WriteString(m.renderBreatheView())
	default:
		_, _ = m.viewBuf.WriteString(m.viewport.View())
	}
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	switch m.tab {
	case TabMood:
		_, _ = m.viewBuf.WriteString(m.styles.Prompt.Render("note> "))
		_, _ = m.viewBuf.WriteString(m.moodNote.View())
	case TabBreathe:
		_, _ = m.viewBuf.WriteString(m.styles.System.Render("enter starts or stops the exercise"))
	default:
		_, _ = m.viewBuf.WriteString(m.styles.Prompt.Render("> "))
		_, _ = m.viewBuf.WriteString(m.input.View())
	}
	_, _ = m.viewBuf.WriteString("\n")

	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")
	_, _ = m.viewBuf.WriteString(m.renderStatusBar())

	v := tea.NewView(m.viewBuf.String())
	v.AltScreen = true
	return v
}

// rebuildViewportContent reconstructs the transcript view from the session
// snapshot. Called on every transcript mutation, followed by GotoBottom,
// which is the auto-scroll policy.
func (m *Model) rebuildViewportContent() {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.RenderGreeting())
	_, _ = b.WriteString("\n")

	for _, msg := range m.session.Messages() {
		if msg.Sender == chat.SenderUser {
			_, _ = b.WriteString(m.styles.User.Render("You> "))
			_, _ = b.WriteString(msg.Content)
		} else {
			_, _ = b.WriteString(m.styles.Assistant.Render("Sooth> "))
			_, _ = b.WriteString(m.markdown.Render(msg.Content))
			_, _ = b.WriteString(m.renderRating(msg.Liked, msg.Disliked))
		}
		_, _ = b.WriteString("\n\n")
	}

	if m.session.Connecting() {
		_, _ = b.WriteString(m.spinner.View())
		_, _ = b.WriteString(" Connecting...\n\n")
	}

	m.viewport.SetContent(b.String())
}

// renderRating renders the independent like/dislike flags of a reply.
func (m *Model) renderRating(liked, disliked bool) string {
	if !liked && !disliked {
		return ""
	}
	var marks []string
	if liked {
		marks = append(marks, "▲ liked")
	}
	if disliked {
		marks = append(marks, "▼ disliked")
	}
	return "\n" + m.styles.System.Render("["+strings.Join(marks, " · ")+"]")
}

func (m *Model) renderTabBar() string {
	var b strings.Builder
	for t := TabChat; t < tabCount; t++ {
		style := m.styles.Tab
		if t == m.tab {
			style = m.styles.TabActive
		}
		_, _ = b.WriteString(style.Render(" " + t.String() + " "))
		_, _ = b.WriteString(" ")
	}
	return b.String()
}

// renderNotifyBar shows the live advisory notification, or the streak
// summary when none is live.
func (m *Model) renderNotifyBar() string {
	now := m.clk.Now()
	if text, ok := m.queue.Current(now); ok {
		return m.styles.Notify.Render(text)
	}
	d := m.tracker.Data()
	return m.styles.System.Render(fmt.Sprintf(
		"streak %d · sessions %d · mindful %dm", d.CurrentStreak, d.TotalSessions, d.MinutesMindful))
}

func (m *Model) renderMoodView() string {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.Header.Render("How is your mood right now?"))
	_, _ = b.WriteString("\n\n")

	gauge := strings.Repeat("█", m.moodScore) + strings.Repeat("░", moodMax-m.moodScore)
	_, _ = b.WriteString(fmt.Sprintf("  %s  %d/%d  (↑/↓ to adjust, enter to save)\n\n", gauge, m.moodScore, moodMax))

	if m.journal.Len() == 0 {
		_, _ = b.WriteString(m.styles.System.Render("No entries yet."))
		_, _ = b.WriteString("\n")
		return b.String()
	}

	_, _ = b.WriteString(m.styles.Header.Render("Recent entries"))
	_, _ = b.WriteString("\n")
	for entry := range m.journal.History(moodHistoryLimit) {
		line := fmt.Sprintf("  %s  %2d/10", entry.Date.Format("Jan 02 15:04"), entry.Score)
		if entry.Note != "" {
			line += "  " + entry.Note
		}
		_, _ = b.WriteString(line)
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderBreatheView() string {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.Header.Render("4-7-8 guided breathing"))
	_, _ = b.WriteString("\n\n")

	if m.breath.Running() {
		phase := m.breath.Phase()
		_, _ = b.WriteString(m.styles.Phase.Render(strings.ToUpper(phase.String())))
		_, _ = b.WriteString(fmt.Sprintf("\n\n  %d seconds left · cycle %d of %d\n",
			m.breath.SecondsRemaining(), m.breath.Cycles()+1, breathing.TotalCycles))
	} else {
		_, _ = b.WriteString("  Five cycles of inhale 4s · hold 7s · exhale 8s.\n")
		_, _ = b.WriteString("  Completing a session credits 2 mindful minutes.\n")
	}

	d := m.tracker.Data()
	_, _ = b.WriteString("\n")
	_, _ = b.WriteString(m.styles.System.Render(fmt.Sprintf(
		"  mindful minutes so far: %d", d.MinutesMindful)))
	_, _ = b.WriteString("\n")
	return b.String()
}

func (m *Model) renderSeparator() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.styles.Separator.Render(strings.Repeat("─", width))
}

// renderStatusBar returns tab-appropriate keyboard shortcut help.
func (m *Model) renderStatusBar() string {
	switch m.tab {
	case TabMood:
		return m.help.ShortHelpView([]key.Binding{
			m.keys.Score, m.keys.Save, m.keys.NextTab, m.keys.Theme, m.keys.Quit,
		})
	case TabBreathe:
		return m.help.ShortHelpView([]key.Binding{
			m.keys.Toggle, m.keys.NextTab, m.keys.Theme, m.keys.Quit,
		})
	default:
		return m.help.ShortHelpView([]key.Binding{
			m.keys.Submit, m.keys.NewLine, m.keys.NextTab,
			m.keys.Like, m.keys.Dislike, m.keys.ScrollUp, m.keys.Quit,
		})
	}
}
