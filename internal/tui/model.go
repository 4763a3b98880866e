// Package tui provides the Bubble Tea host for the sooth client: the chat
// transcript, the mood journal, and the guided breathing exercise, backed
// by the engine packages under internal/.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/soothhq/sooth/internal/breathing"
	"github.com/soothhq/sooth/internal/chat"
	"github.com/soothhq/sooth/internal/clock"
	"github.com/soothhq/sooth/internal/config"
	"github.com/soothhq/sooth/internal/log"
	"github.com/soothhq/sooth/internal/mood"
	"github.com/soothhq/sooth/internal/notify"
	"github.com/soothhq/sooth/internal/store"
	"github.com/soothhq/sooth/internal/streak"
)

// Tab identifies the active surface.
type Tab int

// Surfaces, in cycling order.
const (
	TabChat Tab = iota
	TabMood
	TabBreathe
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabMood:
		return "Mood"
	case TabBreathe:
		return "Breathe"
	default:
		return "Chat"
	}
}

// themeKey is the persisted rendering preference owned by this package.
const themeKey = "theme"

// streamTimeout bounds a single turn's stream.
const streamTimeout = 5 * time.Minute

// Mood score bounds enforced by the selector.
const (
	moodMin = 1
	moodMax = 10
)

// moodHistoryLimit is how many recent samples the mood tab lists.
const moodHistoryLimit = 10

// Layout constants for viewport height calculation.
const (
	separatorLines = 2 // Above and below input
	helpLines      = 1
	tabBarLines    = 1
	notifyLines    = 1
	promptLines    = 1
	minViewport    = 3
)

// Deps carries the engine components the host renders and drives.
// All fields except Theme are required; an empty Theme means dark.
type Deps struct {
	Session *chat.Session
	Client  *chat.Client
	Tracker *streak.Tracker
	Journal *mood.Journal
	Breath  *breathing.Timer
	Queue   *notify.Queue
	KV      store.KV
	Clock   clock.Clock
	Logger  log.Logger

	// Theme applies before a persisted preference exists.
	Theme string
}

func (d Deps) validate() error {
	switch {
	case d.Session == nil:
		return errors.New("tui.New: session is required")
	case d.Client == nil:
		return errors.New("tui.New: client is required")
	case d.Tracker == nil:
		return errors.New("tui.New: tracker is required")
	case d.Journal == nil:
		return errors.New("tui.New: journal is required")
	case d.Breath == nil:
		return errors.New("tui.New: breathing timer is required")
	case d.Queue == nil:
		return errors.New("tui.New: notification queue is required")
	case d.KV == nil:
		return errors.New("tui.New: store is required")
	case d.Clock == nil:
		return errors.New("tui.New: clock is required")
	case d.Logger == nil:
		return errors.New("tui.New: logger is required")
	}
	return nil
}

// Model is the Bubble Tea model hosting all three tabs.
type Model struct {
	// Chat input (textarea for multi-line support, Shift+Enter for newline)
	input textarea.Model

	// Mood tab state
	moodScore int
	moodNote  textarea.Model

	// Output
	spinner spinner.Model
	viewBuf strings.Builder // Reusable buffer for View() to reduce allocations

	// Scrollable transcript viewport
	viewport viewport.Model

	// Help bar for keyboard shortcuts
	help help.Model
	keys keyMap

	lastCtrlC time.Time

	// Stream management
	// Note: no sync.WaitGroup - Bubble Tea's event loop provides
	// synchronization; a single union channel carries all stream events.
	streamCancel  context.CancelFunc
	streamEventCh <-chan streamEvent

	// Engine (direct, injected)
	session *chat.Session
	client  *chat.Client
	tracker *streak.Tracker
	journal *mood.Journal
	breath  *breathing.Timer
	queue   *notify.Queue
	kv      store.KV
	clk     clock.Clock
	logger  log.Logger

	ctx       context.Context
	ctxCancel context.CancelFunc // For canceling all operations on exit

	// Presentation
	tab      Tab
	theme    string
	styles   Styles
	markdown *markdownRenderer
	width    int
	height   int
}

// New creates the host model.
//
// IMPORTANT: ctx MUST be the same context passed to tea.WithContext()
// to ensure consistent cancellation behavior.
func New(ctx context.Context, deps Deps) (*Model, error) {
	if ctx == nil {
		return nil, errors.New("tui.New: ctx is required")
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	ta := textarea.New()
	ta.Placeholder = "How are you feeling today?"
	ta.SetHeight(1)
	ta.SetWidth(120)
	ta.MaxWidth = 0
	ta.ShowLineNumbers = false
	clean := textarea.StyleState{
		Base:        lipgloss.NewStyle(),
		Text:        lipgloss.NewStyle(),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:      lipgloss.NewStyle(),
	}
	ta.SetStyles(textarea.Styles{Focused: clean, Blurred: clean})
	ta.Focus()

	note := textarea.New()
	note.Placeholder = "Add a note (optional)"
	note.SetHeight(1)
	note.SetWidth(120)
	note.ShowLineNumbers = false
	note.SetStyles(textarea.Styles{Focused: clean, Blurred: clean})

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))
	vp.MouseWheelEnabled = true
	vp.SoftWrap = true
	vp.KeyMap = viewport.KeyMap{} // keys routed explicitly in handleKey

	m := &Model{
		session:   deps.Session,
		client:    deps.Client,
		tracker:   deps.Tracker,
		journal:   deps.Journal,
		breath:    deps.Breath,
		queue:     deps.Queue,
		kv:        deps.KV,
		clk:       deps.Clock,
		logger:    deps.Logger,
		ctx:       ctx,
		ctxCancel: cancel,
		input:     ta,
		moodNote:  note,
		moodScore: 5,
		spinner:   sp,
		viewport:  vp,
		help:      help.New(),
		keys:      newKeyMap(),
		width:     80, // Default width until WindowSizeMsg arrives
	}

	m.theme = m.loadTheme(deps.Theme)
	m.styles = StylesFor(m.theme)
	m.markdown = newMarkdownRenderer(80, m.theme)
	return m, nil
}

// loadTheme reads the persisted theme preference. Absent or unrecognized
// values fall back to the configured initial theme, then dark.
func (m *Model) loadTheme(fallback string) string {
	if fallback != config.ThemeLight {
		fallback = config.ThemeDark
	}
	data, ok := m.kv.Get(themeKey)
	if !ok {
		return fallback
	}
	switch theme := string(data); theme {
	case config.ThemeDark, config.ThemeLight:
		return theme
	default:
		m.logger.Warn("discarding unknown theme preference", "value", string(data))
		return fallback
	}
}

// toggleTheme flips dark/light, persists the preference, and re-derives
// the styles and the markdown renderer.
func (m *Model) toggleTheme() {
	if m.theme == config.ThemeDark {
		m.theme = config.ThemeLight
	} else {
		m.theme = config.ThemeDark
	}
	if err := m.kv.Set(themeKey, []byte(m.theme)); err != nil {
		m.logger.Error("persisting theme", "error", err)
	}
	m.styles = StylesFor(m.theme)
	m.markdown.UpdateStyle(m.theme)
	m.rebuildViewportContent()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.input.Focus(),
	)
}
