package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/soothhq/sooth/internal/breathing"
	"github.com/soothhq/sooth/internal/chat"
	"github.com/soothhq/sooth/internal/config"
	"github.com/soothhq/sooth/internal/log"
	"github.com/soothhq/sooth/internal/mood"
	"github.com/soothhq/sooth/internal/notify"
	"github.com/soothhq/sooth/internal/streak"
	"github.com/soothhq/sooth/internal/testutil"
)

// goleakOptions filters persistent goroutines expected to outlive a test:
// the HTTP keep-alive pool does not drain synchronously.
func goleakOptions() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	}
}

func testDeps(kv *testutil.MemKV, clk *testutil.Clock) Deps {
	logger := log.NewNop()
	queue := &notify.Queue{}
	tracker := streak.New(kv, queue, logger)
	return Deps{
		Session: chat.NewSession(uuid.New(), kv, clk, logger),
		Client:  chat.NewClient("http://localhost:8000", logger),
		Tracker: tracker,
		Journal: mood.New(kv, queue, logger),
		Breath:  breathing.New(tracker, queue, logger),
		Queue:   queue,
		KV:      kv,
		Clock:   clk,
		Logger:  logger,
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	kv := &testutil.MemKV{}
	clk := testutil.NewClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	m, err := New(context.Background(), testDeps(kv, clk))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNew_ErrorOnNilContext(t *testing.T) {
	kv := &testutil.MemKV{}
	clk := testutil.NewClock(time.Now())
	//lint:ignore SA1012 intentionally testing nil context handling
	_, err := New(nil, testDeps(kv, clk)) //nolint:staticcheck
	if err == nil {
		t.Error("expected error for nil context")
	}
}

func TestNew_ValidatesDeps(t *testing.T) {
	kv := &testutil.MemKV{}
	clk := testutil.NewClock(time.Now())

	tests := []struct {
		name   string
		mutate func(*Deps)
	}{
		{"nil session", func(d *Deps) { d.Session = nil }},
		{"nil client", func(d *Deps) { d.Client = nil }},
		{"nil tracker", func(d *Deps) { d.Tracker = nil }},
		{"nil journal", func(d *Deps) { d.Journal = nil }},
		{"nil breath", func(d *Deps) { d.Breath = nil }},
		{"nil queue", func(d *Deps) { d.Queue = nil }},
		{"nil kv", func(d *Deps) { d.KV = nil }},
		{"nil clock", func(d *Deps) { d.Clock = nil }},
		{"nil logger", func(d *Deps) { d.Logger = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := testDeps(kv, clk)
			tt.mutate(&deps)
			if _, err := New(context.Background(), deps); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestModel_Init(t *testing.T) {
	defer goleak.VerifyNone(t, goleakOptions()...)

	m := newTestModel(t)
	if m.Init() == nil {
		t.Error("Init should return a command (blink + spinner tick)")
	}
}

func TestModel_ThemeDefaultsDark(t *testing.T) {
	m := newTestModel(t)
	if m.theme != config.ThemeDark {
		t.Errorf("theme = %q, want dark with no persisted preference", m.theme)
	}
}

func TestModel_ThemeFromDeps(t *testing.T) {
	kv := &testutil.MemKV{}
	clk := testutil.NewClock(time.Now())
	deps := testDeps(kv, clk)
	deps.Theme = config.ThemeLight

	m, err := New(context.Background(), deps)
	if err != nil {
		t.Fatal(err)
	}
	if m.theme != config.ThemeLight {
		t.Errorf("theme = %q, want configured light fallback", m.theme)
	}
}

func TestModel_ThemePersistedWins(t *testing.T) {
	kv := &testutil.MemKV{}
	if err := kv.Set(themeKey, []byte(config.ThemeLight)); err != nil {
		t.Fatal(err)
	}
	clk := testutil.NewClock(time.Now())

	m, err := New(context.Background(), testDeps(kv, clk))
	if err != nil {
		t.Fatal(err)
	}
	if m.theme != config.ThemeLight {
		t.Errorf("theme = %q, want persisted light", m.theme)
	}
}

func TestModel_ThemeCorruptFallsBack(t *testing.T) {
	kv := &testutil.MemKV{}
	if err := kv.Set(themeKey, []byte("sepia")); err != nil {
		t.Fatal(err)
	}
	clk := testutil.NewClock(time.Now())

	m, err := New(context.Background(), testDeps(kv, clk))
	if err != nil {
		t.Fatal(err)
	}
	if m.theme != config.ThemeDark {
		t.Errorf("theme = %q, want dark fallback for unknown value", m.theme)
	}
}

func TestModel_ToggleThemePersists(t *testing.T) {
	kv := &testutil.MemKV{}
	clk := testutil.NewClock(time.Now())
	m, err := New(context.Background(), testDeps(kv, clk))
	if err != nil {
		t.Fatal(err)
	}

	m.toggleTheme()
	if m.theme != config.ThemeLight {
		t.Errorf("theme = %q, want light after toggle", m.theme)
	}
	data, ok := kv.Get(themeKey)
	if !ok || string(data) != config.ThemeLight {
		t.Errorf("persisted theme = %q, %v", data, ok)
	}

	m.toggleTheme()
	if m.theme != config.ThemeDark {
		t.Errorf("theme = %q, want dark after second toggle", m.theme)
	}
}

func TestModel_ToggleThemeRestylesMarkdown(t *testing.T) {
	m := newTestModel(t)
	if m.markdown == nil {
		t.Fatal("markdown renderer unavailable")
	}
	if m.markdown.style != config.ThemeDark {
		t.Fatalf("markdown style = %q, want dark initially", m.markdown.style)
	}

	m.toggleTheme()
	if m.markdown.style != config.ThemeLight {
		t.Errorf("markdown style = %q, want light after toggle", m.markdown.style)
	}

	m.toggleTheme()
	if m.markdown.style != config.ThemeDark {
		t.Errorf("markdown style = %q, want dark after second toggle", m.markdown.style)
	}
}

func TestModel_NextTabCycles(t *testing.T) {
	m := newTestModel(t)

	want := []Tab{TabMood, TabBreathe, TabChat, TabMood}
	for i, w := range want {
		m.nextTab()
		if m.tab != w {
			t.Fatalf("step %d: tab = %v, want %v", i, m.tab, w)
		}
	}
}

func TestModel_AdjustMoodScoreClamps(t *testing.T) {
	m := newTestModel(t)

	for range 20 {
		m.adjustMoodScore(1)
	}
	if m.moodScore != moodMax {
		t.Errorf("moodScore = %d, want clamped at %d", m.moodScore, moodMax)
	}

	for range 20 {
		m.adjustMoodScore(-1)
	}
	if m.moodScore != moodMin {
		t.Errorf("moodScore = %d, want clamped at %d", m.moodScore, moodMin)
	}
}

func TestModel_EndTurnKeepsPartialAndNotifies(t *testing.T) {
	m := newTestModel(t)

	if _, ok := m.session.Send("hi"); !ok {
		t.Fatal("Send rejected")
	}
	m.session.StreamOpened()
	m.session.ApplyFragment("partial")

	m.endTurn(errors.New("reset by peer"))

	if !m.session.Idle() {
		t.Error("session should be idle after endTurn")
	}
	msgs := m.session.Messages()
	if len(msgs) != 2 || msgs[1].Content != "partial" {
		t.Errorf("partial reply must be kept, got %+v", msgs)
	}
	if _, ok := m.queue.Current(m.clk.Now()); !ok {
		t.Error("a transport error should post an advisory notification")
	}
}

func TestModel_EndTurnCleanClose(t *testing.T) {
	m := newTestModel(t)

	m.session.Send("hi")
	m.endTurn(nil)

	if !m.session.Idle() {
		t.Error("session should be idle after a clean close")
	}
	if _, ok := m.queue.Current(m.clk.Now()); ok {
		t.Error("a clean close should not post a notification")
	}
}

func TestModel_SlashCommands(t *testing.T) {
	m := newTestModel(t)

	m.session.Send("hi")
	m.session.ApplyFragment("reply")
	m.session.StreamClosed(nil)

	if _, cmd := m.handleSlashCommand(cmdClear); cmd != nil {
		t.Error("/clear should not quit")
	}
	if len(m.session.Messages()) != 0 {
		t.Error("/clear should empty the transcript")
	}

	if _, cmd := m.handleSlashCommand(cmdHelp); cmd != nil {
		t.Error("/help should not quit")
	}
	if _, ok := m.queue.Current(m.clk.Now()); !ok {
		t.Error("/help should post a notification")
	}

	if _, cmd := m.handleSlashCommand("/bogus"); cmd != nil {
		t.Error("unknown command should not quit")
	}
	if text, _ := m.queue.Current(m.clk.Now()); text != "Unknown command: /bogus" {
		t.Errorf("unknown command notification = %q", text)
	}

	if _, cmd := m.handleSlashCommand(cmdQuit); cmd == nil {
		t.Error("/quit should return the quit command")
	}
}

func TestModel_BreathTickWhileIdleStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleakOptions()...)

	m := newTestModel(t)

	// Tick arriving after Stop must not re-arm.
	_, cmd := m.Update(breathTickMsg{})
	if cmd != nil {
		t.Error("breath tick while idle should not schedule another tick")
	}
}

func TestModel_BreathToggle(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabBreathe

	_, cmd := m.handleBreatheToggle()
	if !m.breath.Running() {
		t.Fatal("toggle from idle should start a session")
	}
	if cmd == nil {
		t.Error("starting should schedule the first tick")
	}

	_, cmd = m.handleBreatheToggle()
	if m.breath.Running() {
		t.Error("toggle while running should stop the session")
	}
	if cmd != nil {
		t.Error("stopping should not schedule a tick")
	}
}

func TestModel_MoodSaveRecordsActivity(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabMood
	m.moodScore = 7
	m.moodNote.SetValue("  calm evening  ")

	m.handleMoodSave()

	if m.journal.Len() != 1 {
		t.Fatalf("journal Len = %d, want 1", m.journal.Len())
	}
	for e := range m.journal.History(1) {
		if e.Score != 7 || e.Note != "calm evening" {
			t.Errorf("entry = %+v, want score 7 and trimmed note", e)
		}
	}
	if m.moodNote.Value() != "" {
		t.Error("note input should reset after save")
	}
}
