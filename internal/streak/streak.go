// Package streak computes day-granularity engagement streaks and session
// counters, persisted across restarts.
package streak

import (
	"fmt"
	"time"

	"github.com/soothhq/sooth/internal/log"
	"github.com/soothhq/sooth/internal/notify"
	"github.com/soothhq/sooth/internal/store"
)

// storeKey is the single persisted record owned by this package.
const storeKey = "streak"

// milestoneInterval controls how often a streak milestone is celebrated.
const milestoneInterval = 5

// Data is the persisted streak record. last_active is absent before the
// first ever activity.
type Data struct {
	CurrentStreak  int        `json:"current_streak"`
	TotalSessions  int        `json:"total_sessions"`
	MinutesMindful int        `json:"minutes_mindful"`
	LastActive     *time.Time `json:"last_active,omitempty"`
}

// Tracker owns the streak record. It is driven from the host event loop;
// every mutation is a read-modify-write persisted before returning.
type Tracker struct {
	kv     store.KV
	queue  *notify.Queue
	logger log.Logger
	data   Data
}

// New loads the persisted streak record (corrupt or absent loads as zero)
// and returns a ready Tracker.
func New(kv store.KV, queue *notify.Queue, logger log.Logger) *Tracker {
	t := &Tracker{kv: kv, queue: queue, logger: logger}
	store.LoadJSON(kv, logger, storeKey, &t.data)
	return t
}

// Data returns a snapshot of the current streak record. The LastActive
// pointer is copied so the caller cannot mutate tracker state through it.
func (t *Tracker) Data() Data {
	d := t.data
	if d.LastActive != nil {
		ts := *d.LastActive
		d.LastActive = &ts
	}
	return d
}

// RecordActivity registers one user-initiated session at the given time.
// Safe to call any number of times per day: repeat calls on the same
// calendar day only grow the session counter.
func (t *Tracker) RecordActivity(now time.Time) {
	switch {
	case t.data.LastActive == nil:
		// First ever activity.
		t.data.CurrentStreak = 1
		t.data.TotalSessions = 1
		t.setLastActive(now)
		t.queue.Post("Welcome to sooth — day one of your streak", now)

	case sameDay(*t.data.LastActive, now):
		t.data.TotalSessions++

	case nextDay(*t.data.LastActive, now):
		t.data.CurrentStreak++
		t.data.TotalSessions++
		t.setLastActive(now)
		if t.data.CurrentStreak%milestoneInterval == 0 {
			t.queue.Post(fmt.Sprintf("%d-day streak — keep it up!", t.data.CurrentStreak), now)
		}

	default:
		// Gap of two or more days: the streak restarts at 1, never 0,
		// because the user is active today.
		t.data.CurrentStreak = 1
		t.data.TotalSessions++
		t.setLastActive(now)
		t.queue.Post("Streak restarted — welcome back", now)
	}

	store.SaveJSON(t.kv, t.logger, storeKey, t.data)
	t.logger.Debug("recorded activity",
		"streak", t.data.CurrentStreak,
		"sessions", t.data.TotalSessions)
}

// CompleteBreathingSession credits mindful minutes. It never touches the
// streak or session counters.
func (t *Tracker) CompleteBreathingSession(minutes int) {
	t.data.MinutesMindful += minutes
	store.SaveJSON(t.kv, t.logger, storeKey, t.data)
	t.logger.Debug("credited mindful minutes", "minutes", minutes, "total", t.data.MinutesMindful)
}

func (t *Tracker) setLastActive(now time.Time) {
	ts := now
	t.data.LastActive = &ts
}

// sameDay reports whether a and b fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// nextDay reports whether now falls on the calendar day immediately after
// prev. Civil dates, not 24h deltas: 23:59 followed by 00:01 still counts.
func nextDay(prev, now time.Time) bool {
	next := prev.AddDate(0, 0, 1)
	return sameDay(next, now)
}
