// Package breathing implements the phased countdown state machine for the
// guided 4-7-8 breathing exercise.
package breathing

import (
	"time"

	"github.com/soothhq/sooth/internal/log"
	"github.com/soothhq/sooth/internal/notify"
)

// Phase is one step of the breathing cycle.
type Phase int

// Cycle phases in fixed order.
const (
	PhaseInhale Phase = iota
	PhaseHold
	PhaseExhale
)

// Seconds returns the fixed duration of the phase.
func (p Phase) Seconds() int {
	switch p {
	case PhaseHold:
		return 7
	case PhaseExhale:
		return 8
	default:
		return 4
	}
}

// String returns the phase instruction shown to the user.
func (p Phase) String() string {
	switch p {
	case PhaseHold:
		return "hold"
	case PhaseExhale:
		return "exhale"
	default:
		return "inhale"
	}
}

func (p Phase) next() Phase {
	switch p {
	case PhaseInhale:
		return PhaseHold
	case PhaseHold:
		return PhaseExhale
	default:
		return PhaseInhale
	}
}

// TotalCycles is how many full inhale-hold-exhale rounds make a session.
const TotalCycles = 5

// SessionCreditMinutes is the fixed mindful-minutes credit per completed
// session.
const SessionCreditMinutes = 2

// Crediter receives the minutes credit when a session completes.
type Crediter interface {
	CompleteBreathingSession(minutes int)
}

// Timer is the breathing state machine: idle, or running with a phase, a
// countdown, and a cycle counter. It holds no real timer; the host loop
// delivers one Tick per second while it is running. Running state is not
// persisted across restarts.
type Timer struct {
	running          bool
	phase            Phase
	secondsRemaining int
	cycles           int

	crediter Crediter
	queue    *notify.Queue
	logger   log.Logger
}

// New returns an idle Timer.
func New(crediter Crediter, queue *notify.Queue, logger log.Logger) *Timer {
	return &Timer{crediter: crediter, queue: queue, logger: logger}
}

// Running reports whether a session is in progress.
func (t *Timer) Running() bool { return t.running }

// Phase returns the current phase. Meaningful only while running.
func (t *Timer) Phase() Phase { return t.phase }

// SecondsRemaining returns the countdown within the current phase.
func (t *Timer) SecondsRemaining() int { return t.secondsRemaining }

// Cycles returns the number of completed inhale-hold-exhale rounds.
func (t *Timer) Cycles() int { return t.cycles }

// Start begins a session. Valid only from idle; returns false otherwise.
func (t *Timer) Start() bool {
	if t.running {
		return false
	}
	t.running = true
	t.phase = PhaseInhale
	t.secondsRemaining = PhaseInhale.Seconds()
	t.cycles = 0
	t.logger.Debug("breathing session started")
	return true
}

// Stop forces idle from any running state without crediting minutes.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.logger.Debug("breathing session stopped", "cycles", t.cycles)
}

// Tick advances the machine by one second as a single atomic step:
// countdown, phase advance, cycle count, and completion are all settled
// before it returns, so observers never see a negative countdown or a
// half-advanced phase.
func (t *Timer) Tick(now time.Time) {
	if !t.running {
		return
	}

	t.secondsRemaining--
	if t.secondsRemaining > 0 {
		return
	}

	// Phase exhausted: advance. A cycle completes exactly when exhale
	// rolls over to inhale.
	if t.phase == PhaseExhale {
		t.cycles++
		if t.cycles >= TotalCycles {
			t.running = false
			t.crediter.CompleteBreathingSession(SessionCreditMinutes)
			t.queue.Post("Breathing session complete — nice work", now)
			t.logger.Debug("breathing session complete", "cycles", t.cycles)
			return
		}
	}
	t.phase = t.phase.next()
	t.secondsRemaining = t.phase.Seconds()
}
