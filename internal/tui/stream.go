package tui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
)

// streamBufferSize is sized for ~1.5s burst at 60 FPS refresh rate.
// This prevents backpressure during UI render delays while keeping
// memory bounded.
const streamBufferSize = 100

// streamEvent is a discriminated union for all stream events.
// Using a single channel with union type simplifies select logic
// and eliminates complex multi-channel closure handling.
type streamEvent struct {
	// Exactly one of these fields is set per event
	opened bool   // connection established
	text   string // one fragment to append (when non-empty)
	err    error  // transport error (when non-nil)
}

// Stream message types for Bubble Tea
type streamStartedMsg struct {
	eventCh <-chan streamEvent
	cancel  context.CancelFunc
}

type streamOpenedMsg struct{}

type streamTextMsg struct {
	text string
}

type streamDoneMsg struct{}

type streamErrorMsg struct {
	err error
}

// startStream creates a command that opens this turn's subscription.
//
// Goroutine lifecycle: the spawned goroutine exits when the stream closes,
// the context is canceled, or an error occurs. Channel closure signals the
// clean close; no separate done event is needed because SSE ends a turn
// by closing the connection.
func (m *Model) startStream(text string) tea.Cmd {
	return func() tea.Msg {
		eventCh := make(chan streamEvent, streamBufferSize)

		// Scoped acquisition: the subscription context is created here and
		// released via defer on every exit path of the goroutine.
		ctx, cancel := context.WithTimeout(m.ctx, streamTimeout)

		go func() {
			defer cancel()
			defer close(eventCh)

			// Panic recovery to prevent UI lockup
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("stream panic recovered", "panic", r)
					select {
					case eventCh <- streamEvent{err: fmt.Errorf("stream panic: %v", r)}:
					default:
					}
				}
			}()

			for ev, err := range m.client.Stream(ctx, m.session.ID(), text) {
				if err != nil {
					select {
					case eventCh <- streamEvent{err: err}:
					case <-ctx.Done():
					}
					return
				}

				switch {
				case ev.Opened:
					select {
					case eventCh <- streamEvent{opened: true}:
					case <-ctx.Done():
						return
					}
				case ev.Data != "":
					select {
					case eventCh <- streamEvent{text: ev.Data}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()

		return streamStartedMsg{
			eventCh: eventCh,
			cancel:  cancel,
		}
	}
}

// listenForStream creates a command to wait for the next stream event.
// Empty events are skipped via loop instead of recursion to prevent stack
// growth under pathological conditions.
func listenForStream(eventCh <-chan streamEvent) tea.Cmd {
	return func() tea.Msg {
		if eventCh == nil {
			return nil
		}

		for {
			event, ok := <-eventCh
			if !ok {
				// Channel closed - the turn completed cleanly
				return streamDoneMsg{}
			}

			switch {
			case event.err != nil:
				return streamErrorMsg{err: event.err}
			case event.opened:
				return streamOpenedMsg{}
			case event.text != "":
				return streamTextMsg{text: event.text}
			default:
				continue
			}
		}
	}
}
