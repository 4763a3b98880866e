package chat

import (
	"strings"

	"github.com/google/uuid"

	"github.com/soothhq/sooth/internal/clock"
	"github.com/soothhq/sooth/internal/log"
	"github.com/soothhq/sooth/internal/store"
)

// transcriptKey is the persisted transcript record owned by this package.
const transcriptKey = "transcript"

// Session reconciles an incremental text stream into a coherent transcript.
//
// One turn at a time: Send opens a turn, fragments grow exactly one
// assistant message for it, and a closed/error signal ends it. All methods
// are driven from the host event loop; none blocks.
type Session struct {
	kv     store.KV
	clk    clock.Clock
	logger log.Logger

	id         uuid.UUID
	transcript []Message

	// Turn state. inFlight covers Send until closed; connecting covers
	// Send until opened and exists only for initial UI feedback. Both must be
	// clear before the next Send is accepted.
	inFlight    bool
	connecting  bool
	accumulated strings.Builder
	assistantAt int // transcript index of this turn's assistant message, -1 before the first fragment
}

// NewSession loads the persisted transcript (corrupt or absent loads as empty)
// and returns an idle Session identified by id.
func NewSession(id uuid.UUID, kv store.KV, clk clock.Clock, logger log.Logger) *Session {
	s := &Session{id: id, kv: kv, clk: clk, logger: logger, assistantAt: -1}
	store.LoadJSON(kv, logger, transcriptKey, &s.transcript)
	return s
}

// ID returns the session identifier carried on every stream request.
func (s *Session) ID() uuid.UUID { return s.id }

// Idle reports whether the session will accept the next Send.
func (s *Session) Idle() bool { return !s.inFlight && !s.connecting }

// Connecting reports whether the turn's stream is still being established.
func (s *Session) Connecting() bool { return s.connecting }

// InFlight reports whether a turn is open.
func (s *Session) InFlight() bool { return s.inFlight }

// Send opens a turn for text. It is a no-op returning ("", false) when the
// text trims to empty or a turn is already open. On accept it appends the
// user message, persists, and returns the trimmed text for the caller to
// put on the wire.
func (s *Session) Send(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !s.Idle() {
		return "", false
	}

	s.transcript = append(s.transcript, Message{
		ID:        uuid.New(),
		Sender:    SenderUser,
		Content:   trimmed,
		Timestamp: s.clk.Now(),
	})
	s.inFlight = true
	s.connecting = true
	s.accumulated.Reset()
	s.assistantAt = -1
	s.persist()
	return trimmed, true
}

// ApplyFragment appends one stream fragment to the running buffer and
// replaces-or-inserts this turn's assistant message so the transcript holds
// exactly one assistant entry per turn, growing monotonically. Fragments
// outside an open turn are dropped.
func (s *Session) ApplyFragment(text string) {
	if !s.inFlight {
		s.logger.Warn("dropping fragment outside open turn", "len", len(text))
		return
	}

	s.accumulated.WriteString(text)
	if s.assistantAt < 0 {
		s.transcript = append(s.transcript, Message{
			ID:        uuid.New(),
			Sender:    SenderAssistant,
			Content:   s.accumulated.String(),
			Timestamp: s.clk.Now(),
		})
		s.assistantAt = len(s.transcript) - 1
	} else {
		s.transcript[s.assistantAt].Content = s.accumulated.String()
	}
	s.persist()
}

// StreamOpened clears the connecting flag once the transport reports an
// established connection. The turn itself stays open.
func (s *Session) StreamOpened() {
	s.connecting = false
}

// StreamClosed ends the turn. A transport error is treated identically to
// a close: whatever partial content accumulated stays in the transcript as
// the final assistant message.
func (s *Session) StreamClosed(err error) {
	if err != nil {
		s.logger.Warn("stream ended with transport error", "error", err)
	}
	s.inFlight = false
	s.connecting = false
	s.accumulated.Reset()
	s.assistantAt = -1
}

// ToggleLiked flips the liked flag on the message with the given id.
func (s *Session) ToggleLiked(id uuid.UUID) {
	s.toggle(id, func(m *Message) { m.Liked = !m.Liked })
}

// ToggleDisliked flips the disliked flag on the message with the given id.
// Independent of liked by design.
func (s *Session) ToggleDisliked(id uuid.UUID) {
	s.toggle(id, func(m *Message) { m.Disliked = !m.Disliked })
}

func (s *Session) toggle(id uuid.UUID, fn func(*Message)) {
	for i := range s.transcript {
		if s.transcript[i].ID == id {
			fn(&s.transcript[i])
			s.persist()
			return
		}
	}
}

// Messages returns a snapshot of the transcript for rendering.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// LastAssistant returns the most recent assistant message, if any.
func (s *Session) LastAssistant() (Message, bool) {
	for i := len(s.transcript) - 1; i >= 0; i-- {
		if s.transcript[i].Sender == SenderAssistant {
			return s.transcript[i], true
		}
	}
	return Message{}, false
}

// Clear drops the whole transcript and its persisted record.
func (s *Session) Clear() {
	s.transcript = nil
	s.assistantAt = -1
	if err := s.kv.Remove(transcriptKey); err != nil {
		s.logger.Error("clearing transcript", "error", err)
	}
}

func (s *Session) persist() {
	store.SaveJSON(s.kv, s.logger, transcriptKey, s.transcript)
}
