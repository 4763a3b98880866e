// Package mood keeps the append-only ledger of mood samples.
package mood

import (
	"iter"
	"time"

	"github.com/soothhq/sooth/internal/log"
	"github.com/soothhq/sooth/internal/notify"
	"github.com/soothhq/sooth/internal/store"
)

// storeKey is the persisted ledger owned by this package.
const storeKey = "moods"

// Entry is one mood sample. Entries are created on explicit save and never
// mutated or deleted.
type Entry struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"` // 1..10, clamped by the input surface
	Note  string    `json:"note"`
}

// Journal owns the mood ledger.
type Journal struct {
	kv      store.KV
	queue   *notify.Queue
	logger  log.Logger
	entries []Entry
}

// New loads the persisted ledger (corrupt or absent loads as empty) and returns a
// ready Journal.
func New(kv store.KV, queue *notify.Queue, logger log.Logger) *Journal {
	j := &Journal{kv: kv, queue: queue, logger: logger}
	store.LoadJSON(kv, logger, storeKey, &j.entries)
	return j
}

// Record appends one sample and persists the full ledger. The score is
// trusted as pre-clamped to [1,10] by the slider that produced it.
func (j *Journal) Record(score int, note string, now time.Time) {
	j.entries = append(j.entries, Entry{Date: now, Score: score, Note: note})
	store.SaveJSON(j.kv, j.logger, storeKey, j.entries)
	j.queue.Post("Mood logged", now)
	j.logger.Debug("recorded mood", "score", score, "entries", len(j.entries))
}

// Len returns the number of recorded samples.
func (j *Journal) Len() int { return len(j.entries) }

// History returns up to limit entries, most recent first, as a finite
// restartable sequence.
func (j *Journal) History(limit int) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		remaining := limit
		for i := len(j.entries) - 1; i >= 0 && remaining > 0; i, remaining = i-1, remaining-1 {
			if !yield(j.entries[i]) {
				return
			}
		}
	}
}
