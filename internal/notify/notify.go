// Package notify provides the single-slot advisory message surface read by
// the rendering layer.
package notify

import "time"

// TTL is how long a posted notification stays visible.
const TTL = 3 * time.Second

// Queue holds at most one live notification. A new post supersedes the
// current one without queuing; expiry is checked lazily on read.
type Queue struct {
	text   string
	expiry time.Time
}

// Post replaces the current notification and sets its expiry to now+TTL.
func (q *Queue) Post(text string, now time.Time) {
	q.text = text
	q.expiry = now.Add(TTL)
}

// Current returns the live notification text, or false when none is live.
func (q *Queue) Current(now time.Time) (string, bool) {
	if q.text == "" || now.After(q.expiry) {
		return "", false
	}
	return q.text, true
}

// Clear drops any live notification immediately.
func (q *Queue) Clear() {
	q.text = ""
	q.expiry = time.Time{}
}
