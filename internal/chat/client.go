package chat

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/soothhq/sooth/internal/log"
)

// maxEventSize bounds a single SSE line; fragments are small, this is
// generous headroom.
const maxEventSize = 1 << 20

// Event is one occurrence on an open stream. Exactly one field is
// meaningful per event: Opened marks the established connection, otherwise
// Data carries one text fragment.
type Event struct {
	Opened bool
	Data   string
}

// Client consumes the assistant's unidirectional text-event stream.
// One request = one turn; there is no framing beyond "one event = one
// fragment to append", and no retry: a failed stream ends the turn.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  log.Logger
}

// NewClient returns a Client for the endpoint at baseURL.
func NewClient(baseURL string, logger log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{}, // no client timeout: streams are long-lived, ctx governs
		logger:  logger,
	}
}

// Stream opens a single-use subscription keyed by the session identifier
// and the URL-encoded message text, and returns the turn's events as a
// lazy sequence. The sequence yields one Opened event, then zero or more
// fragment events, and terminates on server close; a transport error is
// yielded once and terminates the sequence. The connection is released on
// every exit path, including an abandoned iteration.
func (c *Client) Stream(ctx context.Context, sessionID uuid.UUID, text string) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		endpoint := fmt.Sprintf("%s/stream-chat?contents=%s&session=%s",
			c.baseURL, url.QueryEscape(text), sessionID)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			yield(Event{}, fmt.Errorf("chat: building stream request: %w", err))
			return
		}
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := c.httpc.Do(req)
		if err != nil {
			yield(Event{}, fmt.Errorf("chat: opening stream: %w", err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			yield(Event{}, fmt.Errorf("chat: unexpected status %s", resp.Status))
			return
		}

		// Headers in hand == connection established.
		if !yield(Event{Opened: true}, nil) {
			return
		}

		// SSE framing: "data:" lines accumulate, an empty line dispatches
		// the event, multi-line data joins with \n, comments and other
		// fields are ignored.
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

		var dataLines []string
		flush := func() bool {
			if len(dataLines) == 0 {
				return true
			}
			fragment := strings.Join(dataLines, "\n")
			dataLines = nil
			return yield(Event{Data: fragment}, nil)
		}

		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if !flush() {
					return
				}
			case strings.HasPrefix(line, "data:"):
				dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			default:
				// event:/id:/retry: fields and ":" comments carry nothing
				// for us; one event is one fragment either way.
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Event{}, fmt.Errorf("chat: reading stream: %w", err))
			return
		}

		// Implicit close. Dispatch a final unterminated event, then end.
		_ = flush()
	}
}
