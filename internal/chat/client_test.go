package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soothhq/sooth/internal/log"
	"github.com/soothhq/sooth/internal/testutil"
)

func collect(t *testing.T, c *Client, text string) ([]Event, error) {
	t.Helper()
	var events []Event
	for ev, err := range c.Stream(context.Background(), uuid.New(), text) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func TestClient_StreamYieldsOpenedThenFragments(t *testing.T) {
	srv := testutil.SSEServer(t, "Take ", "a breath.")
	c := NewClient(srv.URL, log.NewNop())

	events, err := collect(t, c, "hi")
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.True(t, events[0].Opened, "first event must mark the open connection")
	assert.Equal(t, "Take ", events[1].Data)
	assert.Equal(t, "a breath.", events[2].Data)
}

func TestClient_StreamJoinsMultiLineData(t *testing.T) {
	srv := testutil.SSEServer(t, "line one\nline two")
	c := NewClient(srv.URL, log.NewNop())

	events, err := collect(t, c, "hi")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "line one\nline two", events[1].Data)
}

func TestClient_StreamRequestShape(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	id := uuid.New()
	c := NewClient(srv.URL+"/", log.NewNop()) // trailing slash must not double up

	for ev, err := range c.Stream(context.Background(), id, "how are you?") {
		require.NoError(t, err)
		_ = ev
	}

	require.NotNil(t, got)
	assert.Equal(t, "/stream-chat", got.URL.Path)
	assert.Equal(t, "how are you?", got.URL.Query().Get("contents"))
	assert.Equal(t, id.String(), got.URL.Query().Get("session"))
	assert.Equal(t, "text/event-stream", got.Header.Get("Accept"))
}

func TestClient_StreamQueryEscaping(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, log.NewNop())
	for _, err := range c.Stream(context.Background(), uuid.New(), "a&b=c d") {
		require.NoError(t, err)
	}

	values, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	assert.Equal(t, "a&b=c d", values.Get("contents"))
}

func TestClient_StreamNon200IsError(t *testing.T) {
	srv := testutil.SSEStatusServer(t, http.StatusBadGateway)
	c := NewClient(srv.URL, log.NewNop())

	events, err := collect(t, c, "hi")
	require.Error(t, err)
	assert.Empty(t, events, "no Opened event on a failed connection")
}

func TestClient_StreamConnectError(t *testing.T) {
	// Server is already closed: the dial fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, log.NewNop())
	_, err := collect(t, c, "hi")
	require.Error(t, err)
}

func TestClient_StreamFlushesUnterminatedEvent(t *testing.T) {
	// Last event has no trailing blank line before the server closes.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: first\n\ndata: trailing"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, log.NewNop())
	events, err := collect(t, c, "hi")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "trailing", events[2].Data)
}

func TestClient_StreamIgnoresCommentsAndFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(": keepalive\nevent: message\nid: 7\ndata: payload\n\n"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, log.NewNop())
	events, err := collect(t, c, "hi")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "payload", events[1].Data)
}

func TestClient_StreamAbandonedIteration(t *testing.T) {
	srv := testutil.SSEServer(t, "one", "two", "three")
	c := NewClient(srv.URL, log.NewNop())

	// Break after the first fragment; the connection must be released
	// without a panic or leak.
	for ev, err := range c.Stream(context.Background(), uuid.New(), "hi") {
		require.NoError(t, err)
		if ev.Data != "" {
			break
		}
	}
}

func TestClient_StreamContextCanceled(t *testing.T) {
	srv := testutil.SSEServer(t, "one")
	c := NewClient(srv.URL, log.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawErr error
	for _, err := range c.Stream(ctx, uuid.New(), "hi") {
		if err != nil {
			sawErr = err
		}
	}
	require.Error(t, sawErr)
}
