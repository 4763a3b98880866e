package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// SSEServer returns an httptest.Server that answers every request with the
// scripted fragments as one SSE event each, then closes the stream.
//
// Multi-line fragments are emitted as consecutive data: lines of a single
// event, matching the W3C framing the client reassembles with \n.
func SSEServer(t *testing.T, fragments ...string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer does not support flushing")
			return
		}

		for _, fragment := range fragments {
			for _, line := range strings.Split(fragment, "\n") {
				fmt.Fprintf(w, "data: %s\n", line)
			}
			fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// SSEStatusServer returns an httptest.Server that answers every request
// with the given status code and no body.
func SSEStatusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}
