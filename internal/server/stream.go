package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/handpong/internal/feed"
)

// StreamHandler serves the rendered game frames as MJPEG.
type StreamHandler struct {
	feed     *feed.Feed
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler reading from f every interval.
func NewStreamHandler(f *feed.Feed, interval time.Duration) *StreamHandler {
	return &StreamHandler{feed: f, interval: interval}
}

// ServeHTTP streams MJPEG frames to the client until it disconnects.
// Only frames that changed since the last write are sent.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	done := h.feed.Watch()
	defer done()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Send headers now; the first frame may be a while.
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var lastSeq uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		_, jpeg, seq := h.feed.Latest()
		if seq == lastSeq || len(jpeg) == 0 {
			continue
		}
		lastSeq = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
