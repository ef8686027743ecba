package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handpong/internal/feed"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// writeWait bounds a single websocket write.
const writeWait = time.Second

// StateHandler pushes game state snapshots to websocket clients.
type StateHandler struct {
	feed     *feed.Feed
	interval time.Duration
}

// NewStateHandler creates a new StateHandler reading from f every interval.
func NewStateHandler(f *feed.Feed, interval time.Duration) *StateHandler {
	return &StateHandler{feed: f, interval: interval}
}

// ServeHTTP upgrades the connection and sends a JSON snapshot whenever the
// published state changes.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// Drain client messages so close frames are processed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var lastSeq uint64
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		snapshot, _, seq := h.feed.Latest()
		if seq == lastSeq {
			continue
		}
		lastSeq = seq

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(snapshot); err != nil {
			return
		}
	}
}
