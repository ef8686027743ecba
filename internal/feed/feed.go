// Package feed hands the latest rendered frame and game state from the game
// loop to spectators.
package feed

import (
	"sync"
	"time"

	"github.com/ayusman/handpong/internal/game"
)

// Snapshot is the spectator view of the game state.
type Snapshot struct {
	Phase     string     `json:"phase"`
	Ball      game.Ball  `json:"ball"`
	Score     game.Score `json:"score"`
	Total     int        `json:"total"`
	Frame     int        `json:"frame"`
	MatchID   string     `json:"match_id,omitempty"`
	Timestamp int64      `json:"timestamp"`
}

// NewSnapshot builds a Snapshot from the state of match matchID.
func NewSnapshot(s game.State, matchID string) Snapshot {
	return Snapshot{
		Phase:     s.Phase.String(),
		Ball:      s.Ball,
		Score:     s.Score,
		Total:     s.Score.Total(),
		Frame:     s.Frame,
		MatchID:   matchID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Feed holds the most recent frame and state. The game loop is the only writer.
type Feed struct {
	mu       sync.RWMutex
	jpeg     []byte
	snapshot Snapshot
	seq      uint64
	viewers  int
}

// New creates an empty Feed.
func New() *Feed {
	return &Feed{}
}

// Publish stores a new state and, when non-nil, a JPEG encoded frame.
// jpeg is copied.
func (f *Feed) Publish(snapshot Snapshot, jpeg []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.snapshot = snapshot
	if jpeg != nil {
		f.jpeg = append(f.jpeg[:0:0], jpeg...)
	}
	f.seq++
}

// Latest returns the last published snapshot, frame and sequence number.
// The sequence number is zero until something is published.
func (f *Feed) Latest() (Snapshot, []byte, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot, f.jpeg, f.seq
}

// Watch registers a viewer and returns a function that unregisters it.
func (f *Feed) Watch() (done func()) {
	f.mu.Lock()
	f.viewers++
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.viewers--
			f.mu.Unlock()
		})
	}
}

// Watching reports whether any viewer is registered. The loop uses it to skip
// JPEG encoding when nobody is looking.
func (f *Feed) Watching() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.viewers > 0
}
