package feed

import (
	"bytes"
	"testing"

	"github.com/ayusman/handpong/internal/game"
)

func TestFeed_PublishLatest(t *testing.T) {
	f := New()

	if _, _, seq := f.Latest(); seq != 0 {
		t.Fatalf("seq = %d before publish, want 0", seq)
	}

	s := game.Reset(game.DefaultConfig())
	s.Score = game.Score{Left: 2, Right: 1}

	frame := []byte{1, 2, 3}
	f.Publish(NewSnapshot(s, "match-1"), frame)
	frame[0] = 9

	snap, jpeg, seq := f.Latest()
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}
	if !bytes.Equal(jpeg, []byte{1, 2, 3}) {
		t.Errorf("jpeg = %v, want copy of published frame", jpeg)
	}
	if snap.Total != 3 || snap.Phase != "playing" || snap.MatchID != "match-1" {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	// Publishing state only keeps the previous frame.
	f.Publish(NewSnapshot(s, "match-1"), nil)
	_, jpeg, seq = f.Latest()
	if seq != 2 || len(jpeg) != 3 {
		t.Errorf("after state-only publish: seq=%d jpeg=%v", seq, jpeg)
	}
}

func TestFeed_Watch(t *testing.T) {
	f := New()

	if f.Watching() {
		t.Fatal("new feed should have no viewers")
	}

	done1 := f.Watch()
	done2 := f.Watch()
	if !f.Watching() {
		t.Error("expected viewers")
	}

	done1()
	done1() // second call is a no-op
	if !f.Watching() {
		t.Error("one viewer should remain")
	}

	done2()
	if f.Watching() {
		t.Error("expected no viewers after all done")
	}
}
