package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestHandLandmarks_BoundingBox(t *testing.T) {
	t.Run("covers all landmarks in pixels", func(t *testing.T) {
		hand := HandInBox("Left", 0.25, 0.25, 0.5, 0.75)

		got := hand.BoundingBox(1280, 720)
		want := image.Rect(320, 180, 640, 540)

		if got != want {
			t.Errorf("BoundingBox() = %v, want %v", got, want)
		}
	})

	t.Run("single point has zero size", func(t *testing.T) {
		var hand HandLandmarks
		for i := range hand.Points {
			hand.Points[i] = Point3D{X: 0.5, Y: 0.5}
		}

		got := hand.BoundingBox(100, 100)
		if got != image.Rect(50, 50, 50, 50) {
			t.Errorf("BoundingBox() = %v, want empty rect at 50,50", got)
		}
	})

	t.Run("nil hand returns empty rect", func(t *testing.T) {
		var hand *HandLandmarks
		if got := hand.BoundingBox(1280, 720); got != (image.Rectangle{}) {
			t.Errorf("BoundingBox() = %v, want zero rect", got)
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()

		mock.SetHands([]HandLandmarks{
			HandInBox("Left", 0.1, 0.2, 0.2, 0.4),
			HandInBox("Right", 0.8, 0.2, 0.9, 0.4),
		})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Fatalf("expected 2 hands, got %d", len(hands))
		}
		if hands[0].Handedness != "Left" || hands[1].Handedness != "Right" {
			t.Errorf("unexpected handedness order: %s, %s", hands[0].Handedness, hands[1].Handedness)
		}
		if mock.Calls() != 1 {
			t.Errorf("Calls() = %d, want 1", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxHands != 2 {
		t.Errorf("MaxHands = %d, want 2", cfg.MaxHands)
	}
	if cfg.MinConfidence != 0.8 {
		t.Errorf("MinConfidence = %f, want 0.8", cfg.MinConfidence)
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("decodes hands", func(t *testing.T) {
		line := []byte(`{"hands":[{"handedness":"Right","score":0.91,"points":[{"x":0.1,"y":0.2,"z":0},{"x":0.3,"y":0.4,"z":0.01}]}]}` + "\n")

		hands, err := parseResponse(line)
		if err != nil {
			t.Fatalf("parseResponse() error = %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Handedness != "Right" {
			t.Errorf("handedness = %s, want Right", hands[0].Handedness)
		}
		if hands[0].Points[1] != (Point3D{X: 0.3, Y: 0.4, Z: 0.01}) {
			t.Errorf("point 1 = %+v", hands[0].Points[1])
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := parseResponse([]byte(`{"hands":[]}`))
		if err != nil {
			t.Fatalf("parseResponse() error = %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("service error", func(t *testing.T) {
		_, err := parseResponse([]byte(`{"error":"bad frame"}`))
		if err == nil || !strings.Contains(err.Error(), "bad frame") {
			t.Errorf("expected service error, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := parseResponse([]byte("not json")); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0xff, 0xd8, 0xff, 0xe0}

	if err := writeFrame(&buf, data); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	out := buf.Bytes()
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(data)) {
		t.Errorf("length prefix = %d, want %d", n, len(data))
	}
	if !bytes.Equal(out[4:], data) {
		t.Errorf("payload = %x, want %x", out[4:], data)
	}
}

func TestMediaPipeDetector_Args(t *testing.T) {
	script := filepath.Join(t.TempDir(), ServiceScript)
	if err := os.WriteFile(script, []byte("# stub\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HANDPONG_HAND_SERVICE", script)

	d, err := NewMediaPipeDetector(DefaultConfig())
	if err != nil {
		t.Fatalf("NewMediaPipeDetector() error = %v", err)
	}
	defer d.Close()

	got := strings.Join(d.Args(), " ")
	want := script + " --max-hands 2 --min-confidence 0.8 --min-tracking-confidence 0.5"
	if got != want {
		t.Errorf("Args() = %q, want %q", got, want)
	}
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	t.Setenv("HANDPONG_HAND_SERVICE", filepath.Join(t.TempDir(), "missing.py"))

	if _, err := NewMediaPipeDetector(DefaultConfig()); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestMediaPipeDetector_BacksOffAfterServiceExits(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("skipping test - /bin/sh not available")
	}

	// A service that exits at once, as when mediapipe is not installed.
	script := filepath.Join(t.TempDir(), ServiceScript)
	if err := os.WriteFile(script, []byte("exit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HANDPONG_HAND_SERVICE", script)

	d, err := NewMediaPipeDetector(DefaultConfig())
	if err != nil {
		t.Fatalf("NewMediaPipeDetector() error = %v", err)
	}
	defer d.Close()
	d.python = "/bin/sh"

	frame := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	for i := 0; i < 10; i++ {
		if _, err := d.Detect(&frame); err == nil {
			t.Fatalf("Detect() call %d succeeded against a dead service", i)
		}
	}
	if d.spawns != 1 {
		t.Errorf("service started %d times in 10 frames, want 1", d.spawns)
	}

	// Once the backoff has passed the service is tried again.
	d.lastFailure = time.Now().Add(-RestartBackoff)
	if _, err := d.Detect(&frame); err == nil {
		t.Fatal("Detect() succeeded against a dead service")
	}
	if d.spawns != 2 {
		t.Errorf("spawns after backoff = %d, want 2", d.spawns)
	}
}
