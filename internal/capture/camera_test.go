package capture

import (
	"testing"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantFPS int
	}{
		{
			name:    "defaults",
			opts:    DefaultOptions(),
			wantFPS: DefaultFPS,
		},
		{
			name:    "zero options fall back to defaults",
			opts:    Options{DeviceID: 1},
			wantFPS: DefaultFPS,
		},
		{
			name:    "explicit fps",
			opts:    Options{DeviceID: 2, FPS: 60},
			wantFPS: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.opts)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}

			impl := cam.(*cameraImpl)
			if impl.opts.Width != DefaultWidth || impl.opts.Height != DefaultHeight {
				t.Errorf("resolution = %dx%d, want %dx%d", impl.opts.Width, impl.opts.Height, DefaultWidth, DefaultHeight)
			}

			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.Mirror {
		t.Error("default capture should be mirrored")
	}
	if opts.Width != 1280 || opts.Height != 720 {
		t.Errorf("default resolution = %dx%d, want 1280x720", opts.Width, opts.Height)
	}
}

func TestCamera_FPS(t *testing.T) {
	tests := []struct {
		name string
		fps  int
		want int
	}{
		{"configured", 15, 15},
		{"zero uses default", 0, DefaultFPS},
		{"negative uses default", -5, DefaultFPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.FPS = tt.fps

			if got := NewCamera(opts).FPS(); got != tt.want {
				t.Errorf("FPS() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCamera_IsOpen_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultOptions())

	if cam.IsOpen() {
		t.Error("IsOpen() should return false before Open() is called")
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultOptions())

	// Test Open
	err := cam.Open()
	if err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	// Test ReadFrame
	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat == nil {
			t.Error("ReadFrame() returned nil mat")
		} else if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		} else {
			if mat.Cols() != DefaultWidth || mat.Rows() != DefaultHeight {
				t.Logf("Frame dimensions: %dx%d (requested %dx%d, but camera may not support)", mat.Cols(), mat.Rows(), DefaultWidth, DefaultHeight)
			}
			mat.Close()
		}
	}

	// Test Close
	err = cam.Close()
	if err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultOptions())

	_, err := cam.ReadFrame()
	if err == nil {
		t.Error("ReadFrame() should return error when camera is not open")
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultOptions())

	// Close on not opened camera should not panic and return nil
	err := cam.Close()
	if err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}
