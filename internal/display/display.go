// Package display presents frames to the players and reads their key presses.
package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// Key codes understood by the game loop.
const (
	KeyReset = 'r'
	KeyQuit  = 'q'
	// NoKey is returned by PollKey when nothing was pressed.
	NoKey = -1
)

// Surface shows frames and reports key presses.
type Surface interface {
	// Show presents frame until the next call.
	Show(frame gocv.Mat)
	// PollKey waits up to delayMs milliseconds for a key press and returns
	// its code, or NoKey.
	PollKey(delayMs int) int
	Close() error
}

// Window is a Surface backed by a native OpenCV window.
// It must be used from the main goroutine on platforms that require it.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a window titled title.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

func (w *Window) Show(frame gocv.Mat) {
	w.window.IMShow(frame)
}

func (w *Window) PollKey(delayMs int) int {
	key := w.window.WaitKey(delayMs)
	if key < 0 {
		return NoKey
	}
	// Some backends report modifier state in the high bits.
	return key & 0xff
}

func (w *Window) Close() error {
	return w.window.Close()
}

// Headless is a Surface without a screen. Key presses are scripted per frame,
// which makes it useful in tests and for unattended runs.
type Headless struct {
	keys   map[int]int
	shown  int
	polled int
	last   gocv.Mat
	mu     sync.Mutex
}

// NewHeadless returns a Headless surface with no scripted keys.
func NewHeadless() *Headless {
	return &Headless{
		keys: make(map[int]int),
		last: gocv.NewMat(),
	}
}

// PressAt scripts key to be returned by the n-th PollKey call (0-based).
func (h *Headless) PressAt(n int, key int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys[n] = key
}

func (h *Headless) Show(frame gocv.Mat) {
	h.mu.Lock()
	defer h.mu.Unlock()
	frame.CopyTo(&h.last)
	h.shown++
}

func (h *Headless) PollKey(delayMs int) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	key, ok := h.keys[h.polled]
	h.polled++
	if !ok {
		return NoKey
	}
	return key
}

// Shown returns the number of frames presented.
func (h *Headless) Shown() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

// Last returns a copy of the most recently presented frame. The caller closes it.
func (h *Headless) Last() gocv.Mat {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last.Clone()
}

func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last.Close()
}
