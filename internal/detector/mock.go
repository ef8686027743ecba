package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
	calls int
	mu    sync.Mutex
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandInBox returns landmarks for an open hand spread over the normalized
// rectangle (x0,y0)-(x1,y1). The wrist sits at the bottom centre and the
// middle fingertip at the top centre, so BoundingBox recovers the rectangle.
func HandInBox(handedness string, x0, y0, x1, y1 float64) HandLandmarks {
	hand := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	w := x1 - x0
	h := y1 - y0
	at := func(fx, fy float64) Point3D {
		return Point3D{X: x0 + fx*w, Y: y0 + fy*h}
	}

	hand.Points[Wrist] = at(0.5, 1.0)

	// Thumb reaches the left edge
	hand.Points[ThumbCMC] = at(0.35, 0.85)
	hand.Points[ThumbMCP] = at(0.2, 0.7)
	hand.Points[ThumbIP] = at(0.1, 0.6)
	hand.Points[ThumbTip] = at(0.0, 0.5)

	hand.Points[IndexMCP] = at(0.35, 0.5)
	hand.Points[IndexPIP] = at(0.33, 0.3)
	hand.Points[IndexDIP] = at(0.32, 0.15)
	hand.Points[IndexTip] = at(0.3, 0.05)

	// Middle fingertip reaches the top edge
	hand.Points[MiddleMCP] = at(0.5, 0.48)
	hand.Points[MiddlePIP] = at(0.5, 0.3)
	hand.Points[MiddleDIP] = at(0.5, 0.12)
	hand.Points[MiddleTip] = at(0.5, 0.0)

	hand.Points[RingMCP] = at(0.65, 0.5)
	hand.Points[RingPIP] = at(0.68, 0.3)
	hand.Points[RingDIP] = at(0.7, 0.15)
	hand.Points[RingTip] = at(0.72, 0.05)

	// Pinky reaches the right edge
	hand.Points[PinkyMCP] = at(0.8, 0.55)
	hand.Points[PinkyPIP] = at(0.88, 0.4)
	hand.Points[PinkyDIP] = at(0.95, 0.3)
	hand.Points[PinkyTip] = at(1.0, 0.2)

	return hand
}
