package game

import "fmt"

// Side identifies a player.
type Side int

const (
	// Left is the player on the left edge of the field.
	Left Side = iota
	// Right is the player on the right edge of the field.
	Right
)

// String returns the handedness label used by the hand tracker.
func (s Side) String() string {
	switch s {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide maps a handedness label ("Left" or "Right") to a Side.
func ParseSide(label string) (Side, bool) {
	switch label {
	case "Left":
		return Left, true
	case "Right":
		return Right, true
	}
	return 0, false
}

// Phase is the match phase.
type Phase int

const (
	// Playing means the ball is in motion.
	Playing Phase = iota
	// GameOver means the ball left the field and is frozen until reset.
	GameOver
)

func (p Phase) String() string {
	if p == GameOver {
		return "game_over"
	}
	return "playing"
}

// Ball is the ball position and velocity.
type Ball struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	SpeedX float64 `json:"speed_x"`
	SpeedY float64 `json:"speed_y"`
}

// Score holds the per-side hit counts.
type Score struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Total returns the combined score shown on the game-over screen.
func (s Score) Total() int {
	return s.Left + s.Right
}

// Of returns the score for side.
func (s Score) Of(side Side) int {
	if side == Right {
		return s.Right
	}
	return s.Left
}

func (s *Score) add(side Side) {
	if side == Right {
		s.Right++
		return
	}
	s.Left++
}

// State is the complete match state. It is a value type: Step takes a
// State and returns the next one.
type State struct {
	Ball  Ball
	Score Score
	Phase Phase
	// Frame counts steps since the last reset.
	Frame int
}

// Reset returns the initial state for cfg. Calling it repeatedly yields the same state.
func Reset(cfg Config) State {
	return State{
		Ball: Ball{
			X:      cfg.BallStartX,
			Y:      cfg.BallStartY,
			SpeedX: cfg.BallSpeedX,
			SpeedY: cfg.BallSpeedY,
		},
		Phase: Playing,
	}
}

// Box is a hand bounding box in frame pixels.
type Box struct {
	X, Y, W, H int
}

// Hand is one detected hand as seen by the game.
type Hand struct {
	Side Side
	Box  Box
}
