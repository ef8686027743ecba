// Package game holds the deterministic state and per-frame update of a hand-controlled Pong match.
package game

// Config holds the field geometry and ball physics used by Step.
// Default values reproduce the classic 1280x720 layout.
type Config struct {
	// BallStartX and BallStartY are the ball position after a reset.
	BallStartX float64 `toml:"ball_start_x"`
	BallStartY float64 `toml:"ball_start_y"`

	// BallSpeedX and BallSpeedY are the ball velocity after a reset, in pixels per frame.
	BallSpeedX float64 `toml:"ball_speed_x"`
	BallSpeedY float64 `toml:"ball_speed_y"`

	// LeftPaddleX and RightPaddleX are the fixed horizontal positions of the paddle sprites.
	LeftPaddleX  int `toml:"left_paddle_x"`
	RightPaddleX int `toml:"right_paddle_x"`

	// RightHitMinX and RightHitMaxX bound the horizontal band in which the ball
	// counts as touching the right paddle. The band does not depend on the ball
	// or paddle width, unlike the left paddle test.
	RightHitMinX float64 `toml:"right_hit_min_x"`
	RightHitMaxX float64 `toml:"right_hit_max_x"`

	// PaddleWidth and PaddleHeight are the paddle sprite dimensions.
	PaddleWidth  int `toml:"paddle_width"`
	PaddleHeight int `toml:"paddle_height"`

	// PaddleMinY and PaddleMaxY clamp the paddle's top edge.
	PaddleMinY int `toml:"paddle_min_y"`
	PaddleMaxY int `toml:"paddle_max_y"`

	// OutLeftX and OutRightX end the match when the ball passes them.
	OutLeftX  float64 `toml:"out_left_x"`
	OutRightX float64 `toml:"out_right_x"`

	// WallTopY and WallBottomY reflect the ball vertically.
	WallTopY    float64 `toml:"wall_top_y"`
	WallBottomY float64 `toml:"wall_bottom_y"`

	// NudgeOffset is how far the ball is pushed away from a paddle after a hit.
	NudgeOffset float64 `toml:"nudge_offset"`
}

// DefaultConfig returns the stock field geometry.
func DefaultConfig() Config {
	const rightPaddleX = 1195
	return Config{
		BallStartX:   100,
		BallStartY:   100,
		BallSpeedX:   15,
		BallSpeedY:   15,
		LeftPaddleX:  59,
		RightPaddleX: rightPaddleX,
		RightHitMinX: rightPaddleX - 50,
		RightHitMaxX: rightPaddleX - 30,
		PaddleWidth:  25,
		PaddleHeight: 100,
		PaddleMinY:   20,
		PaddleMaxY:   415,
		OutLeftX:     40,
		OutRightX:    1200,
		WallTopY:     10,
		WallBottomY:  500,
		NudgeOffset:  30,
	}
}

// WithPaddleSize returns a copy of c using the given sprite dimensions.
// Non-positive values keep the current size.
func (c Config) WithPaddleSize(width, height int) Config {
	if width > 0 {
		c.PaddleWidth = width
	}
	if height > 0 {
		c.PaddleHeight = height
	}
	return c
}

// PaddleX returns the fixed horizontal position of the paddle for side.
func (c Config) PaddleX(side Side) int {
	if side == Right {
		return c.RightPaddleX
	}
	return c.LeftPaddleX
}
