package game

// Sprite is a paddle to draw at a top-left position.
type Sprite struct {
	Side Side
	X    int
	Y    int
}

// Scene lists what the renderer should draw for one frame.
type Scene struct {
	Paddles []Sprite
	// Ball is nil once the match is over.
	Ball  *Ball
	Phase Phase
	Score Score
	// Hits holds the side that returned the ball this frame, if any.
	Hits []Side
}

// PaddleY converts a hand bounding box into the paddle's clamped top edge.
func PaddleY(cfg Config, box Box) int {
	y := box.Y - cfg.PaddleHeight/2
	if y < cfg.PaddleMinY {
		return cfg.PaddleMinY
	}
	if y > cfg.PaddleMaxY {
		return cfg.PaddleMaxY
	}
	return y
}

// Hits reports whether the ball touches the paddle for side whose top edge is
// at paddleY. Both checks are strict: touching an edge is not a hit.
func Hits(cfg Config, side Side, paddleY int, ball Ball) bool {
	top := float64(paddleY)
	bottom := float64(paddleY + cfg.PaddleHeight)
	if !(top < ball.Y && ball.Y < bottom) {
		return false
	}

	switch side {
	case Left:
		left := float64(cfg.LeftPaddleX)
		return left < ball.X && ball.X < left+float64(cfg.PaddleWidth)
	case Right:
		return cfg.RightHitMinX < ball.X && ball.X < cfg.RightHitMaxX
	}
	return false
}

// Bounce reverses the ball off the paddle for side, pushes it clear of the
// paddle and credits the side with one point.
func Bounce(cfg Config, s State, side Side) State {
	s.Ball.SpeedX = -s.Ball.SpeedX
	if side == Right {
		s.Ball.X -= cfg.NudgeOffset
	} else {
		s.Ball.X += cfg.NudgeOffset
	}
	s.Score.add(side)
	return s
}

// OutOfBounds reports whether the ball has left the field horizontally.
func OutOfBounds(cfg Config, ball Ball) bool {
	return ball.X < cfg.OutLeftX || ball.X > cfg.OutRightX
}

// Advance reflects the ball off the top and bottom walls, then moves it by its velocity.
func Advance(cfg Config, ball Ball) Ball {
	if ball.Y >= cfg.WallBottomY || ball.Y <= cfg.WallTopY {
		ball.SpeedY = -ball.SpeedY
	}
	ball.X += ball.SpeedX
	ball.Y += ball.SpeedY
	return ball
}

// Step advances the match by one frame given the hands detected in it.
//
// Paddles are placed and tested for collision in detection order. At most one
// hit is resolved per frame so a single frame never credits both sides. The
// ball is frozen once the match is over.
func Step(cfg Config, s State, hands []Hand) (State, Scene) {
	scene := Scene{
		Paddles: make([]Sprite, 0, len(hands)),
	}

	hit := false
	for _, h := range hands {
		y := PaddleY(cfg, h.Box)
		scene.Paddles = append(scene.Paddles, Sprite{Side: h.Side, X: cfg.PaddleX(h.Side), Y: y})

		if hit || s.Phase == GameOver {
			continue
		}
		if Hits(cfg, h.Side, y, s.Ball) {
			s = Bounce(cfg, s, h.Side)
			scene.Hits = append(scene.Hits, h.Side)
			hit = true
		}
	}

	if OutOfBounds(cfg, s.Ball) {
		s.Phase = GameOver
	}

	if s.Phase == Playing {
		s.Ball = Advance(cfg, s.Ball)
		ball := s.Ball
		scene.Ball = &ball
	}

	s.Frame++
	scene.Phase = s.Phase
	scene.Score = s.Score
	return s, scene
}
