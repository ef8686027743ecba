// Package app runs the handpong game loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/handpong/internal/capture"
	"github.com/ayusman/handpong/internal/detector"
	"github.com/ayusman/handpong/internal/display"
	"github.com/ayusman/handpong/internal/feed"
	"github.com/ayusman/handpong/internal/game"
	"github.com/ayusman/handpong/internal/render"
	"github.com/ayusman/handpong/internal/store"
)

// Loop timing constants.
const (
	// KeyDelayMs is how long each frame waits for a key press.
	KeyDelayMs = 1
	// MaxReadFailures is the number of consecutive failed camera reads after
	// which the loop gives up.
	MaxReadFailures = 30
)

// ErrCameraLost is returned by Run when the camera keeps failing to deliver frames.
var ErrCameraLost = errors.New("camera stopped delivering frames")

// Config holds the collaborators of the game loop. Store and Feed are optional.
type Config struct {
	Game     game.Config
	Camera   capture.Camera
	Detector detector.Detector
	Surface  display.Surface
	Renderer *render.Renderer
	Store    *store.Store
	Feed     *feed.Feed
}

// App owns the game state and drives one frame at a time.
// It is not safe for concurrent use; spectators read through the Feed.
type App struct {
	config Config
	state  game.State

	matchID   string
	startedAt time.Time

	// lastDetectErr suppresses repeats of the same detector failure.
	lastDetectErr string

	out gocv.Mat
}

// New creates an App with a fresh match.
func New(config Config) *App {
	a := &App{
		config: config,
		out:    gocv.NewMat(),
	}
	a.reset()
	return a
}

// State returns the current game state.
func (a *App) State() game.State {
	return a.state
}

// MatchID returns the identifier of the match in progress.
func (a *App) MatchID() string {
	return a.matchID
}

// Run opens the camera and plays until the quit key is pressed, ctx is
// cancelled or the camera runs out of frames. The camera, detector and
// surface are released before Run returns.
func (a *App) Run(ctx context.Context) error {
	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.close()

	log.Printf("Camera opened at %d FPS", a.config.Camera.FPS())
	log.Printf("Match %s started", a.matchID)

	failures := 0
	for {
		select {
		case <-ctx.Done():
			log.Println("Game loop cancelled")
			return nil
		default:
		}

		frame, err := a.config.Camera.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrNoMoreFrames) || errors.Is(err, capture.ErrCameraNotOpen) {
				log.Printf("Camera closed: %v", err)
				return nil
			}
			failures++
			if failures >= MaxReadFailures {
				return fmt.Errorf("%w: %v", ErrCameraLost, err)
			}
			log.Printf("Error reading frame: %v", err)
			continue
		}
		failures = 0

		quit := a.Tick(frame)
		frame.Close()
		if quit {
			log.Println("Quit requested")
			return nil
		}
	}
}

// Tick processes one camera frame and reports whether the player asked to quit.
func (a *App) Tick(frame *gocv.Mat) (quit bool) {
	found := a.detect(frame)
	hands := toHands(found, frame.Cols(), frame.Rows())

	a.config.Renderer.AnnotateHands(frame, found)
	a.config.Renderer.Compose(&a.out, *frame)

	before := a.state.Phase
	var scene game.Scene
	a.state, scene = game.Step(a.config.Game, a.state, hands)
	for _, side := range scene.Hits {
		log.Printf("%s paddle hit, score %d", side, a.state.Score.Of(side))
	}
	if before == game.Playing && a.state.Phase == game.GameOver {
		a.recordMatch()
	}

	a.config.Renderer.Draw(&a.out, scene)
	a.config.Surface.Show(a.out)
	a.publish()

	switch a.config.Surface.PollKey(KeyDelayMs) {
	case display.KeyReset:
		a.reset()
		log.Printf("Match %s started", a.matchID)
	case display.KeyQuit:
		return true
	}
	return false
}

// detect runs the detector. A failed detection counts as no hands for this
// frame and is logged once until the error changes.
func (a *App) detect(frame *gocv.Mat) []detector.HandLandmarks {
	found, err := a.config.Detector.Detect(frame)
	if err != nil {
		if msg := err.Error(); msg != a.lastDetectErr {
			log.Printf("Error detecting hands: %v", err)
			a.lastDetectErr = msg
		}
		return nil
	}
	a.lastDetectErr = ""
	return found
}

// toHands keeps the hands with a known side and measures them in pixels.
func toHands(found []detector.HandLandmarks, width, height int) []game.Hand {
	hands := make([]game.Hand, 0, len(found))
	for i := range found {
		side, ok := game.ParseSide(found[i].Handedness)
		if !ok {
			continue
		}
		r := found[i].BoundingBox(width, height)
		hands = append(hands, game.Hand{
			Side: side,
			Box:  game.Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()},
		})
	}
	return hands
}

func (a *App) reset() {
	a.state = game.Reset(a.config.Game)
	a.matchID = uuid.NewString()
	a.startedAt = time.Now()
}

// recordMatch stores the match that just ended. Storage errors do not stop the game.
func (a *App) recordMatch() {
	log.Printf("Match %s over: %d-%d (total %d)",
		a.matchID, a.state.Score.Left, a.state.Score.Right, a.state.Score.Total())

	if a.config.Store == nil {
		return
	}

	m := &store.Match{
		ID:         a.matchID,
		LeftScore:  a.state.Score.Left,
		RightScore: a.state.Score.Right,
		Frames:     a.state.Frame,
		StartedAt:  a.startedAt,
		EndedAt:    time.Now(),
	}
	if err := a.config.Store.Matches().Create(m); err != nil {
		log.Printf("Failed to record match %s: %v", a.matchID, err)
	}
}

// publish hands the state to spectators. The frame is only encoded when
// someone is watching the stream.
func (a *App) publish() {
	if a.config.Feed == nil {
		return
	}

	snapshot := feed.NewSnapshot(a.state, a.matchID)
	if !a.config.Feed.Watching() {
		a.config.Feed.Publish(snapshot, nil)
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, a.out)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		a.config.Feed.Publish(snapshot, nil)
		return
	}
	a.config.Feed.Publish(snapshot, buf.GetBytes())
	buf.Close()
}

func (a *App) close() {
	if err := a.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.config.Detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
	if err := a.config.Surface.Close(); err != nil {
		log.Printf("Error closing display: %v", err)
	}
	a.out.Close()
}
