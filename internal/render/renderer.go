package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/ayusman/handpong/internal/detector"
	"github.com/ayusman/handpong/internal/game"
)

// Layout positions the overlay elements on a 1280x720 frame.
type Layout struct {
	// CameraWeight and BackgroundWeight are the blend weights of the live feed and the backdrop.
	CameraWeight     float64
	BackgroundWeight float64

	LeftScoreAt  image.Point
	RightScoreAt image.Point
	ScoreStyle   TextStyle

	// TotalAt is where the combined score is printed on the game-over screen.
	TotalAt    image.Point
	TotalStyle TextStyle

	// Hands controls the tracked-hand annotation drawn on the camera frame.
	Hands HandStyle
}

// HandStyle describes the skeleton, box and label drawn over each tracked hand.
type HandStyle struct {
	Enabled bool

	LandmarkColor  color.RGBA
	LandmarkRadius int
	LineColor      color.RGBA
	LineThickness  int

	// BoxPadding grows the landmark bounding box on every side.
	BoxPadding   int
	BoxColor     color.RGBA
	BoxThickness int

	// LabelOffset is subtracted from the unpadded box's top-left corner to place the handedness label.
	LabelOffset image.Point
	LabelStyle  TextStyle
}

// DefaultLayout returns the stock overlay layout.
func DefaultLayout() Layout {
	return Layout{
		CameraWeight:     0.2,
		BackgroundWeight: 0.8,
		LeftScoreAt:      image.Pt(300, 650),
		RightScoreAt:     image.Pt(900, 650),
		ScoreStyle: TextStyle{
			Font:      gocv.FontHersheyComplex,
			Scale:     3,
			Color:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
			Thickness: 5,
		},
		TotalAt: image.Pt(585, 360),
		TotalStyle: TextStyle{
			Font:      gocv.FontHersheyComplex,
			Scale:     2.5,
			Color:     color.RGBA{R: 200, G: 0, B: 200, A: 255},
			Thickness: 5,
		},
		Hands: HandStyle{
			Enabled:        true,
			LandmarkColor:  color.RGBA{R: 255, G: 0, B: 0, A: 255},
			LandmarkRadius: 2,
			LineColor:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
			LineThickness:  2,
			BoxPadding:     20,
			BoxColor:       magenta,
			BoxThickness:   2,
			LabelOffset:    image.Pt(30, 30),
			LabelStyle: TextStyle{
				Font:      gocv.FontHersheyPlain,
				Scale:     2,
				Color:     magenta,
				Thickness: 2,
			},
		},
	}
}

var magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// Renderer turns game scenes into display frames.
type Renderer struct {
	assets *Assets
	layout Layout
	comp   Compositor
}

// NewRenderer creates a Renderer drawing assets with comp.
func NewRenderer(assets *Assets, layout Layout, comp Compositor) *Renderer {
	return &Renderer{
		assets: assets,
		layout: layout,
		comp:   comp,
	}
}

// Compose writes the camera frame faded over the background into dst.
func (r *Renderer) Compose(dst *gocv.Mat, camera gocv.Mat) {
	r.comp.Blend(dst, camera, r.layout.CameraWeight, r.assets.Background, r.layout.BackgroundWeight)
}

// AnnotateHands draws the skeleton, padded bounding box and handedness label
// of every tracked hand onto the camera frame. Call it before Compose so the
// annotation fades with the camera image.
func (r *Renderer) AnnotateHands(camera *gocv.Mat, hands []detector.HandLandmarks) {
	style := r.layout.Hands
	if !style.Enabled {
		return
	}

	w, h := camera.Cols(), camera.Rows()
	for i := range hands {
		hand := &hands[i]

		for _, c := range detector.Connections {
			r.comp.Line(camera, hand.Pixel(c[0], w, h), hand.Pixel(c[1], w, h), style.LineColor, style.LineThickness)
		}
		for j := range hand.Points {
			r.comp.Circle(camera, hand.Pixel(j, w, h), style.LandmarkRadius, style.LandmarkColor, style.LineThickness)
		}

		box := hand.BoundingBox(w, h)
		r.comp.Rect(camera, box.Inset(-style.BoxPadding), style.BoxColor, style.BoxThickness)
		if hand.Handedness != "" {
			r.comp.Text(camera, hand.Handedness, box.Min.Sub(style.LabelOffset), style.LabelStyle)
		}
	}
}

// Draw paints scene over the composed frame in dst. Once the match is over
// the frame is replaced by the game-over screen showing the combined score.
func (r *Renderer) Draw(dst *gocv.Mat, scene game.Scene) {
	for _, p := range scene.Paddles {
		r.comp.Overlay(dst, r.assets.Bat(p.Side), image.Pt(p.X, p.Y))
	}

	if scene.Phase == game.GameOver {
		r.assets.GameOver.CopyTo(dst)
		r.comp.Text(dst, TotalText(scene.Score), r.layout.TotalAt, r.layout.TotalStyle)
	} else if scene.Ball != nil {
		r.comp.Overlay(dst, r.assets.Ball, image.Pt(int(scene.Ball.X), int(scene.Ball.Y)))
	}

	r.comp.Text(dst, strconv.Itoa(scene.Score.Left), r.layout.LeftScoreAt, r.layout.ScoreStyle)
	r.comp.Text(dst, strconv.Itoa(scene.Score.Right), r.layout.RightScoreAt, r.layout.ScoreStyle)
}

// TotalText formats the combined score as shown on the game-over screen.
func TotalText(s game.Score) string {
	return fmt.Sprintf("%02d", s.Total())
}
