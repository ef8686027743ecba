// Package render draws game scenes onto camera frames with GoCV.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// TextStyle describes how overlay text is drawn.
type TextStyle struct {
	Font      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
}

// Compositor combines images into a frame.
type Compositor interface {
	// Blend writes fg*fgWeight + bg*bgWeight into dst. fg is resized to bg when their sizes differ.
	Blend(dst *gocv.Mat, fg gocv.Mat, fgWeight float64, bg gocv.Mat, bgWeight float64)
	// Overlay draws sprite onto dst with its top-left corner at at, honouring an
	// alpha channel when the sprite has one. Parts outside dst are clipped.
	Overlay(dst *gocv.Mat, sprite gocv.Mat, at image.Point)
	// Text draws text with its baseline origin at at.
	Text(dst *gocv.Mat, text string, at image.Point, style TextStyle)
	// Line draws a segment from a to b.
	Line(dst *gocv.Mat, a, b image.Point, c color.RGBA, thickness int)
	// Circle draws a circle; a negative thickness fills it.
	Circle(dst *gocv.Mat, center image.Point, radius int, c color.RGBA, thickness int)
	// Rect draws the outline of r.
	Rect(dst *gocv.Mat, r image.Rectangle, c color.RGBA, thickness int)
}

// OpenCV implements Compositor with OpenCV primitives.
type OpenCV struct{}

var _ Compositor = OpenCV{}

func (OpenCV) Blend(dst *gocv.Mat, fg gocv.Mat, fgWeight float64, bg gocv.Mat, bgWeight float64) {
	if fg.Cols() != bg.Cols() || fg.Rows() != bg.Rows() {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(fg, &resized, image.Pt(bg.Cols(), bg.Rows()), 0, 0, gocv.InterpolationLinear)
		gocv.AddWeighted(resized, fgWeight, bg, bgWeight, 0, dst)
		return
	}
	gocv.AddWeighted(fg, fgWeight, bg, bgWeight, 0, dst)
}

func (OpenCV) Overlay(dst *gocv.Mat, sprite gocv.Mat, at image.Point) {
	if sprite.Empty() {
		return
	}

	bounds := image.Rect(0, 0, dst.Cols(), dst.Rows())
	placed := image.Rect(at.X, at.Y, at.X+sprite.Cols(), at.Y+sprite.Rows())
	visible := placed.Intersect(bounds)
	if visible.Empty() {
		return
	}

	src := sprite.Region(visible.Sub(at))
	defer src.Close()
	roi := dst.Region(visible)
	defer roi.Close()

	if sprite.Channels() < 4 {
		src.CopyTo(&roi)
		return
	}
	blendAlpha(&roi, src)
}

func (OpenCV) Text(dst *gocv.Mat, text string, at image.Point, style TextStyle) {
	gocv.PutText(dst, text, at, style.Font, style.Scale, style.Color, style.Thickness)
}

func (OpenCV) Line(dst *gocv.Mat, a, b image.Point, c color.RGBA, thickness int) {
	gocv.Line(dst, a, b, c, thickness)
}

func (OpenCV) Circle(dst *gocv.Mat, center image.Point, radius int, c color.RGBA, thickness int) {
	gocv.Circle(dst, center, radius, c, thickness)
}

func (OpenCV) Rect(dst *gocv.Mat, r image.Rectangle, c color.RGBA, thickness int) {
	gocv.Rectangle(dst, r, c, thickness)
}

// blendAlpha writes bg + alpha*(fg-bg) into roi, where fg and alpha come from
// the BGRA sprite src. roi keeps its size and type so the parent frame is
// updated in place.
func blendAlpha(roi *gocv.Mat, src gocv.Mat) {
	channels := gocv.Split(src)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()

	fg := gocv.NewMat()
	defer fg.Close()
	gocv.Merge(channels[:3], &fg)

	alpha := gocv.NewMat()
	defer alpha.Close()
	gocv.Merge([]gocv.Mat{channels[3], channels[3], channels[3]}, &alpha)

	alphaF := gocv.NewMat()
	defer alphaF.Close()
	alpha.ConvertToWithParams(&alphaF, gocv.MatTypeCV32F, 1.0/255, 0)

	fgF := gocv.NewMat()
	defer fgF.Close()
	fg.ConvertTo(&fgF, gocv.MatTypeCV32F)

	bgF := gocv.NewMat()
	defer bgF.Close()
	roi.ConvertTo(&bgF, gocv.MatTypeCV32F)

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Subtract(fgF, bgF, &diff)
	gocv.Multiply(diff, alphaF, &diff)
	gocv.Add(bgF, diff, &bgF)

	bgF.ConvertTo(roi, roi.Type())
}
