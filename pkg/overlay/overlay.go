// Package overlay draws per-face status onto preview frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-focus/pkg/attention"
)

const (
	lineHeight = 25
	fontScale  = 0.7
	crossSize  = 5
)

var (
	boxColor    = color.RGBA{R: 255, G: 255, B: 45}
	cornerColor = color.RGBA{G: 255}
	pupilColor  = color.RGBA{G: 255}

	// gaze, direction, emotion, transient mood, stable mood
	lineColors = [5]color.RGBA{
		{B: 255},
		{G: 255},
		{R: 255},
		{R: 255, G: 200},
		{R: 255, G: 255, B: 255},
	}
)

// Face is everything drawn for one tracked face.
type Face struct {
	Box           image.Rectangle
	GazeAvailable bool
	Gaze          attention.GazeDirection
	Emotion       string
	TransientMood attention.Mood
	StableMood    attention.Mood
	Pupils        []image.Point
}

// Lines returns the five status lines for a face.
func (f Face) Lines() [5]string {
	status := "Lost"
	if f.GazeAvailable {
		status = "Track"
	}
	return [5]string{
		"Gaze: " + status,
		"Direction: " + string(f.Gaze),
		"Emotion: " + f.Emotion,
		"Temp Mood: " + string(f.TransientMood),
		"Final Mood: " + string(f.StableMood),
	}
}

// TextOrigin returns the baseline of the first status line, placed above the
// box and clamped to the top of the frame.
func TextOrigin(box image.Rectangle, lines int) image.Point {
	y := box.Min.Y - lines*lineHeight - 10
	if y < 0 {
		y = 0
	}
	return image.Pt(box.Min.X, y)
}

// Corners returns the eight accent segments of a box, two per corner. Each
// arm is a quarter of the shorter side.
func Corners(r image.Rectangle) [8][2]image.Point {
	n := min(r.Dx(), r.Dy()) / 4
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	return [8][2]image.Point{
		{{x0, y0}, {x0 + n, y0}}, {{x0, y0}, {x0, y0 + n}},
		{{x1, y0}, {x1 - n, y0}}, {{x1, y0}, {x1, y0 + n}},
		{{x0, y1}, {x0 + n, y1}}, {{x0, y1}, {x0, y1 - n}},
		{{x1, y1}, {x1 - n, y1}}, {{x1, y1}, {x1, y1 - n}},
	}
}

// Draw renders every face onto img.
func Draw(img *gocv.Mat, faces []Face) {
	for _, f := range faces {
		drawFace(img, f)
	}
}

func drawFace(img *gocv.Mat, f Face) {
	gocv.Rectangle(img, f.Box, boxColor, 2)
	for _, seg := range Corners(f.Box) {
		gocv.Line(img, seg[0], seg[1], cornerColor, 3)
	}

	origin := TextOrigin(f.Box, 5)
	for i, text := range f.Lines() {
		pt := image.Pt(origin.X, origin.Y+i*lineHeight)
		gocv.PutTextWithParams(img, text, pt, gocv.FontHersheySimplex, fontScale, lineColors[i], 2, gocv.LineAA, false)
	}

	for _, p := range f.Pupils {
		gocv.Line(img, image.Pt(p.X-crossSize, p.Y), image.Pt(p.X+crossSize, p.Y), pupilColor, 2)
		gocv.Line(img, image.Pt(p.X, p.Y-crossSize), image.Pt(p.X, p.Y+crossSize), pupilColor, 2)
	}
}

// Banner draws a one-line summary along the bottom edge.
func Banner(img *gocv.Mat, frame int64, tracks int) {
	text := fmt.Sprintf("frame %d  faces %d", frame, tracks)
	gocv.PutText(img, text, image.Pt(10, img.Rows()-10), gocv.FontHersheySimplex, 0.5, color.RGBA{R: 200, G: 200, B: 200}, 1)
}
