package canvas

import (
	"image/color"

	"gioui.org/f32"

	"github.com/OpenTraceLab/OpenTraceView/pkg/viewport"
)

// Command is a single 2D draw call produced by Render.
// Commands are emitted in painter's order.
type Command interface {
	command()
}

// Text draws a single line of text with its top-left corner at Pos.
// A zero Color means the sink's default foreground.
type Text struct {
	Pos       f32.Point
	Text      string
	Size      float32 // pixels
	Color     color.NRGBA
	Monospace bool
}

// StrokeRRect outlines a rounded rectangle. When Outside is set the stroke
// lies entirely outside Rect instead of being centred on its edge.
type StrokeRRect struct {
	Rect    viewport.Rect
	Radius  float32
	Width   float32
	Color   color.NRGBA
	Outside bool
}

// Outer returns the rectangle the stroke's centre line follows
func (s StrokeRRect) Outer() (rect viewport.Rect, radius float32) {
	if !s.Outside {
		return s.Rect, s.Radius
	}
	return s.Rect.Expand(s.Width / 2), s.Radius + s.Width/2
}

// FillRRect fills a rounded rectangle
type FillRRect struct {
	Rect   viewport.Rect
	Radius float32
	Color  color.NRGBA
}

// Image draws the UV sub-rectangle of a texture into Rect
type Image struct {
	Texture Texture
	Rect    viewport.Rect
	UV      viewport.Rect
	Filter  Filter
}

func (Text) command()        {}
func (StrokeRRect) command() {}
func (FillRRect) command()   {}
func (Image) command()       {}

// FullUV covers the whole texture
var FullUV = viewport.Rect{Max: f32.Pt(1, 1)}
