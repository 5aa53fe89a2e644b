package canvas

import (
	"fmt"
	"image/color"

	"gioui.org/f32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/OpenTraceLab/OpenTraceView/pkg/viewport"
)

// Readout styling
const (
	ReadoutSize   = 12
	ReadoutRadius = 4
)

var (
	readoutOffset  = f32.Pt(12, -8)
	readoutPadding = f32.Pt(6, 4)

	ReadoutBackground = color.NRGBA{A: 180}
	ReadoutForeground = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Readout is the pixel-coordinate label drawn next to the cursor
type Readout struct {
	Pixel f32.Point // image-space position under the pointer
	Text  string
	Panel viewport.Rect
	// TextPos is the top-left corner of the text inside Panel
	TextPos f32.Point
}

// FormatPixel renders an image-space position with no decimals
func FormatPixel(p f32.Point) string {
	return fmt.Sprintf("x: %.0f, y: %.0f", p.X, p.Y)
}

// NewReadout lays out the readout for pointer, which must lie inside
// imageRect. The panel sits above and to the right of the pointer.
func NewReadout(pointer f32.Point, imageRect viewport.Rect, imageSize f32.Point, tm TextMeasurer) Readout {
	uv := pointer.Sub(imageRect.Min)
	size := imageRect.Size()
	uv = f32.Pt(uv.X/size.X, uv.Y/size.Y)
	px := f32.Pt(uv.X*imageSize.X, uv.Y*imageSize.Y)

	text := FormatPixel(px)
	textSize := tm.Measure(text, ReadoutSize)

	pos := pointer.Add(f32.Pt(readoutOffset.X, readoutOffset.Y-textSize.Y))
	panel := viewport.RectFromMinSize(pos, textSize.Add(readoutPadding.Mul(2)))

	return Readout{
		Pixel:   px,
		Text:    text,
		Panel:   panel,
		TextPos: panel.Min.Add(readoutPadding),
	}
}

// Commands returns the panel and text draw calls
func (r Readout) Commands() []Command {
	return []Command{
		FillRRect{Rect: r.Panel, Radius: ReadoutRadius, Color: ReadoutBackground},
		Text{Pos: r.TextPos, Text: r.Text, Size: ReadoutSize, Color: ReadoutForeground, Monospace: true},
	}
}

// FixedMeasurer measures text with the 7x13 fixed bitmap face, scaled
// to the requested pixel size. It needs no font loading and serves
// headless rendering.
type FixedMeasurer struct{}

func (FixedMeasurer) Measure(text string, sizePx float32) f32.Point {
	face := basicfont.Face7x13
	k := sizePx / float32(face.Height)
	adv := font.MeasureString(face, text)
	return f32.Pt(float32(adv.Ceil())*k, sizePx)
}
