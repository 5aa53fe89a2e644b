package ui

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	gfont "gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"

	"github.com/OpenTraceLab/OpenTraceView/pkg/canvas"
	"github.com/OpenTraceLab/OpenTraceView/pkg/viewport"
)

var monoFont = gfont.Font{Typeface: "Go Mono"}

// unbounded is the layout width used for single-line labels
const unbounded = 1 << 20

// Texture is a Gio image op plus the dimensions of the uploaded pixels
type Texture struct {
	op   paint.ImageOp
	size image.Point
}

func (t *Texture) Size() image.Point {
	return t.size
}

// uploader hands decoded pixels to the Gio GPU backend
type uploader struct{}

func (uploader) Upload(img *image.NRGBA, f canvas.Filter) canvas.Texture {
	iop := paint.NewImageOp(img)
	switch f {
	case canvas.FilterNearest:
		iop.Filter = paint.FilterNearest
	default:
		iop.Filter = paint.FilterLinear
	}
	return &Texture{op: iop, size: img.Bounds().Size()}
}

// shaperMeasurer measures text with a Gio shaper using the metric of the
// most recent frame
type shaperMeasurer struct {
	shaper *text.Shaper
	metric unit.Metric
}

func newShaperMeasurer(shaper *text.Shaper) *shaperMeasurer {
	return &shaperMeasurer{shaper: shaper}
}

func (m *shaperMeasurer) update(gtx layout.Context) {
	m.metric = gtx.Metric
}

func (m *shaperMeasurer) Measure(s string, sizePx float32) f32.Point {
	gtx := layout.Context{
		Ops:         new(op.Ops),
		Metric:      m.metric,
		Constraints: layout.Constraints{Max: image.Pt(unbounded, unbounded)},
	}
	lbl := widget.Label{MaxLines: 1}
	dims := lbl.Layout(gtx, m.shaper, monoFont, spFor(gtx.Metric, sizePx), s, op.CallOp{})
	return layout.FPt(dims.Size)
}

// painter executes canvas draw commands as Gio operations
type painter struct {
	shaper *text.Shaper
	mono   *text.Shaper
	fg     color.NRGBA
}

func newPainter(shaper *text.Shaper) *painter {
	p := &painter{shaper: shaper, mono: shaper, fg: color.NRGBA{A: 0xFF}}
	if faces := filterMonoFaces(); len(faces) > 0 {
		p.mono = text.NewShaper(text.WithCollection(faces), text.NoSystemFonts())
	}
	return p
}

// draw executes cmds and returns how many produced operations. Images with
// an empty destination or a foreign texture are skipped.
func (p *painter) draw(gtx layout.Context, cmds []canvas.Command) int {
	n := 0
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case canvas.StrokeRRect:
			r, radius := c.Outer()
			rr := clip.UniformRRect(toImageRect(r), round(radius))
			paint.FillShape(gtx.Ops, c.Color, clip.Stroke{Path: rr.Path(gtx.Ops), Width: c.Width}.Op())
			n++
		case canvas.FillRRect:
			paint.FillShape(gtx.Ops, c.Color, clip.UniformRRect(toImageRect(c.Rect), round(c.Radius)).Op(gtx.Ops))
			n++
		case canvas.Image:
			if tex, ok := c.Texture.(*Texture); ok && drawTexture(gtx, tex, c.Rect, c.UV) {
				n++
			}
		case canvas.Text:
			p.drawText(gtx, c)
			n++
		}
	}
	return n
}

// drawTexture maps the UV sub-rectangle of tex onto dst
func drawTexture(gtx layout.Context, tex *Texture, dst, uv viewport.Rect) bool {
	texSize := layout.FPt(tex.size)
	src := viewport.Rect{
		Min: f32.Pt(uv.Min.X*texSize.X, uv.Min.Y*texSize.Y),
		Max: f32.Pt(uv.Max.X*texSize.X, uv.Max.Y*texSize.Y),
	}
	if dst.Empty() || src.Empty() {
		return false
	}
	scale := f32.Pt(dst.Size().X/src.Size().X, dst.Size().Y/src.Size().Y)

	defer clip.Rect(toImageRect(dst)).Push(gtx.Ops).Pop()
	tr := f32.Affine2D{}.
		Offset(src.Min.Mul(-1)).
		Scale(f32.Point{}, scale).
		Offset(dst.Min)
	defer op.Affine(tr).Push(gtx.Ops).Pop()
	tex.op.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	return true
}

func (p *painter) drawText(gtx layout.Context, c canvas.Text) {
	col := c.Color
	if col == (color.NRGBA{}) {
		col = p.fg
	}
	shaper, fnt := p.shaper, gfont.Font{}
	if c.Monospace {
		shaper, fnt = p.mono, monoFont
	}

	defer op.Offset(image.Pt(round(c.Pos.X), round(c.Pos.Y))).Push(gtx.Ops).Pop()
	m := op.Record(gtx.Ops)
	paint.ColorOp{Color: col}.Add(gtx.Ops)
	material := m.Stop()

	gtx.Constraints = layout.Constraints{Max: image.Pt(unbounded, unbounded)}
	lbl := widget.Label{MaxLines: 1}
	lbl.Layout(gtx, shaper, fnt, spFor(gtx.Metric, c.Size), c.Text, material)
}

// spFor converts a pixel size to sp under metric
func spFor(metric unit.Metric, px float32) unit.Sp {
	if metric.PxPerSp <= 0 {
		return unit.Sp(px)
	}
	return unit.Sp(px / metric.PxPerSp)
}

func toImageRect(r viewport.Rect) image.Rectangle {
	return image.Rect(round(r.Min.X), round(r.Min.Y), round(r.Max.X), round(r.Max.Y))
}

func round(v float32) int {
	return int(math.Round(float64(v)))
}

func filterMonoFaces() []gfont.FontFace {
	var mono []gfont.FontFace
	for _, face := range gofont.Collection() {
		if face.Font.Typeface == gfont.Typeface("Go Mono") {
			mono = append(mono, face)
		}
	}
	return mono
}
