package ui

import (
	"math"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"

	"github.com/OpenTraceLab/OpenTraceView/pkg/canvas"
)

// pointerTracker turns Gio pointer events over the canvas area into the
// per-frame canvas input
type pointerTracker struct {
	hovered  bool
	pos      f32.Point
	hasPos   bool
	dragging bool
	last     f32.Point

	click gesture.Click
}

var scrollRange = pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32}

// collect drains this frame's events. wheelGain converts Gio scroll
// distance to zoom scroll points; Gio reports scrolling down as positive Y.
func (p *pointerTracker) collect(gtx layout.Context, wheelGain float32) canvas.Input {
	var in canvas.Input
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  p,
			Kinds:   pointer.Enter | pointer.Leave | pointer.Move | pointer.Press | pointer.Release | pointer.Drag | pointer.Scroll | pointer.Cancel,
			ScrollY: scrollRange,
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			p.handle(pe, &in, wheelGain)
		}
	}
	for {
		ev, ok := p.click.Update(gtx.Source)
		if !ok {
			break
		}
		if ev.Kind == gesture.KindClick && ev.NumClicks == 2 {
			in.DoubleClicked = true
		}
	}
	p.finish(&in)
	return in
}

func (p *pointerTracker) handle(e pointer.Event, in *canvas.Input, wheelGain float32) {
	switch e.Kind {
	case pointer.Enter, pointer.Move:
		p.hovered = true
		p.setPos(e.Position)
	case pointer.Leave:
		p.hovered = false
	case pointer.Press:
		p.setPos(e.Position)
		if e.Buttons.Contain(pointer.ButtonPrimary) {
			p.dragging = true
			p.last = e.Position
		}
	case pointer.Drag:
		p.setPos(e.Position)
		if p.dragging {
			in.Dragged = true
			in.DragDelta = in.DragDelta.Add(e.Position.Sub(p.last))
			p.last = e.Position
		}
	case pointer.Release, pointer.Cancel:
		p.dragging = false
	case pointer.Scroll:
		p.hovered = true
		p.setPos(e.Position)
		in.Scrolled = true
		in.ScrollY -= e.Scroll.Y * wheelGain
	}
}

func (p *pointerTracker) setPos(pos f32.Point) {
	p.pos = pos
	p.hasPos = true
}

func (p *pointerTracker) finish(in *canvas.Input) {
	in.Hovered = p.hovered
	in.Pointer = p.pos
	in.HasPointer = p.hasPos
}

// add registers the tracker for input inside the current clip area
func (p *pointerTracker) add(gtx layout.Context) {
	event.Op(gtx.Ops, p)
	p.click.Add(gtx.Ops)
	if p.dragging {
		pointer.CursorGrabbing.Add(gtx.Ops)
	} else if p.hovered {
		pointer.CursorGrab.Add(gtx.Ops)
	}
}
