// Package viewport maps between screen space and image space for a single
// image shown inside a pannable, zoomable container.
package viewport

import (
	"math"

	"gioui.org/f32"
)

// NoScroll is the scroll delta that ZoomAtPoint treats as "no scroll this
// frame". Input sources that can tell the two apart should skip the call
// instead of relying on this value.
const NoScroll float32 = 1.0

// zoomSensitivity converts scroll points into an exponent for the zoom factor
const zoomSensitivity = 0.001

// Bounds limits the interactive zoom range
type Bounds struct {
	MinScale float32
	MaxScale float32
}

// Clamp limits scale to the bounds
func (b Bounds) Clamp(scale float32) float32 {
	if scale < b.MinScale {
		return b.MinScale
	}
	if scale > b.MaxScale {
		return b.MaxScale
	}
	return scale
}

// Transform is the viewport state for one loaded image.
//
// The image is drawn centred in its container, scaled by Scale and then
// shifted by Offset. A Transform is created uninitialised and becomes
// initialised on its first successful Fit; a new image gets a new Transform.
type Transform struct {
	scale       float32
	offset      f32.Point
	bounds      Bounds
	initialized bool
}

// NewTransform creates an uninitialised transform with the given zoom bounds
func NewTransform(b Bounds) *Transform {
	return &Transform{bounds: b}
}

func (t *Transform) Scale() float32 {
	return t.scale
}

func (t *Transform) Offset() f32.Point {
	return t.offset
}

func (t *Transform) Bounds() Bounds {
	return t.bounds
}

// Initialized reports whether the transform has been fitted at least once
func (t *Transform) Initialized() bool {
	return t.initialized
}

// Fit scales the image to lie entirely inside the container and removes any
// pan. The result is deliberately not clamped to the zoom bounds.
// Non-positive sizes leave the transform untouched.
func (t *Transform) Fit(imageSize, containerSize f32.Point) {
	if imageSize.X <= 0 || imageSize.Y <= 0 || containerSize.X <= 0 || containerSize.Y <= 0 {
		return
	}

	sx := containerSize.X / imageSize.X
	sy := containerSize.Y / imageSize.Y
	t.scale = min(sx, sy)
	t.offset = f32.Point{}
	t.initialized = true
}

// Reset restores the fitted view
func (t *Transform) Reset(imageSize, containerSize f32.Point) {
	t.Fit(imageSize, containerSize)
}

// Pan shifts the image by a screen-space delta. Panning is unbounded.
func (t *Transform) Pan(delta f32.Point) {
	t.offset = t.offset.Add(delta)
}

// ZoomAtPoint zooms by an exponential function of scrollDeltaY, keeping the
// image point under pointer fixed on screen. Positive deltas zoom in.
// The offset is solved against the re-centred image position; adding the
// raw position change instead would drift by half the size change.
func (t *Transform) ZoomAtPoint(scrollDeltaY float32, hovered bool, container Rect, imageSize, pointer f32.Point) {
	if scrollDeltaY == NoScroll || !hovered {
		return
	}
	if !t.initialized || imageSize.X <= 0 || imageSize.Y <= 0 {
		return
	}

	factor := float32(math.Exp(float64(scrollDeltaY) * zoomSensitivity))
	oldScale := t.scale
	newScale := t.bounds.Clamp(oldScale * factor)

	// Top-left of the image before the zoom
	oldSize := imageSize.Mul(oldScale)
	imgPos := container.Center().Sub(oldSize.Div(2)).Add(t.offset)

	// Pointer position relative to the image, 0..1 when inside it
	rel := div(pointer.Sub(imgPos), oldSize)

	// Place the same relative point back under the pointer
	newSize := imageSize.Mul(newScale)
	newImgPos := pointer.Sub(mul(rel, newSize))

	// Re-centring at the new size already moves the image by half the size
	// change, so the offset is solved against the new centred position.
	t.offset = newImgPos.Sub(container.Center().Sub(newSize.Div(2)))
	t.scale = newScale
}

// ImageRect returns the screen rectangle the image occupies in container
func (t *Transform) ImageRect(container Rect, imageSize f32.Point) Rect {
	size := imageSize.Mul(t.scale)
	pos := container.Center().Sub(size.Div(2)).Add(t.offset)
	return RectFromMinSize(pos, size)
}

// ScreenToImage converts a screen position to image pixel coordinates.
// ok is false when the position falls outside the image.
func (t *Transform) ScreenToImage(container Rect, imageSize, pos f32.Point) (px f32.Point, ok bool) {
	r := t.ImageRect(container, imageSize)
	if r.Empty() || !r.Contains(pos) {
		return f32.Point{}, false
	}
	uv := div(pos.Sub(r.Min), r.Size())
	return mul(uv, imageSize), true
}
