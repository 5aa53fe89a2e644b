package viewport

import "gioui.org/f32"

// Rect is an axis-aligned rectangle in screen pixels.
// Min is inclusive, Max is exclusive.
type Rect struct {
	Min f32.Point
	Max f32.Point
}

// RectFromMinSize builds a rectangle from its top-left corner and size
func RectFromMinSize(pos, size f32.Point) Rect {
	return Rect{Min: pos, Max: pos.Add(size)}
}

// RectFromSize builds a rectangle at the origin
func RectFromSize(size f32.Point) Rect {
	return Rect{Max: size}
}

func (r Rect) Size() f32.Point {
	return r.Max.Sub(r.Min)
}

func (r Rect) Center() f32.Point {
	return f32.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p f32.Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Empty reports whether r has no area
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Expand grows r by d on every side
func (r Rect) Expand(d float32) Rect {
	return Rect{
		Min: f32.Pt(r.Min.X-d, r.Min.Y-d),
		Max: f32.Pt(r.Max.X+d, r.Max.Y+d),
	}
}

// mul multiplies two vectors component-wise
func mul(a, b f32.Point) f32.Point {
	return f32.Pt(a.X*b.X, a.Y*b.Y)
}

// div divides two vectors component-wise
func div(a, b f32.Point) f32.Point {
	return f32.Pt(a.X/b.X, a.Y/b.Y)
}
