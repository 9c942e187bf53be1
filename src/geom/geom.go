package geom

import (
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Abs for any signed number.
func Abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Rect is an axis aligned box stored as left, top, right, bottom.
// Boxes are relative to an anchor unless stated otherwise.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// NewRect builds a Rect from an origin and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Mirror flips the box horizontally around the anchor.
func (r Rect) Mirror() Rect {
	r.Left, r.Right = -r.Right, -r.Left
	return r
}

// At places a relative box at pos. Boxes are flipped when facing left.
func (r Rect) At(pos mgl64.Vec2, facingRight bool) Rect {
	if !facingRight {
		r = r.Mirror()
	}
	return Rect{
		Left:   r.Left + pos.X(),
		Top:    r.Top + pos.Y(),
		Right:  r.Right + pos.X(),
		Bottom: r.Bottom + pos.Y(),
	}
}

// Overlaps reports whether two absolute boxes intersect. Touching edges count.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left <= o.Right &&
		o.Left <= r.Right &&
		r.Top <= o.Bottom &&
		o.Top <= r.Bottom
}
