package camfusion

import (
	"image"
	"math"
)

// Machine epsilon for float64. Used by the degenerate-divide guards in the
// projection and the camera TTC estimator.
var epsFloat64 = math.Nextafter(1, 2) - 1

type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func NewRect(x, y, width, height float64) Rectangle {
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

func NewRectFrom(rect image.Rectangle) Rectangle {
	return Rectangle{
		X:      float64(rect.Min.X),
		Y:      float64(rect.Min.Y),
		Width:  float64(rect.Dx()),
		Height: float64(rect.Dy()),
	}
}

// Contains reports whether the point lies inside the rectangle. Bounds are
// half-open: the left/top edges belong to the rectangle, the right/bottom
// edges do not.
func (r Rectangle) Contains(pt Point) bool {
	return pt.X >= r.X && pt.X < r.X+r.Width &&
		pt.Y >= r.Y && pt.Y < r.Y+r.Height
}

// Shrink returns the rectangle scaled by (1-factor) about its own center.
// A factor of 0 is the identity; factor must be less than 1.
func (r Rectangle) Shrink(factor float64) Rectangle {
	return Rectangle{
		X:      r.X + factor*r.Width/2.0,
		Y:      r.Y + factor*r.Height/2.0,
		Width:  r.Width * (1 - factor),
		Height: r.Height * (1 - factor),
	}
}

type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

func NewPointFrom(point image.Point) Point {
	return Point{
		X: float64(point.X),
		Y: float64(point.Y),
	}
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
