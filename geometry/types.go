package geometry

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Point is a position in map space. The map uses the mathematical convention:
// x grows to the right and y grows upward, so a positive signed area means a
// counterclockwise winding.
type Point struct {
	X float64
	Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Equal compares both coordinates within Tolerance.
func (p Point) Equal(other Point) bool {
	return Equal(p.X, other.X) && Equal(p.Y, other.Y)
}

func (p Point) R2() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Segment is a pair of points. It has no notion of which side is inside.
type Segment struct {
	Start Point
	End   Point
}

func (s Segment) Length() float64 {
	return Distance(s.Start, s.End)
}
