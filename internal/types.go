package internal

import (
	"fmt"

	"github.com/osuushi/areamesh/area"
	"github.com/osuushi/areamesh/geometry"
)

// Note that all points involved with the triangulation are pointers, one per
// map vertex. This means they can be used as keys, and two entries of a
// polygon are the same vertex exactly when they are the same pointer.
type Point struct {
	geometry.Point
	ID area.VertexID
}

func (p *Point) String() string {
	return fmt.Sprintf("v%d%v", p.ID, p.Point)
}

type Polygon struct {
	Points []*Point
}

type PolygonList []Polygon

type Triangle struct {
	A, B, C *Point
}

func (t *Triangle) String() string {
	return fmt.Sprintf("[%v %v %v]", t.A, t.B, t.C)
}

func (t *Triangle) SignedArea() float64 {
	return geometry.TriangleSignedArea(t.A.Point, t.B.Point, t.C.Point)
}

// ForSector converts to the map's triangle representation.
func (t *Triangle) ForSector(s area.SectorID) area.Triangle {
	return area.Triangle{
		Vertices: [3]area.VertexID{t.A.ID, t.B.ID, t.C.ID},
		Sector:   s,
	}
}

type PointSet map[*Point]struct{}

func (s PointSet) Add(p *Point) {
	s[p] = struct{}{}
}

func (s PointSet) Has(p *Point) bool {
	_, ok := s[p]
	return ok
}

func (s PointSet) Equals(other PointSet) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Has(p) {
			return false
		}
	}
	return true
}
