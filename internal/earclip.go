package internal

import (
	"github.com/osuushi/areamesh/geometry"
)

// EarClip triangulates a counterclockwise polygon with no holes (bridged
// holes are fine). The first ear in polygon order is clipped each round and
// every vertex is classified again, until three vertices remain. All triangles
// come out counterclockwise.
func EarClip(poly Polygon) []*Triangle {
	points := append([]*Point(nil), poly.Points...)
	triangles := make([]*Triangle, 0, len(points))

	for len(points) > 3 {
		ear := firstEar(points)
		if ear < 0 {
			fatalf(NoEars, "no ears left among %d vertices", len(points))
		}
		n := len(points)
		triangles = append(triangles, &Triangle{
			A: points[geometry.CircularIndex(ear-1, n)],
			B: points[ear],
			C: points[geometry.CircularIndex(ear+1, n)],
		})
		points = append(points[:ear], points[ear+1:]...)
	}

	if len(points) == 3 {
		last := &Triangle{A: points[0], B: points[1], C: points[2]}
		if last.SignedArea() < 0 {
			last.A, last.B = last.B, last.A
		}
		triangles = append(triangles, last)
	}
	return triangles
}

// IsConvex tells whether the polygon turns left at vertex i. Straight runs
// count as concave.
func IsConvex(points []*Point, i int) bool {
	n := len(points)
	prev := points[geometry.CircularIndex(i-1, n)]
	next := points[geometry.CircularIndex(i+1, n)]
	return geometry.IsLeftTurn(prev.Point, points[i].Point, next.Point)
}

// Classify splits the vertex indices into convex and concave ones.
func Classify(points []*Point) (convex, concave []int) {
	for i := range points {
		if IsConvex(points, i) {
			convex = append(convex, i)
		} else {
			concave = append(concave, i)
		}
	}
	return convex, concave
}

// IsEar tells whether convex vertex i can be clipped: no concave vertex lies in
// or on the triangle it forms with its neighbors. Vertices that are one of the
// triangle's corners, bridge duplicates included, don't count.
func IsEar(points []*Point, concave []int, i int) bool {
	n := len(points)
	prev := points[geometry.CircularIndex(i-1, n)]
	cur := points[i]
	next := points[geometry.CircularIndex(i+1, n)]
	for _, c := range concave {
		p := points[c]
		if p == prev || p == cur || p == next {
			continue
		}
		if geometry.IsPointInTriangle(p.Point, prev.Point, cur.Point, next.Point, true) {
			return false
		}
	}
	return true
}

func firstEar(points []*Point) int {
	convex, concave := Classify(points)
	for _, i := range convex {
		if IsEar(points, concave, i) {
			return i
		}
	}
	return -1
}
