package area

import (
	"github.com/osuushi/areamesh/geometry"
	"github.com/pkg/errors"
)

// ErrOverlap means two rings claimed the same side of one linedef.
var ErrOverlap = errors.New("rings overlap")

// ringBuilder adds closed rings of points to a map. Points at exactly the same
// position become one vertex and an edge shared by two rings becomes one
// two-sided linedef. Importers are built on it.
type ringBuilder struct {
	m        *Map
	vertexAt map[geometry.Point]VertexID
	edges    map[[2]VertexID]LinedefID
}

func newRingBuilder(m *Map) *ringBuilder {
	b := &ringBuilder{
		m:        m,
		vertexAt: map[geometry.Point]VertexID{},
		edges:    map[[2]VertexID]LinedefID{},
	}
	for _, id := range m.VertexIDs() {
		b.vertexAt[m.vertices[id].Point()] = id
	}
	for _, id := range m.LinedefIDs() {
		b.edges[edgeKey(m.linedefs[id].Vertices)] = id
	}
	return b
}

func edgeKey(vertices [2]VertexID) [2]VertexID {
	if vertices[0] > vertices[1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}
	return vertices
}

func (b *ringBuilder) vertex(p geometry.Point) VertexID {
	if id, ok := b.vertexAt[p]; ok {
		return id
	}
	id := b.m.AddVertex(p.X, p.Y)
	b.vertexAt[p] = id
	return id
}

// addRing puts sector s on the inside of an outer ring, or on the outside of
// a hole ring. The ring may be given in either winding and may repeat its
// first point at the end.
func (b *ringBuilder) addRing(s SectorID, points []geometry.Point, outer bool) ([]LinedefID, error) {
	points = tidyRing(points)
	if len(points) < 3 {
		return nil, errors.Errorf("ring has %d distinct points", len(points))
	}
	area := geometry.SignedArea(points)
	if area == 0 {
		return nil, errors.New("ring has no area")
	}
	if (area < 0) == outer {
		reversed := make([]geometry.Point, len(points))
		for i, p := range points {
			reversed[len(points)-1-i] = p
		}
		points = reversed
	}

	// With the winding fixed, s is always on the left of each edge.
	var ids []LinedefID
	defer b.m.RebuildAdjacency()
	for i, p := range points {
		start := b.vertex(p)
		end := b.vertex(points[geometry.CircularIndex(i+1, len(points))])
		vertices := [2]VertexID{start, end}
		if id, ok := b.edges[edgeKey(vertices)]; ok {
			l := b.m.linedefs[id]
			side := Front
			if l.Vertices[0] != start {
				side = Back
			}
			if l.Sectors[side] != NoSector {
				return ids, errors.Wrapf(ErrOverlap, "linedef %d already has sector %d on that side", id, l.Sectors[side])
			}
			if l.Sectors[1-side] == s {
				return ids, errors.Wrapf(ErrSameSector, "linedef %d", id)
			}
			l.Sectors[side] = s
			ids = append(ids, id)
			continue
		}
		b.m.linedefs = append(b.m.linedefs, &Linedef{
			Vertices: vertices,
			Sectors:  [2]SectorID{s, NoSector},
		})
		id := LinedefID(len(b.m.linedefs) - 1)
		b.edges[edgeKey(vertices)] = id
		ids = append(ids, id)
	}
	return ids, nil
}

// tidyRing drops repeated consecutive points, including a closing point equal
// to the first.
func tidyRing(points []geometry.Point) []geometry.Point {
	var result []geometry.Point
	for _, p := range points {
		if len(result) > 0 && result[len(result)-1] == p {
			continue
		}
		result = append(result, p)
	}
	for len(result) > 1 && result[len(result)-1] == result[0] {
		result = result[:len(result)-1]
	}
	return result
}

// AddPolygon adds a sector bounded by outer with the given holes. Like the
// importers, coincident vertices and edges are shared with what is already in
// the map. The sector is left in the map even when a ring fails.
func (m *Map) AddPolygon(outer []geometry.Point, holes ...[]geometry.Point) (SectorID, error) {
	builder := newRingBuilder(m)
	s := m.AddSector()
	if _, err := builder.addRing(s, outer, true); err != nil {
		return s, errors.Wrap(err, "outer ring")
	}
	for i, hole := range holes {
		if _, err := builder.addRing(s, hole, false); err != nil {
			return s, errors.Wrapf(err, "hole %d", i)
		}
	}
	return s, nil
}
