package area

import (
	"github.com/osuushi/areamesh/geometry"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/pkg/errors"
)

// ImportWKT adds a sector for each polygon of a POLYGON or MULTIPOLYGON. The
// exterior ring becomes the sector's outer boundary and each interior ring a
// void-backed hole. Edges and vertices that coincide with ones already in the
// map are shared. The new sectors are returned in input order.
func (m *Map) ImportWKT(wkt string) ([]SectorID, error) {
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return nil, errors.Wrap(err, "parsing wkt")
	}

	var polygons []geom.Polygon
	switch g.Type() {
	case geom.TypePolygon:
		polygons = append(polygons, g.MustAsPolygon())
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		for i := 0; i < mp.NumPolygons(); i++ {
			polygons = append(polygons, mp.PolygonN(i))
		}
	default:
		return nil, errors.Errorf("cannot import %s as sectors", g.Type())
	}

	builder := newRingBuilder(m)
	var sectors []SectorID
	for i, polygon := range polygons {
		if polygon.IsEmpty() {
			continue
		}
		s := m.AddSector()
		sectors = append(sectors, s)
		if _, err := builder.addRing(s, ringPoints(polygon.ExteriorRing()), true); err != nil {
			return sectors, errors.Wrapf(err, "polygon %d exterior", i)
		}
		for j := 0; j < polygon.NumInteriorRings(); j++ {
			if _, err := builder.addRing(s, ringPoints(polygon.InteriorRingN(j)), false); err != nil {
				return sectors, errors.Wrapf(err, "polygon %d interior ring %d", i, j)
			}
		}
	}
	return sectors, nil
}

func ringPoints(ring geom.LineString) []geometry.Point {
	seq := ring.Coordinates()
	points := make([]geometry.Point, seq.Length())
	for i := range points {
		xy := seq.GetXY(i)
		points[i] = geometry.Point{X: xy.X, Y: xy.Y}
	}
	return points
}
