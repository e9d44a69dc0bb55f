package area

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// ExportGeoJSON writes one MultiPolygon feature per triangulated sector, one
// polygon per triangle. Sectors without triangles are left out.
func (m *Map) ExportGeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, id := range m.SectorIDs() {
		s := m.sectors[id]
		if len(s.Triangles) == 0 {
			continue
		}
		rings := make([][][][]float64, 0, len(s.Triangles))
		for _, t := range s.Triangles {
			a, b, c, ok := m.Corners(t)
			if !ok {
				return nil, errors.Wrapf(ErrNoSuchVertex, "sector %d has a triangle with a removed vertex", id)
			}
			ring := [][]float64{{a.X, a.Y}, {b.X, b.Y}, {c.X, c.Y}, {a.X, a.Y}}
			rings = append(rings, [][][]float64{ring})
		}
		feature := geojson.NewMultiPolygonFeature(rings...)
		feature.SetProperty("sector", int(id))
		feature.SetProperty("z", s.Z)
		feature.SetProperty("brightness", int(s.Brightness))
		feature.SetProperty("type", s.Type.String())
		if s.Tag != "" {
			feature.SetProperty("tag", s.Tag)
		}
		fc.AddFeature(feature)
	}
	data, err := fc.MarshalJSON()
	return data, errors.Wrap(err, "encoding geojson")
}
