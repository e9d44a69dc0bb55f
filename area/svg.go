package area

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/osuushi/areamesh/geometry"
	"github.com/pkg/errors"
)

// ImportSVG builds a map from every <polygon> element of an SVG document. Each
// polygon becomes a sector. Polygons that touch along an edge share a two-sided
// linedef, and a polygon lying inside another becomes a hole in it, so the
// inner polygon's outside is the outer polygon.
//
// Sector attributes come from optional data-z, data-brightness and data-type
// attributes. The element id becomes the sector tag. Coordinates are taken as
// they are, without flipping the SVG y axis.
func ImportSVG(r io.Reader) (*Map, error) {
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parsing svg")
	}

	m := NewMap()
	builder := newRingBuilder(m)
	var rings [][]geometry.Point
	var ringSectors []SectorID
	for i, el := range root.FindAll("polygon") {
		points, err := parseSVGPoints(el.Attributes["points"])
		if err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
		s := m.AddSector()
		if err := applySVGAttributes(m.sectors[s], el.Attributes); err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
		if _, err := builder.addRing(s, points, true); err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
		rings = append(rings, tidyRing(points))
		ringSectors = append(ringSectors, s)
	}

	for i, ring := range rings {
		container := smallestContainer(rings, i)
		if container < 0 {
			continue
		}
		inner, outer := ringSectors[i], ringSectors[container]
		for _, lID := range m.sectors[inner].linedefs {
			l := m.linedefs[lID]
			if side := l.SideOf(NoSector); side >= 0 && onRing(ring, m, l) {
				l.Sectors[side] = outer
			}
		}
	}
	m.RebuildAdjacency()
	return m, nil
}

func applySVGAttributes(s *Sector, attributes map[string]string) error {
	s.Tag = attributes["id"]
	if z, ok := attributes["data-z"]; ok {
		value, err := strconv.ParseFloat(z, 64)
		if err != nil {
			return errors.Wrap(err, "data-z")
		}
		s.Z = value
	}
	if brightness, ok := attributes["data-brightness"]; ok {
		value, err := strconv.ParseUint(brightness, 10, 8)
		if err != nil {
			return errors.Wrap(err, "data-brightness")
		}
		s.Brightness = uint8(value)
	}
	sectorType, err := ParseSectorType(attributes["data-type"])
	if err != nil {
		return err
	}
	s.Type = sectorType
	return nil
}

// parseSVGPoints accepts both "x,y x,y" and "x y x y".
func parseSVGPoints(attribute string) ([]geometry.Point, error) {
	fields := strings.Fields(strings.ReplaceAll(attribute, ",", " "))
	if len(fields)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates in %q", attribute)
	}
	points := make([]geometry.Point, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid x value %q", fields[i])
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid y value %q", fields[i+1])
		}
		points = append(points, geometry.Point{X: x, Y: y})
	}
	return points, nil
}

// smallestContainer finds the ring with the least area that holds every point
// of rings[i], or -1.
func smallestContainer(rings [][]geometry.Point, i int) int {
	area := math.Abs(geometry.SignedArea(rings[i]))
	type candidate struct {
		index int
		area  float64
	}
	var candidates []candidate
	for j, ring := range rings {
		if j == i {
			continue
		}
		containerArea := math.Abs(geometry.SignedArea(ring))
		if containerArea <= area || !ringInside(rings[i], ring) {
			continue
		}
		candidates = append(candidates, candidate{j, containerArea})
	}
	if len(candidates) == 0 {
		return -1
	}
	sort.SliceStable(candidates, func(a, b int) bool { return candidates[a].area < candidates[b].area })
	return candidates[0].index
}

func ringInside(inner, outer []geometry.Point) bool {
	strictlyInside := false
	for _, p := range inner {
		if geometry.IsPointOnBoundary(outer, p) {
			continue
		}
		if !geometry.ContainsPointByEvenOdd(outer, p) {
			return false
		}
		strictlyInside = true
	}
	return strictlyInside
}

func onRing(ring []geometry.Point, m *Map, l *Linedef) bool {
	for _, vID := range l.Vertices {
		p, ok := m.Point(vID)
		if !ok || !geometry.IsPointOnBoundary(ring, p) {
			return false
		}
	}
	return true
}
