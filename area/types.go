package area

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/osuushi/areamesh/geometry"
	"github.com/pkg/errors"
)

// Handles are indices into the map's arenas. They stay valid across edits
// until Compact is called.
type (
	VertexID  int
	LinedefID int
	SectorID  int
)

const (
	NoVertex  VertexID  = -1
	NoLinedef LinedefID = -1
	// NoSector marks the void side of a linedef.
	NoSector SectorID = -1
)

// Linedef sides.
const (
	Front = 0
	Back  = 1
)

const DefaultBrightness = 255

type Vertex struct {
	X float64
	Y float64

	linedefs []LinedefID
}

func (v *Vertex) Point() geometry.Point {
	return geometry.Point{X: v.X, Y: v.Y}
}

// Linedefs touching this vertex, as of the last adjacency rebuild. The slice
// must not be modified.
func (v *Vertex) Linedefs() []LinedefID {
	return v.linedefs
}

// A Linedef joins two vertices. Its front (index 0) is the sector on the left
// of Vertices[0]→Vertices[1], its back (index 1) the one on the right.
type Linedef struct {
	Vertices [2]VertexID
	Sectors  [2]SectorID
}

// OtherVertex returns the endpoint that isn't v, or NoVertex when v isn't an
// endpoint.
func (l *Linedef) OtherVertex(v VertexID) VertexID {
	switch v {
	case l.Vertices[0]:
		return l.Vertices[1]
	case l.Vertices[1]:
		return l.Vertices[0]
	}
	return NoVertex
}

// OtherSector returns the sector on the opposite side from s.
func (l *Linedef) OtherSector(s SectorID) SectorID {
	switch s {
	case l.Sectors[Front]:
		return l.Sectors[Back]
	case l.Sectors[Back]:
		return l.Sectors[Front]
	}
	return NoSector
}

// SideOf returns Front or Back for the side holding s, or -1.
func (l *Linedef) SideOf(s SectorID) int {
	switch s {
	case l.Sectors[Front]:
		return Front
	case l.Sectors[Back]:
		return Back
	}
	return -1
}

// SharedVertex returns a vertex both linedefs use, or NoVertex.
func (l *Linedef) SharedVertex(other *Linedef) VertexID {
	for _, v := range l.Vertices {
		if other.Vertices[0] == v || other.Vertices[1] == v {
			return v
		}
	}
	return NoVertex
}

func (l *Linedef) HasVertex(v VertexID) bool {
	return l.Vertices[0] == v || l.Vertices[1] == v
}

type SectorType int

const (
	Normal SectorType = iota
	Blocking
	Bridge
	BridgeRail
)

var sectorTypeNames = []string{"normal", "blocking", "bridge", "bridge-rail"}

func (t SectorType) String() string {
	if t < 0 || int(t) >= len(sectorTypeNames) {
		return fmt.Sprintf("SectorType(%d)", int(t))
	}
	return sectorTypeNames[t]
}

func ParseSectorType(name string) (SectorType, error) {
	if name == "" {
		return Normal, nil
	}
	for i, n := range sectorTypeNames {
		if strings.EqualFold(n, name) {
			return SectorType(i), nil
		}
	}
	return Normal, errors.Errorf("unknown sector type %q", name)
}

type Sector struct {
	Z          float64
	Brightness uint8
	Type       SectorType
	Tag        string

	// Triangles from the last successful triangulation. Empty when the sector
	// has never been triangulated or the last attempt failed.
	Triangles []Triangle

	linedefs []LinedefID
}

// Linedefs with this sector on either side, as of the last adjacency rebuild.
// The slice must not be modified.
func (s *Sector) Linedefs() []LinedefID {
	return s.linedefs
}

type Triangle struct {
	Vertices [3]VertexID
	Sector   SectorID
}

// Bounds of the sector's vertices. Dangling vertex references are skipped.
func (m *Map) SectorBounds(id SectorID) r2.Rect {
	rect := r2.EmptyRect()
	s := m.Sector(id)
	if s == nil {
		return rect
	}
	for _, lID := range s.linedefs {
		l := m.Linedef(lID)
		for _, vID := range l.Vertices {
			if v := m.Vertex(vID); v != nil {
				rect = rect.AddPoint(v.Point().R2())
			}
		}
	}
	return rect
}
