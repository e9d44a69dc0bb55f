package area

import (
	"github.com/osuushi/areamesh/geometry"
)

// Map owns every vertex, linedef and sector of an area. Removed entities leave
// a nil tombstone in their arena so that handles held elsewhere stay valid.
type Map struct {
	vertices []*Vertex
	linedefs []*Linedef
	sectors  []*Sector
}

func NewMap() *Map {
	return &Map{}
}

// Vertex returns nil for removed or out of range handles. The same goes for
// Linedef and Sector.
func (m *Map) Vertex(id VertexID) *Vertex {
	if id < 0 || int(id) >= len(m.vertices) {
		return nil
	}
	return m.vertices[id]
}

func (m *Map) Linedef(id LinedefID) *Linedef {
	if id < 0 || int(id) >= len(m.linedefs) {
		return nil
	}
	return m.linedefs[id]
}

func (m *Map) Sector(id SectorID) *Sector {
	if id < 0 || int(id) >= len(m.sectors) {
		return nil
	}
	return m.sectors[id]
}

// Point is a shorthand for looking up a vertex position.
func (m *Map) Point(id VertexID) (geometry.Point, bool) {
	v := m.Vertex(id)
	if v == nil {
		return geometry.Point{}, false
	}
	return v.Point(), true
}

// Corners resolves a triangle's vertex handles to positions.
func (m *Map) Corners(t Triangle) (a, b, c geometry.Point, ok bool) {
	var okA, okB, okC bool
	a, okA = m.Point(t.Vertices[0])
	b, okB = m.Point(t.Vertices[1])
	c, okC = m.Point(t.Vertices[2])
	return a, b, c, okA && okB && okC
}

// Live handles in storage order.

func (m *Map) VertexIDs() []VertexID {
	ids := make([]VertexID, 0, len(m.vertices))
	for i, v := range m.vertices {
		if v != nil {
			ids = append(ids, VertexID(i))
		}
	}
	return ids
}

func (m *Map) LinedefIDs() []LinedefID {
	ids := make([]LinedefID, 0, len(m.linedefs))
	for i, l := range m.linedefs {
		if l != nil {
			ids = append(ids, LinedefID(i))
		}
	}
	return ids
}

func (m *Map) SectorIDs() []SectorID {
	ids := make([]SectorID, 0, len(m.sectors))
	for i, s := range m.sectors {
		if s != nil {
			ids = append(ids, SectorID(i))
		}
	}
	return ids
}

func (m *Map) NumVertices() int { return len(m.VertexIDs()) }
func (m *Map) NumLinedefs() int { return len(m.LinedefIDs()) }
func (m *Map) NumSectors() int  { return len(m.SectorIDs()) }

// RebuildAdjacency derives every vertex's and sector's linedef list from the
// linedefs. It is the only place adjacency is written, apart from
// ConnectVertex and ConnectSector which do the same for a single node.
// Linedefs with dangling references contribute to whichever endpoints and
// sides do exist.
func (m *Map) RebuildAdjacency() {
	for _, v := range m.vertices {
		if v != nil {
			v.linedefs = nil
		}
	}
	for _, s := range m.sectors {
		if s != nil {
			s.linedefs = nil
		}
	}
	for i, l := range m.linedefs {
		if l == nil {
			continue
		}
		id := LinedefID(i)
		for j, vID := range l.Vertices {
			if j == 1 && vID == l.Vertices[0] {
				continue
			}
			if v := m.Vertex(vID); v != nil {
				v.linedefs = append(v.linedefs, id)
			}
		}
		for j, sID := range l.Sectors {
			if j == 1 && sID == l.Sectors[0] {
				continue
			}
			if s := m.Sector(sID); s != nil {
				s.linedefs = append(s.linedefs, id)
			}
		}
	}
}

// ConnectVertex rebuilds one vertex's linedef list by scanning all linedefs.
func (m *Map) ConnectVertex(id VertexID) {
	v := m.Vertex(id)
	if v == nil {
		return
	}
	v.linedefs = m.linedefsWithVertex(id)
}

// ConnectSector rebuilds one sector's linedef list by scanning all linedefs.
func (m *Map) ConnectSector(id SectorID) {
	s := m.Sector(id)
	if s == nil {
		return
	}
	s.linedefs = m.linedefsWithSector(id)
}

func (m *Map) linedefsWithVertex(id VertexID) []LinedefID {
	var result []LinedefID
	for i, l := range m.linedefs {
		if l != nil && l.HasVertex(id) {
			result = append(result, LinedefID(i))
		}
	}
	return result
}

func (m *Map) linedefsWithSector(id SectorID) []LinedefID {
	var result []LinedefID
	for i, l := range m.linedefs {
		if l != nil && (l.Sectors[Front] == id || l.Sectors[Back] == id) {
			result = append(result, LinedefID(i))
		}
	}
	return result
}

// Clone makes a deep copy, tombstones included, so handles mean the same thing
// in both maps.
func (m *Map) Clone() *Map {
	clone := &Map{
		vertices: make([]*Vertex, len(m.vertices)),
		linedefs: make([]*Linedef, len(m.linedefs)),
		sectors:  make([]*Sector, len(m.sectors)),
	}
	for i, v := range m.vertices {
		if v != nil {
			clone.vertices[i] = &Vertex{X: v.X, Y: v.Y}
		}
	}
	for i, l := range m.linedefs {
		if l != nil {
			lCopy := *l
			clone.linedefs[i] = &lCopy
		}
	}
	for i, s := range m.sectors {
		if s != nil {
			sCopy := *s
			sCopy.linedefs = nil
			sCopy.Triangles = append([]Triangle(nil), s.Triangles...)
			clone.sectors[i] = &sCopy
		}
	}
	clone.RebuildAdjacency()
	return clone
}

// Compact drops tombstones and renumbers every handle stored in the map,
// triangles included. Handles held outside the map are invalid afterwards;
// the returned tables map old handles to new ones (-1 for removed entities).
func (m *Map) Compact() (vertexMap []VertexID, linedefMap []LinedefID, sectorMap []SectorID) {
	vertexMap = make([]VertexID, len(m.vertices))
	var vertices []*Vertex
	for i, v := range m.vertices {
		vertexMap[i] = NoVertex
		if v != nil {
			vertexMap[i] = VertexID(len(vertices))
			vertices = append(vertices, v)
		}
	}

	sectorMap = make([]SectorID, len(m.sectors))
	var sectors []*Sector
	for i, s := range m.sectors {
		sectorMap[i] = NoSector
		if s != nil {
			sectorMap[i] = SectorID(len(sectors))
			sectors = append(sectors, s)
		}
	}

	remapVertex := func(id VertexID) VertexID {
		if id < 0 || int(id) >= len(vertexMap) {
			return NoVertex
		}
		return vertexMap[id]
	}
	remapSector := func(id SectorID) SectorID {
		if id < 0 || int(id) >= len(sectorMap) {
			return NoSector
		}
		return sectorMap[id]
	}

	linedefMap = make([]LinedefID, len(m.linedefs))
	var linedefs []*Linedef
	for i, l := range m.linedefs {
		linedefMap[i] = NoLinedef
		if l == nil {
			continue
		}
		linedefMap[i] = LinedefID(len(linedefs))
		for j := range l.Vertices {
			l.Vertices[j] = remapVertex(l.Vertices[j])
		}
		for j := range l.Sectors {
			l.Sectors[j] = remapSector(l.Sectors[j])
		}
		linedefs = append(linedefs, l)
	}

	for newID, s := range sectors {
		for i := range s.Triangles {
			t := &s.Triangles[i]
			t.Sector = SectorID(newID)
			for j := range t.Vertices {
				t.Vertices[j] = remapVertex(t.Vertices[j])
			}
		}
	}

	m.vertices, m.linedefs, m.sectors = vertices, linedefs, sectors
	m.RebuildAdjacency()
	return vertexMap, linedefMap, sectorMap
}
