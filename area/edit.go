package area

import (
	"sort"

	"github.com/osuushi/areamesh/geometry"
	"github.com/pkg/errors"
)

var (
	ErrNoSuchVertex      = errors.New("no such vertex")
	ErrNoSuchLinedef     = errors.New("no such linedef")
	ErrNoSuchSector      = errors.New("no such sector")
	ErrDegenerateLinedef = errors.New("linedef starts and ends at the same vertex")
	ErrSameSector        = errors.New("linedef has the same sector on both sides")
	ErrNotNeighbors      = errors.New("sectors do not share a linedef")
)

// Every edit below leaves adjacency rebuilt. Edits that change geometry return
// the sectors whose triangles are now stale, sorted and without NoSector.

func (m *Map) AddVertex(x, y float64) VertexID {
	m.vertices = append(m.vertices, &Vertex{X: x, Y: y})
	return VertexID(len(m.vertices) - 1)
}

func (m *Map) MoveVertex(id VertexID, x, y float64) ([]SectorID, error) {
	v := m.Vertex(id)
	if v == nil {
		return nil, errors.Wrapf(ErrNoSuchVertex, "moving vertex %d", id)
	}
	v.X, v.Y = x, y
	return m.AffectedSectors(id), nil
}

// AddSector creates a sector with default attributes and no linedefs.
func (m *Map) AddSector() SectorID {
	m.sectors = append(m.sectors, &Sector{Brightness: DefaultBrightness})
	return SectorID(len(m.sectors) - 1)
}

func (m *Map) AddLinedef(a, b VertexID, front, back SectorID) (LinedefID, error) {
	if m.Vertex(a) == nil {
		return NoLinedef, errors.Wrapf(ErrNoSuchVertex, "linedef start %d", a)
	}
	if m.Vertex(b) == nil {
		return NoLinedef, errors.Wrapf(ErrNoSuchVertex, "linedef end %d", b)
	}
	if a == b {
		return NoLinedef, errors.Wrapf(ErrDegenerateLinedef, "vertex %d", a)
	}
	if err := m.checkSides(front, back); err != nil {
		return NoLinedef, err
	}
	m.linedefs = append(m.linedefs, &Linedef{
		Vertices: [2]VertexID{a, b},
		Sectors:  [2]SectorID{front, back},
	})
	m.RebuildAdjacency()
	return LinedefID(len(m.linedefs) - 1), nil
}

func (m *Map) checkSides(front, back SectorID) error {
	if front == back {
		return errors.Wrapf(ErrSameSector, "sector %d", front)
	}
	for _, s := range []SectorID{front, back} {
		if s != NoSector && m.Sector(s) == nil {
			return errors.Wrapf(ErrNoSuchSector, "side sector %d", s)
		}
	}
	return nil
}

// RemoveLinedef leaves its vertices in place, even if they become orphans.
func (m *Map) RemoveLinedef(id LinedefID) ([]SectorID, error) {
	l := m.Linedef(id)
	if l == nil {
		return nil, errors.Wrapf(ErrNoSuchLinedef, "removing linedef %d", id)
	}
	affected := sectorSet{}
	affected.add(l.Sectors[:]...)
	m.linedefs[id] = nil
	m.RebuildAdjacency()
	return affected.sorted(m), nil
}

// RemoveVertex removes the vertex and every linedef touching it.
func (m *Map) RemoveVertex(id VertexID) ([]SectorID, error) {
	v := m.Vertex(id)
	if v == nil {
		return nil, errors.Wrapf(ErrNoSuchVertex, "removing vertex %d", id)
	}
	affected := sectorSet{}
	for _, lID := range v.linedefs {
		affected.add(m.linedefs[lID].Sectors[:]...)
		m.linedefs[lID] = nil
	}
	m.vertices[id] = nil
	m.RebuildAdjacency()
	return affected.sorted(m), nil
}

// RemoveSector turns every side it occupied into void. Linedefs left with void
// on both sides are removed.
func (m *Map) RemoveSector(id SectorID) ([]SectorID, error) {
	s := m.Sector(id)
	if s == nil {
		return nil, errors.Wrapf(ErrNoSuchSector, "removing sector %d", id)
	}
	affected := sectorSet{}
	for _, lID := range s.linedefs {
		l := m.linedefs[lID]
		affected.add(l.OtherSector(id))
		l.Sectors[l.SideOf(id)] = NoSector
		if l.Sectors[Front] == NoSector && l.Sectors[Back] == NoSector {
			m.linedefs[lID] = nil
		}
	}
	m.sectors[id] = nil
	m.RebuildAdjacency()
	return affected.sorted(m), nil
}

func (m *Map) SetSide(id LinedefID, side int, s SectorID) ([]SectorID, error) {
	l := m.Linedef(id)
	if l == nil {
		return nil, errors.Wrapf(ErrNoSuchLinedef, "setting side of linedef %d", id)
	}
	if side != Front && side != Back {
		return nil, errors.Errorf("invalid side %d", side)
	}
	sides := l.Sectors
	sides[side] = s
	if err := m.checkSides(sides[Front], sides[Back]); err != nil {
		return nil, errors.Wrapf(err, "linedef %d", id)
	}
	affected := sectorSet{}
	affected.add(l.Sectors[side], s)
	l.Sectors = sides
	m.RebuildAdjacency()
	return affected.sorted(m), nil
}

// TransferSector replaces from with to on whichever side of the linedef holds
// from.
func (m *Map) TransferSector(id LinedefID, from, to SectorID) ([]SectorID, error) {
	l := m.Linedef(id)
	if l == nil {
		return nil, errors.Wrapf(ErrNoSuchLinedef, "transferring linedef %d", id)
	}
	side := l.SideOf(from)
	if side < 0 {
		return nil, errors.Errorf("linedef %d does not border sector %d", id, from)
	}
	return m.SetSide(id, side, to)
}

// MergeVertices moves every linedef of from onto into, then deletes from.
// Linedefs joining the two collapse and are deleted. A linedef that ends up
// coincident with one of into's linedefs is folded into it, keeping the outer
// sector of each. Linedefs left with the same sector on both sides are deleted,
// as are vertices and sectors orphaned by all of this.
func (m *Map) MergeVertices(from, into VertexID) ([]SectorID, error) {
	if from == into {
		return nil, errors.Errorf("cannot merge vertex %d into itself", from)
	}
	vFrom, vInto := m.Vertex(from), m.Vertex(into)
	if vFrom == nil {
		return nil, errors.Wrapf(ErrNoSuchVertex, "merging vertex %d", from)
	}
	if vInto == nil {
		return nil, errors.Wrapf(ErrNoSuchVertex, "merging into vertex %d", into)
	}

	affected := sectorSet{}
	touched := []VertexID{into}
	for _, lID := range vInto.linedefs {
		affected.add(m.linedefs[lID].Sectors[:]...)
	}

	for _, lID := range append([]LinedefID(nil), vFrom.linedefs...) {
		l := m.linedefs[lID]
		affected.add(l.Sectors[:]...)
		other := l.OtherVertex(from)
		touched = append(touched, other)
		if other == into {
			m.linedefs[lID] = nil
			continue
		}

		merged := false
		for _, dID := range vInto.linedefs {
			d := m.linedefs[dID]
			if d == nil || d.OtherVertex(into) != other {
				continue
			}
			// Express l's sides in d's direction before folding.
			sides := l.Sectors
			lStartsAtOther := l.Vertices[0] == other
			dStartsAtOther := d.Vertices[0] == other
			if lStartsAtOther != dStartsAtOther {
				sides[Front], sides[Back] = sides[Back], sides[Front]
			}
			foldSides(d, sides)
			m.linedefs[lID] = nil
			merged = true
			break
		}
		if !merged {
			if l.Vertices[0] == from {
				l.Vertices[0] = into
			} else {
				l.Vertices[1] = into
			}
		}
	}
	m.vertices[from] = nil

	for i, l := range m.linedefs {
		if l != nil && l.Sectors[Front] == l.Sectors[Back] {
			m.linedefs[i] = nil
		}
	}
	m.RebuildAdjacency()
	m.removeOrphans(touched, affected.sorted(m))
	return affected.sorted(m), nil
}

// foldSides merges the sides of a linedef being deleted into a coincident one.
// The sector sandwiched between the two disappears.
func foldSides(d *Linedef, sides [2]SectorID) {
	switch {
	case sides[Back] == d.Sectors[Front]:
		d.Sectors[Front] = sides[Front]
	case sides[Front] == d.Sectors[Back]:
		d.Sectors[Back] = sides[Back]
	case sides[Front] == d.Sectors[Front]:
		d.Sectors[Front] = sides[Back]
	case sides[Back] == d.Sectors[Back]:
		d.Sectors[Back] = sides[Front]
	}
}

// SplitLinedef inserts a vertex at the point of the linedef closest to where.
// The original linedef keeps its start; a new linedef with the same sides runs
// from the new vertex to the old end.
func (m *Map) SplitLinedef(id LinedefID, where geometry.Point) (VertexID, LinedefID, error) {
	l := m.Linedef(id)
	if l == nil {
		return NoVertex, NoLinedef, errors.Wrapf(ErrNoSuchLinedef, "splitting linedef %d", id)
	}
	a, okA := m.Point(l.Vertices[0])
	b, okB := m.Point(l.Vertices[1])
	if !okA || !okB {
		return NoVertex, NoLinedef, errors.Wrapf(ErrNoSuchVertex, "splitting linedef %d", id)
	}
	p := geometry.ClosestPointOnSegment(where, a, b)
	if p.Equal(a) || p.Equal(b) {
		return NoVertex, NoLinedef, errors.Errorf("split point %v is on an endpoint of linedef %d", p, id)
	}

	v := m.AddVertex(p.X, p.Y)
	m.linedefs = append(m.linedefs, &Linedef{
		Vertices: [2]VertexID{v, l.Vertices[1]},
		Sectors:  l.Sectors,
	})
	l.Vertices[1] = v
	m.RebuildAdjacency()
	return v, LinedefID(len(m.linedefs) - 1), nil
}

// MergeSectors joins two neighboring sectors into whichever has the larger
// bounding box (the first on a tie). Linedefs between them are deleted; the
// rest of the absorbed sector's linedefs are handed to the survivor.
func (m *Map) MergeSectors(a, b SectorID) (SectorID, []SectorID, error) {
	sa, sb := m.Sector(a), m.Sector(b)
	if sa == nil || sb == nil || a == b {
		return NoSector, nil, errors.Wrapf(ErrNoSuchSector, "merging sectors %d and %d", a, b)
	}
	if !containsSector(m.Neighbors(a), b) {
		return NoSector, nil, errors.Wrapf(ErrNotNeighbors, "merging sectors %d and %d", a, b)
	}

	main, small := a, b
	if geometry.RectArea(m.SectorBounds(b)) > geometry.RectArea(m.SectorBounds(a)) {
		main, small = b, a
	}

	affected := sectorSet{}
	affected.add(main)
	var touched []VertexID
	for _, lID := range m.sectors[small].linedefs {
		l := m.linedefs[lID]
		other := l.OtherSector(small)
		affected.add(other)
		if other == main {
			touched = append(touched, l.Vertices[:]...)
			m.linedefs[lID] = nil
			continue
		}
		l.Sectors[l.SideOf(small)] = main
	}
	m.sectors[small] = nil
	m.RebuildAdjacency()
	m.removeOrphans(touched, nil)
	return main, affected.sorted(m), nil
}

// AffectedSectors lists every sector bordering a linedef of the given
// vertices.
func (m *Map) AffectedSectors(vertices ...VertexID) []SectorID {
	affected := sectorSet{}
	for _, vID := range vertices {
		v := m.Vertex(vID)
		if v == nil {
			continue
		}
		for _, lID := range v.linedefs {
			affected.add(m.linedefs[lID].Sectors[:]...)
		}
	}
	return affected.sorted(m)
}

// SectorsOf lists the sectors on either side of the given linedefs.
func (m *Map) SectorsOf(linedefs ...LinedefID) []SectorID {
	affected := sectorSet{}
	for _, lID := range linedefs {
		if l := m.Linedef(lID); l != nil {
			affected.add(l.Sectors[:]...)
		}
	}
	return affected.sorted(m)
}

// Neighbors are the sectors sharing at least one linedef with s. Void is not
// a neighbor.
func (m *Map) Neighbors(id SectorID) []SectorID {
	s := m.Sector(id)
	if s == nil {
		return nil
	}
	neighbors := sectorSet{}
	for _, lID := range s.linedefs {
		neighbors.add(m.linedefs[lID].OtherSector(id))
	}
	return neighbors.sorted(m)
}

type MergeCandidate struct {
	Vertex   VertexID
	Distance float64
}

// MergeCandidates finds vertices within radius of p, nearest first.
func (m *Map) MergeCandidates(p geometry.Point, radius float64) []MergeCandidate {
	var result []MergeCandidate
	for i, v := range m.vertices {
		if v == nil {
			continue
		}
		d := geometry.Distance(p, v.Point())
		if d <= radius {
			result = append(result, MergeCandidate{VertexID(i), d})
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Distance < result[j].Distance
	})
	return result
}

// RemoveOrphans deletes every vertex and sector that no linedef references.
func (m *Map) RemoveOrphans() ([]VertexID, []SectorID) {
	return m.removeOrphans(m.VertexIDs(), m.SectorIDs())
}

func (m *Map) removeOrphans(vertices []VertexID, sectors []SectorID) ([]VertexID, []SectorID) {
	var removedVertices []VertexID
	var removedSectors []SectorID
	for _, id := range vertices {
		if v := m.Vertex(id); v != nil && len(v.linedefs) == 0 {
			m.vertices[id] = nil
			removedVertices = append(removedVertices, id)
		}
	}
	for _, id := range sectors {
		if s := m.Sector(id); s != nil && len(s.linedefs) == 0 {
			m.sectors[id] = nil
			removedSectors = append(removedSectors, id)
		}
	}
	return removedVertices, removedSectors
}

type sectorSet map[SectorID]struct{}

func (set sectorSet) add(ids ...SectorID) {
	for _, id := range ids {
		if id != NoSector {
			set[id] = struct{}{}
		}
	}
}

// sorted drops sectors that no longer exist.
func (set sectorSet) sorted(m *Map) []SectorID {
	result := make([]SectorID, 0, len(set))
	for id := range set {
		if m.Sector(id) != nil {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func containsSector(ids []SectorID, id SectorID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
