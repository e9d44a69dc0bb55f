package area

import (
	"fmt"
	"sort"
)

type ProblemKind int

const (
	DanglingVertex ProblemKind = iota + 1
	DanglingSector
	DegenerateLinedef
	SameSectorBothSides
	StaleAdjacency
	OrphanVertex
	SectorListMismatch
)

func (k ProblemKind) String() string {
	switch k {
	case DanglingVertex:
		return "dangling vertex"
	case DanglingSector:
		return "dangling sector"
	case DegenerateLinedef:
		return "degenerate linedef"
	case SameSectorBothSides:
		return "same sector on both sides"
	case StaleAdjacency:
		return "stale adjacency"
	case OrphanVertex:
		return "orphan vertex"
	case SectorListMismatch:
		return "sector list mismatch"
	}
	return fmt.Sprintf("ProblemKind(%d)", int(k))
}

// A Problem is a topology warning. The pipeline tolerates all of them by
// skipping what they touch.
type Problem struct {
	Kind    ProblemKind
	Vertex  VertexID
	Linedef LinedefID
	Sector  SectorID
}

func (p Problem) Error() string {
	switch p.Kind {
	case DanglingVertex, DegenerateLinedef:
		return fmt.Sprintf("linedef %d: %s %d", p.Linedef, p.Kind, p.Vertex)
	case DanglingSector, SameSectorBothSides:
		return fmt.Sprintf("linedef %d: %s %d", p.Linedef, p.Kind, p.Sector)
	case StaleAdjacency:
		if p.Sector != NoSector {
			return fmt.Sprintf("sector %d: %s", p.Sector, p.Kind)
		}
		return fmt.Sprintf("vertex %d: %s", p.Vertex, p.Kind)
	case OrphanVertex:
		return fmt.Sprintf("vertex %d: %s", p.Vertex, p.Kind)
	case SectorListMismatch:
		return fmt.Sprintf("sector %d: %s at linedef %d", p.Sector, p.Kind, p.Linedef)
	}
	return p.Kind.String()
}

func newProblem(kind ProblemKind) Problem {
	return Problem{Kind: kind, Vertex: NoVertex, Linedef: NoLinedef, Sector: NoSector}
}

// Validate checks the map's references and adjacency. It never modifies the
// map and never panics, whatever state the map is in.
func (m *Map) Validate() []Problem {
	var problems []Problem

	for i, l := range m.linedefs {
		if l == nil {
			continue
		}
		id := LinedefID(i)
		for _, vID := range l.Vertices {
			if m.Vertex(vID) == nil {
				p := newProblem(DanglingVertex)
				p.Linedef, p.Vertex = id, vID
				problems = append(problems, p)
			}
		}
		if l.Vertices[0] == l.Vertices[1] {
			p := newProblem(DegenerateLinedef)
			p.Linedef, p.Vertex = id, l.Vertices[0]
			problems = append(problems, p)
		}
		for _, sID := range l.Sectors {
			if sID != NoSector && m.Sector(sID) == nil {
				p := newProblem(DanglingSector)
				p.Linedef, p.Sector = id, sID
				problems = append(problems, p)
			}
		}
		if l.Sectors[Front] == l.Sectors[Back] {
			p := newProblem(SameSectorBothSides)
			p.Linedef, p.Sector = id, l.Sectors[Front]
			problems = append(problems, p)
		}
	}

	for i, v := range m.vertices {
		if v == nil {
			continue
		}
		id := VertexID(i)
		expected := m.linedefsWithVertex(id)
		if !sameLinedefs(v.linedefs, expected) {
			p := newProblem(StaleAdjacency)
			p.Vertex = id
			problems = append(problems, p)
		}
		if len(expected) == 0 {
			p := newProblem(OrphanVertex)
			p.Vertex = id
			problems = append(problems, p)
		}
	}

	for i, s := range m.sectors {
		if s == nil {
			continue
		}
		id := SectorID(i)
		if !sameLinedefs(s.linedefs, m.linedefsWithSector(id)) {
			p := newProblem(StaleAdjacency)
			p.Sector = id
			problems = append(problems, p)
		}
	}
	return problems
}

func sameLinedefs(a, b []LinedefID) bool {
	if len(a) != len(b) {
		return false
	}
	a = append([]LinedefID(nil), a...)
	b = append([]LinedefID(nil), b...)
	sortLinedefs(a)
	sortLinedefs(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortLinedefs(ids []LinedefID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
