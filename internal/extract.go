package internal

import (
	"sort"

	"github.com/osuushi/areamesh/area"
	"github.com/osuushi/areamesh/geometry"
)

type Extraction struct {
	Outer Polygon
	Holes PolygonList
	// Stray linedefs that didn't belong to any loop and were dropped.
	LoneEdges []area.LinedefID
}

// ExtractPolygons traces a sector's linedefs into its outer polygon, wound
// counterclockwise, and its holes, wound clockwise. Stray linedefs are
// dropped and listed in LoneEdges; the extraction is returned along with the
// error so those can be reported either way.
func ExtractPolygons(m *area.Map, s area.SectorID, checkVertexReuse bool) (extraction *Extraction, err error) {
	extraction = &Extraction{}
	defer func() {
		err = HandleTriangulatePanicRecover(recover())
	}()
	newTracer(m, s, extraction).run(checkVertexReuse)
	return extraction, nil
}

// tracer walks loops of linedefs. The map is only read.
type tracer struct {
	m      *area.Map
	sector area.SectorID
	out    *Extraction

	points    map[area.VertexID]*Point
	linedefs  []area.LinedefID
	remaining map[area.LinedefID]bool
}

func newTracer(m *area.Map, s area.SectorID, out *Extraction) *tracer {
	return &tracer{
		m:         m,
		sector:    s,
		out:       out,
		points:    map[area.VertexID]*Point{},
		remaining: map[area.LinedefID]bool{},
	}
}

func (tr *tracer) point(id area.VertexID) *Point {
	if p, ok := tr.points[id]; ok {
		return p
	}
	v := tr.m.Vertex(id)
	p := &Point{Point: v.Point(), ID: id}
	tr.points[id] = p
	return p
}

func (tr *tracer) run(checkVertexReuse bool) {
	sector := tr.m.Sector(tr.sector)
	if sector == nil {
		fatalf(InvalidArgs, "sector %d does not exist", tr.sector)
	}

	// Linedefs with broken references are skipped; they show up as topology
	// problems elsewhere.
	for _, id := range sector.Linedefs() {
		l := tr.m.Linedef(id)
		if l == nil || l.Vertices[0] == l.Vertices[1] || l.Sectors[area.Front] == l.Sectors[area.Back] {
			continue
		}
		if tr.m.Vertex(l.Vertices[0]) == nil || tr.m.Vertex(l.Vertices[1]) == nil {
			continue
		}
		tr.linedefs = append(tr.linedefs, id)
		tr.remaining[id] = true
	}
	sort.Slice(tr.linedefs, func(i, j int) bool { return tr.linedefs[i] < tr.linedefs[j] })
	if len(tr.linedefs) == 0 {
		fatalf(InvalidArgs, "sector %d has no usable linedefs", tr.sector)
	}

	if checkVertexReuse {
		tr.checkVertexReuse()
	}

	outer := true
	for len(tr.remaining) > 0 {
		poly, ok := tr.trace(outer)
		if !ok {
			continue
		}
		if outer {
			tr.out.Outer = poly
			outer = false
		} else {
			tr.out.Holes = append(tr.out.Holes, poly)
		}
	}
}

func (tr *tracer) checkVertexReuse() {
	uses := map[area.VertexID][]area.LinedefID{}
	for _, id := range tr.linedefs {
		for _, v := range tr.m.Linedef(id).Vertices {
			uses[v] = append(uses[v], id)
		}
	}
	var reused []area.LinedefID
	var firstVertex area.VertexID = area.NoVertex
	for _, id := range tr.linedefs {
		for _, v := range tr.m.Linedef(id).Vertices {
			if len(uses[v]) > 2 && firstVertex == area.NoVertex {
				firstVertex = v
				reused = uses[v]
			}
		}
	}
	if firstVertex != area.NoVertex {
		throw(VertexesReused, reused, "vertex %d is used by %d linedefs of sector %d", firstVertex, len(reused), tr.sector)
	}
}

// startVertex is the rightmost vertex among untraced linedefs. A vertex there
// is certainly on the outside of whatever loop it belongs to.
func (tr *tracer) startVertex() *Point {
	var best *Point
	for _, id := range tr.linedefs {
		if !tr.remaining[id] {
			continue
		}
		for _, v := range tr.m.Linedef(id).Vertices {
			p := tr.point(v)
			if best == nil || isMoreRight(p, best) {
				best = p
			}
		}
	}
	return best
}

// trace follows one loop. At each vertex it turns onto the untraced linedef
// whose direction is the smallest counterclockwise rotation from the direction
// back along the linedef just followed, or the largest for holes. The walk
// starts as if it had arrived from the right. The loop closes once a linedef
// of the loop comes up again.
//
// A walk that dead-ends after a single linedef was a stray linedef: it is
// dropped and false is returned. Any other dead end is fatal.
func (tr *tracer) trace(outer bool) (Polygon, bool) {
	var poly Polygon
	traced := map[area.LinedefID]bool{}
	var tracedOrder []area.LinedefID

	cur := tr.startVertex()
	prevLinedef := area.NoLinedef
	backAngle := 0.0

	for {
		best := area.NoLinedef
		var bestNext *Point
		var bestDiff float64
		for _, id := range tr.m.Vertex(cur.ID).Linedefs() {
			if !tr.remaining[id] || id == prevLinedef {
				continue
			}
			next := tr.point(tr.m.Linedef(id).OtherVertex(cur.ID))
			diff := geometry.AngleCCWDiff(backAngle, geometry.Angle(cur.Point, next.Point))
			if best == area.NoLinedef || (outer && diff < bestDiff) || (!outer && diff > bestDiff) {
				best, bestNext, bestDiff = id, next, diff
			}
		}

		if best == area.NoLinedef {
			if !outer && len(poly.Points) == 1 {
				for _, id := range tracedOrder {
					delete(tr.remaining, id)
					tr.out.LoneEdges = append(tr.out.LoneEdges, id)
				}
				return Polygon{}, false
			}
			throw(LoneEdges, []area.LinedefID{prevLinedef},
				"sector %d: no way on from vertex %d after linedef %d", tr.sector, cur.ID, prevLinedef)
		}
		if traced[best] {
			break
		}

		traced[best] = true
		tracedOrder = append(tracedOrder, best)
		poly.Points = append(poly.Points, cur)
		backAngle = geometry.Angle(bestNext.Point, cur.Point)
		prevLinedef = best
		cur = bestNext
	}

	for _, id := range tracedOrder {
		delete(tr.remaining, id)
	}
	return poly, true
}
