// Package locate answers "which sector is this point in" from the triangles of
// the last rebuild.
package locate

import (
	"github.com/golang/geo/r2"
	"github.com/osuushi/areamesh/area"
	"github.com/osuushi/areamesh/geometry"
	"github.com/peterstace/simplefeatures/rtree"
)

// Locator holds a snapshot of a map's triangles, taken when it is built. Edits
// and rebuilds after that are not seen; build a new one.
type Locator struct {
	entries []entry
	sectors []sectorRange
	index   *rtree.RTree
}

type entry struct {
	sector   area.SectorID
	triangle area.Triangle
	a, b, c  geometry.Point
}

// The entries of one sector, in one run, with their bounds.
type sectorRange struct {
	bounds     r2.Rect
	start, end int
}

type Option func(*Locator)

// WithSpatialIndex puts the triangles in an R-tree. Answers are the same as
// without it.
func WithSpatialIndex() Option {
	return func(l *Locator) {
		if len(l.entries) == 0 {
			return
		}
		items := make([]rtree.BulkItem, len(l.entries))
		for i, e := range l.entries {
			items[i] = rtree.BulkItem{Box: boxOf(e), RecordID: i}
		}
		l.index = rtree.BulkLoad(items)
	}
}

func New(m *area.Map, opts ...Option) *Locator {
	l := &Locator{}
	for _, s := range m.SectorIDs() {
		r := sectorRange{bounds: r2.EmptyRect(), start: len(l.entries)}
		for _, t := range m.Sector(s).Triangles {
			a, b, c, ok := m.Corners(t)
			if !ok {
				continue
			}
			l.entries = append(l.entries, entry{sector: s, triangle: t, a: a, b: b, c: c})
			r.bounds = r.bounds.Union(geometry.Bounds(a, b, c))
		}
		r.end = len(l.entries)
		if r.end > r.start {
			r.bounds = r.bounds.ExpandedByMargin(geometry.Epsilon)
			l.sectors = append(l.sectors, r)
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func boxOf(e entry) rtree.Box {
	bounds := geometry.Bounds(e.a, e.b, e.c).ExpandedByMargin(geometry.Epsilon)
	return rtree.Box{
		MinX: bounds.X.Lo,
		MinY: bounds.Y.Lo,
		MaxX: bounds.X.Hi,
		MaxY: bounds.Y.Hi,
	}
}

func (e entry) contains(p geometry.Point) bool {
	return geometry.IsPointInTriangle(p, e.a, e.b, e.c, true)
}

// Len is the number of triangles in the snapshot.
func (l *Locator) Len() int {
	return len(l.entries)
}

// Locate finds the first triangle containing p, in sector order and then
// triangle order. Points on an edge count as inside, so a point on a linedef
// between two sectors goes to the lower sector.
func (l *Locator) Locate(p geometry.Point) (area.SectorID, area.Triangle, bool) {
	i := l.find(p)
	if i < 0 {
		return area.NoSector, area.Triangle{}, false
	}
	e := l.entries[i]
	return e.sector, e.triangle, true
}

// Sector is Locate without the triangle. It gives NoSector for points outside
// every sector.
func (l *Locator) Sector(p geometry.Point) area.SectorID {
	s, _, _ := l.Locate(p)
	return s
}

func (l *Locator) find(p geometry.Point) int {
	if l.index != nil {
		return l.search(p)
	}
	for _, r := range l.sectors {
		if !r.bounds.ContainsPoint(p.R2()) {
			continue
		}
		for i := r.start; i < r.end; i++ {
			if l.entries[i].contains(p) {
				return i
			}
		}
	}
	return -1
}

// The tree hands out candidates in no particular order, so keep the lowest.
func (l *Locator) search(p geometry.Point) int {
	best := -1
	box := rtree.Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
	l.index.RangeSearch(box, func(i int) error {
		if (best < 0 || i < best) && l.entries[i].contains(p) {
			best = i
		}
		return nil
	})
	return best
}
