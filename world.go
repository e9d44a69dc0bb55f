package areamesh

import (
	"sync"

	"github.com/osuushi/areamesh/area"
	"github.com/osuushi/areamesh/geometry"
	"github.com/osuushi/areamesh/locate"
	"go.uber.org/zap"
)

// World pairs a map with its triangles and a locator over them, for hosts
// where the map is edited on one goroutine and read on others. Edits take the
// write lock and rebuild before releasing it, so readers never see a map whose
// triangles are stale.
type World struct {
	mu        sync.RWMutex
	m         *area.Map
	rebuilder *Rebuilder
	locator   *locate.Locator
}

// NewWorld takes ownership of m and triangulates all of it.
func NewWorld(m *area.Map, config Config, logger *zap.Logger) (*World, *Report) {
	w := &World{m: m, rebuilder: NewRebuilder(config, logger)}
	report := w.rebuilder.RebuildAll(m)
	w.refreshLocator()
	return w, report
}

func (w *World) refreshLocator() {
	var opts []locate.Option
	if w.rebuilder.Config.SpatialIndex {
		opts = append(opts, locate.WithSpatialIndex())
	}
	w.locator = locate.New(w.m, opts...)
}

// Edit runs fn under the write lock. fn returns the sectors it affected, which
// are then rebuilt. When fn fails nothing is rebuilt.
func (w *World) Edit(fn func(m *area.Map) ([]area.SectorID, error)) (*Report, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	affected, err := fn(w.m)
	if err != nil {
		return nil, err
	}
	report := w.rebuilder.Rebuild(w.m, affected...)
	w.refreshLocator()
	return report, nil
}

// MergeNearby merges a vertex into the closest other vertex within the merge
// radius, as when a vertex is dropped onto another in an editor. It reports
// false if there was none.
func (w *World) MergeNearby(v area.VertexID) (*Report, bool, error) {
	merged := false
	report, err := w.Edit(func(m *area.Map) ([]area.SectorID, error) {
		p, ok := m.Point(v)
		if !ok {
			return nil, area.ErrNoSuchVertex
		}
		for _, candidate := range m.MergeCandidates(p, w.rebuilder.Config.MergeRadius) {
			if candidate.Vertex == v {
				continue
			}
			merged = true
			return m.MergeVertices(v, candidate.Vertex)
		}
		return nil, nil
	})
	return report, merged, err
}

func (w *World) Locate(p geometry.Point) (area.SectorID, area.Triangle, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.locator.Locate(p)
}

// View runs fn under the read lock. fn must not modify the map.
func (w *World) View(fn func(m *area.Map)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn(w.m)
}
