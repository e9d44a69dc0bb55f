package areamesh

import (
	"sort"

	"github.com/osuushi/areamesh/area"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Report is the outcome of a rebuild. A failed sector never stops the others.
type Report struct {
	Results  []Result
	Failures []*TriangulationError
	// Stray linedefs of every rebuilt sector, failed ones included.
	LoneEdges []area.LinedefID
	// Topology problems found in the map before rebuilding. They don't stop
	// the rebuild; broken linedefs are left out of their sectors.
	Problems []area.Problem
}

func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Err gives the first failure, or nil if every sector was triangulated.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	if len(r.Failures) == 1 {
		return r.Failures[0]
	}
	return errors.Wrapf(r.Failures[0], "%d sectors failed, first", len(r.Failures))
}

// Failed tells whether a sector failed in this rebuild.
func (r *Report) Failed(s area.SectorID) bool {
	for _, f := range r.Failures {
		if f.Sector == s {
			return true
		}
	}
	return false
}

type Rebuilder struct {
	Config Config
	Logger *zap.Logger
}

// NewRebuilder logs nowhere when logger is nil.
func NewRebuilder(config Config, logger *zap.Logger) *Rebuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rebuilder{Config: config, Logger: logger}
}

// Rebuild triangulates the given sectors again and stores the triangles on
// them. Sectors that no longer exist are skipped, so the affected sectors
// reported by an edit can be passed straight in.
func (b *Rebuilder) Rebuild(m *area.Map, sectors ...area.SectorID) *Report {
	report := &Report{Problems: m.Validate()}
	for _, p := range report.Problems {
		b.Logger.Debug("topology problem", zap.String("problem", p.Error()))
	}

	for _, s := range uniqueSectors(sectors) {
		sector := m.Sector(s)
		if sector == nil {
			continue
		}
		result, err := TriangulateSector(m, s, b.Config.CheckVertexReuse)
		report.LoneEdges = append(report.LoneEdges, result.LoneEdges...)
		if len(result.LoneEdges) > 0 {
			b.Logger.Info("dropped lone edges",
				zap.Int("sector", int(s)),
				zap.Ints("linedefs", linedefInts(result.LoneEdges)),
			)
		}
		if err != nil {
			failure := err.(*TriangulationError)
			sector.Triangles = nil
			report.Failures = append(report.Failures, failure)
			b.Logger.Warn("sector not triangulated",
				zap.Int("sector", int(s)),
				zap.String("kind", failure.Kind.String()),
				zap.Ints("linedefs", linedefInts(failure.Linedefs)),
				zap.Error(failure.Err),
			)
			continue
		}
		sector.Triangles = result.Triangles
		report.Results = append(report.Results, result)
	}

	b.Logger.Debug("rebuilt sectors",
		zap.Int("requested", len(sectors)),
		zap.Int("triangulated", len(report.Results)),
		zap.Int("failed", len(report.Failures)),
		zap.Int("lone_edges", len(report.LoneEdges)),
		zap.Int("problems", len(report.Problems)),
	)
	return report
}

func (b *Rebuilder) RebuildAll(m *area.Map) *Report {
	return b.Rebuild(m, m.SectorIDs()...)
}

var defaultRebuilder = NewRebuilder(DefaultConfig(), nil)

// Rebuild with the default configuration and no logging.
func Rebuild(m *area.Map, sectors ...area.SectorID) *Report {
	return defaultRebuilder.Rebuild(m, sectors...)
}

func RebuildAll(m *area.Map) *Report {
	return defaultRebuilder.RebuildAll(m)
}

func uniqueSectors(sectors []area.SectorID) []area.SectorID {
	result := append([]area.SectorID(nil), sectors...)
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	var unique []area.SectorID
	for i, s := range result {
		if s == area.NoSector || (i > 0 && s == result[i-1]) {
			continue
		}
		unique = append(unique, s)
	}
	return unique
}

func linedefInts(ids []area.LinedefID) []int {
	result := make([]int, len(ids))
	for i, id := range ids {
		result[i] = int(id)
	}
	return result
}
