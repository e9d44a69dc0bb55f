package areamesh

import (
	"testing"

	"github.com/osuushi/areamesh/area"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func importWKT(t *testing.T, m *area.Map, wkt string) area.SectorID {
	sectors, err := m.ImportWKT(wkt)
	require.NoError(t, err)
	require.Len(t, sectors, 1)
	return sectors[0]
}

// Two 64x64 rooms side by side, sharing a linedef.
func twoRooms(t *testing.T) (*area.Map, area.SectorID, area.SectorID) {
	m := area.NewMap()
	left := importWKT(t, m, "POLYGON ((0 0, 64 0, 64 64, 0 64, 0 0))")
	right := importWKT(t, m, "POLYGON ((64 0, 128 0, 128 64, 64 64, 64 0))")
	return m, left, right
}

func triangleArea(t *testing.T, m *area.Map, triangles []area.Triangle) float64 {
	var total float64
	for _, tri := range triangles {
		a, b, c, ok := m.Corners(tri)
		require.True(t, ok)
		total += ((b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)) / 2
	}
	return total
}

func TestTriangulateSector(t *testing.T) {
	m := area.NewMap()
	s := importWKT(t, m, "POLYGON ((0 0, 64 0, 64 64, 0 64, 0 0))")

	result, err := TriangulateSector(m, s, false)
	require.NoError(t, err)
	assert.Equal(t, s, result.Sector)
	require.Len(t, result.Triangles, 2)
	for _, tri := range result.Triangles {
		assert.Equal(t, s, tri.Sector)
	}
	assert.InDelta(t, 4096, triangleArea(t, m, result.Triangles), 1e-9)
	// Not stored
	assert.Empty(t, m.Sector(s).Triangles)

	t.Run("Failure", func(t *testing.T) {
		_, err := TriangulateSector(m, 42, false)
		var triangulationError *TriangulationError
		require.True(t, errors.As(err, &triangulationError))
		assert.Equal(t, area.SectorID(42), triangulationError.Sector)
		assert.Equal(t, InvalidArgs, triangulationError.Kind)
		assert.Contains(t, err.Error(), "sector 42: invalid arguments")
	})
}

func TestRebuildAll(t *testing.T) {
	m, left, right := twoRooms(t)

	report := RebuildAll(m)
	require.True(t, report.OK(), "%v", report.Err())
	assert.Len(t, report.Results, 2)
	assert.Empty(t, report.Problems)
	assert.Empty(t, report.LoneEdges)
	for _, s := range []area.SectorID{left, right} {
		assert.Len(t, m.Sector(s).Triangles, 2)
		assert.InDelta(t, 4096, triangleArea(t, m, m.Sector(s).Triangles), 1e-9)
	}

	t.Run("Idempotent", func(t *testing.T) {
		before := m.Clone()
		again := RebuildAll(m)
		require.True(t, again.OK())
		assert.Equal(t, before, m)
	})
}

func TestRebuild(t *testing.T) {
	t.Run("A failed sector loses its triangles", func(t *testing.T) {
		m, left, right := twoRooms(t)
		require.True(t, RebuildAll(m).OK())

		// Opening the left room's outer wall leaves it unclosed
		var outerWall area.LinedefID = area.NoLinedef
		for _, id := range m.Sector(left).Linedefs() {
			l := m.Linedef(id)
			if a, _ := m.Point(l.Vertices[0]); a.X == 0 {
				if b, _ := m.Point(l.Vertices[1]); b.X == 0 {
					outerWall = id
				}
			}
		}
		require.NotEqual(t, area.NoLinedef, outerWall)
		affected, err := m.RemoveLinedef(outerWall)
		require.NoError(t, err)
		require.Equal(t, []area.SectorID{left}, affected)

		report := Rebuild(m, append(affected, right)...)
		assert.False(t, report.OK())
		require.Len(t, report.Failures, 1)
		assert.Equal(t, left, report.Failures[0].Sector)
		assert.Equal(t, LoneEdges, report.Failures[0].Kind)
		assert.True(t, report.Failed(left))
		assert.False(t, report.Failed(right))
		assert.Nil(t, m.Sector(left).Triangles)
		assert.Len(t, m.Sector(right).Triangles, 2)

		var triangulationError *TriangulationError
		assert.True(t, errors.As(report.Err(), &triangulationError))
	})

	t.Run("Skips missing and repeated sectors", func(t *testing.T) {
		m, left, right := twoRooms(t)
		report := Rebuild(m, right, area.NoSector, left, 99, right)
		require.True(t, report.OK())
		require.Len(t, report.Results, 2)
		assert.Equal(t, left, report.Results[0].Sector)
		assert.Equal(t, right, report.Results[1].Sector)
	})

	t.Run("Several failures", func(t *testing.T) {
		m := area.NewMap()
		for i := 0; i < 2; i++ {
			s := m.AddSector()
			a := m.AddVertex(float64(i*10), 0)
			b := m.AddVertex(float64(i*10+5), 0)
			_, err := m.AddLinedef(a, b, s, area.NoSector)
			require.NoError(t, err)
		}
		report := RebuildAll(m)
		require.Len(t, report.Failures, 2)
		assert.Contains(t, report.Err().Error(), "2 sectors failed")
		assert.Equal(t, report.Failures[0], errors.Cause(report.Err()))
	})

	t.Run("Logs failures", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		m := area.NewMap()
		s := m.AddSector()
		a := m.AddVertex(0, 0)
		b := m.AddVertex(5, 0)
		c := m.AddVertex(5, 5)
		for _, pair := range [][2]area.VertexID{{a, b}, {b, c}} {
			_, err := m.AddLinedef(pair[0], pair[1], s, area.NoSector)
			require.NoError(t, err)
		}

		NewRebuilder(DefaultConfig(), zap.New(core)).RebuildAll(m)
		entries := logs.FilterMessage("sector not triangulated").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, int64(s), fields["sector"])
		assert.Equal(t, "lone edges", fields["kind"])
	})

	t.Run("Reports topology problems", func(t *testing.T) {
		m, _, _ := twoRooms(t)
		m.AddVertex(500, 500)
		report := RebuildAll(m)
		assert.True(t, report.OK())
		require.Len(t, report.Problems, 1)
		assert.Equal(t, area.OrphanVertex, report.Problems[0].Kind)
	})
}
