package internal

import (
	"embed"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/osuushi/areamesh/area"
	"github.com/osuushi/areamesh/geometry"
	"github.com/stretchr/testify/require"
)

// Fixtures are SVG maps in the fixtures/ directory, loaded by name sans
// extension. The ad hoc shapes below are written as WKT instead, so the same
// text can be handed to simplefeatures when a test wants a second opinion on
// the area.

//go:embed fixtures
var fixtures embed.FS

func LoadFixture(t testing.TB, name string) *area.Map {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	require.NoError(t, err, "could not load fixture %q", name)
	defer fixture.Close()

	m, err := area.ImportSVG(fixture)
	require.NoError(t, err, "failed to import fixture %q", name)
	return m
}

// sectorByTag finds the sector an SVG element id was imported as.
func sectorByTag(t testing.TB, m *area.Map, tag string) area.SectorID {
	for _, id := range m.SectorIDs() {
		if m.Sector(id).Tag == tag {
			return id
		}
	}
	t.Fatalf("no sector tagged %q", tag)
	return area.NoSector
}

// LoadWKT imports a POLYGON or MULTIPOLYGON into a fresh map.
func LoadWKT(t testing.TB, wkt string) (*area.Map, []area.SectorID) {
	m := area.NewMap()
	sectors, err := m.ImportWKT(wkt)
	require.NoError(t, err)
	return m, sectors
}

func formatRing(points []geometry.Point) string {
	var b strings.Builder
	b.WriteString("(")
	for i := 0; i <= len(points); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		p := points[i%len(points)]
		b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
		b.WriteString(" ")
		b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
	}
	b.WriteString(")")
	return b.String()
}

func formatPolygon(rings ...[]geometry.Point) string {
	parts := make([]string, len(rings))
	for i, ring := range rings {
		parts[i] = formatRing(ring)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func polygonWKT(rings ...[]geometry.Point) string {
	return "POLYGON " + formatPolygon(rings...)
}

func multiPolygonWKT(polygons ...string) string {
	return "MULTIPOLYGON (" + strings.Join(polygons, ", ") + ")"
}

func starRing(x, y, outerRadius, innerRadius float64) []geometry.Point {
	points := make([]geometry.Point, 0, 10)
	for i := 0; i < 10; i++ {
		r := outerRadius
		if i%2 == 1 {
			r = innerRadius
		}
		angle := 2 * math.Pi * float64(i) / 10
		points = append(points, geometry.Point{X: x + r*math.Cos(angle), Y: y + r*math.Sin(angle)})
	}
	return points
}

func squareRing(x, y, size float64) []geometry.Point {
	return []geometry.Point{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

// Some ad hoc shapes

func SimpleStar() string {
	return polygonWKT(starRing(0, 0, 5, 2))
}

func SquareWithHole() string {
	return polygonWKT(squareRing(0, 0, 100), squareRing(40, 40, 20))
}

func StarOutline() string {
	return polygonWKT(starRing(0, 0, 10, 5), starRing(0, 0, 8, 3))
}

// Nested stars of shrinking size. Every other band between two of them is
// filled, each band being its own sector.
func StarStripes() string {
	const n = 20
	const indentScale = 0.7
	const gapScale = 0.9
	var polygons []string
	scale := 1.0
	for i := 0; i < n; i += 2 {
		outer := starRing(0, 0, 10*scale, 10*scale*indentScale)
		scale *= gapScale
		inner := starRing(0, 0, 10*scale, 10*scale*indentScale)
		scale *= gapScale
		polygons = append(polygons, formatPolygon(outer, inner))
	}
	return multiPolygonWKT(polygons...)
}

// Holes with islands inside them. The first polygon is the holed one.
func MultiLayeredHoles() string {
	return multiPolygonWKT(
		formatPolygon(
			squareRing(0, 0, 100),
			squareRing(10, 10, 30),
			squareRing(60, 10, 30),
			squareRing(35, 55, 30),
		),
		formatPolygon(squareRing(20, 20, 10)),
		formatPolygon(starRing(75, 25, 10, 5)),
		formatPolygon(squareRing(45, 65, 10)),
	)
}

// A comb with its teeth pointing up. Every notch is a reflex pair.
func Comb() string {
	points := []geometry.Point{{X: 0, Y: 0}, {X: 90, Y: 0}}
	for x := 90.0; x > 0; x -= 20 {
		points = append(points,
			geometry.Point{X: x, Y: 50},
			geometry.Point{X: x - 10, Y: 50},
			geometry.Point{X: x - 10, Y: 10},
			geometry.Point{X: x - 20, Y: 10},
		)
	}
	// The last tooth ends at the left edge, so the notch after it goes.
	points = points[:len(points)-2]
	return polygonWKT(points)
}
