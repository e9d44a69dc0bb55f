package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kr/pretty"
	"github.com/osuushi/areamesh"
	"github.com/osuushi/areamesh/area"
	"github.com/osuushi/areamesh/dbg"
	"github.com/osuushi/areamesh/geometry"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type env struct {
	in     io.Reader
	out    io.Writer
	config areamesh.Config
	logger *zap.Logger
}

func run(args []string, in io.Reader, out, errOut io.Writer) error {
	app := kingpin.New("areamesh", "Triangulate the sectors of 2D area maps.")
	app.UsageWriter(errOut)
	app.ErrorWriter(errOut)
	verbose := app.Flag("verbose", "Log at debug level, in a readable format.").Short('v').Bool()
	configPath := app.Flag("config", "YAML configuration file.").ExistingFile()

	check := app.Command("check", "Triangulate every sector of a map and report which ones fail.")
	checkMap := check.Arg("map", "Map file.").Required().ExistingFile()

	locate := app.Command("locate", "Find the sector under a point.")
	locateMap := locate.Arg("map", "Map file.").Required().ExistingFile()
	locateX := locate.Arg("x", "").Required().Float64()
	locateY := locate.Arg("y", "").Required().Float64()

	render := app.Command("render", "Draw a triangulated map as a PNG.")
	renderMap := render.Arg("map", "Map file.").Required().ExistingFile()
	renderOut := render.Flag("out", "PNG file to write.").Short('o').String()
	renderScale := render.Flag("scale", "Pixels per map unit.").Default("4").Float64()

	export := app.Command("export", "Write a map's triangles as GeoJSON.")
	exportMap := export.Arg("map", "Map file.").Required().ExistingFile()

	importSVG := app.Command("import-svg", "Convert the polygons of an SVG file to a map.")
	importSVGFile := importSVG.Arg("svg", "SVG file.").Required().ExistingFile()

	app.Command("import-wkt", "Convert WKT polygons read from stdin, one per line, to a map.")

	app.Command("triangulate", "Triangulate polygons read from stdin and print the triangles.")

	dump := app.Command("dump", "Pretty print a triangulated map.")
	dumpMap := dump.Arg("map", "Map file.").Required().ExistingFile()

	command, err := app.Parse(args)
	if err != nil {
		return err
	}

	e := &env{in: in, out: out, config: areamesh.DefaultConfig()}
	if *configPath != "" {
		if e.config, err = areamesh.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *verbose {
		e.config.LogLevel = "debug"
	}
	if e.logger, err = e.config.NewLogger(*verbose); err != nil {
		return err
	}
	defer e.logger.Sync()

	switch command {
	case check.FullCommand():
		return e.check(*checkMap)
	case locate.FullCommand():
		return e.locate(*locateMap, geometry.Point{X: *locateX, Y: *locateY})
	case render.FullCommand():
		return e.render(*renderMap, *renderOut, *renderScale)
	case export.FullCommand():
		return e.export(*exportMap)
	case importSVG.FullCommand():
		return e.importSVG(*importSVGFile)
	case "import-wkt":
		return e.importWKT()
	case "triangulate":
		return e.triangulate()
	case dump.FullCommand():
		return e.dump(*dumpMap)
	}
	return errors.Errorf("unknown command %q", command)
}

// load reads a map and triangulates all of it.
func (e *env) load(path string) (*area.Map, *areamesh.Report, error) {
	m, problems, err := area.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range problems {
		e.logger.Warn("map problem", zap.String("file", path), zap.String("problem", p.Error()))
	}
	report := areamesh.NewRebuilder(e.config, e.logger).RebuildAll(m)
	return m, report, nil
}

func (e *env) check(path string) error {
	m, report, err := e.load(path)
	if err != nil {
		return err
	}
	failures := map[area.SectorID]*areamesh.TriangulationError{}
	for _, f := range report.Failures {
		failures[f.Sector] = f
	}
	for _, id := range m.SectorIDs() {
		s := m.Sector(id)
		label := s.Tag
		if label == "" {
			label = dbg.Name(s)
		}
		if f, ok := failures[id]; ok {
			fmt.Fprintln(e.out, dbg.Status(false, "sector %d (%s): %s %v", id, label, f.Kind, f.Linedefs))
			continue
		}
		fmt.Fprintln(e.out, dbg.Status(true, "sector %d (%s): %d triangles", id, label, len(s.Triangles)))
	}
	for _, p := range report.Problems {
		fmt.Fprintln(e.out, dbg.Note("problem: %v", p))
	}
	if len(report.LoneEdges) > 0 {
		fmt.Fprintln(e.out, dbg.Note("lone edges: %v", report.LoneEdges))
	}
	return report.Err()
}

func (e *env) locate(path string, p geometry.Point) error {
	m, _, err := e.load(path)
	if err != nil {
		return err
	}
	w, _ := areamesh.NewWorld(m, e.config, e.logger)
	s, triangle, ok := w.Locate(p)
	if !ok {
		fmt.Fprintf(e.out, "%v: void\n", p)
		return nil
	}
	fmt.Fprintf(e.out, "%v: sector %d, triangle %v\n", p, s, triangle.Vertices)
	return nil
}

func (e *env) render(path, out string, scale float64) error {
	m, report, err := e.load(path)
	if err != nil {
		return err
	}
	var failed []area.SectorID
	for _, f := range report.Failures {
		failed = append(failed, f.Sector)
	}
	if out == "" {
		return dbg.ShowMap(e.out, m, scale, failed...)
	}
	return dbg.SaveMap(out, m, scale, failed...)
}

func (e *env) export(path string) error {
	m, _, err := e.load(path)
	if err != nil {
		return err
	}
	data, err := m.ExportGeoJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.out, string(data))
	return err
}

func (e *env) importSVG(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening svg")
	}
	defer f.Close()
	m, err := area.ImportSVG(f)
	if err != nil {
		return err
	}
	return m.Encode(e.out)
}

func (e *env) importWKT() error {
	m := area.NewMap()
	scanner := bufio.NewScanner(e.in)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if _, err := m.ImportWKT(text); err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading wkt")
	}
	return m.Encode(e.out)
}

// Input on stdin should be newline separated points in the form "x y", with
// each polygon separated by an extra newline. Counterclockwise polygons are
// outer boundaries, and clockwise ones are holes in whichever outer polygon
// contains them. Each outer polygon becomes a sector, and its triangles are
// printed one per line as three "x y" pairs.
func (e *env) triangulate() error {
	polygons, err := readPolygons(e.in)
	if err != nil {
		return err
	}

	m := area.NewMap()
	var outers [][]geometry.Point
	holes := map[int][][]geometry.Point{}
	for _, polygon := range polygons {
		if geometry.SignedArea(polygon) >= 0 {
			outers = append(outers, polygon)
		}
	}
	for i, polygon := range polygons {
		if geometry.SignedArea(polygon) >= 0 {
			continue
		}
		container := -1
		for j, outer := range outers {
			if geometry.ContainsPointByEvenOdd(outer, polygon[0]) {
				container = j
				break
			}
		}
		if container < 0 {
			return errors.Errorf("hole %d is not inside any outer polygon", i)
		}
		holes[container] = append(holes[container], polygon)
	}
	for i, outer := range outers {
		if _, err := m.AddPolygon(outer, holes[i]...); err != nil {
			return errors.Wrapf(err, "polygon %d", i)
		}
	}

	report := areamesh.NewRebuilder(e.config, e.logger).RebuildAll(m)
	for _, result := range report.Results {
		for _, t := range result.Triangles {
			a, b, c, _ := m.Corners(t)
			fmt.Fprintf(e.out, "%g %g %g %g %g %g\n", a.X, a.Y, b.X, b.Y, c.X, c.Y)
		}
	}
	return report.Err()
}

func readPolygons(in io.Reader) ([][]geometry.Point, error) {
	var polygons [][]geometry.Point
	// Scan lines
	scanner := bufio.NewScanner(in)
	var points []geometry.Point
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()

		// If it's empty, and we collected any points, this is the end of the polygon
		if strings.TrimSpace(text) == "" {
			if len(points) > 0 {
				polygons = append(polygons, points)
				points = nil
			}
			continue
		}

		point, err := parsePoint(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		points = append(points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading points")
	}

	// Handle trailing polygon if any
	if len(points) > 0 {
		polygons = append(polygons, points)
	}
	return polygons, nil
}

func parsePoint(line string) (geometry.Point, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return geometry.Point{}, errors.Errorf("expected \"x y\", got %q", line)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return geometry.Point{}, errors.Wrap(err, "x")
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return geometry.Point{}, errors.Wrap(err, "y")
	}
	return geometry.Point{X: x, Y: y}, nil
}

func (e *env) dump(path string) error {
	m, _, err := e.load(path)
	if err != nil {
		return err
	}
	for _, id := range m.SectorIDs() {
		fmt.Fprintf(e.out, "sector %d: %# v\n", id, pretty.Formatter(m.Sector(id)))
	}
	return nil
}
