package dbg

import (
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/golang/geo/r2"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/osuushi/areamesh/area"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"
)

// Padding around the map, in pixels
const drawPadding = 20

var palette = []color.RGBA{
	colornames.Steelblue,
	colornames.Seagreen,
	colornames.Goldenrod,
	colornames.Orchid,
	colornames.Coral,
	colornames.Teal,
	colornames.Slateblue,
	colornames.Olivedrab,
}

var labelFont *truetype.Font

func init() {
	var err error
	labelFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// DrawMap renders a map with y pointing up. Each sector's triangles are filled
// in its own color and outlined, then linedefs are drawn over them: white for
// one-sided, gray for two-sided. Linedefs of the failed sectors are red.
func DrawMap(m *area.Map, scale float64, failed ...area.SectorID) *gg.Context {
	bounds := r2.EmptyRect()
	for _, id := range m.VertexIDs() {
		p, _ := m.Point(id)
		bounds = bounds.AddPoint(p.R2())
	}
	if bounds.IsEmpty() {
		bounds = r2.RectFromPoints(r2.Point{})
	}

	width := int(scale*bounds.X.Length()) + drawPadding*2
	height := int(scale*bounds.Y.Length()) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()
	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)
	c.Translate(-bounds.X.Lo, -bounds.Y.Lo)

	c.SetLineWidth(1)
	for i, id := range m.SectorIDs() {
		drawTriangles(c, m, id, palette[i%len(palette)])
	}

	isFailed := map[area.LinedefID]bool{}
	for _, s := range failed {
		if sector := m.Sector(s); sector != nil {
			for _, lID := range sector.Linedefs() {
				isFailed[lID] = true
			}
		}
	}
	for _, id := range m.LinedefIDs() {
		l := m.Linedef(id)
		a, okA := m.Point(l.Vertices[0])
		b, okB := m.Point(l.Vertices[1])
		if !okA || !okB {
			continue
		}
		switch {
		case isFailed[id]:
			c.SetColor(colornames.Red)
			c.SetLineWidth(3)
		case l.Sectors[area.Front] != area.NoSector && l.Sectors[area.Back] != area.NoSector:
			c.SetColor(colornames.Gray)
			c.SetLineWidth(1)
		default:
			c.SetColor(colornames.White)
			c.SetLineWidth(2)
		}
		c.DrawLine(a.X, a.Y, b.X, b.Y)
		c.Stroke()
	}

	c.SetFontFace(truetype.NewFace(labelFont, &truetype.Options{Size: 12}))
	for _, id := range m.SectorIDs() {
		drawLabel(c, m, id)
	}
	return c
}

func drawTriangles(c *gg.Context, m *area.Map, id area.SectorID, fill color.RGBA) {
	s := m.Sector(id)
	if s.Type == area.Blocking {
		fill = colornames.Dimgray
	}
	for _, t := range s.Triangles {
		a, b, d, ok := m.Corners(t)
		if !ok {
			continue
		}
		c.MoveTo(a.X, a.Y)
		c.LineTo(b.X, b.Y)
		c.LineTo(d.X, d.Y)
		c.ClosePath()
		c.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), 160)
		c.FillPreserve()
		c.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), 255)
		c.Stroke()
	}
}

// Labels go at the center of the sector's bounds, which is good enough to tell
// sectors apart even if it misses concave ones.
func drawLabel(c *gg.Context, m *area.Map, id area.SectorID) {
	s := m.Sector(id)
	bounds := m.SectorBounds(id)
	if bounds.IsEmpty() {
		return
	}
	label := s.Tag
	if label == "" {
		label = Name(s)
	}
	center := bounds.Center()
	// Text has to be drawn without the flip, so go back to pixel coordinates
	x, y := c.TransformPoint(center.X, center.Y)
	c.Push()
	c.Identity()
	c.SetColor(colornames.White)
	c.DrawStringAnchored(label, x, y, 0.5, 0.5)
	c.Pop()
}

// SaveMap writes a render of the map as a PNG file.
func SaveMap(path string, m *area.Map, scale float64, failed ...area.SectorID) error {
	return errors.Wrapf(DrawMap(m, scale, failed...).SavePNG(path), "saving %s", path)
}

// ShowMap prints a render of the map to w as an inline image (iTerm only).
func ShowMap(w io.Writer, m *area.Map, scale float64, failed ...area.SectorID) error {
	path := filepath.Join(os.TempDir(), "areamesh.png")
	if err := SaveMap(path, m, scale, failed...); err != nil {
		return err
	}
	imgcat.CatFile(path, w)
	return nil
}
