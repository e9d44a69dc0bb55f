package area

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// On-disk layout. Indices are positions in the written lists, so tombstones
// are squeezed out on save. Triangles are never written.
type fileMap struct {
	Vertices [][]float64  `yaml:"vertices"`
	Linedefs []fileLinedef `yaml:"linedefs"`
	Sectors  []fileSector  `yaml:"sectors"`
}

type fileLinedef struct {
	V []int `yaml:"v,flow"`
	S []int `yaml:"s,flow"`
}

type fileSector struct {
	Z          float64 `yaml:"z"`
	Brightness *uint8  `yaml:"brightness,omitempty"`
	Type       string  `yaml:"type,omitempty"`
	Tag        string  `yaml:"tag,omitempty"`
	Linedefs   []int   `yaml:"linedefs,flow"`
}

// Decode reads a map. Structural mistakes (bad YAML, a vertex without two
// coordinates) are errors. Broken references are loaded as they are and
// reported as problems, along with sector linedef lists that disagree with
// the linedefs themselves.
func Decode(r io.Reader) (*Map, []Problem, error) {
	var f fileMap
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, nil, errors.Wrap(err, "decoding map")
	}

	m := NewMap()
	for i, coords := range f.Vertices {
		if len(coords) != 2 {
			return nil, nil, errors.Errorf("vertex %d has %d coordinates", i, len(coords))
		}
		m.AddVertex(coords[0], coords[1])
	}
	for i, fs := range f.Sectors {
		sectorType, err := ParseSectorType(fs.Type)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "sector %d", i)
		}
		id := m.AddSector()
		s := m.sectors[id]
		s.Z = fs.Z
		s.Type = sectorType
		s.Tag = fs.Tag
		if fs.Brightness != nil {
			s.Brightness = *fs.Brightness
		}
	}
	for i, fl := range f.Linedefs {
		if len(fl.V) != 2 {
			return nil, nil, errors.Errorf("linedef %d has %d vertices", i, len(fl.V))
		}
		l := &Linedef{
			Vertices: [2]VertexID{VertexID(fl.V[0]), VertexID(fl.V[1])},
			Sectors:  [2]SectorID{NoSector, NoSector},
		}
		if len(fl.S) > 2 {
			return nil, nil, errors.Errorf("linedef %d has %d sides", i, len(fl.S))
		}
		for side, s := range fl.S {
			l.Sectors[side] = SectorID(s)
		}
		m.linedefs = append(m.linedefs, l)
	}
	m.RebuildAdjacency()

	problems := m.Validate()
	for i, fs := range f.Sectors {
		id := SectorID(i)
		declared := make([]LinedefID, len(fs.Linedefs))
		for j, lID := range fs.Linedefs {
			declared[j] = LinedefID(lID)
		}
		if fs.Linedefs == nil || sameLinedefs(declared, m.sectors[id].linedefs) {
			continue
		}
		for _, lID := range symmetricDifference(declared, m.sectors[id].linedefs) {
			p := newProblem(SectorListMismatch)
			p.Sector, p.Linedef = id, lID
			problems = append(problems, p)
		}
	}
	return m, problems, nil
}

// Encode writes the live part of the map.
func (m *Map) Encode(w io.Writer) error {
	vertexIndex := map[VertexID]int{}
	sectorIndex := map[SectorID]int{NoSector: -1}
	linedefIndex := map[LinedefID]int{}

	var f fileMap
	for _, id := range m.VertexIDs() {
		v := m.vertices[id]
		vertexIndex[id] = len(f.Vertices)
		f.Vertices = append(f.Vertices, []float64{v.X, v.Y})
	}
	for _, id := range m.SectorIDs() {
		sectorIndex[id] = len(sectorIndex) - 1
	}
	for _, id := range m.LinedefIDs() {
		l := m.linedefs[id]
		fl := fileLinedef{V: make([]int, 2), S: make([]int, 2)}
		for i, vID := range l.Vertices {
			index, ok := vertexIndex[vID]
			if !ok {
				return errors.Wrapf(ErrNoSuchVertex, "encoding linedef %d", id)
			}
			fl.V[i] = index
		}
		for i, sID := range l.Sectors {
			index, ok := sectorIndex[sID]
			if !ok {
				return errors.Wrapf(ErrNoSuchSector, "encoding linedef %d", id)
			}
			fl.S[i] = index
		}
		linedefIndex[id] = len(f.Linedefs)
		f.Linedefs = append(f.Linedefs, fl)
	}
	for _, id := range m.SectorIDs() {
		s := m.sectors[id]
		brightness := s.Brightness
		fs := fileSector{
			Z:          s.Z,
			Brightness: &brightness,
			Tag:        s.Tag,
			Linedefs:   []int{},
		}
		if s.Type != Normal {
			fs.Type = s.Type.String()
		}
		for _, lID := range s.linedefs {
			fs.Linedefs = append(fs.Linedefs, linedefIndex[lID])
		}
		f.Sectors = append(f.Sectors, fs)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&f); err != nil {
		return errors.Wrap(err, "encoding map")
	}
	return errors.Wrap(encoder.Close(), "encoding map")
}

func LoadFile(path string) (*Map, []Problem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening map")
	}
	defer file.Close()
	m, problems, err := Decode(file)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "loading %s", path)
	}
	return m, problems, nil
}

func (m *Map) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating map file")
	}
	if err := m.Encode(file); err != nil {
		file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "closing map file")
}

func symmetricDifference(a, b []LinedefID) []LinedefID {
	count := map[LinedefID]int{}
	for _, id := range a {
		count[id]++
	}
	for _, id := range b {
		count[id]--
	}
	var result []LinedefID
	for id, n := range count {
		if n != 0 {
			result = append(result, id)
		}
	}
	sortLinedefs(result)
	return result
}
