package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	err := run(args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

// Writes a map with a holed room and a room beside it.
func writeMap(t *testing.T) string {
	wkt := "POLYGON ((0 0, 100 0, 100 100, 0 100, 0 0), (40 40, 60 40, 60 60, 40 60, 40 40))\n" +
		"POLYGON ((100 0, 200 0, 200 100, 100 100, 100 0))\n"
	out, err := runCommand(t, wkt, "import-wkt")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "map.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))
	return path
}

func TestTriangulateCommand(t *testing.T) {
	t.Run("Square", func(t *testing.T) {
		out, err := runCommand(t, "0 0\n10 0\n10 10\n0 10\n", "triangulate")
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
	})

	t.Run("Hole", func(t *testing.T) {
		input := "0 0\n10 0\n10 10\n0 10\n\n4 4\n4 6\n6 6\n6 4\n"
		out, err := runCommand(t, input, "triangulate")
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 8)
	})

	t.Run("Hole outside everything", func(t *testing.T) {
		input := "0 0\n10 0\n10 10\n0 10\n\n24 24\n24 26\n26 26\n26 24\n"
		_, err := runCommand(t, input, "triangulate")
		assert.Error(t, err)
	})

	t.Run("Bad point", func(t *testing.T) {
		_, err := runCommand(t, "0 0\n10\n", "triangulate")
		assert.EqualError(t, err, "line 2: expected \"x y\", got \"10\"")
	})
}

func TestCheckCommand(t *testing.T) {
	path := writeMap(t)
	out, err := runCommand(t, "", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "sector 0")
	assert.Contains(t, out, "8 triangles")
	assert.Contains(t, out, "2 triangles")

	_, err = runCommand(t, "", "check", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLocateCommand(t *testing.T) {
	path := writeMap(t)
	out, err := runCommand(t, "", "locate", path, "150", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "sector 1")

	out, err = runCommand(t, "", "locate", path, "50", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "void")
}

func TestExportCommand(t *testing.T) {
	out, err := runCommand(t, "", "export", writeMap(t))
	require.NoError(t, err)
	var collection struct {
		Type     string
		Features []json.RawMessage
	}
	require.NoError(t, json.Unmarshal([]byte(out), &collection))
	assert.Equal(t, "FeatureCollection", collection.Type)
	assert.Len(t, collection.Features, 2)
}

func TestRenderCommand(t *testing.T) {
	png := filepath.Join(t.TempDir(), "map.png")
	_, err := runCommand(t, "", "render", writeMap(t), "--out", png, "--scale", "1")
	require.NoError(t, err)
	assert.FileExists(t, png)
}

func TestDumpCommand(t *testing.T) {
	out, err := runCommand(t, "", "dump", writeMap(t))
	require.NoError(t, err)
	assert.Contains(t, out, "sector 1:")
	assert.Contains(t, out, "Triangles")
}

func TestConfigFlag(t *testing.T) {
	config := filepath.Join(t.TempDir(), "areamesh.yaml")
	require.NoError(t, os.WriteFile(config, []byte("spatial_index: true\n"), 0o644))
	out, err := runCommand(t, "", "--config", config, "locate", writeMap(t), "10", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "sector 0")

	require.NoError(t, os.WriteFile(config, []byte("nonsense: 1\n"), 0o644))
	_, err = runCommand(t, "", "--config", config, "locate", writeMap(t), "10", "10")
	assert.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCommand(t, "", "frobnicate")
	assert.Error(t, err)
}
