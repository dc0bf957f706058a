package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staticfilesJSON = `{
	"version": "1.1",
	"paths": {
		"css/app.css": "css/app.a1b2c3d4.css",
		"js/main.js": "js/main.55aa66bb.js"
	}
}`

const viteJSON = `{
	"src/app.css": {"file": "assets/app.a1b2c3d4.css", "src": "src/app.css"},
	"src/main.ts": {"file": "assets/main.55aa66bb.js", "isEntry": true}
}`

func TestParse_Staticfiles(t *testing.T) {
	m, err := Parse([]byte(staticfilesJSON), FormatStaticfiles)
	require.NoError(t, err)

	want := map[string]string{
		"css/app.css": "css/app.a1b2c3d4.css",
		"js/main.js":  "js/main.55aa66bb.js",
	}
	if diff := cmp.Diff(want, m.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, FormatStaticfiles, m.Source().Format)
}

func TestParse_StaticfilesVersions(t *testing.T) {
	t.Run("version 1.0 accepted", func(t *testing.T) {
		_, err := Parse([]byte(`{"version": "1.0", "paths": {}}`), FormatStaticfiles)
		assert.NoError(t, err)
	})

	t.Run("missing version rejected", func(t *testing.T) {
		_, err := Parse([]byte(`{"paths": {}}`), FormatStaticfiles)
		assert.ErrorContains(t, err, "missing version")
	})

	t.Run("unknown version rejected", func(t *testing.T) {
		_, err := Parse([]byte(`{"version": "9.9", "paths": {}}`), FormatStaticfiles)
		assert.ErrorContains(t, err, "unsupported version")
	})

	t.Run("absent paths means empty manifest", func(t *testing.T) {
		m, err := Parse([]byte(`{"version": "1.1"}`), FormatStaticfiles)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})
}

func TestParse_Vite(t *testing.T) {
	m, err := Parse([]byte(viteJSON), FormatVite)
	require.NoError(t, err)

	want := map[string]string{
		"src/app.css": "assets/app.a1b2c3d4.css",
		"src/main.ts": "assets/main.55aa66bb.js",
	}
	if diff := cmp.Diff(want, m.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ViteMissingFile(t *testing.T) {
	_, err := Parse([]byte(`{"src/app.css": {"src": "src/app.css"}}`), FormatVite)
	assert.ErrorContains(t, err, "no output file")
}

func TestParse_AutoSniff(t *testing.T) {
	t.Run("staticfiles shape", func(t *testing.T) {
		m, err := Parse([]byte(staticfilesJSON), FormatAuto)
		require.NoError(t, err)
		assert.Equal(t, FormatStaticfiles, m.Source().Format)
	})

	t.Run("vite shape", func(t *testing.T) {
		m, err := Parse([]byte(viteJSON), FormatAuto)
		require.NoError(t, err)
		assert.Equal(t, FormatVite, m.Source().Format)
	})
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{not json`), FormatStaticfiles)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"auto", "staticfiles", "vite"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("webpack")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staticfiles.json")
	require.NoError(t, os.WriteFile(path, []byte(staticfilesJSON), 0644))

	m, err := Load(path, FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, path, m.Source().Path)
	assert.False(t, m.Source().LoadedAt.IsZero())

	_, err = Load(filepath.Join(dir, "nope.json"), FormatAuto)
	assert.Error(t, err)
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"dist/manifest.json": &fstest.MapFile{Data: []byte(viteJSON)},
	}

	m, err := LoadFS(fsys, "dist/manifest.json", FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	_, err = LoadFS(fsys, "dist/missing.json", FormatAuto)
	assert.Error(t, err)
}

func TestManifest_Lookup(t *testing.T) {
	m := New(map[string]string{"app.css": "app.a1b2c3.css"})

	v, ok := m.Lookup("app.css")
	assert.True(t, ok)
	assert.Equal(t, "app.a1b2c3.css", v)

	_, ok = m.Lookup("missing.js")
	assert.False(t, ok)
}

func TestManifest_Immutable(t *testing.T) {
	src := map[string]string{"a.css": "a.1.css"}
	m := New(src)

	// Mutating the source map must not leak into the snapshot.
	src["a.css"] = "a.2.css"
	src["b.css"] = "b.1.css"
	v, _ := m.Lookup("a.css")
	assert.Equal(t, "a.1.css", v)
	assert.Equal(t, 1, m.Len())

	// Same for the copy handed out by Entries.
	m.Entries()["a.css"] = "tampered"
	v, _ = m.Lookup("a.css")
	assert.Equal(t, "a.1.css", v)
}

func TestManifest_Keys(t *testing.T) {
	m := New(map[string]string{"b.js": "b.1.js", "a.css": "a.1.css"})
	assert.Equal(t, []string{"a.css", "b.js"}, m.Keys())
}

func TestManifest_DistinctIDs(t *testing.T) {
	a := New(nil)
	b := New(nil)
	assert.NotEqual(t, a.ID(), b.ID())
}
