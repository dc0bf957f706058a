package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

// Format selects the on-disk manifest encoding. The encoding is owned by
// the external asset pipeline, not by this package; we decode the two
// encodings pipelines actually emit and sniff between them by default.
type Format string

const (
	// FormatAuto sniffs the encoding from the document shape.
	FormatAuto Format = "auto"

	// FormatStaticfiles is Django's staticfiles.json:
	// {"version": "1.1", "paths": {"app.css": "app.a1b2c3.css"}}
	FormatStaticfiles Format = "staticfiles"

	// FormatVite is Vite's manifest.json:
	// {"src/app.css": {"file": "assets/app.a1b2c3.css"}}
	FormatVite Format = "vite"
)

// ParseFormat validates a format name from config or a CLI flag.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatAuto, FormatStaticfiles, FormatVite:
		return Format(s), nil
	case "":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("unknown manifest format %q (want auto, staticfiles or vite)", s)
	}
}

// staticfilesDoc mirrors Django's staticfiles.json layout.
type staticfilesDoc struct {
	Version string            `json:"version"`
	Paths   map[string]string `json:"paths"`
}

// viteEntry is one chunk record in a Vite manifest. Vite emits more fields
// (src, css, imports); only the output file matters for resolution.
type viteEntry struct {
	File string `json:"file"`
}

// Parse decodes a manifest document.
func Parse(data []byte, format Format) (*Manifest, error) {
	entries, format, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	return newFromSource(entries, Source{Format: format}), nil
}

// Load reads and decodes a manifest file from disk.
func Load(path string, format Format) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	entries, format, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return newFromSource(entries, Source{Path: path, Format: format}), nil
}

// LoadFS reads and decodes a manifest from an fs.FS, typically an embed.FS
// bundled into the binary.
func LoadFS(fsys fs.FS, name string, format Format) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	entries, format, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", name, err)
	}
	return newFromSource(entries, Source{Path: name, Format: format}), nil
}

func decode(data []byte, format Format) (map[string]string, Format, error) {
	if format == FormatAuto {
		format = sniff(data)
	}

	switch format {
	case FormatStaticfiles:
		entries, err := decodeStaticfiles(data)
		return entries, format, err
	case FormatVite:
		entries, err := decodeVite(data)
		return entries, format, err
	default:
		return nil, format, fmt.Errorf("unknown manifest format %q", format)
	}
}

// sniff picks the encoding by document shape: staticfiles.json is the only
// one with a top-level "paths" object next to a "version" string.
func sniff(data []byte) Format {
	var probe struct {
		Version *string                    `json:"version"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Version != nil && probe.Paths != nil {
		return FormatStaticfiles
	}
	return FormatVite
}

func decodeStaticfiles(data []byte) (map[string]string, error) {
	var doc staticfilesDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("staticfiles manifest: %w", err)
	}
	switch doc.Version {
	case "1.0", "1.1":
	case "":
		return nil, fmt.Errorf("staticfiles manifest: missing version")
	default:
		return nil, fmt.Errorf("staticfiles manifest: unsupported version %q", doc.Version)
	}
	if doc.Paths == nil {
		// Version present but no paths object: still a valid, empty manifest.
		doc.Paths = map[string]string{}
	}
	return doc.Paths, nil
}

func decodeVite(data []byte) (map[string]string, error) {
	var doc map[string]viteEntry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("vite manifest: %w", err)
	}
	entries := make(map[string]string, len(doc))
	for key, e := range doc {
		if e.File == "" {
			return nil, fmt.Errorf("vite manifest: entry %q has no output file", key)
		}
		entries[key] = e.File
	}
	return entries, nil
}
