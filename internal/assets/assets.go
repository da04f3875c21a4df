// Package assets describes the visuals a renderer draws for each kind of
// target.
package assets

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ID string

const (
	Hostile  = ID("hostile")
	Bonus    = ID("bonus")
	Friendly = ID("friendly")
)

//go:embed assets.yaml
var defaultManifest []byte

type Asset struct {
	Name  string `yaml:"name"`
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"`
}

type Manifest map[ID]Asset

// Default returns the manifest compiled into the binary.
func Default() Manifest {
	m, err := Parse(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded asset manifest: %v", err))
	}
	return m
}

// Load reads a manifest from path. An empty path yields the default manifest.
func Load(path string) (Manifest, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset manifest: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing asset manifest: %w", err)
	}
	for _, id := range []ID{Hostile, Bonus, Friendly} {
		a, ok := m[id]
		if !ok {
			return nil, fmt.Errorf("asset manifest missing %q", id)
		}
		if a.Glyph == "" {
			return nil, fmt.Errorf("asset %q has no glyph", id)
		}
	}
	return m, nil
}

// Lookup returns the asset for id, falling back to a placeholder so a
// renderer always has something to draw.
func (m Manifest) Lookup(id ID) Asset {
	if a, ok := m[id]; ok {
		return a
	}
	return Asset{Name: string(id), Glyph: "?", Color: "#ffffff"}
}
