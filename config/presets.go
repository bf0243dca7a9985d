package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/beka-birhanu/vinom-maze/maze"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned when a preset name is not defined.
var ErrUnknownPreset = errors.New("unknown maze preset")

// defaultPresets holds the classic 10x10 board plus a few shapes
// with other axis counts.
const defaultPresets = `
presets:
  - name: classic
    shape: [10, 10]
  - name: small
    shape: [5, 5]
  - name: large
    shape: [40, 40]
  - name: cube
    shape: [4, 4, 4]
  - name: line
    shape: [16]
`

// Preset is a named maze shape.
type Preset struct {
	Name  string `yaml:"name"`
	Shape []int  `yaml:"shape"`
}

// Presets indexes maze shapes by name.
type Presets struct {
	byName map[string][]int
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// DefaultPresets returns the built-in presets.
func DefaultPresets() *Presets {
	p, err := ParsePresets([]byte(defaultPresets))
	if err != nil {
		panic(fmt.Sprintf("config: built-in presets are invalid: %v", err))
	}
	return p
}

// LoadPresets reads presets from a YAML file and layers them over the built-in ones.
// An empty path yields the built-in presets.
func LoadPresets(path string) (*Presets, error) {
	presets := DefaultPresets()
	if path == "" {
		return presets, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets file: %w", err)
	}

	extra, err := ParsePresets(raw)
	if err != nil {
		return nil, err
	}
	for name, shape := range extra.byName {
		presets.byName[name] = shape
	}
	return presets, nil
}

// ParsePresets decodes a YAML presets document and validates every shape.
func ParsePresets(raw []byte) (*Presets, error) {
	var file presetsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decoding presets: %w", err)
	}

	presets := &Presets{byName: make(map[string][]int, len(file.Presets))}
	for _, p := range file.Presets {
		if p.Name == "" {
			return nil, errors.New("preset without a name")
		}
		if err := maze.ValidateShape(p.Shape); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		presets.byName[p.Name] = p.Shape
	}
	return presets, nil
}

// Shape returns a copy of the shape registered under name.
func (p *Presets) Shape(name string) ([]int, error) {
	shape, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return append([]int(nil), shape...), nil
}

// Names lists the preset names in sorted order.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
