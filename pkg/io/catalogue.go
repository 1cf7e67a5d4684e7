package io

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/polypack/pkg/catalogue"
)

// WriteJSON encodes a catalogue as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(c *catalogue.Catalogue, w io.Writer) error {
	data, err := catalogue.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportJSON writes a catalogue to a JSON file at path.
func ExportJSON(c *catalogue.Catalogue, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(c, w) })
}

// ReadJSON decodes and validates a catalogue from r.
func ReadJSON(r io.Reader) (*catalogue.Catalogue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return catalogue.Unmarshal(data)
}

// ImportJSON reads a catalogue from a JSON file at path.
func ImportJSON(path string) (*catalogue.Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

type yamlCatalogue struct {
	MaxK         int         `yaml:"max_k"`
	IncludeHoles bool        `yaml:"include_holes"`
	Enumerated   []int       `yaml:"enumerated,flow"`
	Classes      []yamlClass `yaml:"classes"`
}

type yamlClass struct {
	Size   int        `yaml:"size"`
	Count  int        `yaml:"count"`
	Shapes [][][2]int `yaml:"shapes,flow"`
}

func toYAML(c *catalogue.Catalogue) yamlCatalogue {
	out := yamlCatalogue{
		MaxK:         c.MaxK,
		IncludeHoles: c.IncludeHoles,
		Enumerated:   c.Enumerated,
		Classes:      make([]yamlClass, len(c.Classes)),
	}
	for i, class := range c.Classes {
		shapes := make([][][2]int, len(class.Shapes))
		for j, s := range class.Shapes {
			cells := make([][2]int, len(s))
			for k, cell := range s {
				cells[k] = [2]int{cell.X, cell.Y}
			}
			shapes[j] = cells
		}
		out.Classes[i] = yamlClass{Size: class.Size, Count: len(class.Shapes), Shapes: shapes}
	}
	return out
}

// WriteYAML encodes a catalogue as YAML and writes it to w.
func WriteYAML(c *catalogue.Catalogue, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(c)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportYAML writes a catalogue to a YAML file at path.
func ExportYAML(c *catalogue.Catalogue, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteYAML(c, w) })
}
