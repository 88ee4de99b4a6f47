// Package scenefile reads and writes diagram scenes as TOML, YAML or JSON.
package scenefile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/archdiag/pkg/diagram"
)

// Errors returned by the package.
var (
	ErrUnknownFormat = errors.New("unknown scene format")
	ErrInvalidScene  = errors.New("invalid scene file")
)

// Format is a scene file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// File is the on-disk representation of a scene.
type File struct {
	Title       string            `json:"title,omitempty" toml:"title,omitempty" yaml:"title,omitempty"`
	TitleAt     []float64         `json:"title_at,omitempty" toml:"title_at,omitempty" yaml:"title_at,omitempty,flow"`
	Colors      map[string]string `json:"colors" toml:"colors" yaml:"colors"`
	Legend      []Legend          `json:"legend,omitempty" toml:"legend,omitempty" yaml:"legend,omitempty"`
	Nodes       []Node            `json:"nodes" toml:"nodes" yaml:"nodes"`
	Connections []Connection      `json:"connections,omitempty" toml:"connections,omitempty" yaml:"connections,omitempty"`
}

type Legend struct {
	Category string `json:"category" toml:"category" yaml:"category"`
	Name     string `json:"name" toml:"name" yaml:"name"`
}

type Node struct {
	ID       string  `json:"id" toml:"id" yaml:"id"`
	X        float64 `json:"x" toml:"x" yaml:"x"`
	Y        float64 `json:"y" toml:"y" yaml:"y"`
	Label    string  `json:"label" toml:"label" yaml:"label"`
	Category string  `json:"category" toml:"category" yaml:"category"`
}

type Connection struct {
	From  string `json:"from" toml:"from" yaml:"from"`
	To    string `json:"to" toml:"to" yaml:"to"`
	Label string `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
}

//go:embed reference.toml
var referenceTOML []byte

// Reference returns the built-in NPC architecture scene.
func Reference() *diagram.Scene {
	s, err := Parse(referenceTOML, FormatTOML)
	if err != nil {
		panic(err) // embedded file is covered by tests
	}
	return s
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Load reads a scene file, choosing the format by extension.
func Load(path string) (*diagram.Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene. Unknown keys are rejected in every format.
func Parse(data []byte, format Format) (*diagram.Scene, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidScene, undec[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return f.Scene()
}

// Scene converts the file form into a diagram scene.
func (f *File) Scene() (*diagram.Scene, error) {
	s := &diagram.Scene{Title: f.Title}

	switch len(f.TitleAt) {
	case 0:
	case 2:
		s.TitleAt = &diagram.Point{X: f.TitleAt[0], Y: f.TitleAt[1]}
	default:
		return nil, fmt.Errorf("%w: title_at needs 2 values, got %d", ErrInvalidScene, len(f.TitleAt))
	}

	if len(f.Colors) > 0 {
		s.Colors = make(map[diagram.Category]string, len(f.Colors))
		for k, v := range f.Colors {
			s.Colors[diagram.Category(k)] = v
		}
	}
	for _, l := range f.Legend {
		s.Legend = append(s.Legend, diagram.LegendEntry{Category: diagram.Category(l.Category), Name: l.Name})
	}
	for _, n := range f.Nodes {
		s.AddNode(n.ID, n.X, n.Y, n.Label, diagram.Category(n.Category))
	}
	for _, c := range f.Connections {
		s.Connect(c.From, c.To, c.Label)
	}
	return s, nil
}

// FromScene builds the file form of a scene.
func FromScene(s *diagram.Scene) *File {
	f := &File{Title: s.Title}
	if s.TitleAt != nil {
		f.TitleAt = []float64{s.TitleAt.X, s.TitleAt.Y}
	}
	f.Colors = make(map[string]string, len(s.Colors))
	for k, v := range s.Colors {
		f.Colors[string(k)] = v
	}
	for _, l := range s.Legend {
		f.Legend = append(f.Legend, Legend{Category: string(l.Category), Name: l.Name})
	}
	for _, n := range s.Nodes {
		f.Nodes = append(f.Nodes, Node{
			ID:       n.ID,
			X:        n.Center.X,
			Y:        n.Center.Y,
			Label:    n.Label,
			Category: string(n.Category),
		})
	}
	for _, c := range s.Connections {
		f.Connections = append(f.Connections, Connection{From: c.From, To: c.To, Label: c.Label})
	}
	return f
}

// Encode writes a scene in the given format.
func Encode(w io.Writer, s *diagram.Scene, format Format) error {
	f := FromScene(s)
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Save writes a scene to path, choosing the format by extension.
func Save(path string, s *diagram.Scene) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
