package scenefile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/archdiag/pkg/diagram"
)

const sampleTOML = `
title = "Pipeline"
title_at = [2.0, 11.5]

[colors]
data = "#E8F4FD"
api = "#D5E8D4"

[[legend]]
category = "data"
name = "Data Sources"

[[nodes]]
id = "A"
x = 1.0
y = 10.0
label = "Alpha\nsource"
category = "data"

[[nodes]]
id = "B"
x = 3.0
y = 10.0
label = "Beta"
category = "api"

[[connections]]
from = "A"
to = "B"
label = "call"
`

const sampleYAML = `
title: Pipeline
title_at: [2.0, 11.5]
colors:
  data: "#E8F4FD"
  api: "#D5E8D4"
legend:
  - category: data
    name: Data Sources
nodes:
  - id: A
    x: 1
    y: 10
    label: "Alpha\nsource"
    category: data
  - id: B
    x: 3
    y: 10
    label: Beta
    category: api
connections:
  - from: A
    to: B
    label: call
`

const sampleJSON = `{
  "title": "Pipeline",
  "title_at": [2.0, 11.5],
  "colors": {"data": "#E8F4FD", "api": "#D5E8D4"},
  "legend": [{"category": "data", "name": "Data Sources"}],
  "nodes": [
    {"id": "A", "x": 1, "y": 10, "label": "Alpha\nsource", "category": "data"},
    {"id": "B", "x": 3, "y": 10, "label": "Beta", "category": "api"}
  ],
  "connections": [{"from": "A", "to": "B", "label": "call"}]
}`

func checkSample(t *testing.T, s *diagram.Scene) {
	t.Helper()
	assert.Equal(t, "Pipeline", s.Title)
	require.NotNil(t, s.TitleAt)
	assert.Equal(t, diagram.Point{X: 2, Y: 11.5}, *s.TitleAt)
	assert.Equal(t, "#D5E8D4", s.Colors["api"])
	assert.Equal(t, []diagram.LegendEntry{{Category: "data", Name: "Data Sources"}}, s.Legend)
	require.Len(t, s.Nodes, 2)
	assert.Equal(t, diagram.Node{ID: "A", Center: diagram.Point{X: 1, Y: 10}, Label: "Alpha\nsource", Category: "data"}, s.Nodes[0])
	assert.Equal(t, "B", s.Nodes[1].ID)
	assert.Equal(t, []diagram.Connection{{From: "A", To: "B", Label: "call"}}, s.Connections)
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatTOML, sampleTOML},
		{FormatYAML, sampleYAML},
		{FormatJSON, sampleJSON},
	}
	for _, tc := range tests {
		t.Run(string(tc.format), func(t *testing.T) {
			s, err := Parse([]byte(tc.data), tc.format)
			require.NoError(t, err)
			checkSample(t, s)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatTOML, "title = \"x\"\nsubtitle = \"y\"\n"},
		{FormatYAML, "title: x\nsubtitle: y\n"},
		{FormatJSON, `{"title": "x", "subtitle": "y"}`},
	}
	for _, tc := range tests {
		t.Run(string(tc.format), func(t *testing.T) {
			_, err := Parse([]byte(tc.data), tc.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidScene))
		})
	}
}

func TestParseBadTitleAt(t *testing.T) {
	_, err := Parse([]byte(`{"title_at": [1]}`), FormatJSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidScene))
	assert.Contains(t, err.Error(), "title_at")
}

func TestParsedNonFiniteCentreFailsLayout(t *testing.T) {
	for _, v := range []string{"nan", "inf", "-inf"} {
		t.Run(v, func(t *testing.T) {
			data := strings.Replace(sampleTOML, "x = 3.0", "x = "+v, 1)
			s, err := Parse([]byte(data), FormatTOML)
			require.NoError(t, err)

			_, err = diagram.Layout(s, diagram.DefaultBoxSize())
			require.Error(t, err)
			assert.True(t, errors.Is(err, diagram.ErrInvalidGeometry))
			assert.Contains(t, err.Error(), `node "B"`)
		})
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse([]byte("x"), Format("xml"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"scene.toml", FormatTOML, false},
		{"dir/scene.YAML", FormatYAML, false},
		{"scene.yml", FormatYAML, false},
		{"scene.json", FormatJSON, false},
		{"scene.xml", "", true},
		{"scene", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, err := FormatFromPath(tc.path)
			if tc.err {
				assert.True(t, errors.Is(err, ErrUnknownFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeThenParseKeepsScene(t *testing.T) {
	src, err := Parse([]byte(sampleTOML), FormatTOML)
	require.NoError(t, err)

	for _, format := range []Format{FormatTOML, FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, format))
			got, err := Parse(buf.Bytes(), format)
			require.NoError(t, err)
			checkSample(t, got)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")

	require.NoError(t, Save(path, Reference()))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Reference(), s)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidScene))
	assert.Contains(t, err.Error(), bad)
}

func TestReferenceScene(t *testing.T) {
	s := Reference()

	assert.Equal(t, "NPC System Architecture: Echoes of the Crowd", s.Title)
	assert.Len(t, s.Nodes, 11)
	assert.Len(t, s.Connections, 12)
	assert.Len(t, s.Legend, 5)
	assert.Len(t, s.Colors, 5)

	plan, err := diagram.Layout(s, diagram.DefaultBoxSize())
	require.NoError(t, err)
	assert.Equal(t, diagram.Point{X: 5, Y: 11.5}, plan.TitleAt)

	byPair := make(map[string]diagram.Connector)
	for _, c := range plan.Connectors {
		byPair[c.From+">"+c.To] = c
	}
	assert.Equal(t, diagram.DirRight, byPair["A>B"].Direction)
	assert.Equal(t, diagram.DirDown, byPair["D>D2"].Direction)
	assert.Equal(t, diagram.DirLeft, byPair["D4>E"].Direction)
	assert.Equal(t, diagram.DirRight, byPair["E>D4"].Direction)
	assert.Equal(t, "Send context", byPair["D4>E"].Label)

	// D -> D1 is diagonal; x is compared first
	assert.Equal(t, diagram.DirLeft, byPair["D>D1"].Direction)
	assert.InDelta(t, 6.2, byPair["D>D1"].Start.X, 1e-9)
	assert.InDelta(t, 10, byPair["D>D1"].Start.Y, 1e-9)
	assert.InDelta(t, 5.8, byPair["D>D1"].End.X, 1e-9)
	assert.InDelta(t, 8, byPair["D>D1"].End.Y, 1e-9)
}
