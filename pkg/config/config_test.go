package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/archdiag/pkg/diagram"
	"github.com/ha1tch/archdiag/pkg/render/raster"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archdiag.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, diagram.DefaultBoxSize(), cfg.BoxSize())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "compact", cfg.LogFormat)

	opts, err := cfg.RasterOptions()
	require.NoError(t, err)
	assert.Equal(t, raster.DefaultOptions(), opts)
}

func TestLoadFileEnvFlagPriority(t *testing.T) {
	path := writeConfig(t, `
dpi = 150.0
figure-width = 8.0
box-half-width = 0.5
background = "#000000"

[colors]
data = "#111111"
`)
	t.Setenv("ARCHDIAG_DPI", "200")
	t.Setenv("ARCHDIAG_COLORS_API", "#222222")
	t.Setenv("ARCHDIAG_LOG_LEVEL", "debug")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--figure-width=10", "--trim=false"}))

	cfg, err := Load(fs, path)
	require.NoError(t, err)

	assert.Equal(t, 200.0, cfg.DPI, "env beats file")
	assert.Equal(t, 10.0, cfg.FigureWidth, "flag beats file")
	assert.Equal(t, 0.5, cfg.BoxHalfWidth, "file beats defaults")
	assert.Equal(t, 0.6, cfg.BoxHalfHeight, "unchanged flag keeps default")
	assert.False(t, cfg.Trim)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, map[string]string{"data": "#111111", "api": "#222222"}, cfg.Colors)

	opts, err := cfg.RasterOptions()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, opts.Background)
	assert.Equal(t, 200.0, opts.DPI)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.toml")
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "dpi = = 3")
	_, err := Load(nil, path)
	require.Error(t, err)
}

func TestRasterOptionsErrors(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	bad := *cfg
	bad.Background = "not-a-colour"
	_, err = bad.RasterOptions()
	assert.True(t, errors.Is(err, diagram.ErrInvalidColor))

	bad = *cfg
	bad.DPI = 0
	_, err = bad.RasterOptions()
	assert.True(t, errors.Is(err, raster.ErrInvalidOptions))
}

func TestApplyColors(t *testing.T) {
	orig := map[diagram.Category]string{"data": "#E8F4FD", "api": "#D5E8D4"}
	s := &diagram.Scene{Colors: orig}
	cfg := &Config{Colors: map[string]string{"api": "#000000", "extra": "#FFFFFF"}}

	cfg.ApplyColors(s)

	assert.Equal(t, "#E8F4FD", s.Colors["data"])
	assert.Equal(t, "#000000", s.Colors["api"])
	assert.Equal(t, "#FFFFFF", s.Colors["extra"])
	assert.Equal(t, "#D5E8D4", orig["api"])
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "box-half-width", envKey("ARCHDIAG_BOX_HALF_WIDTH"))
	assert.Equal(t, "dpi", envKey("ARCHDIAG_DPI"))
	assert.Equal(t, "colors.data", envKey("ARCHDIAG_COLORS_DATA"))
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
