package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/ha1tch/archdiag/pkg/diagram"
	"github.com/ha1tch/archdiag/pkg/render/raster"
)

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = "archdiag.toml"

const envPrefix = "ARCHDIAG_"

// Config holds all configuration for the application
type Config struct {
	BoxHalfWidth  float64           `koanf:"box-half-width"`
	BoxHalfHeight float64           `koanf:"box-half-height"`
	CornerRadius  float64           `koanf:"corner-radius"`
	FigureWidth   float64           `koanf:"figure-width"`
	FigureHeight  float64           `koanf:"figure-height"`
	DPI           float64           `koanf:"dpi"`
	Background    string            `koanf:"background"`
	Supersample   int               `koanf:"supersample"`
	Trim          bool              `koanf:"trim"`
	TrimPad       float64           `koanf:"trim-pad"`
	Shrink        float64           `koanf:"shrink"`
	LineWidth     float64           `koanf:"line-width"`
	LogLevel      string            `koanf:"log-level"`
	LogFormat     string            `koanf:"log-format"`
	Colors        map[string]string `koanf:"colors"`
}

func defaults() map[string]interface{} {
	box := diagram.DefaultBoxSize()
	o := raster.DefaultOptions()
	return map[string]interface{}{
		"box-half-width":  box.HalfWidth,
		"box-half-height": box.HalfHeight,
		"corner-radius":   o.CornerRadius,
		"figure-width":    o.FigureWidth,
		"figure-height":   o.FigureHeight,
		"dpi":             o.DPI,
		"background":      "#FFFFFF",
		"supersample":     o.Supersample,
		"trim":            o.Trim,
		"trim-pad":        o.TrimPad,
		"shrink":          o.ShrinkPt,
		"line-width":      o.LineWidthPt,
		"log-level":       "info",
		"log-format":      "compact",
	}
}

// RegisterFlags adds the render flags to a flag set. Flag names match
// config keys, so changed flags override file and env values.
func RegisterFlags(f *pflag.FlagSet) {
	d := defaults()
	f.Float64("box-half-width", d["box-half-width"].(float64), "half width of every box (world units)")
	f.Float64("box-half-height", d["box-half-height"].(float64), "half height of every box (world units)")
	f.Float64("corner-radius", d["corner-radius"].(float64), "box corner radius (world units)")
	f.Float64("figure-width", d["figure-width"].(float64), "figure width in inches")
	f.Float64("figure-height", d["figure-height"].(float64), "figure height in inches")
	f.Float64("dpi", d["dpi"].(float64), "output resolution")
	f.String("background", d["background"].(string), "background colour")
	f.Int("supersample", d["supersample"].(int), "render at N times the size and downsample")
	f.Bool("trim", d["trim"].(bool), "crop the image to the drawn content")
	f.Float64("trim-pad", d["trim-pad"].(float64), "padding kept when trimming, in inches")
	f.Float64("shrink", d["shrink"].(float64), "gap between arrow ends and boxes, in points")
	f.Float64("line-width", d["line-width"].(float64), "line width in points")
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
//
// An empty path reads DefaultFile if it exists. An explicit path must exist.
func Load(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(makeMapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// ARCHDIAG_BOX_HALF_WIDTH -> box-half-width, ARCHDIAG_COLORS_DATA -> colors.data
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(s, "colors_"); ok {
		return "colors." + rest
	}
	return strings.ReplaceAll(s, "_", "-")
}

// BoxSize returns the configured box size. It is validated at layout time.
func (c *Config) BoxSize() diagram.BoxSize {
	return diagram.BoxSize{HalfWidth: c.BoxHalfWidth, HalfHeight: c.BoxHalfHeight}
}

// RasterOptions translates the configuration into PNG render options.
func (c *Config) RasterOptions() (raster.Options, error) {
	bg, err := diagram.ParseColor(c.Background)
	if err != nil {
		return raster.Options{}, fmt.Errorf("background: %w", err)
	}
	o := raster.DefaultOptions()
	o.FigureWidth = c.FigureWidth
	o.FigureHeight = c.FigureHeight
	o.DPI = c.DPI
	o.Background = bg
	o.Supersample = c.Supersample
	o.Trim = c.Trim
	o.TrimPad = c.TrimPad
	o.ShrinkPt = c.Shrink
	o.LineWidthPt = c.LineWidth
	o.CornerRadius = c.CornerRadius
	return o, o.Validate()
}

// ApplyColors overrides scene category colours with the configured ones.
// The scene's own map is not modified.
func (c *Config) ApplyColors(s *diagram.Scene) {
	if len(c.Colors) == 0 {
		return
	}
	merged := make(map[diagram.Category]string, len(s.Colors)+len(c.Colors))
	for k, v := range s.Colors {
		merged[k] = v
	}
	for k, v := range c.Colors {
		merged[diagram.Category(k)] = v
	}
	s.Colors = merged
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
