package raster

import (
	"errors"
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type faceKey struct {
	size float64
	bold bool
}

// fontSet caches faces per size and weight for one canvas.
type fontSet struct {
	dpi     float64
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

func newFontSet(dpi float64) (*fontSet, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &fontSet{
		dpi:     dpi,
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// face returns a face of the given point size.
func (fs *fontSet) face(size float64, bold bool) font.Face {
	key := faceKey{size, bold}
	if f, ok := fs.faces[key]; ok {
		return f
	}
	fnt := fs.regular
	if bold {
		fnt = fs.bold
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     fs.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(err) // should never happen with embedded fonts
	}
	fs.faces[key] = f
	return f
}

// Close releases every cached face.
func (fs *fontSet) Close() error {
	var errs []error
	for k, f := range fs.faces {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(fs.faces, k)
	}
	return errors.Join(errs...)
}
