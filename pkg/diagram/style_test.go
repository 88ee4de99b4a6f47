package diagram

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleMapColorOf(t *testing.T) {
	sm, err := NewStyleMap(map[Category]string{
		"data":       "#E8F4FD",
		"processing": "#FFF2CC",
		"short":      "#abc",
	})
	require.NoError(t, err)

	c, err := sm.ColorOf("data")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xE8, 0xF4, 0xFD, 0xFF}, c)

	c, err = sm.ColorOf("short")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xAA, 0xBB, 0xCC, 0xFF}, c)
}

func TestStyleMapUnknownCategory(t *testing.T) {
	sm, err := NewStyleMap(map[Category]string{"data": "#E8F4FD"})
	require.NoError(t, err)

	_, err = sm.ColorOf("unity")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	assert.Contains(t, err.Error(), "unity")
}

func TestStyleMapInvalidColor(t *testing.T) {
	_, err := NewStyleMap(map[Category]string{"api": "#GGHHII"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidColor))
	assert.Contains(t, err.Error(), "api")
}

func TestStyleMapReportsFirstBadCategory(t *testing.T) {
	colors := map[Category]string{
		"zeta":  "nope",
		"alpha": "#12",
		"mid":   "#GGGGGG",
		"ok":    "#FFFFFF",
	}
	for i := 0; i < 20; i++ {
		_, err := NewStyleMap(colors)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `category "alpha"`)
	}
}

func TestParseColorWithoutHash(t *testing.T) {
	c, err := ParseColor("D5E8D4")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xD5, 0xE8, 0xD4, 0xFF}, c)
}
