package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxsupermanhd/SectorMapper/primitives"
	"github.com/maxsupermanhd/SectorMapper/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := parseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 128, A: 255}, c)
	c, err = parseColor(" White ")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, c)
	for _, s := range []string{"", "#fff", "#gg0000", "purple", "ff8000"} {
		_, err := parseColor(s)
		assert.Error(t, err, s)
	}
}

func TestSettingsFromQuery(t *testing.T) {
	defaults := renderSettings{Box: primitives.DefaultBoundingBox(), Opts: render.DefaultOptions(), Scale: 1}
	q, _ := url.ParseQuery("xmin=-2&zmax=7&origin=true&scale=1&s=2")
	rs, level, err := settingsFromQuery(defaults, q)
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.Equal(t, 0.25, rs.Scale)
	assert.Equal(t, primitives.BoundingBox{XMin: -2, XMax: 93, ZMin: -93, ZMax: 7}, rs.Box)
	assert.True(t, rs.Opts.DrawOrigin)
	assert.True(t, rs.Opts.DrawScale)
	assert.Equal(t, render.ScaleBorder, rs.Opts.Border)
	assert.Equal(t, "png-os-b40", variantName("png", rs))

	q, _ = url.ParseQuery("scale=true&border=3")
	rs, _, err = settingsFromQuery(defaults, q)
	require.NoError(t, err)
	assert.Equal(t, 3, rs.Opts.Border)

	_, _, err = settingsFromQuery(defaults, url.Values{"border": {"-1"}})
	assert.Error(t, err)
	assert.Equal(t, "jpeg-plain-b0", variantName("jpeg", defaults))
}

func TestImageFormat(t *testing.T) {
	for in, want := range map[string]string{
		"map.png": "png", "out/MAP.JPG": "jpeg", "x.jpeg": "jpeg", "png": "png", "jpeg": "jpeg",
	} {
		f, err := imageFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, f, in)
	}
	_, err := imageFormat("map.gif")
	assert.ErrorIs(t, err, errUnknownFormat)
}

func TestScaleImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	img.SetRGBA(31, 15, color.RGBA{R: 9, A: 255})
	assert.Same(t, img, scaleImage(img, 1))
	half := scaleImage(img, 0.5)
	assert.Equal(t, image.Rect(0, 0, 16, 8), half.Bounds())
	double := scaleImage(img, 2)
	assert.Equal(t, image.Rect(0, 0, 64, 32), double.Bounds())
	assert.Equal(t, color.RGBA{R: 9, A: 255}, double.RGBAAt(63, 31))
}

func TestWriteImageFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	p := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, writeImageFile(p, img))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	dec, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), dec.Bounds())
	assert.Error(t, writeImageFile(filepath.Join(t.TempDir(), "map.bmp"), img))
}
