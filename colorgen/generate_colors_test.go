package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, img))
	return b.Bytes()
}

func TestGenerate(t *testing.T) {
	half := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	half.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	half.SetNRGBA(1, 0, color.NRGBA{})
	solid := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			solid.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	textures := fstest.MapFS{
		"half.png":        {Data: encodePNG(t, half)},
		"sub/solid.png":   {Data: encodePNG(t, solid)},
		"transparent.png": {Data: encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 1, 1)))},
		"broken.png":      {Data: []byte("nope")},
	}
	nodes, err := readNodes(strings.NewReader("# nodes\n1 half.png\n80a sub/solid.png\n2 transparent.png\n3 broken.png\n4 missing.png\n"))
	require.NoError(t, err)
	require.Len(t, nodes, 5)

	colors, err := generate(textures, nodes)
	assert.Error(t, err)
	assert.Equal(t, map[uint16]color.RGBA{
		0x1:   {R: 200, G: 100, B: 50, A: 255},
		0x80a: {R: 10, G: 20, B: 30, A: 255},
	}, colors)

	var out bytes.Buffer
	require.NoError(t, output(&out, colors))
	assert.Equal(t, "1 200 100 50\n80a 10 20 30\n", out.String())
}

func TestReadNodesErrors(t *testing.T) {
	_, err := readNodes(strings.NewReader("1\n"))
	assert.Error(t, err)
	_, err = readNodes(strings.NewReader("xyz a.png\n"))
	assert.Error(t, err)
}
