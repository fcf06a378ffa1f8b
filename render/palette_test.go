package render

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mapblock "github.com/maxsupermanhd/SectorMapper/mapBlock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleColors = `# id r g b
0 128 128 128
1 107 134 38

2 39 66 106
  809 213 200 140
`

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette(strings.NewReader(sampleColors))
	require.NoError(t, err)
	assert.Equal(t, 4, p.Len())
	c, ok := p.Color(0x809)
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{R: 213, G: 200, B: 140, A: 255}, c)
	assert.True(t, p.Has(mapblock.ContentGrass))
	assert.False(t, p.Has(mapblock.ContentAir))
	assert.Equal(t, color.RGBA{R: 39, G: 66, B: 106, A: 255}, p.WaterColor())
}

func TestParsePaletteErrors(t *testing.T) {
	for _, in := range []string{
		"1 2 3",
		"zz 1 2 3",
		"1 256 0 0",
		"0 0 0 0\n1 -1 0 0",
	} {
		_, err := ParsePalette(strings.NewReader(in))
		assert.Error(t, err, in)
	}
	_, err := ParsePalette(strings.NewReader("0 0 0 0\n\n5 x 0 0"))
	assert.ErrorContains(t, err, "line 3")
}

func TestPaletteDefaultWaterColor(t *testing.T) {
	p := NewPalette(map[mapblock.Content]color.RGBA{mapblock.ContentStone: {R: 1}})
	assert.Equal(t, defaultWaterColor, p.WaterColor())
	c, _ := p.Color(mapblock.ContentStone)
	assert.Equal(t, uint8(255), c.A)
}

func TestLoadPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleColors), 0644))
	p, err := LoadPalette(path)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Len())
	_, err = LoadPalette(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
