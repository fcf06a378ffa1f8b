/*
	SectorMapper, top-down map renderer for voxel worlds
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package render

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/maxsupermanhd/SectorMapper/chunkStorage"
	"github.com/maxsupermanhd/SectorMapper/primitives"
)

const (
	shadeStep = 12
	shadeMax  = 36
	// Share of the node color in the color of a submerged column
	waterTint = 0.15
	// Border that fits scale labels
	ScaleBorder = 40
)

type Options struct {
	Border      int
	Background  color.RGBA
	ScaleColor  color.RGBA
	OriginColor color.RGBA
	PlayerColor color.RGBA
	DrawOrigin  bool
	DrawScale   bool
	DrawPlayers bool
}

func DefaultOptions() Options {
	return Options{
		Border:      0,
		Background:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		ScaleColor:  color.RGBA{A: 255},
		OriginColor: color.RGBA{R: 255, A: 255},
		PlayerColor: color.RGBA{R: 255, A: 255},
	}
}

// Composite draws resolved columns, x grows to the right and
// z grows upwards. Border is reserved on the left and top sides.
func Composite(t *ColumnTable, p *Palette, players []chunkStorage.Player, opts Options) (*image.RGBA, error) {
	ext, ok := t.Extent()
	if !ok {
		return nil, ErrNothingToRender
	}
	border := opts.Border
	if border < 0 {
		border = 0
	}
	bs := primitives.BlockSize
	w := (ext.XMax-ext.XMin)*bs + bs
	h := (ext.ZMax-ext.ZMin)*bs + bs
	img := image.NewRGBA(image.Rect(0, 0, w+border, h+border))
	draw.Draw(img, img.Bounds(), &image.Uniform{opts.Background}, image.Point{}, draw.Src)

	type placed struct {
		pos primitives.ColumnPos
		c   Column
	}
	cols := make([]placed, 0, t.Len())
	t.Range(func(pos primitives.ColumnPos, c Column) bool {
		cols = append(cols, placed{pos, c})
		return true
	})
	for _, e := range cols {
		cl, ok := ColumnColor(t, p, e.pos, e.c)
		if !ok {
			continue
		}
		img.SetRGBA(e.pos.X-ext.XMin*bs+border, h-1-(e.pos.Z-ext.ZMin*bs)+border, cl)
	}

	if !opts.DrawOrigin && !opts.DrawScale && !opts.DrawPlayers {
		return img, nil
	}
	dc := newOverlay(img)
	if opts.DrawOrigin {
		ox := -bs*ext.XMin + border
		oy := h + bs*ext.ZMin + border
		drawEllipse(dc, ox-5, oy-6, ox+5, oy+4, opts.OriginColor)
	}
	if opts.DrawScale {
		drawScale(dc, ext, h, border, opts.ScaleColor)
	}
	if opts.DrawPlayers {
		for _, pl := range players {
			px, _, pz := pl.WorldPos()
			x := int(px - float64(ext.XMin*bs))
			z := int(float64(h) - (pz - float64(ext.ZMin*bs)))
			drawEllipse(dc, x-2+border, z-2+border, x+2+border, z+2+border, opts.PlayerColor)
			drawText(dc, x+2+border, z+2+border, pl.Name, opts.PlayerColor)
		}
	}
	return img, nil
}

// Ticks start at the first multiple of 4 inside the extent,
// rounding towards the map on both axes.
func drawScale(dc *gg.Context, ext primitives.BoundingBox, h, border int, c color.RGBA) {
	bs := primitives.BlockSize
	drawText(dc, 24, 0, "X", c)
	drawText(dc, 2, 24, "Z", c)
	for n := primitives.FloorDiv(ext.XMin, -4) * -4; n < ext.XMax; n += 4 {
		x := -bs*ext.XMin + n*bs + border
		drawText(dc, x+2, 0, strconv.Itoa(n*bs), c)
		drawLine(dc, x, 0, x, border-1, c)
	}
	for n := primitives.FloorDiv(ext.ZMax, 4) * 4; n > ext.ZMin; n -= 4 {
		y := h - 1 - (n*bs - ext.ZMin*bs) + border
		drawText(dc, 2, y, strconv.Itoa(n*bs), c)
		drawLine(dc, 0, y, border-1, y, c)
	}
}

// ColumnColor returns shaded color of a column, columns with
// content missing from the palette are not drawn.
func ColumnColor(t *ColumnTable, p *Palette, pos primitives.ColumnPos, c Column) (color.RGBA, bool) {
	base, ok := p.Color(c.Content)
	if !ok {
		return color.RGBA{}, false
	}
	d := 0
	west, okw := t.Get(primitives.ColumnPos{X: pos.X - 1, Z: pos.Z})
	south, oks := t.Get(primitives.ColumnPos{X: pos.X, Z: pos.Z + 1})
	if okw && oks && !c.Content.IsWater() && !west.Content.IsWater() && !south.Content.IsWater() {
		d = ShadeDelta(c.Y, west.Y, south.Y)
	}
	r := clampChannel(int(base.R) + d)
	g := clampChannel(int(base.G) + d)
	b := clampChannel(int(base.B) + d)
	if c.Water > 0 {
		wc := p.WaterColor()
		r = blendWater(r, int(wc.R))
		g = blendWater(g, int(wc.G))
		b = blendWater(b, int(wc.B))
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, true
}

// ShadeDelta is capped from above only.
func ShadeDelta(y, westY, southY int) int {
	d := shadeStep * ((y - westY) + (y - southY))
	if d > shadeMax {
		d = shadeMax
	}
	return d
}

func blendWater(v, water int) int {
	return int(float64(v)*waterTint + float64(water)*(1-waterTint))
}

func clampChannel(v int) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return v
}
