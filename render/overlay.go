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

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Overlay coordinates are pixel indices, shapes are drawn through
// pixel centers so one pixel wide strokes stay on the pixel grid.
func newOverlay(img *image.RGBA) *gg.Context {
	dc := gg.NewContextForRGBA(img)
	dc.SetLineWidth(1)
	dc.SetLineCapSquare()
	dc.SetFontFace(basicfont.Face7x13)
	return dc
}

// drawLine plots a line including both ends.
func drawLine(dc *gg.Context, x0, y0, x1, y1 int, c color.RGBA) {
	dc.SetColor(c)
	dc.DrawLine(float64(x0)+0.5, float64(y0)+0.5, float64(x1)+0.5, float64(y1)+0.5)
	dc.Stroke()
}

// drawEllipse outlines ellipse inscribed into inclusive box.
func drawEllipse(dc *gg.Context, x0, y0, x1, y1 int, c color.RGBA) {
	cx := float64(x0+x1)/2 + 0.5
	cy := float64(y0+y1)/2 + 0.5
	dc.SetColor(c)
	dc.DrawEllipse(cx, cy, float64(x1-x0)/2, float64(y1-y0)/2)
	dc.Stroke()
}

// drawText puts top left corner of the text at x, y.
func drawText(dc *gg.Context, x, y int, s string, c color.RGBA) {
	dc.SetColor(c)
	dc.DrawString(s, float64(x), float64(y+basicfont.Face7x13.Ascent))
}
