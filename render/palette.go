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
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	mapblock "github.com/maxsupermanhd/SectorMapper/mapBlock"
)

var defaultWaterColor = color.RGBA{R: 39, G: 66, B: 106, A: 255}

// Palette maps content ids to colors, ids that are not
// in the palette are not drawn at all.
type Palette struct {
	colors map[mapblock.Content]color.RGBA
}

func NewPalette(colors map[mapblock.Content]color.RGBA) *Palette {
	p := &Palette{colors: map[mapblock.Content]color.RGBA{}}
	for k, v := range colors {
		v.A = 255
		p.colors[k] = v
	}
	return p
}

func LoadPalette(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePalette(f)
}

// ParsePalette reads lines of "<hex id> <r> <g> <b>", empty
// lines and lines starting with # are skipped.
func ParsePalette(r io.Reader) (*Palette, error) {
	colors := map[mapblock.Content]color.RGBA{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		t := strings.TrimSpace(sc.Text())
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		f := strings.Fields(t)
		if len(f) < 4 {
			return nil, fmt.Errorf("line %d: expected 4 fields, got %d", line, len(f))
		}
		id, err := strconv.ParseUint(f[0], 16, 16)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad id: %w", line, err)
		}
		var c [3]uint8
		for i := range c {
			v, err := strconv.ParseUint(f[i+1], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad color component: %w", line, err)
			}
			c[i] = uint8(v)
		}
		colors[mapblock.Content(id)] = color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewPalette(colors), nil
}

func (p *Palette) Color(c mapblock.Content) (color.RGBA, bool) {
	r, ok := p.colors[c]
	return r, ok
}

func (p *Palette) Has(c mapblock.Content) bool {
	_, ok := p.colors[c]
	return ok
}

func (p *Palette) Len() int {
	return len(p.colors)
}

func (p *Palette) WaterColor() color.RGBA {
	if c, ok := p.colors[mapblock.ContentWater]; ok {
		return c
	}
	return defaultWaterColor
}
