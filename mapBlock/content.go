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

package mapblock

// Content identifies node material.
type Content uint16

const (
	ContentStone       Content = 0
	ContentGrass       Content = 1
	ContentWater       Content = 2
	ContentWaterSource Content = 9
	ContentSand        Content = 13
	ContentAir         Content = 254
	ContentIgnore      Content = 255
)

// Extended ids of 16..19 format blocks
var legacyTranslation = map[uint8]Content{
	1:  0x800, // grass
	4:  0x801, // tree
	5:  0x802, // leaves
	6:  0x803, // grass with footsteps
	7:  0x804, // mese
	8:  0x805, // mud
	10: 0x806, // cloud
	11: 0x807, // coalstone
	12: 0x808, // wood
	13: 0x809, // sand
	18: 0x80a, // cobble
	19: 0x80b, // steel
	20: 0x80c, // glass
	22: 0x80d, // mossy cobble
	23: 0x80e, // gravel
	24: 0x80f, // sandstone
	25: 0x810, // cactus
	26: 0x811, // brick
	27: 0x812, // clay
	28: 0x813, // papyrus
	29: 0x814, // bookshelf
}

func TranslateLegacy(raw uint8) Content {
	if c, ok := legacyTranslation[raw]; ok {
		return c
	}
	return Content(raw)
}

func (c Content) IsAir() bool {
	return c == 126 || c == 127 || c == ContentAir
}

func (c Content) IsWater() bool {
	return c == ContentWater || c == ContentWaterSource
}
