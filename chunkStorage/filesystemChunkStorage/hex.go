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

package filesystemChunkStorage

import (
	"fmt"
	"strconv"
)

// Sector coordinates are stored as unsigned hex of a value
// offset by a power of two, 3 digits for nested layout
// directories and 4 digits for everything else.

const (
	hex3Range = 4096
	hex4Range = 65536
)

func Hex3ToInt(h string) (int, error) {
	i, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, err
	}
	r := int(i)
	if r > hex3Range/2-1 {
		r -= hex3Range
	}
	return r, nil
}

func Hex4ToInt(h string) (int, error) {
	i, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, err
	}
	r := int(i)
	if r > hex4Range/2-1 {
		r -= hex4Range
	}
	return r, nil
}

func IntToHex3(i int) string {
	if i < 0 {
		return fmt.Sprintf("%03x", i+hex3Range)
	}
	return fmt.Sprintf("%03x", i)
}

func IntToHex4(i int) string {
	if i < 0 {
		return fmt.Sprintf("%04x", i+hex4Range)
	}
	return fmt.Sprintf("%04x", i)
}

func inHex3Range(i int) bool {
	return i >= -hex3Range/2 && i < hex3Range/2
}
