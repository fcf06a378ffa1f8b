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

import (
	"bytes"

	"github.com/klauspost/compress/zlib"
)

// Encode packs node planes the same way they are stored on disk,
// mostly useful to build test worlds.
func Encode(h Header, planes []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(h.Version)
	buf.WriteByte(h.Flags)
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(planes); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Planes returns zeroed param0, param1 and param2 planes.
func Planes() []byte {
	return make([]byte, planesSize)
}
