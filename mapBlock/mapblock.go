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

// Package mapblock decodes 16x16x16 node blocks as they are
// stored on disk: version byte, flags byte and zlib compressed
// node planes.
package mapblock

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

const (
	BlockSize = 16
	NodeCount = BlockSize * BlockSize * BlockSize

	FlagUnderground  = 1 << 0
	FlagDayNightDiff = 1 << 1

	headerSize = 2
	// param0, param1 and param2 planes
	planesSize      = 3 * NodeCount
	highPlaneOffset = 2 * NodeCount
)

var (
	ErrUnsupportedVersion = errors.New("unsupported map format")
	ErrUndecodable        = errors.New("undecodable block")
)

type Header struct {
	Version uint8
	Flags   uint8
}

func (h Header) DayNightDiff() bool {
	return h.Flags&FlagDayNightDiff != 0
}

func ParseHeader(raw []byte) (Header, error) {
	if len(raw) < headerSize {
		return Header{}, fmt.Errorf("%w: header is %d bytes long", ErrUndecodable, len(raw))
	}
	return Header{Version: raw[0], Flags: raw[1]}, nil
}

func SupportedVersion(v uint8) bool {
	return v >= 16 && v <= 20
}

type Block struct {
	Header
	low  []byte
	high []byte // only version 20, may be shorter than NodeCount
}

// Decode returns ErrUndecodable if payload can not be inflated or holds
// less than NodeCount nodes (a truncated stream keeps what was inflated), that is not fatal and block should be
// treated as empty. ErrUnsupportedVersion means format is unknown.
func Decode(raw []byte) (*Block, error) {
	h, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw[headerSize:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	defer zr.Close()
	data, err := io.ReadAll(io.LimitReader(zr, planesSize))
	// cut off streams are fine as long as a whole plane came out
	if err != nil && !(errors.Is(err, io.ErrUnexpectedEOF) && len(data) >= NodeCount) {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if len(data) < NodeCount {
		return nil, fmt.Errorf("%w: only %d nodes", ErrUndecodable, len(data))
	}
	if !SupportedVersion(h.Version) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	b := &Block{
		Header: h,
		low:    data[:NodeCount],
	}
	if h.Version == 20 && len(data) > highPlaneOffset {
		b.high = data[highPlaneOffset:]
	}
	return b, nil
}

func Index(x, y, z int) int {
	return x + y*BlockSize + z*BlockSize*BlockSize
}

func (b *Block) ContentAt(x, y, z int) Content {
	return b.ContentAtIndex(Index(x, y, z))
}

func (b *Block) ContentAtIndex(i int) Content {
	raw := b.low[i]
	if b.Version < 20 {
		return TranslateLegacy(raw)
	}
	if raw < 0x80 {
		return Content(raw)
	}
	var high uint8
	if i < len(b.high) {
		high = b.high[i]
	}
	return Content(raw)<<4 | Content(high>>4)
}
