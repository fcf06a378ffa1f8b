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

package chunkStorage

import (
	"errors"
	"log"

	"github.com/maxsupermanhd/SectorMapper/primitives"
)

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrNoWorld        = errors.New("world not found")
	ErrNoSector       = errors.New("sector not found")
)

// Layout tells which on-disk tree a sector was found in.
type Layout int

const (
	LayoutNone Layout = iota
	LayoutLegacy
	LayoutNested
)

func (l Layout) String() string {
	switch l {
	case LayoutLegacy:
		return "legacy"
	case LayoutNested:
		return "nested"
	default:
		return "none"
	}
}

// Sector is a vertical stack of chunks sharing x and z.
type Sector struct {
	Pos    primitives.SectorPos
	Layout Layout
	Ys     []int // ascending
}

type Player struct {
	Name     string
	Position [3]float64 // 10x world units
}

// WorldPos returns the player position in world units.
func (p Player) WorldPos() (x, y, z float64) {
	return p.Position[0] / 10, p.Position[1] / 10, p.Position[2] / 10
}

// Everything returns empty slice/nil if specified
// object is not found, error only in case of abnormal things.
type ChunkStorage interface {
	GetStatus() (string, error)

	// Order is irrelevant, same sector may be listed once per layout.
	ListSectors(box primitives.BoundingBox) ([]primitives.SectorPos, error)
	// Legacy layout takes precedence, nested is only consulted
	// when legacy one has no chunks for that sector.
	GetSector(pos primitives.SectorPos) (*Sector, error)
	// Opens, reads and closes chunk file, no handles are kept.
	ReadBlock(s *Sector, y int) ([]byte, error)

	ListPlayers() ([]Player, error)

	Close() error
}

// Storage is decoded from config with mapstructure and served as json.
type Storage struct {
	Name    string       `json:"name" mapstructure:"name"`
	Type    string       `json:"type" mapstructure:"type"`
	Address string       `json:"addr" mapstructure:"addr"`
	Driver  ChunkStorage `json:"-" mapstructure:"-"`
}

func CloseStorages(s map[string]Storage) {
	for k, c := range s {
		if c.Driver != nil {
			err := c.Driver.Close()
			if err != nil {
				log.Printf("Error closing storage [%v] of type %v: %v", c.Name, c.Type, err)
			}
			c.Driver = nil
			s[k] = c
		}
	}
}

func GetWorldStorage(storages map[string]Storage, wname string) (ChunkStorage, error) {
	s, ok := storages[wname]
	if !ok || s.Driver == nil {
		return nil, ErrNoWorld
	}
	return s.Driver, nil
}
