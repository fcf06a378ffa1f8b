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
	"sync"

	mapblock "github.com/maxsupermanhd/SectorMapper/mapBlock"
	"github.com/maxsupermanhd/SectorMapper/primitives"
)

// Column is the topmost visible node of a world column.
type Column struct {
	Y       int
	Content mapblock.Content
	Water   int // water nodes above Y
}

type tableEntry struct {
	Column
	final bool
}

// ColumnTable collects resolved columns of all sectors. Final
// entries are written once and never change, provisional ones
// (water surface without seabed so far) can be overwritten.
type ColumnTable struct {
	lock      sync.RWMutex
	columns   map[primitives.ColumnPos]tableEntry
	extent    primitives.BoundingBox
	hasExtent bool
}

func NewColumnTable() *ColumnTable {
	return &ColumnTable{
		columns: map[primitives.ColumnPos]tableEntry{},
	}
}

// Provisional stores column unless it is already resolved.
func (t *ColumnTable) Provisional(pos primitives.ColumnPos, c Column) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if e, ok := t.columns[pos]; ok && e.final {
		return false
	}
	t.columns[pos] = tableEntry{Column: c}
	return true
}

// Resolve stores final column, first caller for a position wins.
func (t *ColumnTable) Resolve(pos primitives.ColumnPos, c Column) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if e, ok := t.columns[pos]; ok && e.final {
		return false
	}
	t.columns[pos] = tableEntry{Column: c, final: true}
	return true
}

func (t *ColumnTable) Get(pos primitives.ColumnPos) (Column, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	e, ok := t.columns[pos]
	return e.Column, ok
}

func (t *ColumnTable) IsResolved(pos primitives.ColumnPos) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.columns[pos].final
}

func (t *ColumnTable) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.columns)
}

// Range must not be called together with writers.
func (t *ColumnTable) Range(f func(pos primitives.ColumnPos, c Column) bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	for k, v := range t.columns {
		if !f(k, v.Column) {
			return
		}
	}
}

// AddSector grows the table extent, image size is based on it.
func (t *ColumnTable) AddSector(pos primitives.SectorPos) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.hasExtent {
		t.extent = primitives.BoundingBox{XMin: pos.X, XMax: pos.X, ZMin: pos.Z, ZMax: pos.Z}
		t.hasExtent = true
		return
	}
	if pos.X < t.extent.XMin {
		t.extent.XMin = pos.X
	}
	if pos.X > t.extent.XMax {
		t.extent.XMax = pos.X
	}
	if pos.Z < t.extent.ZMin {
		t.extent.ZMin = pos.Z
	}
	if pos.Z > t.extent.ZMax {
		t.extent.ZMax = pos.Z
	}
}

func (t *ColumnTable) Extent() (primitives.BoundingBox, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.extent, t.hasExtent
}
