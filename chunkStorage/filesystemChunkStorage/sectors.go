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
	"os"
	"path"
	"regexp"
	"sort"

	"github.com/maxsupermanhd/SectorMapper/chunkStorage"
	"github.com/maxsupermanhd/SectorMapper/primitives"
)

var (
	nestedDirRegexp  = regexp.MustCompile(`^[0-9a-fA-F]{3}$`)
	legacyDirRegexp  = regexp.MustCompile(`^([0-9a-fA-F]{4})([0-9a-fA-F]{4})$`)
	blockFnameRegexp = regexp.MustCompile(`^[0-9a-fA-F]{4}$`)
)

// ExtractLegacySectorPath decodes sector position from flat
// layout directory name, 4 hex digits of x followed by 4 of z.
func ExtractLegacySectorPath(fname string, xx, zz *int) bool {
	r := legacyDirRegexp.FindStringSubmatch(fname)
	if len(r) != 3 {
		return false
	}
	x, err := Hex4ToInt(r[1])
	if err != nil {
		return false
	}
	z, err := Hex4ToInt(r[2])
	if err != nil {
		return false
	}
	if xx != nil {
		*xx = x
	}
	if zz != nil {
		*zz = z
	}
	return true
}

func (s *FilesystemChunkStorage) getLegacySectorPath(pos primitives.SectorPos) string {
	return path.Join(s.Root, legacySectorsDir, IntToHex4(pos.X)+IntToHex4(pos.Z))
}

func (s *FilesystemChunkStorage) getNestedSectorPath(pos primitives.SectorPos) string {
	return path.Join(s.Root, nestedSectorsDir, IntToHex3(pos.X), IntToHex3(pos.Z))
}

func (s *FilesystemChunkStorage) getBlockPath(sector *chunkStorage.Sector, y int) string {
	if sector.Layout == chunkStorage.LayoutLegacy {
		return path.Join(s.getLegacySectorPath(sector.Pos), IntToHex4(y))
	}
	return path.Join(s.getNestedSectorPath(sector.Pos), IntToHex4(y))
}

func (s *FilesystemChunkStorage) ListSectors(box primitives.BoundingBox) ([]primitives.SectorPos, error) {
	ret := []primitives.SectorPos{}
	nested, err := s.listNestedSectors(box)
	if err != nil {
		return nil, err
	}
	ret = append(ret, nested...)
	legacy, err := s.listLegacySectors(box)
	if err != nil {
		return nil, err
	}
	ret = append(ret, legacy...)
	return ret, nil
}

func (s *FilesystemChunkStorage) listNestedSectors(box primitives.BoundingBox) ([]primitives.SectorPos, error) {
	ret := []primitives.SectorPos{}
	root := path.Join(s.Root, nestedSectorsDir)
	outer, err := readDirOptional(root)
	if err != nil {
		return nil, err
	}
	for _, xd := range outer {
		if !xd.IsDir() || !nestedDirRegexp.MatchString(xd.Name()) {
			s.logger.Printf("Skipping unexpected entry %q in %s", xd.Name(), root)
			continue
		}
		x, err := Hex3ToInt(xd.Name())
		if err != nil {
			continue
		}
		inner, err := readDirOptional(path.Join(root, xd.Name()))
		if err != nil {
			return nil, err
		}
		for _, zd := range inner {
			if !nestedDirRegexp.MatchString(zd.Name()) {
				s.logger.Printf("Skipping unexpected entry %q in %s", zd.Name(), path.Join(root, xd.Name()))
				continue
			}
			z, err := Hex3ToInt(zd.Name())
			if err != nil {
				continue
			}
			if !box.Contains(x, z) {
				continue
			}
			ret = append(ret, primitives.SectorPos{X: x, Z: z})
		}
	}
	return ret, nil
}

func (s *FilesystemChunkStorage) listLegacySectors(box primitives.BoundingBox) ([]primitives.SectorPos, error) {
	ret := []primitives.SectorPos{}
	root := path.Join(s.Root, legacySectorsDir)
	d, err := readDirOptional(root)
	if err != nil {
		return nil, err
	}
	for _, e := range d {
		var x, z int
		if !ExtractLegacySectorPath(e.Name(), &x, &z) {
			s.logger.Printf("Skipping unexpected entry %q in %s", e.Name(), root)
			continue
		}
		if !box.Contains(x, z) {
			continue
		}
		ret = append(ret, primitives.SectorPos{X: x, Z: z})
	}
	return ret, nil
}

func (s *FilesystemChunkStorage) GetSector(pos primitives.SectorPos) (*chunkStorage.Sector, error) {
	ys, err := s.listBlocks(s.getLegacySectorPath(pos))
	if err != nil {
		return nil, err
	}
	if len(ys) > 0 {
		return &chunkStorage.Sector{Pos: pos, Layout: chunkStorage.LayoutLegacy, Ys: ys}, nil
	}
	if !inHex3Range(pos.X) || !inHex3Range(pos.Z) {
		return nil, nil
	}
	ys, err = s.listBlocks(s.getNestedSectorPath(pos))
	if err != nil {
		return nil, err
	}
	if len(ys) > 0 {
		return &chunkStorage.Sector{Pos: pos, Layout: chunkStorage.LayoutNested, Ys: ys}, nil
	}
	return nil, nil
}

func (s *FilesystemChunkStorage) listBlocks(dir string) ([]int, error) {
	d, err := readDirOptional(dir)
	if err != nil {
		return nil, err
	}
	ys := []int{}
	for _, e := range d {
		if e.Name() == sectorMetaFile {
			continue
		}
		if e.IsDir() || !blockFnameRegexp.MatchString(e.Name()) {
			s.logger.Printf("Skipping unexpected entry %q in %s", e.Name(), dir)
			continue
		}
		y, err := Hex4ToInt(e.Name())
		if err != nil {
			continue
		}
		ys = append(ys, y)
	}
	sort.Ints(ys)
	return ys, nil
}

func (s *FilesystemChunkStorage) ReadBlock(sector *chunkStorage.Sector, y int) ([]byte, error) {
	if sector == nil || sector.Layout == chunkStorage.LayoutNone {
		return nil, chunkStorage.ErrNoSector
	}
	return os.ReadFile(s.getBlockPath(sector, y))
}
