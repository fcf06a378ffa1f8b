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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/maxsupermanhd/SectorMapper/chunkStorage"
)

func (s *FilesystemChunkStorage) ListPlayers() ([]chunkStorage.Player, error) {
	players, err := ReadPlayers(path.Join(s.Root, playersDir))
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			s.logger.Printf("Skipping player: %v", e)
		}
		return players, nil
	}
	return players, err
}

// ReadPlayers returns every player that could be parsed, files that
// failed to parse are reported in returned *multierror.Error.
func ReadPlayers(dir string) ([]chunkStorage.Player, error) {
	d, err := readDirOptional(dir)
	if err != nil {
		return nil, err
	}
	ret := []chunkStorage.Player{}
	var merr *multierror.Error
	for _, e := range d {
		if e.IsDir() {
			continue
		}
		f, err := os.Open(path.Join(dir, e.Name()))
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		p, err := ParsePlayer(f)
		f.Close()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		ret = append(ret, *p)
	}
	return ret, merr.ErrorOrNil()
}

// ParsePlayer reads "key = value" player file, only name and
// position are picked up.
func ParsePlayer(r io.Reader) (*chunkStorage.Player, error) {
	var p chunkStorage.Player
	hasPosition := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) < 3 || f[1] != "=" {
			continue
		}
		switch f[0] {
		case "name":
			p.Name = f[2]
		case "position":
			v := strings.TrimSuffix(strings.TrimPrefix(f[2], "("), ")")
			c := strings.Split(v, ",")
			if len(c) != 3 {
				return nil, fmt.Errorf("bad position %q", f[2])
			}
			for i := range c {
				n, err := strconv.ParseFloat(strings.TrimSpace(c[i]), 64)
				if err != nil {
					return nil, fmt.Errorf("bad position %q: %w", f[2], err)
				}
				p.Position[i] = n
			}
			hasPosition = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, errors.New("no name")
	}
	if !hasPosition {
		return nil, errors.New("no position")
	}
	return &p, nil
}
