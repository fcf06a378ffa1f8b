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
	"io"
	"log"
	"os"
	"path"
)

const (
	legacySectorsDir = "sectors"
	nestedSectorsDir = "sectors2"
	playersDir       = "players"
	sectorMetaFile   = "meta"
)

type FilesystemChunkStorage struct {
	Root   string
	logger *log.Logger
}

func NewFilesystemChunkStorage(root string, logger *log.Logger) (*FilesystemChunkStorage, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("world root %q is not a directory", root)
	}
	return &FilesystemChunkStorage{
		Root:   root,
		logger: logger,
	}, nil
}

func (s *FilesystemChunkStorage) Close() error {
	return nil
}

func (s *FilesystemChunkStorage) GetStatus() (string, error) {
	legacy, err := dirExists(path.Join(s.Root, legacySectorsDir))
	if err != nil {
		return "", err
	}
	nested, err := dirExists(path.Join(s.Root, nestedSectorsDir))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("filesystem world at %s (legacy layout: %v, nested layout: %v)", s.Root, legacy, nested), nil
}

func dirExists(p string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// missing directory is not an error, it just has no entries
func readDirOptional(p string) ([]os.DirEntry, error) {
	d, err := os.ReadDir(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}
