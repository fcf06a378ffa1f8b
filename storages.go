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

package main

import (
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/maxsupermanhd/SectorMapper/chunkStorage"
	"github.com/maxsupermanhd/SectorMapper/chunkStorage/filesystemChunkStorage"
	"github.com/maxsupermanhd/lac"
)

const defaultWorldName = "default"

var (
	errStorageTypeNotImplemented = errors.New("storage type not implemented")
	storages                     map[string]chunkStorage.Storage
	storagesLock                 sync.Mutex
)

// initStorages sets up worlds from config, input directory given
// on command line becomes world named "default".
func initStorages(input string) error {
	log.Println("Initializing storages...")
	storagesLock.Lock()
	defer storagesLock.Unlock()
	storages = map[string]chunkStorage.Storage{}
	err := cfg.GetToStruct(&storages, "storages")
	if err != nil && !errors.Is(err, lac.ErrNoKey) {
		return err
	}
	if input != "" {
		storages[defaultWorldName] = chunkStorage.Storage{
			Name:    defaultWorldName,
			Type:    "filesystem",
			Address: input,
		}
	}
	if len(storages) == 0 {
		return errors.New("no worlds to render, set input directory")
	}
	for k, v := range storages {
		if v.Name == "" {
			v.Name = k
		}
		d, err := initStorage(v.Type, v.Address)
		if err != nil {
			log.Printf("Failed to initialize storage %q: %v", k, err)
			storages[k] = v
			continue
		}
		ver, err := d.GetStatus()
		if err != nil {
			log.Printf("Error getting storage %q status: %v", k, err)
			d.Close()
			storages[k] = v
			continue
		}
		v.Driver = d
		storages[k] = v
		log.Printf("Storage %q initialized: %s", k, ver)
	}
	return nil
}

func initStorage(storageType, address string) (driver chunkStorage.ChunkStorage, err error) {
	switch storageType {
	case "filesystem", "":
		driver, err = filesystemChunkStorage.NewFilesystemChunkStorage(address, log.Default())
		if err != nil {
			return nil, err
		}
		return driver, nil
	default:
		return nil, errStorageTypeNotImplemented
	}
}

func getWorld(wname string) (chunkStorage.ChunkStorage, error) {
	storagesLock.Lock()
	defer storagesLock.Unlock()
	return chunkStorage.GetWorldStorage(storages, wname)
}

// defaultWorld is "default" if present or first one by name.
func defaultWorld() string {
	storagesLock.Lock()
	defer storagesLock.Unlock()
	if _, ok := storages[defaultWorldName]; ok {
		return defaultWorldName
	}
	names := make([]string, 0, len(storages))
	for k := range storages {
		names = append(names, k)
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}
