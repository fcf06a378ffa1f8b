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
	"context"
	"log"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maxsupermanhd/SectorMapper/render"
)

var colors atomic.Pointer[render.Palette]

func loadColors(path string) error {
	p, err := render.LoadPalette(path)
	if err != nil {
		return err
	}
	colors.Store(p)
	log.Printf("Loaded %d colors from %q", p.Len(), path)
	return nil
}

// colorsWatcher reloads color table when it is written to, broken
// tables are reported and old one is kept.
func colorsWatcher(ctx context.Context, path string, onReload func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Println("Failed to create colors watcher: ", err)
		return
	}
	defer watcher.Close()
	// editors often replace the file, so directory is watched
	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		log.Println("Failed to add colors watcher path: ", err)
		return
	}
	target := filepath.Clean(path)
	var debounce <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				log.Println("Colors watcher failed to read from events channel")
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounce = time.After(200 * time.Millisecond)
			}
		case <-debounce:
			debounce = nil
			log.Println("Updating colors")
			if err := loadColors(path); err != nil {
				log.Println("Error while loading colors:", err.Error())
				continue
			}
			if onReload != nil {
				onReload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				log.Println("Colors watcher failed to read from error channel")
				return
			}
			log.Println("Colors watcher error:", err)
		case <-ctx.Done():
			log.Println("Colors watcher stopped")
			return
		}
	}
}
