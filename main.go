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
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/maxsupermanhd/SectorMapper/chunkStorage"
	imagecache "github.com/maxsupermanhd/SectorMapper/imageCache"
)

var (
	BuildTime  = "00000000.000000"
	CommitHash = "0000000"
	GoVersion  = "0.0"
	GitTag     = "0.0"
)

var (
	mainCtx       context.Context
	mainCtxCancel context.CancelFunc
	ic            *imagecache.ImageCache
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	buildinfo, ok := debug.ReadBuildInfo()
	if ok {
		GoVersion = buildinfo.GoVersion
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Println("Failed to load .env file: " + err.Error())
	}
	parseFlags()
	if err := loadConfig(); err != nil {
		log.Fatal("Error loading config file: " + err.Error())
	}
	log.SetOutput(io.MultiWriter(createLogger(), os.Stdout))
	log.Println()
	log.Println("SectorMapper is starting up...")
	log.Printf("Built %s, Ver %s (%s) (%s)\n", BuildTime, GitTag, CommitHash, GoVersion)
	log.Println()

	mainCtx, mainCtxCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer mainCtxCancel()

	rs, err := settingsFromFlags()
	if err != nil {
		log.Fatal("Bad arguments: " + err.Error())
	}
	if err := initStorages(rs.Input); err != nil {
		log.Fatal("Failed to initialize storages: " + err.Error())
	}
	defer chunkStorage.CloseStorages(storages)

	if err := loadColors(rs.ColorsPath); err != nil {
		log.Fatal("Failed to load colors: " + err.Error())
	}

	addr := serveAddr()
	if addr == "" {
		if err := renderOnce(mainCtx, rs); err != nil {
			log.Fatal(err)
		}
		return
	}

	ic = imagecache.NewImageCache(log.Default(), cfg.SubTree("imageCache"), mainCtx)
	stopColorsWatcher := startBackgroundRoutine(mainCtx, "colors watcher", func(ctx context.Context) {
		colorsWatcher(ctx, rs.ColorsPath, func() { ic.Purge("") })
	})
	runWeb(mainCtx, addr, rs)
	stopColorsWatcher()
	log.Println("Waiting for image cache to save")
	ic.WaitExit()
	log.Println("Shutdown complete")
}
