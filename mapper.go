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
	"fmt"
	"image"
	"log"
	"time"

	"github.com/maxsupermanhd/SectorMapper/chunkStorage"
	"github.com/maxsupermanhd/SectorMapper/render"
)

var errNoColors = errors.New("colors are not loaded")

func renderMap(ctx context.Context, s chunkStorage.ChunkStorage, rs renderSettings) (*image.RGBA, error) {
	p := colors.Load()
	if p == nil {
		return nil, errNoColors
	}
	r := render.NewResolver(s, p, log.Default())
	r.Workers = rs.Threads
	t, err := r.Resolve(ctx, rs.Box)
	if err != nil {
		return nil, err
	}
	var players []chunkStorage.Player
	if rs.Opts.DrawPlayers {
		players, err = s.ListPlayers()
		if err != nil {
			return nil, fmt.Errorf("listing players: %w", err)
		}
		log.Printf("Drawing %d players", len(players))
	}
	img, err := render.Composite(t, p, players, rs.Opts)
	if err != nil {
		return nil, err
	}
	return scaleImage(img, rs.Scale), nil
}

func renderOnce(ctx context.Context, rs renderSettings) error {
	s, err := getWorld(defaultWorld())
	if err != nil {
		return err
	}
	log.Printf("Rendering %s of %q", rs.Box.String(), rs.Input)
	start := time.Now()
	img, err := renderMap(ctx, s, rs)
	if err != nil {
		return err
	}
	log.Printf("Rendered in %s", time.Since(start).Round(time.Millisecond))
	return writeImageFile(rs.Output, img)
}
