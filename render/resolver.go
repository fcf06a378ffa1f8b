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
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/maxsupermanhd/SectorMapper/chunkStorage"
	mapblock "github.com/maxsupermanhd/SectorMapper/mapBlock"
	"github.com/maxsupermanhd/SectorMapper/primitives"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNothingToRender = errors.New("no sectors to render")
)

const (
	columnsPerBlock       = mapblock.BlockSize * mapblock.BlockSize
	DefaultProgressPeriod = 200
)

type Resolver struct {
	storage chunkStorage.ChunkStorage
	palette *Palette
	logger  *log.Logger
	// Sectors resolved at the same time, 1 keeps listing order.
	Workers int
	// Log progress every that many sectors, 0 disables it.
	ProgressPeriod int
}

func NewResolver(storage chunkStorage.ChunkStorage, palette *Palette, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{
		storage:        storage,
		palette:        palette,
		logger:         logger,
		Workers:        1,
		ProgressPeriod: DefaultProgressPeriod,
	}
}

// Resolve finds topmost visible node of every column of every
// sector within the box. Unsupported block format aborts it.
func (r *Resolver) Resolve(ctx context.Context, box primitives.BoundingBox) (*ColumnTable, error) {
	sectors, err := r.storage.ListSectors(box)
	if err != nil {
		return nil, fmt.Errorf("listing sectors: %w", err)
	}
	if len(sectors) == 0 {
		return nil, ErrNothingToRender
	}
	t := NewColumnTable()
	for _, s := range sectors {
		t.AddSector(s)
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	start := time.Now()
	for n, pos := range sectors {
		if r.ProgressPeriod > 0 && n%r.ProgressPeriod == 0 {
			r.logProgress(n, len(sectors), start)
		}
		if gctx.Err() != nil {
			break
		}
		pos := pos
		g.Go(func() error {
			return r.ResolveSector(gctx, pos, t)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("Resolved %s columns of %s sectors in %s",
		humanize.Comma(int64(t.Len())), humanize.Comma(int64(len(sectors))), time.Since(start).Round(time.Millisecond))
	return t, nil
}

func (r *Resolver) logProgress(n, total int, start time.Time) {
	if n == 0 {
		return
	}
	elapsed := time.Since(start)
	perSector := elapsed / time.Duration(n)
	remaining := perSector * time.Duration(total-n)
	r.logger.Printf("Processing sector %s of %s (%.1f%%) (ETA: %s)",
		humanize.Comma(int64(n)), humanize.Comma(int64(total)),
		100*float64(n)/float64(total), remaining.Round(time.Second))
}

type columnState struct {
	resolved bool
	water    int
}

// sectorState tracks columns of a sector that are still searched for
type sectorState struct {
	columns   [columnsPerBlock]columnState
	remaining int
}

type pendingBlock struct {
	y   int
	raw []byte
}

// ResolveSector scans chunks of a sector from the top down. Chunks
// without day/night difference flag are deferred until all the
// flagged ones were scanned. Scanning stops as soon as every
// column is resolved.
func (r *Resolver) ResolveSector(ctx context.Context, pos primitives.SectorPos, t *ColumnTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sector, err := r.storage.GetSector(pos)
	if err != nil {
		return fmt.Errorf("sector %s: %w", pos, err)
	}
	if sector == nil {
		return nil
	}
	st := sectorState{remaining: columnsPerBlock}
	deferred := []pendingBlock{}
	for i := len(sector.Ys) - 1; i >= 0 && st.remaining > 0; i-- {
		y := sector.Ys[i]
		raw, err := r.storage.ReadBlock(sector, y)
		if err != nil {
			return fmt.Errorf("sector %s block %d: %w", pos, y, err)
		}
		h, err := mapblock.ParseHeader(raw)
		if err != nil {
			r.logger.Printf("Bad block %s/%d (%s layout): %v", pos, y, sector.Layout, err)
			continue
		}
		if !h.DayNightDiff() {
			deferred = append(deferred, pendingBlock{y: y, raw: raw})
			continue
		}
		if err := r.scanBlock(sector, y, raw, &st, t); err != nil {
			return err
		}
	}
	for _, b := range deferred {
		if st.remaining == 0 {
			break
		}
		if err := r.scanBlock(sector, b.y, b.raw, &st, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) scanBlock(sector *chunkStorage.Sector, y int, raw []byte, st *sectorState, t *ColumnTable) error {
	b, err := mapblock.Decode(raw)
	if errors.Is(err, mapblock.ErrUndecodable) {
		r.logger.Printf("Bad block %s/%d (%s layout): %v", sector.Pos, y, sector.Layout, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("sector %s block %d: %w", sector.Pos, y, err)
	}
	bx := sector.Pos.X * mapblock.BlockSize
	by := y * mapblock.BlockSize
	bz := sector.Pos.Z * mapblock.BlockSize
	strange := 0
	var firstStrange mapblock.Content
	for i := columnsPerBlock - 1; i >= 0; i-- {
		c := &st.columns[i]
		if c.resolved {
			continue
		}
		x, z := i/mapblock.BlockSize, i%mapblock.BlockSize
		wpos := primitives.ColumnPos{X: bx + x, Z: bz + z}
		for ly := mapblock.BlockSize - 1; ly >= 0; ly-- {
			id := b.ContentAt(x, ly, z)
			if id.IsAir() {
				continue
			}
			if !r.palette.Has(id) {
				if strange == 0 {
					firstStrange = id
				}
				strange++
				continue
			}
			if id.IsWater() {
				c.water++
				t.Provisional(wpos, Column{Y: by + ly, Content: id, Water: c.water})
				continue
			}
			t.Resolve(wpos, Column{Y: by + ly, Content: id, Water: c.water})
			c.resolved = true
			st.remaining--
			break
		}
	}
	if strange > 0 {
		r.logger.Printf("Strange block %s/%d: %d nodes without color (first id %#x)", sector.Pos, y, strange, firstStrange)
	}
	return nil
}
