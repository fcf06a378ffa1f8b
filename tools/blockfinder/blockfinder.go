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
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/maxsupermanhd/SectorMapper/chunkStorage"
	"github.com/maxsupermanhd/SectorMapper/chunkStorage/filesystemChunkStorage"
	mapblock "github.com/maxsupermanhd/SectorMapper/mapBlock"
	"github.com/maxsupermanhd/SectorMapper/primitives"
)

var (
	worldPath  = flag.String("i", "", "World directory")
	contentHex = flag.String("id", "", "Content id to look for (hex)")
	outfname   = flag.String("out", "out.txt", "Filename for writing results to")
	threadsnum = flag.Int("threads", 3, "Thread count")
	limitPer   = flag.Int("limit", 16, "Max reported nodes per chunk, 0 for all")
)

func must(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

type match struct {
	x, y, z int
}

// findInSector scans every chunk of a sector, undecodable chunks
// are reported but do not stop the scan.
func findInSector(s chunkStorage.ChunkStorage, pos primitives.SectorPos, id mapblock.Content, limit int) ([]match, error) {
	sector, err := s.GetSector(pos)
	if err != nil || sector == nil {
		return nil, err
	}
	ret := []match{}
	var merr *multierror.Error
	for _, y := range sector.Ys {
		raw, err := s.ReadBlock(sector, y)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s/%d: %w", pos, y, err))
			continue
		}
		b, err := mapblock.Decode(raw)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s/%d: %w", pos, y, err))
			continue
		}
		found := 0
		for i := 0; i < mapblock.NodeCount; i++ {
			if b.ContentAtIndex(i) != id {
				continue
			}
			x, ly, z := i%16, (i/16)%16, i/256
			ret = append(ret, match{
				x: pos.X*mapblock.BlockSize + x,
				y: y*mapblock.BlockSize + ly,
				z: pos.Z*mapblock.BlockSize + z,
			})
			found++
			if limit > 0 && found >= limit {
				break
			}
		}
	}
	return ret, merr.ErrorOrNil()
}

func worker(wid int, s chunkStorage.ChunkStorage, id mapblock.Content, jobs <-chan primitives.SectorPos, results chan<- string, wg *sync.WaitGroup) {
	log.Printf("Worker %d started", wid)
	defer wg.Done()
	sectorcount := 0
	for j := range jobs {
		sectorcount++
		m, err := findInSector(s, j, id, *limitPer)
		if err != nil {
			log.Printf("Sector %s: %v", j, err)
		}
		for _, v := range m {
			results <- fmt.Sprintf("NODE x%d y%d z%d id %#x", v.x, v.y, v.z, uint16(id))
		}
	}
	log.Printf("Worker %d exits, processed %d sectors", wid, sectorcount)
}

func filewriter(results <-chan string, done chan<- struct{}) {
	log.Printf("Filewriter thread started")
	file, err := os.Create(*outfname)
	must(err)
	defer file.Close()
	bw := bufio.NewWriter(file)
	linecount := 0
	for r := range results {
		linecount++
		bw.WriteString(r + "\n")
	}
	must(bw.Flush())
	log.Printf("File writer exits, wrote %d lines", linecount)
	close(done)
}

func main() {
	flag.Parse()
	if *worldPath == "" {
		log.Fatalln("World directory not set")
	}
	idv, err := strconv.ParseUint(*contentHex, 16, 16)
	if err != nil {
		log.Fatalln("Bad content id: ", err)
	}
	id := mapblock.Content(idv)
	s, err := filesystemChunkStorage.NewFilesystemChunkStorage(*worldPath, log.Default())
	must(err)
	defer s.Close()
	sectors, err := s.ListSectors(primitives.DefaultBoundingBox())
	must(err)
	seen := map[primitives.SectorPos]bool{}

	jobs := make(chan primitives.SectorPos, 64)
	results := make(chan string, 64)
	done := make(chan struct{})
	wg := new(sync.WaitGroup)
	go filewriter(results, done)
	for w := 0; w < *threadsnum; w++ {
		wg.Add(1)
		go worker(w, s, id, jobs, results, wg)
	}
	starttime := time.Now()
	prevtime := time.Now()
	for i, pos := range sectors {
		if seen[pos] {
			continue
		}
		seen[pos] = true
		jobs <- pos
		if time.Since(prevtime) > 1*time.Second {
			log.Printf("Queued %s of %s sectors (%06.2f%%)", humanize.Comma(int64(i)), humanize.Comma(int64(len(sectors))), float32(i)/float32(len(sectors))*100)
			prevtime = time.Now()
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	<-done

	log.Printf("Processed %s sectors in %s", humanize.Comma(int64(len(seen))), time.Since(starttime).Round(time.Second))
}
