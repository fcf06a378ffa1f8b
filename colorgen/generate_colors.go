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
	"archive/zip"
	"bufio"
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"log"
	"math"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	texturesPath = flag.String("textures", "textures", "Directory or zip archive with node textures")
	nodesPath    = flag.String("nodes", "nodes.txt", "Lines of \"<hex id> <texture file>\"")
	outPath      = flag.String("o", "colors.txt", "Where to write color table")
)

func must(e error) {
	if e != nil {
		log.Fatal(e)
	}
}

type nodeTexture struct {
	id      uint16
	texture string
}

func readNodes(r io.Reader) ([]nodeTexture, error) {
	ret := []nodeTexture{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		t := strings.TrimSpace(sc.Text())
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		f := strings.Fields(t)
		if len(f) != 2 {
			return nil, fmt.Errorf("line %d: expected id and texture", line)
		}
		id, err := strconv.ParseUint(f[0], 16, 16)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ret = append(ret, nodeTexture{id: uint16(id), texture: f[1]})
	}
	return ret, sc.Err()
}

// findColor averages texture weighting pixels by their alpha,
// fully transparent texture has no color.
func findColor(r io.Reader) (color.RGBA, bool, error) {
	img, err := png.Decode(r)
	if err != nil {
		return color.RGBA{}, false, fmt.Errorf("decode error: %w", err)
	}
	bounds := img.Bounds()
	var rr, gg, bb, aa float64
	for i := bounds.Min.X; i < bounds.Max.X; i++ {
		for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
			rrr, ggg, bbb, aaa := img.At(i, j).RGBA()
			rr += float64(rrr)
			gg += float64(ggg)
			bb += float64(bbb)
			aa += float64(aaa)
		}
	}
	if aa == 0 {
		return color.RGBA{}, false, nil
	}
	return color.RGBA{
		R: uint8(math.Round(rr / aa * 255)),
		G: uint8(math.Round(gg / aa * 255)),
		B: uint8(math.Round(bb / aa * 255)),
		A: 255,
	}, true, nil
}

func openTextures(p string) (fs.FS, func() error, error) {
	if strings.HasSuffix(strings.ToLower(p), ".zip") {
		r, err := zip.OpenReader(p)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	}
	return os.DirFS(p), func() error { return nil }, nil
}

func generate(textures fs.FS, nodes []nodeTexture) (map[uint16]color.RGBA, error) {
	ret := map[uint16]color.RGBA{}
	var merr *multierror.Error
	for _, n := range nodes {
		f, err := textures.Open(path.Clean(n.texture))
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%#x: %w", n.id, err))
			continue
		}
		c, ok, err := findColor(f)
		f.Close()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%#x (%s): %w", n.id, n.texture, err))
			continue
		}
		if !ok {
			log.Printf("Texture %s of %#x is transparent, skipping", n.texture, n.id)
			continue
		}
		ret[n.id] = c
	}
	return ret, merr.ErrorOrNil()
}

func output(w io.Writer, colors map[uint16]color.RGBA) error {
	ids := make([]int, 0, len(colors))
	for k := range colors {
		ids = append(ids, int(k))
	}
	sort.Ints(ids)
	bw := bufio.NewWriter(w)
	for _, id := range ids {
		c := colors[uint16(id)]
		fmt.Fprintf(bw, "%x %d %d %d\n", id, c.R, c.G, c.B)
	}
	return bw.Flush()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	nf, err := os.Open(*nodesPath)
	must(err)
	nodes, err := readNodes(nf)
	nf.Close()
	must(err)
	log.Printf("Read %d node textures", len(nodes))

	textures, closeTextures, err := openTextures(*texturesPath)
	must(err)
	defer closeTextures()

	colors, err := generate(textures, nodes)
	if err != nil {
		log.Printf("Some textures were skipped: %v", err)
	}
	f, err := os.Create(*outPath)
	must(err)
	defer f.Close()
	must(output(f, colors))
	log.Printf("Wrote %d colors to %q", len(colors), *outPath)
}
