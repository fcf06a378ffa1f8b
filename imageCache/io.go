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

package imagecache

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/maxsupermanhd/SectorMapper/primitives"
)

type ioOp int

const (
	ioLoad ioOp = iota
	ioSave
)

type cacheTaskIO struct {
	op  ioOp
	loc primitives.ImageLocation
	img *CachedImage
	err error
}

func (c *ImageCache) processorIO(in <-chan *cacheTaskIO, out chan<- *cacheTaskIO) {
	for task := range in {
		switch task.op {
		case ioLoad:
			task.img, task.err = c.cacheLoad(task.loc)
		case ioSave:
			task.err = c.cacheSave(task.img.Img, task.loc)
		}
		out <- task
	}
}

func (c *ImageCache) cacheGetFilename(world, variant string, s int, box primitives.BoundingBox) string {
	return path.Join(c.opts.Root, world, variant, strconv.Itoa(s),
		fmt.Sprintf("%d_%d_%d_%d.png", box.XMin, box.XMax, box.ZMin, box.ZMax))
}

func (c *ImageCache) cacheGetFilenameLoc(loc primitives.ImageLocation) string {
	return c.cacheGetFilename(loc.World, loc.Variant, loc.S, loc.Box)
}

func (c *ImageCache) cacheSave(img *image.RGBA, loc primitives.ImageLocation) error {
	storePath := c.cacheGetFilenameLoc(loc)
	err := os.MkdirAll(path.Dir(storePath), 0764)
	if err != nil {
		return err
	}
	file, err := os.Create(storePath)
	if err != nil {
		return err
	}
	err = png.Encode(file, img)
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// cacheLoad returns nil image without error if nothing is persisted
func (c *ImageCache) cacheLoad(loc primitives.ImageLocation) (*CachedImage, error) {
	fp := c.cacheGetFilenameLoc(loc)
	f, err := os.Open(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	ii, err := png.Decode(f)
	if err != nil {
		os.Remove(fp)
		return nil, err
	}
	ret := &CachedImage{
		Loc:          loc,
		SyncedToDisk: true,
		lastUse:      time.Now(),
		ModTime:      getModTime(fp),
	}
	if iirgba, ok := ii.(*image.RGBA); ok {
		ret.Img = iirgba
		return ret, nil
	}
	b := ii.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), ii, b.Min, draw.Src)
	ret.Img = dst
	return ret, nil
}

func (c *ImageCache) cachePurge(world string) error {
	if world == "" {
		entries, err := os.ReadDir(c.opts.Root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, e := range entries {
			if err := os.RemoveAll(path.Join(c.opts.Root, e.Name())); err != nil {
				return err
			}
		}
		return nil
	}
	return os.RemoveAll(path.Join(c.opts.Root, world))
}

func getModTime(fp string) time.Time {
	info, err := os.Stat(fp)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
