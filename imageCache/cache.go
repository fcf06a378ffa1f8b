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
	"container/list"
	"context"
	"image"
	"image/draw"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maxsupermanhd/SectorMapper/primitives"
	"github.com/maxsupermanhd/lac"
)

const (
	DefaultTaskQueueLen    = int(256)
	DefaultIOProcessors    = int(4)
	DefaultIOTasksQueueLen = int(256)
	DefaultMaxImages       = int(64)
	DefaultAutosave        = 15 * time.Second
)

type Options struct {
	// Directory for persisted images, empty keeps everything in memory
	Root             string
	TaskQueueLen     int
	IOQueueLen       int
	IOProcessors     int
	MaxImages        int
	AutosaveInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		TaskQueueLen:     DefaultTaskQueueLen,
		IOQueueLen:       DefaultIOTasksQueueLen,
		IOProcessors:     DefaultIOProcessors,
		MaxImages:        DefaultMaxImages,
		AutosaveInterval: DefaultAutosave,
	}
}

// OptionsFromConfig reads cache options, nil config gives defaults.
func OptionsFromConfig(logger *log.Logger, cfg *lac.ConfSubtree) Options {
	o := DefaultOptions()
	if cfg == nil {
		return o
	}
	o.Root = cfg.GetDSString("", "root")
	o.TaskQueueLen = gtzero(logger, cfg, DefaultTaskQueueLen, "taskQueueLen")
	o.IOQueueLen = gtzero(logger, cfg, DefaultIOTasksQueueLen, "ioQueueLen")
	o.IOProcessors = gtzero(logger, cfg, DefaultIOProcessors, "ioProcessors")
	o.MaxImages = gtzero(logger, cfg, DefaultMaxImages, "maxImages")
	o.AutosaveInterval = time.Duration(gtzero(logger, cfg, int(DefaultAutosave/time.Second), "autosaveInterval")) * time.Second
	return o
}

type CachedImage struct {
	Img          *image.RGBA
	Loc          primitives.ImageLocation
	SyncedToDisk bool
	ModTime      time.Time
	lastUse      time.Time
	gen          uint64
}

type taskKind int

const (
	taskGet taskKind = iota
	taskSet
	taskPurge
)

type cacheTask struct {
	kind  taskKind
	loc   primitives.ImageLocation
	img   *image.RGBA
	world string
	ret   chan *CachedImage
}

// ImageCache keeps rendered maps, all state is owned by a single
// processor goroutine, disk access is done by io processors.
type ImageCache struct {
	ctx      context.Context
	logger   *log.Logger
	opts     Options
	tasks    chan *cacheTask
	ioTasks  chan *cacheTaskIO
	ioReturn chan *cacheTaskIO
	cache    map[primitives.ImageLocation]*list.Element
	backlog  *list.List // front is most recently used
	waiting  map[primitives.ImageLocation][]*cacheTask
	gen      uint64
	wg       sync.WaitGroup
	exited   chan struct{}

	statLen        atomic.Int64
	statUncommited atomic.Int64
	statHits       atomic.Int64
	statMisses     atomic.Int64
	statEvicted    atomic.Int64
}

func NewImageCache(logger *log.Logger, cfg *lac.ConfSubtree, ctx context.Context) *ImageCache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return NewImageCacheWithOptions(logger, OptionsFromConfig(logger, cfg), ctx)
}

func NewImageCacheWithOptions(logger *log.Logger, opts Options, ctx context.Context) *ImageCache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	d := DefaultOptions()
	if opts.TaskQueueLen <= 0 {
		opts.TaskQueueLen = d.TaskQueueLen
	}
	if opts.IOQueueLen <= 0 {
		opts.IOQueueLen = d.IOQueueLen
	}
	if opts.IOProcessors <= 0 {
		opts.IOProcessors = d.IOProcessors
	}
	if opts.MaxImages <= 0 {
		opts.MaxImages = d.MaxImages
	}
	if opts.AutosaveInterval <= 0 {
		opts.AutosaveInterval = d.AutosaveInterval
	}
	c := &ImageCache{
		ctx:      ctx,
		logger:   logger,
		opts:     opts,
		tasks:    make(chan *cacheTask, opts.TaskQueueLen),
		ioTasks:  make(chan *cacheTaskIO, opts.IOQueueLen),
		ioReturn: make(chan *cacheTaskIO, opts.IOQueueLen),
		cache:    map[primitives.ImageLocation]*list.Element{},
		backlog:  list.New(),
		waiting:  map[primitives.ImageLocation][]*cacheTask{},
		exited:   make(chan struct{}),
	}
	c.wg.Add(opts.IOProcessors)
	for i := 0; i < opts.IOProcessors; i++ {
		go func() {
			c.processorIO(c.ioTasks, c.ioReturn)
			c.wg.Done()
		}()
	}
	go c.processor()
	return c
}

// WaitExit blocks until context is done and unsaved images are written.
func (c *ImageCache) WaitExit() {
	<-c.exited
}

func (c *ImageCache) persistent() bool {
	return c.opts.Root != ""
}

func (c *ImageCache) processor() {
	autosaveTimer := time.NewTicker(c.opts.AutosaveInterval)
	defer autosaveTimer.Stop()

processorLoop:
	for {
		select {
		case <-c.ctx.Done():
			break processorLoop
		case task := <-c.tasks:
			c.processTask(task)
		case ret := <-c.ioReturn:
			c.processReturn(ret)
		case <-autosaveTimer.C:
			c.processSave()
		}
	}

	for _, w := range c.waiting {
		for _, t := range w {
			t.ret <- nil
		}
	}
	c.waiting = nil
	if c.persistent() {
		for e := c.backlog.Front(); e != nil; e = e.Next() {
			v := e.Value.(*CachedImage)
			if v.SyncedToDisk {
				continue
			}
			if err := c.cacheSave(v.Img, v.Loc); err != nil {
				c.logger.Printf("Failed to save cache of %s: %v", v.Loc.String(), err)
			}
		}
	}
	close(c.ioTasks)
	go func() {
		for range c.ioReturn {
		}
	}()
	c.wg.Wait()
	close(c.ioReturn)
	close(c.exited)
}

func (c *ImageCache) processTask(task *cacheTask) {
	switch task.kind {
	case taskGet:
		c.processImageGet(task)
	case taskSet:
		c.processImageSet(task)
	case taskPurge:
		c.processPurge(task)
	}
}

func (c *ImageCache) processImageGet(task *cacheTask) {
	if e, ok := c.cache[task.loc]; ok {
		c.statHits.Add(1)
		c.backlog.MoveToFront(e)
		v := e.Value.(*CachedImage)
		v.lastUse = time.Now()
		task.ret <- copyCachedImage(v)
		return
	}
	if !c.persistent() {
		c.statMisses.Add(1)
		task.ret <- nil
		return
	}
	w, loading := c.waiting[task.loc]
	c.waiting[task.loc] = append(w, task)
	if loading {
		return
	}
	c.ioTasks <- &cacheTaskIO{op: ioLoad, loc: task.loc}
}

func (c *ImageCache) processImageSet(task *cacheTask) {
	c.gen++
	img := &CachedImage{
		Img:          task.img,
		Loc:          task.loc,
		SyncedToDisk: !c.persistent(),
		ModTime:      time.Now(),
		lastUse:      time.Now(),
		gen:          c.gen,
	}
	if !img.SyncedToDisk {
		c.statUncommited.Add(1)
	}
	c.insert(img)
}

func (c *ImageCache) insert(img *CachedImage) {
	if e, ok := c.cache[img.Loc]; ok {
		if !e.Value.(*CachedImage).SyncedToDisk {
			c.statUncommited.Add(-1)
		}
		e.Value = img
		c.backlog.MoveToFront(e)
		return
	}
	c.cache[img.Loc] = c.backlog.PushFront(img)
	c.statLen.Add(1)
	for c.backlog.Len() > c.opts.MaxImages {
		c.evict(c.backlog.Back())
	}
}

func (c *ImageCache) evict(e *list.Element) {
	v := e.Value.(*CachedImage)
	c.backlog.Remove(e)
	delete(c.cache, v.Loc)
	c.statLen.Add(-1)
	c.statEvicted.Add(1)
	if v.SyncedToDisk {
		return
	}
	c.statUncommited.Add(-1)
	if c.persistent() {
		c.ioTasks <- &cacheTaskIO{op: ioSave, loc: v.Loc, img: v}
	}
}

func (c *ImageCache) processPurge(task *cacheTask) {
	removed := 0
	for loc, e := range c.cache {
		if task.world != "" && loc.World != task.world {
			continue
		}
		v := e.Value.(*CachedImage)
		if !v.SyncedToDisk {
			c.statUncommited.Add(-1)
		}
		c.backlog.Remove(e)
		delete(c.cache, loc)
		c.statLen.Add(-1)
		removed++
	}
	c.logger.Printf("Purged %d cached images of world %q", removed, task.world)
	if c.persistent() {
		if err := c.cachePurge(task.world); err != nil {
			c.logger.Printf("Failed to purge persisted images of %q: %v", task.world, err)
		}
	}
	if task.ret != nil {
		task.ret <- nil
	}
}

func (c *ImageCache) processReturn(task *cacheTaskIO) {
	switch task.op {
	case ioLoad:
		waiters := c.waiting[task.loc]
		delete(c.waiting, task.loc)
		if task.err != nil {
			c.logger.Printf("Error reading image at %s: %v", task.loc.String(), task.err)
		}
		if task.img != nil && task.img.Img != nil {
			if _, ok := c.cache[task.loc]; !ok {
				c.insert(task.img)
			}
		}
		for _, w := range waiters {
			c.processImageGetLoaded(w)
		}
	case ioSave:
		if task.err != nil {
			c.logger.Printf("Failed to save cache of %s: %v", task.loc.String(), task.err)
			return
		}
		e, ok := c.cache[task.loc]
		if !ok {
			return
		}
		v := e.Value.(*CachedImage)
		if v.gen == task.img.gen && !v.SyncedToDisk {
			v.SyncedToDisk = true
			c.statUncommited.Add(-1)
		}
	}
}

// loaded images are in memory by now, what is not is a miss
func (c *ImageCache) processImageGetLoaded(task *cacheTask) {
	if e, ok := c.cache[task.loc]; ok {
		c.statHits.Add(1)
		c.backlog.MoveToFront(e)
		task.ret <- copyCachedImage(e.Value.(*CachedImage))
		return
	}
	c.statMisses.Add(1)
	task.ret <- nil
}

func (c *ImageCache) processSave() {
	if !c.persistent() {
		return
	}
	for e := c.backlog.Front(); e != nil; e = e.Next() {
		v := e.Value.(*CachedImage)
		if v.SyncedToDisk {
			continue
		}
		select {
		case c.ioTasks <- &cacheTaskIO{op: ioSave, loc: v.Loc, img: v}:
		default:
			c.logger.Printf("IO queue is full, postponing autosave")
			return
		}
	}
}

func copyCachedImage(img *CachedImage) *CachedImage {
	return &CachedImage{
		Img:          copyRGBA(img.Img),
		Loc:          img.Loc,
		SyncedToDisk: img.SyncedToDisk,
		ModTime:      img.ModTime,
		lastUse:      img.lastUse,
		gen:          img.gen,
	}
}

func copyRGBA(from *image.RGBA) *image.RGBA {
	if from == nil {
		return nil
	}
	to := image.NewRGBA(image.Rect(0, 0, from.Rect.Dx(), from.Rect.Dy()))
	draw.Draw(to, to.Rect, from, from.Rect.Min, draw.Src)
	return to
}

func (c *ImageCache) submit(t *cacheTask) bool {
	select {
	case <-c.exited:
		return false
	case <-c.ctx.Done():
		return false
	case c.tasks <- t:
		return true
	}
}

// SetCachedImage stores the image, caller must not modify it afterwards.
func (c *ImageCache) SetCachedImage(loc primitives.ImageLocation, img *image.RGBA) {
	c.submit(&cacheTask{kind: taskSet, loc: loc, img: img})
}

// GetCachedImageBlocking returns a copy of cached image or nil.
func (c *ImageCache) GetCachedImageBlocking(loc primitives.ImageLocation) *CachedImage {
	ret := make(chan *CachedImage, 1)
	if !c.submit(&cacheTask{kind: taskGet, loc: loc, ret: ret}) {
		return nil
	}
	select {
	case r := <-ret:
		return r
	case <-c.exited:
		return nil
	}
}

// Purge drops images of the world, empty world drops everything.
func (c *ImageCache) Purge(world string) {
	ret := make(chan *CachedImage, 1)
	if !c.submit(&cacheTask{kind: taskPurge, world: world, ret: ret}) {
		return
	}
	select {
	case <-ret:
	case <-c.exited:
	}
}

func (c *ImageCache) GetStats() map[string]any {
	return map[string]any{
		"root":                c.opts.Root,
		"io queue capacity":   cap(c.ioTasks),
		"io queue length":     len(c.ioTasks),
		"task queue capacity": cap(c.tasks),
		"task queue length":   len(c.tasks),
		"cached images":       c.statLen.Load(),
		"unwritten images":    c.statUncommited.Load(),
		"hits":                c.statHits.Load(),
		"misses":              c.statMisses.Load(),
		"evicted":             c.statEvicted.Load(),
	}
}

func gtzero(l *log.Logger, c *lac.ConfSubtree, d int, p ...string) int {
	v := c.GetDSInt(d, p...)
	if v > 0 {
		return v
	}
	l.Printf("Negative %v, defaulting to %d!", p, d)
	return d
}
