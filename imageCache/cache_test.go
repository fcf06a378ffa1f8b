package imagecache

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxsupermanhd/SectorMapper/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func loc(world string, x int) primitives.ImageLocation {
	return primitives.ImageLocation{
		World:   world,
		Variant: "png-o",
		Box:     primitives.BoundingBox{XMin: x, XMax: x + 1, ZMin: -1, ZMax: 1},
		S:       1,
	}
}

func newCache(t *testing.T, opts Options) (*ImageCache, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewImageCacheWithOptions(nil, opts, ctx)
	t.Cleanup(func() {
		cancel()
		c.WaitExit()
	})
	return c, cancel
}

func TestCacheMemory(t *testing.T) {
	c, _ := newCache(t, DefaultOptions())
	red := color.RGBA{R: 255, A: 255}
	c.SetCachedImage(loc("w", 0), testImage(red))

	r := c.GetCachedImageBlocking(loc("w", 0))
	require.NotNil(t, r)
	assert.Equal(t, red, r.Img.RGBAAt(2, 2))
	assert.True(t, r.SyncedToDisk)
	r.Img.SetRGBA(2, 2, color.RGBA{})

	r = c.GetCachedImageBlocking(loc("w", 0))
	assert.Equal(t, red, r.Img.RGBAAt(2, 2), "returned images are copies")

	assert.Nil(t, c.GetCachedImageBlocking(loc("w", 1)))
	stats := c.GetStats()
	assert.Equal(t, int64(2), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, int64(1), stats["cached images"])
	assert.Equal(t, int64(0), stats["unwritten images"])
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxImages = 2
	c, _ := newCache(t, opts)
	c.SetCachedImage(loc("w", 0), testImage(color.RGBA{R: 1, A: 255}))
	c.SetCachedImage(loc("w", 1), testImage(color.RGBA{R: 2, A: 255}))
	require.NotNil(t, c.GetCachedImageBlocking(loc("w", 0)))
	c.SetCachedImage(loc("w", 2), testImage(color.RGBA{R: 3, A: 255}))

	assert.NotNil(t, c.GetCachedImageBlocking(loc("w", 0)))
	assert.Nil(t, c.GetCachedImageBlocking(loc("w", 1)))
	assert.NotNil(t, c.GetCachedImageBlocking(loc("w", 2)))
	assert.Equal(t, int64(1), c.GetStats()["evicted"])
}

func TestCachePurge(t *testing.T) {
	c, _ := newCache(t, DefaultOptions())
	c.SetCachedImage(loc("a", 0), testImage(color.RGBA{A: 255}))
	c.SetCachedImage(loc("b", 0), testImage(color.RGBA{A: 255}))
	c.Purge("a")
	assert.Nil(t, c.GetCachedImageBlocking(loc("a", 0)))
	assert.NotNil(t, c.GetCachedImageBlocking(loc("b", 0)))
	c.Purge("")
	assert.Nil(t, c.GetCachedImageBlocking(loc("b", 0)))
	assert.Equal(t, int64(0), c.GetStats()["cached images"])
}

func TestCachePersistence(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions()
	opts.Root = root
	blue := color.RGBA{B: 200, A: 255}

	ctx, cancel := context.WithCancel(context.Background())
	c := NewImageCacheWithOptions(nil, opts, ctx)
	c.SetCachedImage(loc("w", 5), testImage(blue))
	r := c.GetCachedImageBlocking(loc("w", 5))
	require.NotNil(t, r)
	assert.False(t, r.SyncedToDisk)
	assert.Equal(t, int64(1), c.GetStats()["unwritten images"])
	cancel()
	c.WaitExit()

	fp := filepath.Join(root, "w", "png-o", "1", "5_6_-1_1.png")
	_, err := os.Stat(fp)
	require.NoError(t, err)

	c2, _ := newCache(t, opts)
	r = c2.GetCachedImageBlocking(loc("w", 5))
	require.NotNil(t, r)
	assert.True(t, r.SyncedToDisk)
	assert.Equal(t, blue, r.Img.RGBAAt(1, 1))
	assert.Nil(t, c2.GetCachedImageBlocking(loc("w", 6)))

	c2.Purge("w")
	_, err = os.Stat(fp)
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, c2.GetCachedImageBlocking(loc("w", 5)))
}

func TestCacheAfterExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewImageCacheWithOptions(nil, DefaultOptions(), ctx)
	cancel()
	c.WaitExit()
	c.SetCachedImage(loc("w", 0), testImage(color.RGBA{A: 255}))
	assert.Nil(t, c.GetCachedImageBlocking(loc("w", 0)))
}
