package render

import (
	"sync"
	"testing"

	mapblock "github.com/maxsupermanhd/SectorMapper/mapBlock"
	"github.com/maxsupermanhd/SectorMapper/primitives"
	"github.com/stretchr/testify/assert"
)

func TestColumnTableFirstResolveWins(t *testing.T) {
	tbl := NewColumnTable()
	pos := primitives.ColumnPos{X: 1, Z: 2}
	assert.True(t, tbl.Provisional(pos, Column{Y: 10, Content: mapblock.ContentWater, Water: 1}))
	assert.False(t, tbl.IsResolved(pos))
	assert.True(t, tbl.Resolve(pos, Column{Y: 5, Content: mapblock.ContentSand, Water: 3}))
	assert.False(t, tbl.Resolve(pos, Column{Y: 40, Content: mapblock.ContentGrass}))
	assert.False(t, tbl.Provisional(pos, Column{Y: 50, Content: mapblock.ContentWater}))

	c, ok := tbl.Get(pos)
	assert.True(t, ok)
	assert.Equal(t, Column{Y: 5, Content: mapblock.ContentSand, Water: 3}, c)
	assert.Equal(t, 1, tbl.Len())

	_, ok = tbl.Get(primitives.ColumnPos{})
	assert.False(t, ok)
}

func TestColumnTableExtent(t *testing.T) {
	tbl := NewColumnTable()
	_, ok := tbl.Extent()
	assert.False(t, ok)
	tbl.AddSector(primitives.SectorPos{X: 3, Z: -2})
	tbl.AddSector(primitives.SectorPos{X: -7, Z: 4})
	tbl.AddSector(primitives.SectorPos{X: 0, Z: 0})
	ext, ok := tbl.Extent()
	assert.True(t, ok)
	assert.Equal(t, primitives.BoundingBox{XMin: -7, XMax: 3, ZMin: -2, ZMax: 4}, ext)
}

func TestColumnTableConcurrentResolve(t *testing.T) {
	tbl := NewColumnTable()
	pos := primitives.ColumnPos{X: 9, Z: 9}
	wins := make(chan int, 16)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if tbl.Resolve(pos, Column{Y: i}) {
				wins <- i
			}
		}(i)
	}
	wg.Wait()
	close(wins)
	winners := []int{}
	for w := range wins {
		winners = append(winners, w)
	}
	assert.Len(t, winners, 1)
	c, _ := tbl.Get(pos)
	assert.Equal(t, winners[0], c.Y)
}
