package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maxsupermanhd/SectorMapper/chunkStorage/filesystemChunkStorage"
	mapblock "github.com/maxsupermanhd/SectorMapper/mapBlock"
	"github.com/maxsupermanhd/SectorMapper/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindInSector(t *testing.T) {
	root := t.TempDir()
	planes := mapblock.Planes()
	planes[mapblock.Index(1, 2, 3)] = byte(mapblock.ContentSand)
	planes[mapblock.Index(4, 5, 6)] = byte(mapblock.ContentSand)
	raw, err := mapblock.Encode(mapblock.Header{Version: 20}, planes)
	require.NoError(t, err)
	dir := filepath.Join(root, "sectors2", "001", "fff")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0002"), raw, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0003"), []byte{20, 0, 1, 2}, 0644))

	s, err := filesystemChunkStorage.NewFilesystemChunkStorage(root, nil)
	require.NoError(t, err)
	pos := primitives.SectorPos{X: 1, Z: -1}
	m, err := findInSector(s, pos, mapblock.ContentSand, 0)
	assert.Error(t, err, "broken chunk is reported")
	assert.ElementsMatch(t, []match{{17, 34, -13}, {20, 37, -10}}, m)

	m, _ = findInSector(s, pos, mapblock.ContentSand, 1)
	assert.Len(t, m, 1)

	m, err = findInSector(s, primitives.SectorPos{X: 9, Z: 9}, mapblock.ContentSand, 0)
	assert.NoError(t, err)
	assert.Empty(t, m)
}
