package filesystemChunkStorage

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/maxsupermanhd/SectorMapper/chunkStorage"
	"github.com/maxsupermanhd/SectorMapper/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, p string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, data, 0644))
}

func sortSectors(s []primitives.SectorPos) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].X != s[j].X {
			return s[i].X < s[j].X
		}
		return s[i].Z < s[j].Z
	})
}

func TestListSectorsBothLayouts(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "sectors2", "000", "000", "0000"), []byte{1})
	touch(t, filepath.Join(root, "sectors2", "fff", "001", "0000"), []byte{1})
	touch(t, filepath.Join(root, "sectors2", "7ff", "000", "0000"), []byte{1})
	touch(t, filepath.Join(root, "sectors", "ffa30005", "0000"), []byte{1})
	touch(t, filepath.Join(root, "sectors", "00000000", "0000"), []byte{1})
	touch(t, filepath.Join(root, "sectors", "garbage", "0000"), []byte{1})

	s, err := NewFilesystemChunkStorage(root, nil)
	require.NoError(t, err)
	got, err := s.ListSectors(primitives.DefaultBoundingBox())
	require.NoError(t, err)
	sortSectors(got)
	assert.Equal(t, []primitives.SectorPos{
		{X: -93, Z: 5},
		{X: -1, Z: 1},
		{X: 0, Z: 0},
		{X: 0, Z: 0},
	}, got, "out of box sector dropped, duplicates across layouts kept")
}

func TestListSectorsNoLayouts(t *testing.T) {
	s, err := NewFilesystemChunkStorage(t.TempDir(), nil)
	require.NoError(t, err)
	got, err := s.ListSectors(primitives.DefaultBoundingBox())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewStorageMissingRoot(t *testing.T) {
	_, err := NewFilesystemChunkStorage(filepath.Join(t.TempDir(), "nope"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetSectorPrecedence(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "sectors", "00010002", "0001"), []byte("legacy"))
	touch(t, filepath.Join(root, "sectors", "00010002", "meta"), []byte("meta"))
	touch(t, filepath.Join(root, "sectors2", "001", "002", "ffff"), []byte("nested"))
	touch(t, filepath.Join(root, "sectors2", "001", "002", "0003"), []byte("nested"))
	touch(t, filepath.Join(root, "sectors", "00030004", "meta"), []byte("meta"))
	touch(t, filepath.Join(root, "sectors2", "003", "004", "0000"), []byte("nested"))

	s, err := NewFilesystemChunkStorage(root, nil)
	require.NoError(t, err)

	sec, err := s.GetSector(primitives.SectorPos{X: 1, Z: 2})
	require.NoError(t, err)
	require.NotNil(t, sec)
	assert.Equal(t, chunkStorage.LayoutLegacy, sec.Layout)
	assert.Equal(t, []int{1}, sec.Ys)
	data, err := s.ReadBlock(sec, 1)
	require.NoError(t, err)
	assert.Equal(t, "legacy", string(data))

	sec, err = s.GetSector(primitives.SectorPos{X: 3, Z: 4})
	require.NoError(t, err)
	require.NotNil(t, sec)
	assert.Equal(t, chunkStorage.LayoutNested, sec.Layout, "meta only legacy sector falls back to nested")
	assert.Equal(t, []int{0}, sec.Ys)

	sec, err = s.GetSector(primitives.SectorPos{X: 9, Z: 9})
	require.NoError(t, err)
	assert.Nil(t, sec)
}

func TestGetSectorSortedYs(t *testing.T) {
	root := t.TempDir()
	for _, y := range []string{"0002", "fffe", "0000", "ffff"} {
		touch(t, filepath.Join(root, "sectors2", "000", "000", y), []byte{1})
	}
	s, err := NewFilesystemChunkStorage(root, nil)
	require.NoError(t, err)
	sec, err := s.GetSector(primitives.SectorPos{})
	require.NoError(t, err)
	require.NotNil(t, sec)
	assert.Equal(t, []int{-2, -1, 0, 2}, sec.Ys)
}

func TestReadBlockMissing(t *testing.T) {
	s, err := NewFilesystemChunkStorage(t.TempDir(), nil)
	require.NoError(t, err)
	_, err = s.ReadBlock(nil, 0)
	assert.ErrorIs(t, err, chunkStorage.ErrNoSector)
	_, err = s.ReadBlock(&chunkStorage.Sector{Layout: chunkStorage.LayoutNested}, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
