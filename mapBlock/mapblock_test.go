package mapblock

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, version, flags uint8, planes []byte) []byte {
	t.Helper()
	raw, err := Encode(Header{Version: version, Flags: flags}, planes)
	require.NoError(t, err)
	return raw
}

func TestDecodePackedExtendedID(t *testing.T) {
	planes := Planes()
	p := Index(3, 7, 11)
	planes[p] = 0x90
	planes[highPlaneOffset+p] = 0x30
	planes[Index(0, 0, 0)] = 0x42
	planes[highPlaneOffset+Index(0, 0, 0)] = 0xF0

	b, err := Decode(encode(t, 20, FlagDayNightDiff, planes))
	require.NoError(t, err)
	assert.Equal(t, Content(0x903), b.ContentAt(3, 7, 11))
	assert.Equal(t, Content(0x42), b.ContentAt(0, 0, 0), "ids below 0x80 ignore high plane")
	assert.True(t, b.DayNightDiff())
}

func TestDecodeMissingHighPlane(t *testing.T) {
	planes := make([]byte, NodeCount)
	planes[5] = 0x85
	b, err := Decode(encode(t, 20, 0, planes))
	require.NoError(t, err)
	assert.Equal(t, Content(0x850), b.ContentAtIndex(5))
}

func TestDecodeLegacyTranslation(t *testing.T) {
	planes := Planes()
	planes[Index(1, 2, 3)] = 13
	planes[Index(4, 5, 6)] = 3
	for _, v := range []uint8{16, 17, 18, 19} {
		b, err := Decode(encode(t, v, 0, planes))
		require.NoError(t, err)
		assert.Equal(t, Content(0x809), b.ContentAt(1, 2, 3), "version %d", v)
		assert.Equal(t, Content(3), b.ContentAt(4, 5, 6), "untranslated id passes through")
		assert.False(t, b.DayNightDiff())
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	for _, v := range []uint8{0, 15, 21, 255} {
		_, err := Decode(encode(t, v, 0, Planes()))
		assert.True(t, errors.Is(err, ErrUnsupportedVersion), "version %d: %v", v, err)
	}
}

func TestDecodeUndecodable(t *testing.T) {
	_, err := Decode([]byte{20})
	assert.ErrorIs(t, err, ErrUndecodable)

	_, err = Decode([]byte{20, 2, 'n', 'o', 't', 'z', 'l', 'i', 'b'})
	assert.ErrorIs(t, err, ErrUndecodable)

	_, err = Decode(encode(t, 20, 2, make([]byte, NodeCount-1)))
	assert.ErrorIs(t, err, ErrUndecodable)

	noise := Planes()
	rand.New(rand.NewSource(1)).Read(noise)
	full := encode(t, 20, 2, noise)
	_, err = Decode(full[:headerSize+100])
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestDecodeTruncatedKeepsInflatedNodes(t *testing.T) {
	planes := Planes()
	planes[Index(2, 3, 4)] = 0x42
	planes[Index(5, 5, 5)] = 0x91
	planes[highPlaneOffset+Index(5, 5, 5)] = 0x70

	var buf bytes.Buffer
	buf.Write([]byte{20, FlagDayNightDiff})
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(planes[:highPlaneOffset])
	require.NoError(t, err)
	require.NoError(t, zw.Flush())
	cut := buf.Len()
	_, err = zw.Write(planes[highPlaneOffset:])
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	b, err := Decode(buf.Bytes()[:cut])
	require.NoError(t, err)
	assert.Equal(t, Content(0x42), b.ContentAt(2, 3, 4))
	assert.Equal(t, Content(0x910), b.ContentAt(5, 5, 5), "missing high plane reads as zero")
}

func TestUndecodableBeatsVersion(t *testing.T) {
	_, err := Decode(encode(t, 3, 0, make([]byte, 10)))
	assert.ErrorIs(t, err, ErrUndecodable)
	assert.NotErrorIs(t, err, ErrUnsupportedVersion)
}

func TestContentClasses(t *testing.T) {
	for _, c := range []Content{126, 127, 254} {
		assert.True(t, c.IsAir())
	}
	assert.False(t, ContentStone.IsAir())
	assert.True(t, ContentWater.IsWater())
	assert.True(t, ContentWaterSource.IsWater())
	assert.False(t, ContentGrass.IsWater())
}
