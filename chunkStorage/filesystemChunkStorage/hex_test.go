package filesystemChunkStorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex3RoundTrip(t *testing.T) {
	for i := -2048; i <= 2047; i++ {
		h := IntToHex3(i)
		require.Len(t, h, 3)
		d, err := Hex3ToInt(h)
		require.NoError(t, err)
		require.Equal(t, i, d)
	}
}

func TestHex4RoundTrip(t *testing.T) {
	for i := -32768; i <= 32767; i++ {
		h := IntToHex4(i)
		require.Len(t, h, 4)
		d, err := Hex4ToInt(h)
		require.NoError(t, err)
		require.Equal(t, i, d)
	}
}

func TestHexKnownValues(t *testing.T) {
	assert.Equal(t, "fff", IntToHex3(-1))
	assert.Equal(t, "800", IntToHex3(-2048))
	assert.Equal(t, "7ff", IntToHex3(2047))
	assert.Equal(t, "ffa3", IntToHex4(-93))
	v, err := Hex4ToInt("FFFF")
	require.NoError(t, err)
	assert.Equal(t, -1, v)
	_, err = Hex3ToInt("xyz")
	assert.Error(t, err)
}
