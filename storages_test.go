package main

import (
	"testing"

	"github.com/maxsupermanhd/lac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStoragesFromConfig(t *testing.T) {
	root := testWorld(t)
	prev := cfg
	cfg = lac.NewConf()
	t.Cleanup(func() { cfg = prev })
	cfg.Set(map[string]any{
		"archive": map[string]any{"name": "archive", "type": "filesystem", "addr": root},
		"broken":  map[string]any{"type": "postgres", "addr": "db"},
	}, "storages")

	require.NoError(t, initStorages(""))
	s, ok := storages["archive"]
	require.True(t, ok)
	assert.Equal(t, root, s.Address)
	assert.NotNil(t, s.Driver)
	_, err := getWorld("archive")
	assert.NoError(t, err)

	s, ok = storages["broken"]
	require.True(t, ok)
	assert.Equal(t, "broken", s.Name)
	assert.Nil(t, s.Driver)
	assert.Equal(t, "archive", defaultWorld())
}

func TestInitStoragesInputIsDefault(t *testing.T) {
	root := testWorld(t)
	prev := cfg
	cfg = lac.NewConf()
	t.Cleanup(func() { cfg = prev })

	require.NoError(t, initStorages(root))
	assert.Equal(t, defaultWorldName, defaultWorld())
	assert.Equal(t, root, storages[defaultWorldName].Address)

	assert.Error(t, initStorages(""), "no worlds at all")
}
