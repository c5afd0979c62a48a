package readfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadPoreNetwork(t *testing.T) {
	// YAML form of the deck
	{
		deck := []byte(`
voxel_size: 2.5
pores:
  - {id: 0, x: 0, y: 0, z: 0, radius: 1.0}
  - {id: 1, x: 4, y: 0, z: 0, radius: 1.5}
throats:
  - {id: 0, pore1: 0, pore2: 1, radius: 0.5}
`)
		pn, err := ParsePoreNetwork(deck)
		assert.Nil(t, err)
		assert.Equal(t, 2, len(pn.Pores))
		assert.Equal(t, 1, len(pn.Throats))
		assert.Equal(t, 2.5, pn.VoxelSize)
		assert.Equal(t, 4.0, pn.Pores[1].Position[0])
	}
	// JSON form of the same deck decodes identically
	{
		deck := []byte(`{"voxel_size": 1.0,
			"pores": [{"id": 0, "radius": 1}, {"id": 1, "x": 1, "radius": 1}],
			"throats": [{"id": 0, "pore1": 0, "pore2": 1, "radius": 0.4}]}`)
		pn, err := ParsePoreNetwork(deck)
		assert.Nil(t, err)
		assert.Equal(t, 0.4, pn.Throats[0].Radius)
	}
	// Dangling reference is rejected at load time
	{
		deck := []byte(`{"voxel_size": 1.0,
			"pores": [{"id": 0, "radius": 1}],
			"throats": [{"id": 0, "pore1": 0, "pore2": 9, "radius": 0.4}]}`)
		_, err := ParsePoreNetwork(deck)
		assert.NotNil(t, err)
	}
	// File path round trip
	{
		fname := filepath.Join(t.TempDir(), "net.yaml")
		deck := []byte("voxel_size: 1.0\npores:\n  - {id: 0, radius: 1}\nthroats: []\n")
		assert.Nil(t, os.WriteFile(fname, deck, 0644))
		pn, err := ReadPoreNetwork(fname, false)
		assert.Nil(t, err)
		assert.Equal(t, 1, len(pn.Pores))
		_, err = ReadPoreNetwork(filepath.Join(t.TempDir(), "missing.yaml"), false)
		assert.NotNil(t, err)
	}
}
