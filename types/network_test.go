package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPoreNetwork(t *testing.T) {
	// Valid two-pore network
	{
		pores := []Pore{
			{ID: 0, Position: [3]float64{0, 0, 0}, Radius: 1},
			{ID: 2, Position: [3]float64{3, 4, 0}, Radius: 1},
		}
		throats := []Throat{{ID: 0, Pore1: 0, Pore2: 2, Radius: 0.5}}
		pn, err := NewPoreNetwork(pores, throats, 1.0)
		assert.Nil(t, err)
		assert.Equal(t, 2, pn.MaxPoreID())
		p, ok := pn.Pore(2)
		assert.True(t, ok)
		assert.Equal(t, 2, p.ID)
		_, ok = pn.Pore(1)
		assert.False(t, ok)
		assert.InDelta(t, 5.0, Distance(pores[0], pores[1]), 1.e-12)
		assert.InDelta(t, 1.0e-6, pn.MetersPerVoxel(), 1.e-18)
	}
	// Dangling throat reference fails at construction
	{
		pores := []Pore{{ID: 0}}
		throats := []Throat{{ID: 0, Pore1: 0, Pore2: 7, Radius: 0.5}}
		_, err := NewPoreNetwork(pores, throats, 1.0)
		assert.NotNil(t, err)
	}
	// Duplicate pore IDs fail at construction
	{
		pores := []Pore{{ID: 3}, {ID: 3}}
		_, err := NewPoreNetwork(pores, nil, 1.0)
		assert.NotNil(t, err)
	}
	// Nonpositive voxel size fails
	{
		_, err := NewPoreNetwork([]Pore{{ID: 0}}, nil, 0)
		assert.NotNil(t, err)
	}
}
