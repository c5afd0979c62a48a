package permeability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gopnm/types"
)

func TestSystemMatrix(t *testing.T) {
	m := NewSystemMatrix(3)
	// Add accumulates contributions to the same entry
	m.Add(0, 1, 2.0)
	m.Add(0, 1, 3.0)
	assert.Equal(t, 5.0, m.At(0, 1))
	// SetRow discards prior row contents
	m.Add(0, 2, 7.0)
	m.SetRow(0, 0, 1.0)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 0.0, m.At(0, 1))
	assert.Equal(t, 0.0, m.At(0, 2))
	// CSR conversion preserves entries
	m.Add(2, 1, -4.0)
	csr := m.ToCSR()
	nr, nc := csr.Dims()
	assert.Equal(t, 3, nr)
	assert.Equal(t, 3, nc)
	assert.Equal(t, 1.0, csr.At(0, 0))
	assert.InDelta(t, -4.0, csr.At(2, 1), 1.e-12)
}

func TestAssembleSystem(t *testing.T) {
	// Three pores in a line, uniform throats, X flow: pore 0 inlet,
	// pore 2 outlet, pore 1 interior
	pores := []types.Pore{
		{ID: 0, Position: [3]float64{0, 0, 0}, Radius: 0.7},
		{ID: 1, Position: [3]float64{2, 0, 0}, Radius: 0.7},
		{ID: 2, Position: [3]float64{4, 0, 0}, Radius: 0.7},
	}
	throats := []types.Throat{
		{ID: 0, Pore1: 0, Pore2: 1, Radius: 0.5},
		{ID: 1, Pore1: 1, Pore2: 2, Radius: 0.5},
	}
	pn, err := types.NewPoreNetwork(pores, throats, 1.0)
	assert.Nil(t, err)
	var (
		mu = 1.0e-3
		bd = ClassifyBoundary(pn, types.AxisX)
	)
	A, b := AssembleSystem(pn, Darcy, bd, mu)
	// Interior row keeps the symmetric Kirchhoff form; both throats share
	// the same conductance, so the normalized entries are exactly one
	assert.InDelta(t, 2.0, A.At(1, 1), 1.e-6)
	assert.InDelta(t, -1.0, A.At(1, 0), 1.e-6)
	assert.InDelta(t, -1.0, A.At(1, 2), 1.e-6)
	// Boundary rows are identity with the prescribed pressures
	assert.Equal(t, 1.0, A.At(0, 0))
	assert.Equal(t, 0.0, A.At(0, 1))
	assert.Equal(t, 1.0, b[0])
	assert.Equal(t, 1.0, A.At(2, 2))
	assert.Equal(t, 0.0, b[2])
}

func TestAssembleSystemIsolatedRows(t *testing.T) {
	// Pore 5 exists but touches no throat, and IDs 2-4 are gaps: all such
	// rows must be pinned so the system stays nonsingular
	pores := []types.Pore{
		{ID: 0, Position: [3]float64{0, 0, 0}, Radius: 0.7},
		{ID: 1, Position: [3]float64{4, 0, 0}, Radius: 0.7},
		{ID: 5, Position: [3]float64{2, 2, 0}, Radius: 0.7},
	}
	throats := []types.Throat{{ID: 0, Pore1: 0, Pore2: 1, Radius: 0.5}}
	pn, err := types.NewPoreNetwork(pores, throats, 1.0)
	assert.Nil(t, err)
	bd := ClassifyBoundary(pn, types.AxisX)
	A, b := AssembleSystem(pn, Darcy, bd, 1.0e-3)
	for _, i := range []int{2, 3, 4, 5} {
		assert.Equal(t, 1.0, A.At(i, i), "row %d should be pinned", i)
		assert.Equal(t, 0.0, b[i])
	}
	// A pinned system solves without breakdown
	x, converged, _ := newCGSolver(A.ToCSR()).Solve(b)
	assert.True(t, converged)
	assert.Equal(t, 0.0, x[3])
}
