package permeability

import (
	"github.com/notargets/gopnm/types"
	"github.com/notargets/gopnm/utils"
)

// SystemMatrix is the square pressure-balance matrix, stored as one
// column->value map per row in single precision. Add accumulates throat
// contributions; SetRow discards a row's contents for Dirichlet overrides.
// The matrix is symmetric until boundary rows are overwritten; the
// asymmetry after that is intentional, the boundary unknowns are held
// fixed by their identity rows.
type SystemMatrix struct {
	N    int
	rows []map[int]float32
}

func NewSystemMatrix(n int) (m *SystemMatrix) {
	m = &SystemMatrix{
		N:    n,
		rows: make([]map[int]float32, n),
	}
	for i := range m.rows {
		m.rows[i] = make(map[int]float32)
	}
	return
}

func (m *SystemMatrix) Add(i, j int, val float64) {
	m.rows[i][j] += float32(val)
}

// SetRow clears row i and leaves the single entry (i,j)=val.
func (m *SystemMatrix) SetRow(i, j int, val float64) {
	m.rows[i] = map[int]float32{j: float32(val)}
}

func (m *SystemMatrix) At(i, j int) float64 {
	return float64(m.rows[i][j])
}

// ToCSR converts to compressed row storage for the matrix-vector kernels.
func (m *SystemMatrix) ToCSR() utils.CSR {
	dok := utils.NewDOK(m.N, m.N)
	for i, row := range m.rows {
		for j, v := range row {
			dok.Set(i, j, float64(v))
		}
	}
	return dok.ToCSR()
}

// AssembleSystem builds A p = b for one engine: Kirchhoff flow balance at
// every pore, pressure fixed at 1 Pa on the inlet rows and 0 Pa on the
// outlet rows. Conductances are normalized by their maximum before
// assembly; the balance rows are homogeneous in conductance, so the
// pressure solution is unchanged while the matrix stays O(1) against the
// solver tolerances and the identity boundary rows. Rows touched by no
// conducting throat are pinned to zero pressure so the system stays
// nonsingular; this also covers gaps in the pore ID space.
func AssembleSystem(pn *types.PoreNetwork, eng Engine, bd Boundary, mu float64) (A *SystemMatrix, b []float64) {
	var (
		n       = pn.MaxPoreID() + 1
		scale   = pn.MetersPerVoxel()
		touched = make([]bool, n)
		g       = make([]float64, len(pn.Throats))
		gMax    float64
	)
	A = NewSystemMatrix(n)
	b = make([]float64, n)
	for i, th := range pn.Throats {
		var (
			p1, _ = pn.Pore(th.Pore1)
			p2, _ = pn.Pore(th.Pore2)
		)
		g[i] = eng.Conductance(p1, p2, th, scale, mu)
		if g[i] > gMax {
			gMax = g[i]
		}
	}
	for i, th := range pn.Throats {
		if g[i] <= 0 {
			continue
		}
		gn := g[i] / gMax
		A.Add(th.Pore1, th.Pore1, gn)
		A.Add(th.Pore2, th.Pore2, gn)
		A.Add(th.Pore1, th.Pore2, -gn)
		A.Add(th.Pore2, th.Pore1, -gn)
		touched[th.Pore1] = true
		touched[th.Pore2] = true
	}
	for id := range bd.Inlet {
		A.SetRow(id, id, 1)
		b[id] = 1
	}
	for id := range bd.Outlet {
		A.SetRow(id, id, 1)
		b[id] = 0
	}
	for i := 0; i < n; i++ {
		if !touched[i] && !bd.Inlet[i] && !bd.Outlet[i] {
			A.SetRow(i, i, 1)
			b[i] = 0
		}
	}
	return
}
