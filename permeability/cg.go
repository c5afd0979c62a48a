package permeability

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/exascience/pargo/parallel"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gopnm/utils"
)

const (
	cgTolerance     = 1.0e-6  // converged when ||r|| falls below this
	cgBreakdown     = 1.0e-10 // |p.Ap| below this is a degenerate direction
	cgMaxIterations = 5000
)

// cgSolver runs Conjugate Gradient on a CSR matrix. The matrix-vector
// product shards rows across goroutines via a PartitionMap: the matrix and
// input vector are read-only and the output rows are disjoint, so no
// locking is needed.
type cgSolver struct {
	n      int
	indptr []int
	ind    []int
	data   []float64
	pm     *utils.PartitionMap
}

func newCGSolver(A utils.CSR) (s *cgSolver) {
	var (
		raw  = A.RawMatrix()
		n, _ = A.Dims()
	)
	s = &cgSolver{
		n:      n,
		indptr: raw.Indptr,
		ind:    raw.Ind,
		data:   raw.Data,
		pm:     utils.NewPartitionMap(runtime.NumCPU(), n),
	}
	return
}

func (s *cgSolver) spMV(x, y []float64) {
	var wg sync.WaitGroup
	for np := 0; np < s.pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			rMin, rMax := s.pm.GetBucketRange(np)
			for i := rMin; i < rMax; i++ {
				var sum float64
				for jj := s.indptr[i]; jj < s.indptr[i+1]; jj++ {
					sum += s.data[jj] * x[s.ind[jj]]
				}
				y[i] = sum
			}
		}(np)
	}
	wg.Wait()
}

// dot is a parallel range reduce over subrange dot products
func dot(x, y []float64) float64 {
	return parallel.RangeReduceFloat64(0, len(x), 0,
		func(low, high int) float64 {
			return floats.Dot(x[low:high], y[low:high])
		},
		func(a, b float64) float64 { return a + b },
	)
}

// Solve iterates CG from x=0 until the residual norm drops below the
// tolerance, the search direction degenerates, or the iteration cap is hit.
// The best-effort x is returned in every case; non-convergence is reported,
// never raised as an error.
func (s *cgSolver) Solve(b []float64) (x []float64, converged bool, iterations int) {
	var (
		r     = make([]float64, s.n)
		p     = make([]float64, s.n)
		ap    = make([]float64, s.n)
		rsOld float64
	)
	x = make([]float64, s.n)
	copy(r, b)
	copy(p, b)
	rsOld = dot(r, r)
	if math.Sqrt(rsOld) < cgTolerance {
		converged = true
		return
	}
	for iterations = 0; iterations < cgMaxIterations; iterations++ {
		s.spMV(p, ap)
		pAp := dot(p, ap)
		if math.Abs(pAp) < cgBreakdown {
			fmt.Printf("Warning: CG breakdown at iteration %d, |p.Ap| = %g\n", iterations, math.Abs(pAp))
			return
		}
		alpha := rsOld / pAp
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		rsNew := dot(r, r)
		if math.Sqrt(rsNew) < cgTolerance {
			converged = true
			iterations++
			return
		}
		floats.Scale(rsNew/rsOld, p)
		floats.Add(p, r)
		rsOld = rsNew
	}
	fmt.Printf("Warning: CG did not converge within %d iterations, ||r|| = %g\n",
		cgMaxIterations, math.Sqrt(rsOld))
	return
}
