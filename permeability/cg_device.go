package permeability

import (
	"fmt"
	"math"

	"github.com/notargets/gopnm/utils"
)

// Device kernels for the CG iteration: CSR matrix-vector product, vector
// axpy/aypx updates and a block-reduced dot product. One thread per matrix
// row / vector element; the dot product reduces per workgroup into a
// partials buffer summed on the host.
const (
	deviceBlockSize = 256

	spMVKernel = `
@kernel void spMVCSR(const int_t N,
                     @restrict const int_t *rowPtr,
                     @restrict const int_t *cols,
                     @restrict const real_t *vals,
                     @restrict const real_t *x,
                     @restrict real_t *y) {
  for (int b = 0; b < (N + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int i = b * 256 + t;
      if (i < N) {
        real_t sum = 0.0;
        for (int_t jj = rowPtr[i]; jj < rowPtr[i + 1]; ++jj) {
          sum += vals[jj] * x[cols[jj]];
        }
        y[i] = sum;
      }
    }
  }
}
`

	axpyKernel = `
@kernel void axpy(const int_t N,
                  const real_t alpha,
                  @restrict const real_t *x,
                  @restrict real_t *y) {
  for (int b = 0; b < (N + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int i = b * 256 + t;
      if (i < N) {
        y[i] += alpha * x[i];
      }
    }
  }
}
`

	aypxKernel = `
@kernel void aypx(const int_t N,
                  const real_t beta,
                  @restrict const real_t *x,
                  @restrict real_t *y) {
  for (int b = 0; b < (N + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int i = b * 256 + t;
      if (i < N) {
        y[i] = x[i] + beta * y[i];
      }
    }
  }
}
`

	dotKernel = `
@kernel void dotPartial(const int_t N,
                        const int_t numGroups,
                        @restrict const real_t *x,
                        @restrict const real_t *y,
                        @restrict real_t *partial) {
  for (int b = 0; b < (int) numGroups; ++b; @outer) {
    @shared real_t scratch[256];
    for (int t = 0; t < 256; ++t; @inner) {
      real_t sum = 0.0;
      for (int_t i = b * 256 + t; i < N; i += numGroups * 256) {
        sum += x[i] * y[i];
      }
      scratch[t] = sum;
    }
    for (int t = 0; t < 256; ++t; @inner) {
      if (t == 0) {
        real_t acc = 0.0;
        for (int k = 0; k < 256; ++k) {
          acc += scratch[k];
        }
        partial[b] = acc;
      }
    }
  }
}
`
)

// deviceSolver holds the device-resident CG state. Buffers and kernels
// belong to the DeviceContext; the caller's deferred Free releases them on
// every exit path.
type deviceSolver struct {
	ctx       *utils.DeviceContext
	n         int
	numGroups int
	partial   []float64
}

func newDeviceSolver(ctx *utils.DeviceContext, A utils.CSR, b []float64) (ds *deviceSolver, err error) {
	var (
		raw  = A.RawMatrix()
		n, _ = A.Dims()
		nnz  = len(raw.Data)
	)
	ds = &deviceSolver{
		ctx:       ctx,
		n:         n,
		numGroups: (n + deviceBlockSize - 1) / deviceBlockSize,
	}
	ds.partial = make([]float64, ds.numGroups)
	for _, src := range []struct{ source, name string }{
		{spMVKernel, "spMVCSR"},
		{axpyKernel, "axpy"},
		{aypxKernel, "aypx"},
		{dotKernel, "dotPartial"},
	} {
		if _, err = ctx.BuildKernel(src.source, src.name); err != nil {
			return nil, err
		}
	}
	rowPtr := make([]int64, len(raw.Indptr))
	for i, v := range raw.Indptr {
		rowPtr[i] = int64(v)
	}
	cols := make([]int64, nnz)
	for i, v := range raw.Ind {
		cols[i] = int64(v)
	}
	ds.ctx.AllocInt64("rowPtr", len(rowPtr))
	ds.ctx.WriteInt64("rowPtr", rowPtr)
	ds.ctx.AllocInt64("cols", maxInt(nnz, 1))
	ds.ctx.WriteInt64("cols", cols)
	ds.ctx.AllocFloat64("vals", maxInt(nnz, 1))
	ds.ctx.WriteFloat64("vals", raw.Data)
	ds.ctx.AllocFloat64("x", n)
	ds.ctx.WriteFloat64("x", make([]float64, n))
	ds.ctx.AllocFloat64("r", n)
	ds.ctx.WriteFloat64("r", b)
	ds.ctx.AllocFloat64("p", n)
	ds.ctx.WriteFloat64("p", b)
	ds.ctx.AllocFloat64("ap", n)
	ds.ctx.AllocFloat64("partial", ds.numGroups)
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// dot launches the block reduction for two device vectors and sums the
// per-group partials on the host.
func (ds *deviceSolver) dot(xName, yName string) (sum float64, err error) {
	if err = ds.ctx.RunKernel("dotPartial", int64(ds.n), int64(ds.numGroups),
		ds.ctx.GetMemory(xName), ds.ctx.GetMemory(yName),
		ds.ctx.GetMemory("partial")); err != nil {
		return
	}
	ds.ctx.Finish()
	ds.ctx.ReadFloat64("partial", ds.partial)
	for _, v := range ds.partial {
		sum += v
	}
	return
}

// Solve performs the identical CG sequence as the CPU backend, one kernel
// launch per step with a Finish barrier between dependent steps.
func (ds *deviceSolver) Solve() (x []float64, converged bool, iterations int, err error) {
	var (
		rsOld, rsNew, pAp float64
	)
	x = make([]float64, ds.n)
	if rsOld, err = ds.dot("r", "r"); err != nil {
		return
	}
	if math.Sqrt(rsOld) < cgTolerance {
		converged = true
		return
	}
	for iterations = 0; iterations < cgMaxIterations; iterations++ {
		if err = ds.ctx.RunKernel("spMVCSR", int64(ds.n),
			ds.ctx.GetMemory("rowPtr"), ds.ctx.GetMemory("cols"),
			ds.ctx.GetMemory("vals"), ds.ctx.GetMemory("p"),
			ds.ctx.GetMemory("ap")); err != nil {
			return
		}
		ds.ctx.Finish()
		if pAp, err = ds.dot("p", "ap"); err != nil {
			return
		}
		if math.Abs(pAp) < cgBreakdown {
			fmt.Printf("Warning: CG breakdown at iteration %d, |p.Ap| = %g\n", iterations, math.Abs(pAp))
			break
		}
		alpha := rsOld / pAp
		if err = ds.ctx.RunKernel("axpy", int64(ds.n), alpha,
			ds.ctx.GetMemory("p"), ds.ctx.GetMemory("x")); err != nil {
			return
		}
		if err = ds.ctx.RunKernel("axpy", int64(ds.n), -alpha,
			ds.ctx.GetMemory("ap"), ds.ctx.GetMemory("r")); err != nil {
			return
		}
		ds.ctx.Finish()
		if rsNew, err = ds.dot("r", "r"); err != nil {
			return
		}
		if math.Sqrt(rsNew) < cgTolerance {
			converged = true
			iterations++
			break
		}
		if err = ds.ctx.RunKernel("aypx", int64(ds.n), rsNew/rsOld,
			ds.ctx.GetMemory("r"), ds.ctx.GetMemory("p")); err != nil {
			return
		}
		ds.ctx.Finish()
		rsOld = rsNew
	}
	if !converged && iterations == cgMaxIterations {
		fmt.Printf("Warning: CG did not converge within %d iterations, ||r|| = %g\n",
			cgMaxIterations, math.Sqrt(rsOld))
	}
	ds.ctx.ReadFloat64("x", x)
	return
}

// deviceModes are tried in order when the caller requests GPU execution;
// Serial keeps the device path exercisable on hosts without a GPU.
var deviceModes = []string{
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "OpenCL", "platform_id": 0, "device_id": 0}`,
	`{"mode": "Serial"}`,
}

func solvePressureDevice(A utils.CSR, b []float64) (x []float64, converged bool, iterations int, err error) {
	var (
		ctx *utils.DeviceContext
	)
	for _, mode := range deviceModes {
		if ctx, err = utils.NewDeviceContext(mode); err == nil {
			break
		}
	}
	if ctx == nil {
		err = fmt.Errorf("no usable device: %w", err)
		return
	}
	defer ctx.Free()
	return solvePressureOnDevice(ctx, A, b)
}

func solvePressureOnDevice(ctx *utils.DeviceContext, A utils.CSR, b []float64) (x []float64, converged bool, iterations int, err error) {
	var (
		ds *deviceSolver
	)
	if ds, err = newDeviceSolver(ctx, A, b); err != nil {
		return
	}
	return ds.Solve()
}
