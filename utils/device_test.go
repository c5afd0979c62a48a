package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const scaleKernel = `
@kernel void scaleVec(const int_t N,
                      const real_t alpha,
                      @restrict real_t *x) {
  for (int b = 0; b < (N + 255) / 256; ++b; @outer) {
    for (int t = 0; t < 256; ++t; @inner) {
      const int i = b * 256 + t;
      if (i < N) {
        x[i] *= alpha;
      }
    }
  }
}
`

func createTestContext(t *testing.T) *DeviceContext {
	dc, err := NewDeviceContext(`{"mode": "Serial"}`)
	if err != nil {
		t.Skipf("no OCCA device available: %v", err)
	}
	return dc
}

func TestDeviceContext(t *testing.T) {
	dc := createTestContext(t)
	defer dc.Free()
	// Host-device round trip
	const N = 1000
	data := make([]float64, N)
	for i := range data {
		data[i] = float64(i)
	}
	dc.AllocFloat64("x", N)
	dc.WriteFloat64("x", data)
	readBack := make([]float64, N)
	dc.ReadFloat64("x", readBack)
	assert.Equal(t, data, readBack)
	// Kernel build and run
	if _, err := dc.BuildKernel(scaleKernel, "scaleVec"); err != nil {
		t.Skipf("kernel build unavailable: %v", err)
	}
	assert.Nil(t, dc.RunKernel("scaleVec", int64(N), 2.0, dc.GetMemory("x")))
	dc.Finish()
	dc.ReadFloat64("x", readBack)
	for i := range readBack {
		assert.Equal(t, 2*data[i], readBack[i])
	}
	// Unknown kernels report an error instead of panicking
	assert.NotNil(t, dc.RunKernel("missing"))
}
