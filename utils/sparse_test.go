package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparse(t *testing.T) {
	// Accumulate sums repeated contributions, Set overwrites
	{
		A := NewDOK(3, 3)
		A.Accumulate(0, 0, 1.5)
		A.Accumulate(0, 0, 2.5)
		A.Set(1, 2, -3)
		assert.Equal(t, 4.0, A.At(0, 0))
		assert.Equal(t, -3.0, A.At(1, 2))
		nr, nc := A.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 3, nc)
	}
	// CSR conversion exposes compressed row storage
	{
		A := NewDOK(2, 2)
		A.Set(0, 0, 2)
		A.Set(0, 1, -1)
		A.Set(1, 1, 2)
		R := A.ToCSR()
		assert.Equal(t, 2.0, R.At(0, 0))
		assert.Equal(t, -1.0, R.At(0, 1))
		raw := R.RawMatrix()
		assert.Equal(t, 3, len(raw.Data))
		assert.Equal(t, 3, len(R.Data()))
		// Indptr has one entry per row plus the terminator
		assert.Equal(t, 3, len(raw.Indptr))
	}
}
