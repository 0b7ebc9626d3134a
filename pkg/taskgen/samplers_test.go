package taskgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantSamplerReturnsFixedScalar(t *testing.T) {
	s := ConstantSampler{Value: 42}
	assert.Equal(t, 42.0, s.Sample())
}

func TestConstantSamplerSampleNFillsVector(t *testing.T) {
	s := ConstantSampler{Value: 7}
	out := s.SampleN(4)
	assert.Equal(t, []float64{7, 7, 7, 7}, out)
}

func TestConstantSamplerSampleNZeroReturnsEmpty(t *testing.T) {
	s := ConstantSampler{Value: 7}
	assert.Empty(t, s.SampleN(0))
}

func TestGaussianSamplerClampsNegativeDrawsToZero(t *testing.T) {
	// A large negative center with a tiny scale all but guarantees a
	// negative raw draw, which must be clamped rather than returned.
	s := NewGaussianSampler(-1000, 0.01, 1)
	for i := 0; i < 10; i++ {
		assert.GreaterOrEqual(t, s.Sample(), 0.0)
	}
}

func TestGaussianSamplerSameSeedReproducesSequence(t *testing.T) {
	a := NewGaussianSampler(10, 2, 99)
	b := NewGaussianSampler(10, 2, 99)
	assert.Equal(t, a.SampleN(5), b.SampleN(5))
}
