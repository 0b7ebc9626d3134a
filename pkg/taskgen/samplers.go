package taskgen

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws task parameters: Sample for a single scalar (used for
// the rate itself), SampleN for a vector of n values (used for runtime,
// IO time, and payload once the tick's task count is known).
type Sampler interface {
	Sample() float64
	SampleN(n int) []float64
}

// ConstantSampler always returns Value. SampleN returns a vector filled
// with Value rather than n independent draws.
type ConstantSampler struct {
	Value float64
}

func (s ConstantSampler) Sample() float64 { return s.Value }

func (s ConstantSampler) SampleN(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Value
	}
	return out
}

// GaussianSampler draws from a Normal(Center, Scale) distribution.
// Negative draws are clamped to zero.
type GaussianSampler struct {
	dist distuv.Normal
}

// NewGaussianSampler returns a GaussianSampler seeded from seed. Two
// samplers built from the same seed draw the same sequence.
func NewGaussianSampler(center, scale float64, seed uint64) *GaussianSampler {
	return &GaussianSampler{
		dist: distuv.Normal{
			Mu:    center,
			Sigma: scale,
			Src:   rand.NewSource(seed),
		},
	}
}

func (s *GaussianSampler) Sample() float64 {
	return clampNonNegative(s.dist.Rand())
}

func (s *GaussianSampler) SampleN(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = clampNonNegative(s.dist.Rand())
	}
	return out
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
