package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrSampleExhaustsPopulation is returned when the requested sample size is
// not strictly smaller than the population, where drawing without
// replacement could never terminate.
var ErrSampleExhaustsPopulation = errors.New("sampler: sample size must be smaller than population")

// Source yields uniform random integers. It matches the relevant subset of
// math/rand/v2.Rand so tests can inject a seeded generator.
type Source interface {
	// IntN returns a uniform random int in [0, n).
	IntN(n int) int
}

type sourceFunc func(n int) int

func (f sourceFunc) IntN(n int) int { return f(n) }

// Sampler draws distinct 1-based indices from a bounded population.
type Sampler struct {
	src Source
}

// New returns a Sampler backed by src. A nil src falls back to the shared
// math/rand/v2 generator.
func New(src Source) *Sampler {
	if src == nil {
		src = sourceFunc(rand.IntN)
	}
	return &Sampler{src: src}
}

// Sample returns size distinct integers in [1, bound], in draw order.
// Draws are uniform and unweighted. It fails if size >= bound instead of
// retrying forever.
func (s *Sampler) Sample(bound, size int) ([]int, error) {
	if bound < 1 {
		return nil, fmt.Errorf("sampler: population bound %d must be positive", bound)
	}
	if size < 0 {
		return nil, fmt.Errorf("sampler: sample size %d must be non-negative", size)
	}
	if size >= bound {
		return nil, fmt.Errorf("%w: size=%d bound=%d", ErrSampleExhaustsPopulation, size, bound)
	}

	drawn := make(map[int]struct{}, size)
	order := make([]int, 0, size)
	for len(order) < size {
		n := s.src.IntN(bound) + 1
		if _, ok := drawn[n]; ok {
			continue
		}
		drawn[n] = struct{}{}
		order = append(order, n)
	}

	return order, nil
}
