package sampler_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexiquiz/internal/sampler"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestSampler_Sample(t *testing.T) {
	type args struct {
		bound int
		size  int
	}

	tests := map[string]struct {
		args    args
		wantErr error
	}{
		"draws the requested number of indices": {
			args: args{bound: 100, size: 10},
		},
		"zero size yields an empty sample": {
			args: args{bound: 5, size: 0},
		},
		"can draw all but one of the population": {
			args: args{bound: 5, size: 4},
		},
		"size equal to bound is rejected": {
			args:    args{bound: 5, size: 5},
			wantErr: sampler.ErrSampleExhaustsPopulation,
		},
		"size above bound is rejected": {
			args:    args{bound: 5, size: 6},
			wantErr: sampler.ErrSampleExhaustsPopulation,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := sampler.New(seeded(42))
			got, err := s.Sample(tt.args.bound, tt.args.size)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.args.size)

			distinct := make(map[int]struct{}, len(got))
			for _, n := range got {
				assert.GreaterOrEqual(t, n, 1)
				assert.LessOrEqual(t, n, tt.args.bound)
				distinct[n] = struct{}{}
			}
			assert.Len(t, distinct, tt.args.size, "indices should be distinct")
		})
	}
}

func TestSampler_Sample_InvalidInputs(t *testing.T) {
	t.Parallel()

	s := sampler.New(seeded(1))

	_, err := s.Sample(0, 0)
	require.Error(t, err)

	_, err = s.Sample(10, -1)
	require.Error(t, err)
}

func TestSampler_Sample_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := sampler.New(seeded(7)).Sample(50, 20)
	require.NoError(t, err)
	b, err := sampler.New(seeded(7)).Sample(50, 20)
	require.NoError(t, err)

	assert.Equal(t, a, b, "same seed should produce the same draw order")
}

func TestSampler_Sample_NilSource(t *testing.T) {
	t.Parallel()

	got, err := sampler.New(nil).Sample(10, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
}
