package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillLinear(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		known  []bool
		want   []float64
		filled int
	}{
		{
			name:   "interior gap",
			values: []float64{10, 0, 0, 40},
			known:  []bool{true, false, false, true},
			want:   []float64{10, 20, 30, 40},
			filled: 2,
		},
		{
			name:   "leading gap back-fills",
			values: []float64{0, 5, 8},
			known:  []bool{false, true, true},
			want:   []float64{5, 5, 8},
			filled: 1,
		},
		{
			name:   "trailing gap forward-fills",
			values: []float64{1, 3, 0, 0},
			known:  []bool{true, true, false, false},
			want:   []float64{1, 3, 3, 3},
			filled: 2,
		},
		{
			name:   "single anchor",
			values: []float64{0, 7, 0},
			known:  []bool{false, true, false},
			want:   []float64{7, 7, 7},
			filled: 2,
		},
		{
			name:   "nothing to fill",
			values: []float64{1, 2},
			known:  []bool{true, true},
			want:   []float64{1, 2},
			filled: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, filled, err := FillLinear(tt.values, tt.known)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
			assert.Equal(t, tt.filled, filled)
		})
	}
}

func TestFillLinear_DoesNotMutateInput(t *testing.T) {
	values := []float64{10, -1, 40}
	_, _, err := FillLinear(values, []bool{true, false, true})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, -1, 40}, values)
}

func TestFillLinear_Errors(t *testing.T) {
	_, _, err := FillLinear([]float64{0, 0}, []bool{false, false})
	assert.ErrorIs(t, err, errNoAnchor)

	_, _, err = FillLinear([]float64{0}, []bool{true, false})
	assert.Error(t, err)
}
