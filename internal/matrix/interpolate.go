package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// FillLinear fills the unknown entries of values by linear interpolation on
// the row position. Entries before the first known value take that value,
// entries after the last known value take the last one. It returns a new
// slice and the number of filled entries.
func FillLinear(values []float64, known []bool) ([]float64, int, error) {
	if len(values) != len(known) {
		return nil, 0, fmt.Errorf("values and mask differ in length: %d vs %d", len(values), len(known))
	}

	var xs, ys []float64
	for i, ok := range known {
		if ok {
			xs = append(xs, float64(i))
			ys = append(ys, values[i])
		}
	}
	if len(xs) == 0 {
		return nil, 0, errNoAnchor
	}

	out := make([]float64, len(values))
	filled := 0
	first, last := int(xs[0]), int(xs[len(xs)-1])

	var pl interp.PiecewiseLinear
	if len(xs) > 1 {
		if err := pl.Fit(xs, ys); err != nil {
			return nil, 0, fmt.Errorf("fit interpolant: %w", err)
		}
	}

	for i := range values {
		switch {
		case known[i]:
			out[i] = values[i]
			continue
		case i < first:
			out[i] = ys[0]
		case i > last:
			out[i] = ys[len(ys)-1]
		default:
			out[i] = pl.Predict(float64(i))
		}
		filled++
	}
	return out, filled, nil
}
