// Package decompose standardizes the mortality matrix and extracts its
// principal components.
package decompose

import (
	"fmt"
	"math"

	"mortpca/domain/core"
	"mortpca/domain/mortality"
	apperrors "mortpca/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// varianceTolerance is the relative standard deviation below which a column
// counts as constant.
const varianceTolerance = 1e-12

// Standardized is a column-wise z-scored copy of a MortalityMatrix.
type Standardized struct {
	Values  *mat.Dense
	Bands   []mortality.AgeBand
	Means   []float64
	StdDevs []float64 // population standard deviation (ddof 0)
}

// Standardize rescales every column to zero mean and unit population
// variance. A constant column fails, naming its band.
func Standardize(m *mortality.MortalityMatrix) (*Standardized, error) {
	rows, cols := m.Dims()
	if rows < 2 || cols == 0 {
		return nil, apperrors.DegenerateInput(fmt.Errorf("%w: matrix is %dx%d", core.ErrInsufficientData, rows, cols))
	}

	out := mat.NewDense(rows, cols, nil)
	means := make([]float64, cols)
	stds := make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := m.Column(j)
		mean, err := stats.Mean(col)
		if err != nil {
			return nil, apperrors.Wrapf(err, "mean of %s", m.Bands[j])
		}
		std, err := stats.StandardDeviationPopulation(col)
		if err != nil {
			return nil, apperrors.Wrapf(err, "standard deviation of %s", m.Bands[j])
		}
		if std <= varianceTolerance*math.Max(1, math.Abs(mean)) {
			return nil, apperrors.DegenerateInput(core.NewColumnError(m.Bands[j].String(), core.ErrZeroVariance))
		}
		for i, v := range col {
			out.Set(i, j, (v-mean)/std)
		}
		means[j], stds[j] = mean, std
	}

	bands := append([]mortality.AgeBand(nil), m.Bands...)
	return &Standardized{Values: out, Bands: bands, Means: means, StdDevs: stds}, nil
}
