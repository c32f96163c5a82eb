package decompose

import (
	"fmt"
	"math"

	"mortpca/domain/core"
	"mortpca/domain/mortality"
	apperrors "mortpca/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultComponents is the number of components the report draws.
const DefaultComponents = 2

// Decompose extracts the first k principal components of a standardized
// matrix through a thin SVD. Loadings are the leading right singular
// vectors; scores are the rows projected onto them. Each component is
// oriented so that its largest-magnitude loading is positive.
func Decompose(z *Standardized, k int) (*mortality.DecompositionResult, error) {
	rows, cols := z.Values.Dims()
	if k < 1 || rows < 2 || k > min(rows, cols) {
		return nil, apperrors.DegenerateInput(fmt.Errorf("%w: %d components requested from %dx%d matrix",
			core.ErrInsufficientData, k, rows, cols))
	}

	var svd mat.SVD
	if ok := svd.Factorize(z.Values, mat.SVDThin); !ok {
		return nil, apperrors.InternalError("singular value decomposition did not converge")
	}
	sigma := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	loadings := mat.NewDense(cols, k, nil)
	loadings.Copy(v.Slice(0, cols, 0, k))
	for c := 0; c < k; c++ {
		orient(loadings, c)
	}

	scores := mat.NewDense(rows, k, nil)
	scores.Mul(z.Values, loadings)

	total := floats.Dot(sigma, sigma)
	variance := make([]float64, k)
	ratio := make([]float64, k)
	for c := 0; c < k; c++ {
		variance[c] = sigma[c] * sigma[c] / float64(rows-1)
		if total > 0 {
			ratio[c] = sigma[c] * sigma[c] / total
		}
	}

	return &mortality.DecompositionResult{
		Scores:                 scores,
		Loadings:               loadings,
		ExplainedVariance:      variance,
		ExplainedVarianceRatio: ratio,
	}, nil
}

// orient flips column c when its largest-magnitude entry is negative.
func orient(m *mat.Dense, c int) {
	rows, _ := m.Dims()
	best := 0
	for i := 1; i < rows; i++ {
		if math.Abs(m.At(i, c)) > math.Abs(m.At(best, c)) {
			best = i
		}
	}
	if m.At(best, c) >= 0 {
		return
	}
	for i := 0; i < rows; i++ {
		m.Set(i, c, -m.At(i, c))
	}
}

// Run standardizes m and decomposes it into k components.
func Run(m *mortality.MortalityMatrix, k int) (*Standardized, *mortality.DecompositionResult, error) {
	z, err := Standardize(m)
	if err != nil {
		return nil, nil, err
	}
	res, err := Decompose(z, k)
	if err != nil {
		return nil, nil, err
	}
	return z, res, nil
}
