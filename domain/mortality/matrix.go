package mortality

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// MortalityMatrix is the dense date x band table of mortality rates.
type MortalityMatrix struct {
	Dates  []time.Time
	Bands  []AgeBand
	Values *mat.Dense // len(Dates) x len(Bands), no missing cells
	Filled []int      // per column count of interpolated or extrapolated cells
}

// Dims returns (rows, columns)
func (m *MortalityMatrix) Dims() (int, int) {
	return len(m.Dates), len(m.Bands)
}

// Column returns a copy of the rates for one band.
func (m *MortalityMatrix) Column(j int) []float64 {
	return mat.Col(nil, j, m.Values)
}

// DecompositionResult holds principal component scores and loadings.
// Component signs are arbitrary.
type DecompositionResult struct {
	Scores                 *mat.Dense // dates x components
	Loadings               *mat.Dense // bands x components, unit orthogonal columns
	ExplainedVariance      []float64
	ExplainedVarianceRatio []float64
}

// Components returns the number of retained components
func (r *DecompositionResult) Components() int {
	_, c := r.Loadings.Dims()
	return c
}
