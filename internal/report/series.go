// Package report renders decomposition results as charts, a workbook and a
// JSON summary.
package report

import (
	"fmt"
	"time"

	"mortpca/domain/mortality"

	"gonum.org/v1/gonum/mat"
)

// Component display names, in component order.
var componentNames = []string{
	"PC1 (overall mortality trend)",
	"PC2 (shift between age groups)",
}

// ComponentName returns the display name of component c (0-based)
func ComponentName(c int) string {
	if c < len(componentNames) {
		return componentNames[c]
	}
	return fmt.Sprintf("PC%d", c+1)
}

// ScoreSeries is one component's score per date.
type ScoreSeries struct {
	Name   string
	Dates  []time.Time
	Values []float64
}

// LoadingSeries is one component's loading per age band.
type LoadingSeries struct {
	Name   string
	Bands  []mortality.AgeBand
	Values []float64
}

// Scores extracts the first n score columns.
func Scores(dates []time.Time, res *mortality.DecompositionResult, n int) ([]ScoreSeries, error) {
	rows, cols := res.Scores.Dims()
	if rows != len(dates) {
		return nil, fmt.Errorf("scores have %d rows for %d dates", rows, len(dates))
	}
	if n > cols {
		return nil, fmt.Errorf("requested %d score series, result has %d", n, cols)
	}
	out := make([]ScoreSeries, n)
	for c := 0; c < n; c++ {
		out[c] = ScoreSeries{Name: ComponentName(c), Dates: dates, Values: mat.Col(nil, c, res.Scores)}
	}
	return out, nil
}

// Loadings extracts the first n loading columns.
func Loadings(bands []mortality.AgeBand, res *mortality.DecompositionResult, n int) ([]LoadingSeries, error) {
	rows, cols := res.Loadings.Dims()
	if rows != len(bands) {
		return nil, fmt.Errorf("loadings have %d rows for %d bands", rows, len(bands))
	}
	if n > cols {
		return nil, fmt.Errorf("requested %d loading series, result has %d", n, cols)
	}
	out := make([]LoadingSeries, n)
	for c := 0; c < n; c++ {
		out[c] = LoadingSeries{Name: fmt.Sprintf("PC%d", c+1), Bands: bands, Values: mat.Col(nil, c, res.Loadings)}
	}
	return out, nil
}
