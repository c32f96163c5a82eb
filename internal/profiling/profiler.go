// Package profiling describes the distribution of each age band's rates.
package profiling

import (
	"mortpca/domain/mortality"
	apperrors "mortpca/internal/errors"
)

// BandProfile is the profile of one matrix column.
type BandProfile struct {
	Band      mortality.AgeBand `json:"band"`
	Filled    int               `json:"filled"`
	Variation float64           `json:"variation"` // coefficient of variation, capped at 1
	ColumnProfile
}

// DataProfiler profiles every column of a mortality matrix
type DataProfiler struct {
	analyzer *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{analyzer: NewDistributionAnalyzer()}
}

// ProfileMatrix returns one profile per band, in column order.
func (dp *DataProfiler) ProfileMatrix(m *mortality.MortalityMatrix) ([]BandProfile, error) {
	out := make([]BandProfile, len(m.Bands))
	for j, band := range m.Bands {
		p, err := dp.analyzer.AnalyzeDistribution(m.Column(j))
		if err != nil {
			return nil, apperrors.Wrapf(err, "profile %s", band)
		}
		out[j] = BandProfile{
			Band:          band,
			Filled:        m.Filled[j],
			Variation:     noiseCoefficient(p.Mean, p.StdDev),
			ColumnProfile: p,
		}
	}
	return out, nil
}
