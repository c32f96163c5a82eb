package profiling

import (
	"math"
	"testing"
	"time"

	"mortpca/domain/mortality"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAnalyzeDistribution_Summary(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}

	p, err := NewDistributionAnalyzer().AnalyzeDistribution(data)
	require.NoError(t, err)

	assert.Equal(t, 10, p.Count)
	assert.InDelta(t, 14.5, p.Mean, 1e-12)
	assert.Equal(t, 1.0, p.Min)
	assert.Equal(t, 100.0, p.Max)
	assert.InDelta(t, 5.5, p.Median, 1e-12)
	assert.Equal(t, 1, p.Outliers)
	assert.Greater(t, p.Skewness, 2.0, "one large value skews right")
	assert.False(t, p.IsNormal)
	assert.Less(t, p.NormalityP, 0.05)
}

func TestAnalyzeDistribution_SymmetricSample(t *testing.T) {
	// evenly spaced quantiles of a standard normal
	n := 400
	data := make([]float64, n)
	for i := range data {
		u := (float64(i) + 0.5) / float64(n)
		data[i] = math.Sqrt2 * math.Erfinv(2*u-1)
	}

	p, err := NewDistributionAnalyzer().AnalyzeDistribution(data)
	require.NoError(t, err)
	assert.InDelta(t, 0, p.Skewness, 1e-9)
	assert.InDelta(t, 0, p.Kurtosis, 0.2)
	assert.True(t, p.IsNormal)
}

func TestAnalyzeDistribution_Constant(t *testing.T) {
	p, err := NewDistributionAnalyzer().AnalyzeDistribution([]float64{3, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.StdDev)
	assert.Equal(t, 0.0, p.Skewness)

	_, err = NewDistributionAnalyzer().AnalyzeDistribution(nil)
	assert.Error(t, err)
}

func TestProfileMatrix(t *testing.T) {
	m := &mortality.MortalityMatrix{
		Dates:  []time.Time{time.Now(), time.Now().Add(time.Hour), time.Now().Add(2 * time.Hour)},
		Bands:  []mortality.AgeBand{mortality.Band80to84, mortality.Band85to89},
		Values: mat.NewDense(3, 2, []float64{10, 100, 20, 100, 30, 400}),
		Filled: []int{0, 2},
	}

	profiles, err := NewDataProfiler().ProfileMatrix(m)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, mortality.Band80to84, profiles[0].Band)
	assert.InDelta(t, 20, profiles[0].Mean, 1e-12)
	assert.Equal(t, 2, profiles[1].Filled)
	assert.InDelta(t, 200, profiles[1].Mean, 1e-12)
	assert.InDelta(t, profiles[1].StdDev/200, profiles[1].Variation, 1e-12)
}
