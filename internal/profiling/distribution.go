package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ColumnProfile summarises the distribution of one series of rates.
type ColumnProfile struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess kurtosis, 0 for a normal distribution
	Outliers int     `json:"outliers"` // outside 1.5 IQR of the quartiles

	// Jarque-Bera normality test
	JarqueBera float64 `json:"jarque_bera"`
	NormalityP float64 `json:"normality_p"`
	IsNormal   bool    `json:"is_normal"`
}

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct {
	alpha float64
}

// NewDistributionAnalyzer creates a new distribution analyzer testing
// normality at the 5% level
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{alpha: 0.05}
}

// AnalyzeDistribution computes summary statistics and shape of data.
func (da *DistributionAnalyzer) AnalyzeDistribution(data []float64) (ColumnProfile, error) {
	profile := ColumnProfile{Count: len(data)}

	mean, err := stats.Mean(data)
	if err != nil {
		return profile, err
	}
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return profile, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return profile, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return profile, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return profile, err
	}

	// Quartiles for IQR-based outlier detection
	q25, q75 := median, median
	if len(data) > 1 {
		q, err := stats.Quartile(data)
		if err != nil {
			return profile, err
		}
		q25, q75 = q.Q1, q.Q3
	}

	profile.Mean = mean
	profile.StdDev = stdDev
	profile.Min = min
	profile.Max = max
	profile.Median = median
	profile.Q25 = q25
	profile.Q75 = q75
	profile.Outliers = detectOutliers(data, q25, q75)

	if stdDev == 0 {
		return profile, nil
	}
	profile.Skewness = calculateSkewness(data, mean, stdDev)
	profile.Kurtosis = calculateKurtosis(data, mean, stdDev)
	profile.JarqueBera, profile.NormalityP = jarqueBera(len(data), profile.Skewness, profile.Kurtosis)
	profile.IsNormal = profile.NormalityP > da.alpha

	return profile, nil
}

// calculateSkewness computes the moment coefficient of skewness
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / float64(len(data))
}

// calculateKurtosis computes the moment excess kurtosis
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	return sum/float64(len(data)) - 3
}

// jarqueBera returns the statistic and its asymptotic chi-squared(2) p-value.
func jarqueBera(n int, skewness, excessKurtosis float64) (float64, float64) {
	if n < 3 {
		return 0, 1
	}
	jb := float64(n) / 6 * (skewness*skewness + excessKurtosis*excessKurtosis/4)
	chi := distuv.ChiSquared{K: 2}
	return jb, 1 - chi.CDF(jb)
}

// detectOutliers identifies outliers using IQR method
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}

// noiseCoefficient is the coefficient of variation capped at 1.
func noiseCoefficient(mean, stdDev float64) float64 {
	if mean == 0 {
		return 1.0
	}
	return math.Min(stdDev/math.Abs(mean), 1.0)
}
