// Package profiling computes per-column summary statistics for feature
// tables: the numeric part of exploratory analysis, without any rendering.
package profiling

import (
	"math"

	"credscore/domain/core"
	"credscore/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ColumnProfile summarizes the distribution of one numeric column.
type ColumnProfile struct {
	Column      string  `json:"column"`
	Count       int     `json:"count"`
	MissingRate float64 `json:"missing_rate"`
	Cardinality int     `json:"cardinality"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Median      float64 `json:"median"`
	Q25         float64 `json:"q25"`
	Q75         float64 `json:"q75"`
	Skewness    float64 `json:"skewness"`
	Kurtosis    float64 `json:"kurtosis"`
	IsNormal    bool    `json:"is_normal"`
	ShapiroP    float64 `json:"shapiro_p"`
}

// ProfileTable profiles every numeric column of the table, in column order.
func ProfileTable(tbl *table.Table) ([]ColumnProfile, error) {
	names := tbl.NumericNames()
	profiles := make([]ColumnProfile, 0, len(names))
	for _, name := range names {
		values, err := tbl.Numeric(name)
		if err != nil {
			return nil, err
		}
		profile, err := ProfileColumn(name, values)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// ProfileColumn profiles one numeric column, ignoring NaN cells.
func ProfileColumn(name string, values []float64) (ColumnProfile, error) {
	clean := make([]float64, 0, len(values))
	distinct := make(map[float64]struct{})
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
			distinct[v] = struct{}{}
		}
	}
	if len(clean) == 0 {
		return ColumnProfile{}, core.NewEmptyInputError("column " + name)
	}

	profile := ColumnProfile{
		Column:      name,
		Count:       len(clean),
		MissingRate: 1 - float64(len(clean))/float64(len(values)),
		Cardinality: len(distinct),
	}

	var err error
	if profile.Mean, err = stats.Mean(clean); err != nil {
		return ColumnProfile{}, err
	}
	if profile.StdDev, err = stats.StandardDeviation(clean); err != nil {
		return ColumnProfile{}, err
	}
	if profile.Min, err = stats.Min(clean); err != nil {
		return ColumnProfile{}, err
	}
	if profile.Max, err = stats.Max(clean); err != nil {
		return ColumnProfile{}, err
	}
	if profile.Median, err = stats.Median(clean); err != nil {
		return ColumnProfile{}, err
	}
	if profile.Q25, err = stats.Percentile(clean, 25); err != nil {
		return ColumnProfile{}, err
	}
	if profile.Q75, err = stats.Percentile(clean, 75); err != nil {
		return ColumnProfile{}, err
	}

	profile.Skewness = skewness(clean, profile.Mean, profile.StdDev)
	profile.Kurtosis = kurtosis(clean, profile.Mean, profile.StdDev)
	profile.IsNormal, profile.ShapiroP = testNormality(profile.Skewness, profile.Kurtosis, len(clean))
	return profile, nil
}

// skewness computes the adjusted Fisher-Pearson coefficient of skewness.
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	var sum float64
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return (sum / n) * math.Sqrt(n*(n-1)) / (n - 2)
}

// kurtosis computes bias-corrected sample kurtosis (not excess).
func kurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	var sum float64
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	excess := sum/n - 3
	excess = excess*(n-1)/((n-2)*(n-3)) + 6/(n+1)
	return excess + 3
}

// testNormality approximates a normality test from skewness and kurtosis,
// with the p-value taken from a chi-squared tail.
func testNormality(skew, kurt float64, n int) (bool, float64) {
	if n < 3 {
		return false, 1.0
	}
	testStat := math.Abs(skew) + math.Abs(kurt-3)/2
	chi := distuv.ChiSquared{K: 2}
	p := 1 - chi.CDF(testStat*testStat)
	return p > 0.05, p
}
