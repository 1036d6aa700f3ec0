// Package quantile provides the quantile estimators shared by the RFMS
// scorer and the WOE binner. All partitioning here is re-derived from the
// data on every call; nothing is cached between invocations.
package quantile

import (
	"math"
	"sort"

	"credscore/domain/core"
)

// Percentile returns the q-th quantile of values (0 <= q <= 1) using linear
// interpolation between closest ranks. This is the estimator the upstream
// tooling uses for both label boundaries and quantile-cut edges; unlike
// nearest-rank estimators it yields a strictly interior boundary for
// two-point data, which the label cut depends on.
func Percentile(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, core.NewEmptyInputError("percentile of no values")
	}
	if q < 0 || q > 1 {
		return 0, core.NewConfigError("quantile", "must be within [0, 1]")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	h := float64(len(sorted)-1) * q
	lo := int(math.Floor(h))
	if lo == len(sorted)-1 {
		return sorted[lo], nil
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo]), nil
}

// Edges returns the edges of n equal-frequency bins over values, with
// duplicate edges dropped. The result has k+1 edges for k effective bins,
// k >= 1: low-cardinality input collapses to fewer, wider bins instead of
// failing. A constant column collapses to the single degenerate bin [v, v].
func Edges(values []float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, core.NewConfigError("bins", "must be positive")
	}
	if len(values) == 0 {
		return nil, core.NewEmptyInputError("quantile edges of no values")
	}

	edges := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		e, err := Percentile(values, float64(i)/float64(n))
		if err != nil {
			return nil, err
		}
		if len(edges) == 0 || e != edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	if len(edges) == 1 {
		// Constant input: keep one bin covering the single value.
		edges = append(edges, edges[0])
	}
	return edges, nil
}

// IntervalIndex returns the bin index of v for the given ascending edges,
// using right-closed intervals; the first interval also includes its lower
// edge. Values outside the fitted range clamp to the outermost bins.
func IntervalIndex(edges []float64, v float64) int {
	for i := 1; i < len(edges)-1; i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return len(edges) - 2
}

// EqualWidthIndex returns the right-closed equal-width bin index of v over
// [min, max] split into the given number of bins. The first bin includes
// min. Used by the RFMS ordinal scorer, where bin edges come from the
// observed range of each metric.
func EqualWidthIndex(min, max float64, bins int, v float64) int {
	width := (max - min) / float64(bins)
	for i := 1; i < bins; i++ {
		if v <= min+width*float64(i) {
			return i - 1
		}
	}
	return bins - 1
}

// DistinctCount returns the number of distinct values.
func DistinctCount(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
