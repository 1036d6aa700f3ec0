package woe

import (
	"context"
	"math"
	"testing"

	"credscore/domain/binning"
	"credscore/domain/core"
	"credscore/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featureTable(t *testing.T) *table.Table {
	t.Helper()
	amounts := make([]float64, 10)
	target := make([]string, 10)
	for i := range amounts {
		amounts[i] = float64(i + 1)
		if i%2 == 0 {
			target[i] = "Good"
		} else {
			target[i] = "Bad"
		}
	}
	channels := []string{"web", "app", "web", "ussd", "app", "web", "app", "web", "ussd", "web"}

	tbl := table.New()
	require.NoError(t, tbl.AddNumeric("Amount", amounts))
	require.NoError(t, tbl.AddCategorical("Channel", channels))
	require.NoError(t, tbl.AddCategorical("RiskLabel", target))
	return tbl
}

func TestNewDerivesColumnLists(t *testing.T) {
	tbl := featureTable(t)
	binner, err := New(tbl, "RiskLabel")
	require.NoError(t, err)

	assert.Equal(t, []string{"Amount"}, binner.NumericColumns())
	assert.Equal(t, []string{"Channel"}, binner.CategoricalColumns(), "target must be excluded")
}

func TestNewRejectsBadTarget(t *testing.T) {
	tbl := featureTable(t)

	_, err := New(tbl, "NoSuchColumn")
	assert.True(t, core.IsConfigError(err))

	_, err = New(tbl, "Amount")
	assert.True(t, core.IsConfigError(err), "numeric target is not a binary label column")
}

func TestBinNumericQuantileCut(t *testing.T) {
	binner, err := New(featureTable(t), "RiskLabel")
	require.NoError(t, err)

	cols, err := binner.BinNumeric(nil, 5)
	require.NoError(t, err)
	require.Len(t, cols, 1)

	col := cols[0]
	assert.Equal(t, "Amount", col.Column)
	require.Len(t, col.Bins, 5)

	// Every non-missing row belongs to exactly one bin; with 10 evenly
	// spread values the five quantile bins hold two rows each.
	perBin := make([]int, len(col.Bins))
	for _, bi := range col.Assign {
		require.GreaterOrEqual(t, bi, 0)
		require.Less(t, bi, len(col.Bins))
		perBin[bi]++
	}
	assert.Equal(t, []int{2, 2, 2, 2, 2}, perBin)

	assert.True(t, col.Bins[0].ClosedLeft, "first interval must cover the minimum")
	assert.Equal(t, binning.KindInterval, col.Bins[0].Kind)
}

func TestBinNumericCollapsesDuplicateEdges(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddNumeric("Flag", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 2}))
	require.NoError(t, tbl.AddCategorical("RiskLabel", []string{
		"Good", "Bad", "Good", "Bad", "Good", "Bad", "Good", "Bad", "Good", "Bad",
	}))

	binner, err := New(tbl, "RiskLabel")
	require.NoError(t, err)

	cols, err := binner.BinNumeric(nil, 5)
	require.NoError(t, err)
	require.Len(t, cols, 1)

	// Duplicate quantile edges collapse to fewer, wider bins; no bin is empty.
	assert.Less(t, len(cols[0].Bins), 5)
	seen := make([]bool, len(cols[0].Bins))
	for _, bi := range cols[0].Assign {
		require.GreaterOrEqual(t, bi, 0)
		seen[bi] = true
	}
	for i, s := range seen {
		assert.True(t, s, "bin %d should not be empty", i)
	}
}

func TestBinNumericMissingValues(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddNumeric("Amount", []float64{1, math.NaN(), 3, 4}))
	require.NoError(t, tbl.AddCategorical("RiskLabel", []string{"Good", "Bad", "Good", "Bad"}))

	binner, err := New(tbl, "RiskLabel")
	require.NoError(t, err)

	cols, err := binner.BinNumeric(nil, 2)
	require.NoError(t, err)
	assert.Equal(t, -1, cols[0].Assign[1], "missing rows stay outside every bin")
}

func TestBinNumericConfig(t *testing.T) {
	binner, err := New(featureTable(t), "RiskLabel")
	require.NoError(t, err)

	_, err = binner.BinNumeric(nil, 0)
	assert.True(t, core.IsConfigError(err))

	_, err = binner.BinNumeric(map[string]bool{"Nope": true}, 5)
	assert.True(t, core.IsConfigError(err))
}

func TestBinCategoricalDiscoveryOrder(t *testing.T) {
	binner, err := New(featureTable(t), "RiskLabel")
	require.NoError(t, err)

	cols, err := binner.BinCategorical(nil, DefaultMaxDistinct)
	require.NoError(t, err)
	require.Len(t, cols, 1)

	labels := make([]string, len(cols[0].Bins))
	for i, bin := range cols[0].Bins {
		labels[i] = bin.Label()
	}
	assert.Equal(t, []string{"web", "app", "ussd"}, labels, "bins keep discovery order, not sorted")
}

func TestBinCategoricalSkipsHighCardinality(t *testing.T) {
	binner, err := New(featureTable(t), "RiskLabel")
	require.NoError(t, err)

	cols, err := binner.BinCategorical(nil, 2)
	require.NoError(t, err)
	assert.Empty(t, cols, "a column above the distinct limit is skipped entirely")
}

func TestCountTabulatesBothClasses(t *testing.T) {
	binner, err := New(featureTable(t), "RiskLabel")
	require.NoError(t, err)

	cols, err := binner.BinNumeric(nil, 5)
	require.NoError(t, err)

	counts, err := binner.Count(context.Background(), cols, "Good")
	require.NoError(t, err)
	require.Len(t, counts, 1)

	// Rows alternate Good/Bad, two rows per bin.
	for _, c := range counts[0].Counts {
		assert.Equal(t, 1, c.Good)
		assert.Equal(t, 1, c.Bad)
	}
}

func TestCountEmptyClassStillReportsZero(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddCategorical("Channel", []string{"web", "web", "app", "app"}))
	require.NoError(t, tbl.AddCategorical("RiskLabel", []string{"Good", "Good", "Bad", "Bad"}))

	binner, err := New(tbl, "RiskLabel")
	require.NoError(t, err)

	cols, err := binner.BinCategorical(nil, DefaultMaxDistinct)
	require.NoError(t, err)
	counts, err := binner.Count(context.Background(), cols, "Good")
	require.NoError(t, err)

	assert.Equal(t, binning.BinCount{Good: 2, Bad: 0}, counts[0].Counts[0])
	assert.Equal(t, binning.BinCount{Good: 0, Bad: 2}, counts[0].Counts[1])
}

func TestCountRejectsMisalignedAssignments(t *testing.T) {
	binner, err := New(featureTable(t), "RiskLabel")
	require.NoError(t, err)

	bad := []binning.ColumnBins{{
		Column: "Amount",
		Bins:   []binning.Bin{binning.IntervalBin(0, 1, true)},
		Assign: []int{0, 0}, // wrong length
	}}
	_, err = binner.Count(context.Background(), bad, "Good")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Amount")
}

func TestBinningNeverMutatesSharedTable(t *testing.T) {
	tbl := featureTable(t)
	snapshot := tbl.Clone()

	binner, err := New(tbl, "RiskLabel")
	require.NoError(t, err)

	numeric, err := binner.BinNumeric(nil, 5)
	require.NoError(t, err)
	categorical, err := binner.BinCategorical(nil, DefaultMaxDistinct)
	require.NoError(t, err)

	all := append(append([]binning.ColumnBins(nil), numeric...), categorical...)
	_, err = binner.Count(context.Background(), all, "Good")
	require.NoError(t, err)
	_, err = binner.Report(context.Background(), all, "Good", SmoothingLaplace)
	require.NoError(t, err)

	assert.True(t, tbl.Equal(snapshot), "binning must leave the caller's table untouched")
}

func TestReportAlignsByBinIndex(t *testing.T) {
	binner, err := New(featureTable(t), "RiskLabel")
	require.NoError(t, err)

	cols, err := binner.BinNumeric(nil, 5)
	require.NoError(t, err)
	reports, err := binner.Report(context.Background(), cols, "Good", SmoothingLaplace)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	report := reports[0]
	n := len(cols[0].Bins)
	assert.Len(t, report.Bins, n)
	assert.Len(t, report.GoodCounts, n)
	assert.Len(t, report.BadCounts, n)
	assert.Len(t, report.BadProbability, n)
	assert.Len(t, report.WOE, n)

	// Alternating classes in every bin: no discrimination anywhere.
	assert.InDelta(t, 0.0, report.IV, 1e-12)
	for i := range report.WOE {
		assert.InDelta(t, 0.0, report.WOE[i], 1e-12)
		assert.InDelta(t, 0.5, report.BadProbability[i], 1e-12)
	}
}
