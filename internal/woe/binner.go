// Package woe implements supervised Weight-of-Evidence / Information-Value
// binning of feature tables against a binary target.
package woe

import (
	"context"
	"fmt"
	"math"

	"credscore/domain/binning"
	"credscore/domain/core"
	"credscore/domain/table"
	"credscore/internal/quantile"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Default fitting parameters.
const (
	DefaultBins        = 5
	DefaultMaxDistinct = 10
)

// Binner fits bins on a feature table and tabulates a binary target within
// them. The table and target references are immutable after construction
// and no method ever mutates the table, so one Binner instance is safe for
// repeated and concurrent use.
type Binner struct {
	data        *table.Table
	target      string
	numeric     []string
	categorical []string
}

// New creates a Binner over the given feature table and binary target
// column. The numeric and categorical column lists are derived here, with
// the target excluded from both.
func New(data *table.Table, target string) (*Binner, error) {
	if !data.Has(target) {
		return nil, core.NewUnknownColumnError(target)
	}
	if _, err := data.Categorical(target); err != nil {
		return nil, core.NewConfigError(target, "target must be a categorical column")
	}

	b := &Binner{data: data, target: target}
	for _, name := range data.NumericNames() {
		if name != target {
			b.numeric = append(b.numeric, name)
		}
	}
	for _, name := range data.CategoricalNames() {
		if name != target {
			b.categorical = append(b.categorical, name)
		}
	}
	return b, nil
}

// NumericColumns returns the numeric feature columns, target excluded.
func (b *Binner) NumericColumns() []string {
	return append([]string(nil), b.numeric...)
}

// CategoricalColumns returns the categorical feature columns, target excluded.
func (b *Binner) CategoricalColumns() []string {
	return append([]string(nil), b.categorical...)
}

func (b *Binner) checkIgnore(ignore map[string]bool) error {
	for name := range ignore {
		if !b.data.Has(name) {
			return core.NewUnknownColumnError(name)
		}
	}
	return nil
}

// BinNumeric partitions every numeric column not in ignore into up to nBins
// equal-frequency intervals. Duplicate quantile edges are dropped, so
// low-cardinality columns collapse to fewer, wider bins instead of failing;
// the effective bin count is logged per column. Intervals are right-closed
// and the first interval of each column includes its lower edge, so the
// bins of a column jointly cover every non-missing value.
func (b *Binner) BinNumeric(ignore map[string]bool, nBins int) ([]binning.ColumnBins, error) {
	if nBins <= 0 {
		return nil, core.NewConfigError("bins", "must be positive")
	}
	if err := b.checkIgnore(ignore); err != nil {
		return nil, err
	}

	var result []binning.ColumnBins
	for _, name := range b.numeric {
		if ignore[name] {
			continue
		}
		values, err := b.data.Numeric(name)
		if err != nil {
			return nil, err
		}

		clean := make([]float64, 0, len(values))
		for _, v := range values {
			if !math.IsNaN(v) {
				clean = append(clean, v)
			}
		}
		if len(clean) == 0 {
			return nil, fmt.Errorf("column %s: %w", name, core.NewEmptyInputError("no non-missing values"))
		}

		edges, err := quantile.Edges(clean, nBins)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		effective := len(edges) - 1
		if effective < nBins {
			log.Debug().Str("column", name).Int("requested", nBins).Int("effective", effective).
				Msg("collapsed duplicate quantile edges")
		}

		bins := make([]binning.Bin, effective)
		for i := 0; i < effective; i++ {
			bins[i] = binning.IntervalBin(edges[i], edges[i+1], i == 0)
		}
		assign := make([]int, len(values))
		for i, v := range values {
			if math.IsNaN(v) {
				assign[i] = -1
				continue
			}
			assign[i] = quantile.IntervalIndex(edges, v)
		}
		result = append(result, binning.ColumnBins{Column: name, Bins: bins, Assign: assign})
	}
	return result, nil
}

// BinCategorical makes one bin per distinct value, in discovery order, for
// every categorical column not in ignore with at most maxDistinct distinct
// values. Higher-cardinality columns are skipped entirely as too wide for
// interpretable binning.
func (b *Binner) BinCategorical(ignore map[string]bool, maxDistinct int) ([]binning.ColumnBins, error) {
	if maxDistinct <= 0 {
		return nil, core.NewConfigError("max distinct", "must be positive")
	}
	if err := b.checkIgnore(ignore); err != nil {
		return nil, err
	}

	var result []binning.ColumnBins
	for _, name := range b.categorical {
		if ignore[name] {
			continue
		}
		values, err := b.data.Categorical(name)
		if err != nil {
			return nil, err
		}

		index := make(map[string]int)
		var bins []binning.Bin
		assign := make([]int, len(values))
		skip := false
		for i, v := range values {
			if v == "" {
				assign[i] = -1
				continue
			}
			bi, ok := index[v]
			if !ok {
				if len(bins) == maxDistinct {
					skip = true
					break
				}
				bi = len(bins)
				index[v] = bi
				bins = append(bins, binning.CategoryBin(v))
			}
			assign[i] = bi
		}
		if skip {
			log.Debug().Str("column", name).Int("max_distinct", maxDistinct).
				Msg("skipping high-cardinality categorical column")
			continue
		}
		result = append(result, binning.ColumnBins{Column: name, Bins: bins, Assign: assign})
	}
	return result, nil
}

// Count cross-tabulates the binary target within each bin. goodValue names
// the target value counted as Good; every other value counts as Bad. Bins
// with no observations of one class report a 0 count for it. Columns are
// counted independently and concurrently; the first failure aborts the
// whole call with an error naming the offending column. The shared table
// is read, never written.
func (b *Binner) Count(ctx context.Context, cols []binning.ColumnBins, goodValue string) ([]binning.ColumnCounts, error) {
	target, err := b.data.Categorical(b.target)
	if err != nil {
		return nil, err
	}

	results := make([]binning.ColumnCounts, len(cols))
	g, _ := errgroup.WithContext(ctx)
	for i, col := range cols {
		i, col := i, col
		g.Go(func() error {
			if len(col.Assign) != len(target) {
				return fmt.Errorf("column %s: %w", col.Column, core.ErrLengthMismatch)
			}
			counts := make([]binning.BinCount, len(col.Bins))
			for row, bi := range col.Assign {
				if bi < 0 {
					continue
				}
				if bi >= len(counts) {
					return fmt.Errorf("column %s: bin index %d out of range", col.Column, bi)
				}
				if target[row] == goodValue {
					counts[bi].Good++
				} else {
					counts[bi].Bad++
				}
			}
			results[i] = binning.ColumnCounts{Column: col.Column, Counts: counts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Report fits nothing; it assembles the plotting contract from already
// fitted bins: per-column bin labels, class counts, bad probabilities, WOE
// values and the aggregate IV, all aligned by bin index in discovery order.
func (b *Binner) Report(ctx context.Context, cols []binning.ColumnBins, goodValue string, strategy Smoothing) ([]binning.ColumnReport, error) {
	counted, err := b.Count(ctx, cols, goodValue)
	if err != nil {
		return nil, err
	}

	reports := make([]binning.ColumnReport, len(cols))
	for i, col := range cols {
		counts := counted[i]
		woes := WOE(counts, strategy)

		report := binning.ColumnReport{
			Column:         col.Column,
			Bins:           make([]string, len(col.Bins)),
			GoodCounts:     make([]int, len(col.Bins)),
			BadCounts:      make([]int, len(col.Bins)),
			BadProbability: BadProbability(counts),
			WOE:            woes,
			IV:             InformationValue(counts, woes),
		}
		for j, bin := range col.Bins {
			report.Bins[j] = bin.Label()
			report.GoodCounts[j] = counts.Counts[j].Good
			report.BadCounts[j] = counts.Counts[j].Bad
		}
		reports[i] = report
	}
	return reports, nil
}
