package binning

import (
	"fmt"
)

// BinKind discriminates the two bin variants.
type BinKind string

const (
	KindInterval BinKind = "interval"
	KindCategory BinKind = "category"
)

// Bin is one partition of a feature's value domain: a numeric interval
// (right-closed; the first interval of a column also includes its lower
// edge) or a single categorical value. Bins for one column are mutually
// exclusive and jointly cover every non-missing value seen at fit time.
type Bin struct {
	Kind       BinKind `json:"kind"`
	Lower      float64 `json:"lower,omitempty"`
	Upper      float64 `json:"upper,omitempty"`
	ClosedLeft bool    `json:"closed_left,omitempty"`
	Category   string  `json:"category,omitempty"`
}

// IntervalBin constructs a numeric interval bin.
func IntervalBin(lower, upper float64, closedLeft bool) Bin {
	return Bin{Kind: KindInterval, Lower: lower, Upper: upper, ClosedLeft: closedLeft}
}

// CategoryBin constructs a single-value categorical bin.
func CategoryBin(value string) Bin {
	return Bin{Kind: KindCategory, Category: value}
}

// Label returns a stable human-readable name for the bin.
func (b Bin) Label() string {
	if b.Kind == KindCategory {
		return b.Category
	}
	open := "("
	if b.ClosedLeft {
		open = "["
	}
	return fmt.Sprintf("%s%g, %g]", open, b.Lower, b.Upper)
}

// ColumnBins couples one column's discovered bins with per-row assignments.
// Bins appear in discovery order. Assign maps each row to its bin index,
// -1 for rows where the value is missing.
type ColumnBins struct {
	Column string `json:"column"`
	Bins   []Bin  `json:"bins"`
	Assign []int  `json:"-"`
}

// BinCount holds the class tabulation of one bin. Both counts are always
// present; an empty class reports 0, never an absent key.
type BinCount struct {
	Good int `json:"good"`
	Bad  int `json:"bad"`
}

// Total returns the number of observations in the bin.
func (c BinCount) Total() int {
	return c.Good + c.Bad
}

// ColumnCounts holds per-bin tabulations for one column, aligned with the
// bin order of the ColumnBins they were counted from.
type ColumnCounts struct {
	Column string     `json:"column"`
	Counts []BinCount `json:"counts"`
}

// ColumnReport is the plotting contract: per-column arrays aligned by bin
// index, bins in discovery order, plus the aggregate information value.
type ColumnReport struct {
	Column         string    `json:"column"`
	Bins           []string  `json:"bins"`
	GoodCounts     []int     `json:"good_count"`
	BadCounts      []int     `json:"bad_count"`
	BadProbability []float64 `json:"bad_probability"`
	WOE            []float64 `json:"woe"`
	IV             float64   `json:"iv"`
}
