package woe

import (
	"math"

	"credscore/domain/binning"
)

// Smoothing selects how zero-count bins are handled in the WOE log-odds.
type Smoothing int

const (
	// SmoothingLaplace adds 0.5 to every bin count and class total, keeping
	// both ratios strictly positive so the log is always defined. This is
	// the standard credit-scoring convention and the default.
	SmoothingLaplace Smoothing = iota
	// SmoothingZeroGuard uses raw ratios and returns WOE 0 for any bin
	// missing one class entirely. Kept as an alternative strategy; it
	// biases IV downward for sparse bins.
	SmoothingZeroGuard
)

// WOE computes the per-bin weight of evidence for one column:
// ln(good_ratio / bad_ratio), with ratios taken against the column's class
// totals and adjusted per the smoothing strategy. The result aligns with
// the bin order of counts.
func WOE(counts binning.ColumnCounts, strategy Smoothing) []float64 {
	var totalGood, totalBad float64
	for _, c := range counts.Counts {
		totalGood += float64(c.Good)
		totalBad += float64(c.Bad)
	}

	woes := make([]float64, len(counts.Counts))
	for i, c := range counts.Counts {
		good := float64(c.Good)
		bad := float64(c.Bad)

		switch strategy {
		case SmoothingZeroGuard:
			var goodRatio, badRatio float64
			if totalGood > 0 {
				goodRatio = good / totalGood
			}
			if totalBad > 0 {
				badRatio = bad / totalBad
			}
			if goodRatio > 0 && badRatio > 0 {
				woes[i] = math.Log(goodRatio / badRatio)
			}
		default:
			goodRatio := (good + 0.5) / (totalGood + 0.5)
			badRatio := (bad + 0.5) / (totalBad + 0.5)
			woes[i] = math.Log(goodRatio / badRatio)
		}
	}
	return woes
}

// BadProbability returns the share of Bad observations per bin, 0 for an
// empty bin.
func BadProbability(counts binning.ColumnCounts) []float64 {
	probs := make([]float64, len(counts.Counts))
	for i, c := range counts.Counts {
		if total := c.Total(); total > 0 {
			probs[i] = float64(c.Bad) / float64(total)
		}
	}
	return probs
}

// InformationValue aggregates a column's discriminatory power:
// IV = sum over bins of (good_share - bad_share) * WOE. Shares are taken
// against the column's class totals, 0 when a total is 0. woes must align
// with the bin order of counts.
func InformationValue(counts binning.ColumnCounts, woes []float64) float64 {
	var totalGood, totalBad float64
	for _, c := range counts.Counts {
		totalGood += float64(c.Good)
		totalBad += float64(c.Bad)
	}

	var iv float64
	for i, c := range counts.Counts {
		var goodShare, badShare float64
		if totalGood > 0 {
			goodShare = float64(c.Good) / totalGood
		}
		if totalBad > 0 {
			badShare = float64(c.Bad) / totalBad
		}
		iv += (goodShare - badShare) * woes[i]
	}
	return iv
}
