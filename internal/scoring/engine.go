// Package scoring turns raw transaction tables into per-customer RFMS
// metrics, ordinal sub-scores, a weighted composite and a Good/Bad label.
package scoring

import (
	"fmt"
	"math"
	"time"

	"credscore/domain/core"
	"credscore/domain/risk"
	"credscore/domain/table"
	"credscore/internal/quantile"

	"github.com/montanaflynn/stats"
)

// Raw transaction column names, fixed by the ingestion contract.
const (
	ColTransactionID = "TransactionId"
	ColCustomerID    = "CustomerId"
	ColValue         = "Value"
	ColStartTime     = "TransactionStartTime"
)

// scoreBins is the number of ordinal buckets each RFMS metric is cut into.
const scoreBins = 5

// Engine derives credit scores from transaction snapshots. It holds no
// state between calls; every run re-derives its thresholds from the data
// it is given.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// ComputeRecency returns the whole number of days (truncating toward zero)
// between ref and the most recent of the given transaction timestamps. A
// zero ref defaults to the current time. The result is negative when ref
// precedes the latest transaction; callers wanting non-negative recency
// must pass a ref at or after data collection.
func ComputeRecency(dates []string, ref time.Time) (int, error) {
	if len(dates) == 0 {
		return 0, core.NewEmptyInputError("transaction dates")
	}
	if ref.IsZero() {
		ref = time.Now().UTC()
	}

	var latest time.Time
	for _, raw := range dates {
		ts, err := core.ParseTimestamp(raw)
		if err != nil {
			return 0, err
		}
		if ts.After(latest) {
			latest = ts
		}
	}
	return int(ref.Sub(latest) / (24 * time.Hour)), nil
}

// Aggregate groups raw transactions by customer and produces one RFMS
// record per distinct customer, in first-seen order. StdDeviation is the
// sample standard deviation of the customer's transaction values,
// substituted with 0 for single-transaction customers.
func (e *Engine) Aggregate(tbl *table.Table, ref time.Time) ([]risk.RFMSRecord, error) {
	if !tbl.Has(ColTransactionID) {
		return nil, core.NewColumnMissingError(ColTransactionID)
	}
	customers, err := tbl.Categorical(ColCustomerID)
	if err != nil {
		return nil, err
	}
	values, err := tbl.Numeric(ColValue)
	if err != nil {
		return nil, err
	}
	times, err := tbl.Categorical(ColStartTime)
	if err != nil {
		return nil, err
	}
	if tbl.RowCount() == 0 {
		return nil, core.NewEmptyInputError("transactions")
	}

	type group struct {
		values []float64
		dates  []string
	}
	groups := make(map[string]*group)
	var order []string

	for i, customer := range customers {
		if customer == "" {
			return nil, fmt.Errorf("row %d: %w", i, core.NewColumnMissingError(ColCustomerID))
		}
		if math.IsNaN(values[i]) {
			return nil, fmt.Errorf("row %d: %w", i, core.NewColumnTypeError(ColValue, "numeric"))
		}
		g, ok := groups[customer]
		if !ok {
			g = &group{}
			groups[customer] = g
			order = append(order, customer)
		}
		g.values = append(g.values, values[i])
		g.dates = append(g.dates, times[i])
	}

	records := make([]risk.RFMSRecord, 0, len(order))
	for _, customer := range order {
		g := groups[customer]

		recency, err := ComputeRecency(g.dates, ref)
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", customer, err)
		}

		monetary, err := stats.Sum(g.values)
		if err != nil {
			return nil, fmt.Errorf("customer %s: sum: %w", customer, err)
		}

		// Sample std is undefined for one observation; the metric is
		// defined as 0 there, never left missing.
		std := 0.0
		if len(g.values) > 1 {
			std, err = stats.StandardDeviationSample(g.values)
			if err != nil {
				return nil, fmt.Errorf("customer %s: std deviation: %w", customer, err)
			}
		}

		records = append(records, risk.RFMSRecord{
			CustomerID:   customer,
			Recency:      recency,
			Frequency:    len(g.values),
			Monetary:     monetary,
			StdDeviation: std,
		})
	}
	return records, nil
}

// metricDirection tells whether larger raw values mean better scores.
type metricDirection int

const (
	direct   metricDirection = iota // largest-value bucket scores 5
	inverted                        // smallest-value bucket scores 5
)

// Score converts each RFMS metric into an ordinal 1-5 score by cutting the
// metric's observed range into five equal-width buckets, then combines the
// sub-scores with the given weights (order: Recency, Frequency, Monetary,
// StdDeviation). Recency and StdDeviation score inverted: most recent and
// most stable customers take a 5. Thresholds are re-derived from the input
// on every call. A metric with fewer than two distinct values cannot be
// cut and is rejected explicitly.
func (e *Engine) Score(records []risk.RFMSRecord, weights []float64) ([]risk.ScoredRecord, error) {
	if len(weights) != len(risk.DefaultWeights()) {
		return nil, core.NewConfigError("weights", fmt.Sprintf("expected 4 weights, got %d", len(weights)))
	}
	if len(records) == 0 {
		return nil, core.NewEmptyInputError("rfms records")
	}

	metrics := []struct {
		name      string
		direction metricDirection
		values    []float64
	}{
		{risk.ColRecency, inverted, make([]float64, len(records))},
		{risk.ColFrequency, direct, make([]float64, len(records))},
		{risk.ColMonetary, direct, make([]float64, len(records))},
		{risk.ColStdDeviation, inverted, make([]float64, len(records))},
	}
	for i, rec := range records {
		metrics[0].values[i] = float64(rec.Recency)
		metrics[1].values[i] = float64(rec.Frequency)
		metrics[2].values[i] = rec.Monetary
		metrics[3].values[i] = rec.StdDeviation
	}

	subScores := make([][]int, len(metrics))
	for m, metric := range metrics {
		if distinct := quantile.DistinctCount(metric.values); distinct < 2 {
			return nil, core.NewDegenerateError(metric.name, distinct, 2)
		}
		min, err := stats.Min(metric.values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", metric.name, err)
		}
		max, err := stats.Max(metric.values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", metric.name, err)
		}

		subScores[m] = make([]int, len(records))
		for i, v := range metric.values {
			idx := quantile.EqualWidthIndex(min, max, scoreBins, v)
			if metric.direction == inverted {
				subScores[m][i] = scoreBins - idx
			} else {
				subScores[m][i] = idx + 1
			}
		}
	}

	scored := make([]risk.ScoredRecord, len(records))
	for i, rec := range records {
		s := risk.ScoredRecord{
			RFMSRecord:     rec,
			RecencyScore:   subScores[0][i],
			FrequencyScore: subScores[1][i],
			MonetaryScore:  subScores[2][i],
			StdScore:       subScores[3][i],
		}
		s.RFMSScore = weights[0]*float64(s.RecencyScore) +
			weights[1]*float64(s.FrequencyScore) +
			weights[2]*float64(s.MonetaryScore) +
			weights[3]*float64(s.StdScore)
		scored[i] = s
	}
	return scored, nil
}

// Label splits scored records into Good and Bad at the boundaryQuantile-th
// quantile of the composite score, computed over the whole population:
// records at or below the boundary are Bad, above it Good. The boundary is
// returned so out-of-sample rows can be labeled later without re-deriving
// quantiles.
func (e *Engine) Label(records []risk.ScoredRecord, boundaryQuantile float64) ([]risk.LabeledRecord, float64, error) {
	if boundaryQuantile <= 0 || boundaryQuantile >= 1 {
		return nil, 0, core.NewConfigError("boundary quantile", "must be within (0, 1)")
	}

	composites := make([]float64, len(records))
	for i, rec := range records {
		composites[i] = rec.RFMSScore
	}
	if distinct := quantile.DistinctCount(composites); distinct < 2 {
		return nil, 0, core.NewDegenerateError(risk.ColRFMSScore, distinct, 2)
	}

	boundary, err := quantile.Percentile(composites, boundaryQuantile)
	if err != nil {
		return nil, 0, err
	}
	max, err := stats.Max(composites)
	if err != nil {
		return nil, 0, err
	}
	if boundary >= max {
		// Happens when the upper tail is one long tie: the cut cannot
		// form a non-empty Good group.
		return nil, 0, fmt.Errorf("%w: %s boundary %g equals the maximum score", core.ErrDegenerate, risk.ColRFMSScore, boundary)
	}

	labeled := make([]risk.LabeledRecord, len(records))
	for i, rec := range records {
		label := risk.LabelGood
		if rec.RFMSScore <= boundary {
			label = risk.LabelBad
		}
		labeled[i] = risk.LabeledRecord{ScoredRecord: rec, RiskLabel: label}
	}
	return labeled, boundary, nil
}
