package risk

import "time"

// RiskLabel is the binary credit-risk outcome assigned to a customer.
type RiskLabel string

const (
	LabelGood RiskLabel = "Good"
	LabelBad  RiskLabel = "Bad"
)

// Transaction is one raw transaction row.
type Transaction struct {
	TransactionID string    `json:"transaction_id"`
	CustomerID    string    `json:"customer_id"`
	Value         float64   `json:"value"`
	StartTime     time.Time `json:"start_time"`
}

// RFMSRecord holds the four behavioral metrics aggregated for one customer.
// All four fields are always populated; StdDeviation is 0 (never missing)
// for a single-transaction customer.
type RFMSRecord struct {
	CustomerID   string  `json:"customer_id"`
	Recency      int     `json:"recency"`
	Frequency    int     `json:"frequency"`
	Monetary     float64 `json:"monetary"`
	StdDeviation float64 `json:"std_deviation"`
}

// ScoredRecord extends an RFMS record with ordinal 1-5 sub-scores and the
// weighted composite.
type ScoredRecord struct {
	RFMSRecord
	RecencyScore   int     `json:"recency_score"`
	FrequencyScore int     `json:"frequency_score"`
	MonetaryScore  int     `json:"monetary_score"`
	StdScore       int     `json:"std_score"`
	RFMSScore      float64 `json:"rfms_score"`
}

// LabeledRecord extends a scored record with the Good/Bad label derived
// from the population-wide decision boundary.
type LabeledRecord struct {
	ScoredRecord
	RiskLabel RiskLabel `json:"risk_label"`
}

// DefaultWeights returns the composite weights in metric order:
// Recency, Frequency, Monetary, StdDeviation.
func DefaultWeights() []float64 {
	return []float64{0.10, 0.20, 0.50, 0.20}
}

// DefaultBoundaryQuantile is the composite-score quantile at which the
// population splits into Bad (at or below) and Good (above).
const DefaultBoundaryQuantile = 0.55
