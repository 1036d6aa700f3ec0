package risk

import (
	"credscore/domain/table"
)

// Serving contract column names. Downstream consumers match on these exact
// strings, so they are fixed here rather than derived.
const (
	ColCustomerID     = "CustomerId"
	ColRecency        = "Recency"
	ColFrequency      = "Frequency"
	ColMonetary       = "Monetary"
	ColStdDeviation   = "StdDeviation"
	ColRecencyScore   = "RecencyScore"
	ColFrequencyScore = "FrequencyScore"
	ColMonetaryScore  = "MonetaryScore"
	ColStdScore       = "StdScore"
	ColRFMSScore      = "RFMS_Score"
	ColRiskLabel      = "RiskLabel"
)

// LabeledFrame exports labeled records as a table under the serving contract
// column names, one row per record in input order. The result feeds the
// WOE/IV binner and CSV export without further renaming.
func LabeledFrame(records []LabeledRecord) *table.Table {
	n := len(records)
	customers := make([]string, n)
	recency := make([]float64, n)
	frequency := make([]float64, n)
	monetary := make([]float64, n)
	std := make([]float64, n)
	recencyScore := make([]float64, n)
	frequencyScore := make([]float64, n)
	monetaryScore := make([]float64, n)
	stdScore := make([]float64, n)
	composite := make([]float64, n)
	labels := make([]string, n)

	for i, rec := range records {
		customers[i] = rec.CustomerID
		recency[i] = float64(rec.Recency)
		frequency[i] = float64(rec.Frequency)
		monetary[i] = rec.Monetary
		std[i] = rec.StdDeviation
		recencyScore[i] = float64(rec.RecencyScore)
		frequencyScore[i] = float64(rec.FrequencyScore)
		monetaryScore[i] = float64(rec.MonetaryScore)
		stdScore[i] = float64(rec.StdScore)
		composite[i] = rec.RFMSScore
		labels[i] = string(rec.RiskLabel)
	}

	tbl := table.New()
	_ = tbl.AddCategorical(ColCustomerID, customers)
	_ = tbl.AddNumeric(ColRecency, recency)
	_ = tbl.AddNumeric(ColFrequency, frequency)
	_ = tbl.AddNumeric(ColMonetary, monetary)
	_ = tbl.AddNumeric(ColStdDeviation, std)
	_ = tbl.AddNumeric(ColRecencyScore, recencyScore)
	_ = tbl.AddNumeric(ColFrequencyScore, frequencyScore)
	_ = tbl.AddNumeric(ColMonetaryScore, monetaryScore)
	_ = tbl.AddNumeric(ColStdScore, stdScore)
	_ = tbl.AddNumeric(ColRFMSScore, composite)
	_ = tbl.AddCategorical(ColRiskLabel, labels)
	return tbl
}
