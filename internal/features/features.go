// Package features holds the feature-engineering helpers applied to raw
// transaction tables before scoring or binning: timestamp decomposition
// and entity-id extraction.
package features

import (
	"fmt"
	"strconv"
	"strings"

	"credscore/domain/core"
	"credscore/domain/table"
)

// ExtractDateFeatures decomposes a timestamp column into four new numeric
// columns, Hour, Day, Month and Year, appended to the table. Fails with a
// data error naming the offending value if a timestamp does not parse.
func ExtractDateFeatures(tbl *table.Table, dateColumn string) error {
	values, err := tbl.Categorical(dateColumn)
	if err != nil {
		return err
	}

	n := len(values)
	hours := make([]float64, n)
	days := make([]float64, n)
	months := make([]float64, n)
	years := make([]float64, n)
	for i, raw := range values {
		ts, err := core.ParseTimestamp(raw)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		hours[i] = float64(ts.Hour())
		days[i] = float64(ts.Day())
		months[i] = float64(int(ts.Month()))
		years[i] = float64(ts.Year())
	}

	if err := tbl.AddNumeric("Hour", hours); err != nil {
		return err
	}
	if err := tbl.AddNumeric("Day", days); err != nil {
		return err
	}
	if err := tbl.AddNumeric("Month", months); err != nil {
		return err
	}
	return tbl.AddNumeric("Year", years)
}

// ParseEntityID extracts the numeric suffix from an identifier formatted
// as <name>_<number>.
func ParseEntityID(value string) (int, error) {
	parts := strings.Split(value, "_")
	if len(parts) < 2 {
		return 0, core.NewConfigError("entity id", fmt.Sprintf("%q has no underscore-separated suffix", value))
	}
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", core.ErrData, value, err)
	}
	return id, nil
}

// EncodeIDColumn parses every <name>_<number> identifier of a categorical
// column and appends the numeric ids as a new column named <column>Num.
func EncodeIDColumn(tbl *table.Table, column string) error {
	values, err := tbl.Categorical(column)
	if err != nil {
		return err
	}

	ids := make([]float64, len(values))
	for i, v := range values {
		id, err := ParseEntityID(v)
		if err != nil {
			return fmt.Errorf("column %s row %d: %w", column, i, err)
		}
		ids[i] = float64(id)
	}
	return tbl.AddNumeric(column+"Num", ids)
}
