package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"credscore/domain/table"

	"github.com/rs/zerolog/log"
)

// WriteCSV writes a table to a CSV file with a header row. Missing numeric
// cells (NaN) and missing categorical cells are written as empty strings.
func WriteCSV(tbl *table.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	names := tbl.Names()
	if err := writer.Write(names); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r := 0; r < tbl.RowCount(); r++ {
		row := make([]string, len(names))
		for c, name := range names {
			col, _ := tbl.Column(name)
			switch col.Type {
			case table.TypeNumeric:
				if v := col.Numeric[r]; !math.IsNaN(v) {
					row[c] = strconv.FormatFloat(v, 'g', -1, 64)
				}
			case table.TypeCategorical:
				row[c] = col.Categorical[r]
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV data: %w", err)
	}
	log.Info().Str("file", path).Int("rows", tbl.RowCount()).Msg("wrote table")
	return nil
}
