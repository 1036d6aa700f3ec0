package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"credscore/domain/core"
	"credscore/domain/table"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// DataReader reads Excel and CSV files into typed tables.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given file; the extension decides
// the format, defaulting to xlsx.
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadTable reads the file into a column-typed table. A column whose every
// non-empty cell parses as a number becomes numeric (empty cells become
// NaN); everything else stays categorical (empty cells stay "").
func (r *DataReader) ReadTable() (*table.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, core.NewEmptyInputError("file must have a header row and at least one data row")
	}

	tbl, err := buildTable(rows[0], rows[1:])
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", r.filePath).Int("rows", tbl.RowCount()).Int("columns", tbl.ColumnCount()).
		Msg("loaded table")
	return tbl, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewEmptyInputError("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// buildTable infers a type per column and assembles the table.
func buildTable(header []string, rows [][]string) (*table.Table, error) {
	tbl := table.New()
	for c, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, core.NewConfigError(fmt.Sprintf("column %d", c), "empty header cell")
		}

		cells := make([]string, len(rows))
		numeric := true
		for i, row := range rows {
			if c < len(row) {
				cells[i] = strings.TrimSpace(row[c])
			}
			if cells[i] == "" {
				continue
			}
			if _, err := strconv.ParseFloat(cells[i], 64); err != nil {
				numeric = false
			}
		}

		if numeric {
			values := make([]float64, len(cells))
			for i, cell := range cells {
				if cell == "" {
					values[i] = math.NaN()
					continue
				}
				values[i], _ = strconv.ParseFloat(cell, 64)
			}
			if err := tbl.AddNumeric(name, values); err != nil {
				return nil, err
			}
			continue
		}
		if err := tbl.AddCategorical(name, cells); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
