package table

import (
	"math"

	"credscore/domain/core"
)

// StatisticalType defines column types for analysis
type StatisticalType string

const (
	TypeNumeric     StatisticalType = "numeric"
	TypeCategorical StatisticalType = "categorical"
)

// Column holds one named, typed column. Exactly one of Numeric or
// Categorical is populated, matching Type. NaN marks a missing numeric
// value; the empty string marks a missing categorical value.
type Column struct {
	Name        string
	Type        StatisticalType
	Numeric     []float64
	Categorical []string
}

// Table is an in-memory column-oriented table with named columns and a
// consistent row count across all of them. Column order is insertion order.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New creates an empty table. The first column added fixes the row count.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// RowCount returns the number of rows shared by every column.
func (t *Table) RowCount() int {
	return t.rows
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// AddNumeric appends a numeric column.
func (t *Table) AddNumeric(name string, values []float64) error {
	if err := t.checkAdd(name, len(values)); err != nil {
		return err
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, Column{Name: name, Type: TypeNumeric, Numeric: values})
	t.rows = len(values)
	return nil
}

// AddCategorical appends a categorical column.
func (t *Table) AddCategorical(name string, values []string) error {
	if err := t.checkAdd(name, len(values)); err != nil {
		return err
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, Column{Name: name, Type: TypeCategorical, Categorical: values})
	t.rows = len(values)
	return nil
}

func (t *Table) checkAdd(name string, length int) error {
	if _, exists := t.index[name]; exists {
		return core.NewConfigError(name, "column already exists")
	}
	if len(t.columns) > 0 && length != t.rows {
		return core.ErrLengthMismatch
	}
	return nil
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Numeric returns the values of a numeric column.
func (t *Table) Numeric(name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, core.NewColumnMissingError(name)
	}
	if col.Type != TypeNumeric {
		return nil, core.NewColumnTypeError(name, string(TypeNumeric))
	}
	return col.Numeric, nil
}

// Categorical returns the values of a categorical column.
func (t *Table) Categorical(name string) ([]string, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, core.NewColumnMissingError(name)
	}
	if col.Type != TypeCategorical {
		return nil, core.NewColumnTypeError(name, string(TypeCategorical))
	}
	return col.Categorical, nil
}

// Names returns all column names in insertion order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// NumericNames returns the names of numeric columns in insertion order.
func (t *Table) NumericNames() []string {
	return t.namesOfType(TypeNumeric)
}

// CategoricalNames returns the names of categorical columns in insertion order.
func (t *Table) CategoricalNames() []string {
	return t.namesOfType(TypeCategorical)
}

func (t *Table) namesOfType(st StatisticalType) []string {
	var names []string
	for _, col := range t.columns {
		if col.Type == st {
			names = append(names, col.Name)
		}
	}
	return names
}

// Clone returns a deep copy sharing no backing storage with the original.
func (t *Table) Clone() *Table {
	clone := New()
	for _, col := range t.columns {
		switch col.Type {
		case TypeNumeric:
			values := make([]float64, len(col.Numeric))
			copy(values, col.Numeric)
			_ = clone.AddNumeric(col.Name, values)
		case TypeCategorical:
			values := make([]string, len(col.Categorical))
			copy(values, col.Categorical)
			_ = clone.AddCategorical(col.Name, values)
		}
	}
	return clone
}

// Equal reports whether two tables hold identical columns in identical
// order. NaN numeric cells compare equal to NaN, so a cloned table always
// equals its source.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.columns) != len(other.columns) || t.rows != other.rows {
		return false
	}
	for i, col := range t.columns {
		o := other.columns[i]
		if col.Name != o.Name || col.Type != o.Type {
			return false
		}
		for j := range col.Numeric {
			a, b := col.Numeric[j], o.Numeric[j]
			if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
				return false
			}
		}
		for j := range col.Categorical {
			if col.Categorical[j] != o.Categorical[j] {
				return false
			}
		}
	}
	return true
}
