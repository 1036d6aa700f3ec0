package table

import (
	"math"
	"testing"

	"credscore/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAddAndLookup(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.AddNumeric("Value", []float64{1, 2, 3}))
	require.NoError(t, tbl.AddCategorical("CustomerId", []string{"a", "b", "c"}))

	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, 2, tbl.ColumnCount())
	assert.Equal(t, []string{"Value", "CustomerId"}, tbl.Names())
	assert.Equal(t, []string{"Value"}, tbl.NumericNames())
	assert.Equal(t, []string{"CustomerId"}, tbl.CategoricalNames())

	values, err := tbl.Numeric("Value")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, values)

	_, err = tbl.Numeric("CustomerId")
	assert.True(t, core.IsDataError(err), "type mismatch should be a data error")

	_, err = tbl.Categorical("Missing")
	assert.True(t, core.IsDataError(err))
}

func TestTableLengthMismatch(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.AddNumeric("a", []float64{1, 2}))

	err := tbl.AddNumeric("b", []float64{1, 2, 3})
	assert.True(t, core.IsDataError(err))
}

func TestTableDuplicateColumn(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.AddNumeric("a", []float64{1}))

	err := tbl.AddCategorical("a", []string{"x"})
	assert.True(t, core.IsConfigError(err))
}

func TestTableCloneIsIndependent(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.AddNumeric("x", []float64{1, math.NaN(), 3}))
	require.NoError(t, tbl.AddCategorical("y", []string{"p", "", "q"}))

	clone := tbl.Clone()
	require.True(t, tbl.Equal(clone), "clone must compare equal, NaN included")

	// Mutating the clone must not leak into the original.
	cloned, err := clone.Numeric("x")
	require.NoError(t, err)
	cloned[0] = 99

	original, err := tbl.Numeric("x")
	require.NoError(t, err)
	assert.Equal(t, 1.0, original[0])
	assert.False(t, tbl.Equal(clone))
}
