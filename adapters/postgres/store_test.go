package postgres

import (
	"context"
	"testing"
	"time"

	"credscore/domain/binning"
	"credscore/domain/core"
	"credscore/domain/risk"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "postgres")), mock
}

func TestSaveRunInsertsHeaderAndScores(t *testing.T) {
	store, mock := newMockStore(t)

	run := ScoringRun{
		ID:               core.ID("run-1"),
		Boundary:         3.2,
		BoundaryQuantile: 0.55,
		CreatedAt:        time.Date(2024, 11, 15, 12, 0, 0, 0, time.UTC),
	}
	records := []risk.LabeledRecord{
		{
			ScoredRecord: risk.ScoredRecord{
				RFMSRecord: risk.RFMSRecord{CustomerID: "CustomerId_1", Recency: 2, Frequency: 5, Monetary: 900, StdDeviation: 12.5},
				RFMSScore:  4.1,
			},
			RiskLabel: risk.LabelGood,
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO scoring_runs").
		WithArgs(run.ID, run.Boundary, run.BoundaryQuantile, run.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO customer_scores").
		WithArgs(run.ID, "CustomerId_1", 2, 5, 900.0, 12.5, 4.1, risk.LabelGood).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveRun(context.Background(), run, records))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRunRollsBackOnScoreFailure(t *testing.T) {
	store, mock := newMockStore(t)

	run := ScoringRun{ID: core.ID("run-2"), CreatedAt: time.Now()}
	records := []risk.LabeledRecord{
		{ScoredRecord: risk.ScoredRecord{RFMSRecord: risk.RFMSRecord{CustomerID: "CustomerId_9"}}, RiskLabel: risk.LabelBad},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO scoring_runs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO customer_scores").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := store.SaveRun(context.Background(), run, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CustomerId_9")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveInformationValues(t *testing.T) {
	store, mock := newMockStore(t)

	reports := []binning.ColumnReport{
		{Column: "Amount", IV: 0.42},
		{Column: "Channel", IV: 0.07},
	}

	mock.ExpectExec("INSERT INTO feature_information_values").
		WithArgs(core.ID("run-3"), "Amount", 0.42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO feature_information_values").
		WithArgs(core.ID("run-3"), "Channel", 0.07).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SaveInformationValues(context.Background(), core.ID("run-3"), reports))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRun(t *testing.T) {
	store, mock := newMockStore(t)

	created := time.Date(2024, 11, 15, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, boundary, boundary_quantile, created_at").
		WithArgs(core.ID("run-4")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "boundary", "boundary_quantile", "created_at"}).
			AddRow("run-4", 3.2, 0.55, created))

	run, err := store.GetRun(context.Background(), core.ID("run-4"))
	require.NoError(t, err)
	assert.Equal(t, core.ID("run-4"), run.ID)
	assert.Equal(t, 3.2, run.Boundary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
