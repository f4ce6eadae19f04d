package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacuno/ganado-api/internal/models"
)

func TestReportCreateDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec("INSERT INTO reports").WillReturnResult(sqlmock.NewResult(1, 1))

	userID := "u1"
	report := &models.Report{UserID: &userID, Type: models.ReportInventory, Params: models.ReportParams{"format": "csv"}}
	require.NoError(t, repo.Create(context.Background(), report))
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, models.ReportPending, report.Status)
	assert.False(t, report.RequestedAt.IsZero())
}

func TestReportGetByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "type", "params", "status", "location", "requested_at", "generated_at"}).
		AddRow("r1", "u1", "inventory", []byte(`{"format":"csv"}`), "pending", nil, now, nil)
	mock.ExpectQuery("SELECT id, user_id, type, params, status, location, requested_at, generated_at FROM reports WHERE id =").
		WithArgs("r1").
		WillReturnRows(rows)

	report, err := repo.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportInventory, report.Type)
	assert.Equal(t, "csv", report.Params["format"])
	assert.Nil(t, report.Location)
}

func TestReportUpdatePartial(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	status := models.ReportCompleted
	location := "inventory/r1.csv"
	generated := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reports SET status = $1, location = $2, generated_at = $3 WHERE id = $4")).
		WithArgs(status, location, generated, "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "r1", UpdateReportParams{
		Status:      &status,
		Location:    &location,
		GeneratedAt: &generated,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportUpdateNoFieldsIsNoop(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	require.NoError(t, repo.Update(context.Background(), "r1", UpdateReportParams{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "type", "params", "status", "location", "requested_at", "generated_at"}).
		AddRow("r1", "u1", "health", []byte(`{}`), "pending", nil, now, nil)
	mock.ExpectQuery("SELECT id, user_id, type, params, status, location, requested_at, generated_at FROM reports WHERE status = 'pending'").
		WithArgs(100).
		WillReturnRows(rows)

	reports, err := repo.ListPending(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, models.ReportPending, reports[0].Status)
}
