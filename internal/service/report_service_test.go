package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacuno/ganado-api/internal/dto"
	"github.com/vacuno/ganado-api/internal/models"
	"github.com/vacuno/ganado-api/internal/repository"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
	"github.com/vacuno/ganado-api/pkg/jobs"
	"github.com/vacuno/ganado-api/pkg/storage"
)

type mockReportRepo struct {
	byID      *models.Report
	getErr    error
	created   *models.Report
	createErr error
	updates   []repository.UpdateReportParams
	updateErr error
	pending   []models.Report
	completed []models.Report
}

func (m *mockReportRepo) Create(ctx context.Context, report *models.Report) error {
	if m.createErr != nil {
		return m.createErr
	}
	report.ID = "r1"
	report.RequestedAt = time.Now().UTC()
	m.created = report
	return nil
}

func (m *mockReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.byID, nil
}

func (m *mockReportRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Report, error) {
	return nil, nil
}

func (m *mockReportRepo) Update(ctx context.Context, id string, params repository.UpdateReportParams) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, params)
	return nil
}

func (m *mockReportRepo) ListPending(ctx context.Context, limit int) ([]models.Report, error) {
	return m.pending, nil
}

func (m *mockReportRepo) ListCompletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Report, error) {
	return m.completed, nil
}

type mockGenerator struct {
	location    string
	generateErr error
	deleted     []string
	cleaned     bool
}

func (m *mockGenerator) Generate(ctx context.Context, report *models.Report) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.location, nil
}

func (m *mockGenerator) Delete(location string) error {
	m.deleted = append(m.deleted, location)
	return nil
}

func (m *mockGenerator) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	m.cleaned = true
	return nil, nil
}

type mockQueue struct {
	jobs       []jobs.Job
	enqueueErr error
}

func (m *mockQueue) Enqueue(job jobs.Job) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func newTestReportService(repo *mockReportRepo, gen *mockGenerator, queue *mockQueue) *ReportService {
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)
	return NewReportService(repo, gen, queue, signer, nil, nil, ReportServiceConfig{MaxAttempts: 3})
}

func TestReportCreateEnqueues(t *testing.T) {
	repo := &mockReportRepo{}
	queue := &mockQueue{}
	svc := newTestReportService(repo, &mockGenerator{}, queue)

	report, err := svc.Create(context.Background(), "u1", dto.CreateReportRequest{
		Type:   "inventory",
		Format: "pdf",
		Params: models.ReportParams{"status": "active"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, "pdf", report.Params["format"])
	assert.Equal(t, "active", report.Params["status"])
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, ReportJobType, queue.jobs[0].Type)
	assert.Equal(t, "r1", queue.jobs[0].Payload)
}

func TestReportCreateInvalidType(t *testing.T) {
	svc := newTestReportService(&mockReportRepo{}, &mockGenerator{}, &mockQueue{})

	_, err := svc.Create(context.Background(), "u1", dto.CreateReportRequest{Type: "sales"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportCreateSurvivesEnqueueFailure(t *testing.T) {
	repo := &mockReportRepo{}
	queue := &mockQueue{enqueueErr: errors.New("queue stopped")}
	svc := newTestReportService(repo, &mockGenerator{}, queue)

	report, err := svc.Create(context.Background(), "u1", dto.CreateReportRequest{Type: "health"})
	require.NoError(t, err)
	// Stays pending so recovery can requeue it later.
	assert.Equal(t, models.ReportPending, report.Status)
}

func TestHandleJobCompletes(t *testing.T) {
	report := &models.Report{ID: "r1", Type: models.ReportInventory, Status: models.ReportPending}
	repo := &mockReportRepo{byID: report}
	gen := &mockGenerator{location: "inventory/r1.csv"}
	svc := newTestReportService(repo, gen, &mockQueue{})

	err := svc.HandleJob(context.Background(), jobs.Job{ID: "j1", Type: ReportJobType, Payload: "r1"})
	require.NoError(t, err)

	assert.Equal(t, models.ReportCompleted, report.Status)
	require.NotNil(t, report.Location)
	assert.Equal(t, "inventory/r1.csv", *report.Location)
	assert.NotNil(t, report.GeneratedAt)

	// First update marks processing, second records completion.
	require.Len(t, repo.updates, 2)
	assert.Equal(t, models.ReportProcessing, *repo.updates[0].Status)
	assert.Equal(t, models.ReportCompleted, *repo.updates[1].Status)
}

func TestHandleJobRetriesBeforeGivingUp(t *testing.T) {
	report := &models.Report{ID: "r1", Type: models.ReportHealth, Status: models.ReportPending}
	repo := &mockReportRepo{byID: report}
	gen := &mockGenerator{generateErr: errors.New("render failed")}
	svc := newTestReportService(repo, gen, &mockQueue{})

	// Early attempts propagate the error so the queue retries.
	err := svc.HandleJob(context.Background(), jobs.Job{ID: "j1", Payload: "r1", Attempt: 0})
	require.Error(t, err)
	assert.NotEqual(t, models.ReportFailed, report.Status)

	// The final attempt records the failure and stops retrying.
	err = svc.HandleJob(context.Background(), jobs.Job{ID: "j1", Payload: "r1", Attempt: 2})
	require.NoError(t, err)
	assert.Equal(t, models.ReportFailed, report.Status)
	assert.Nil(t, report.Location)
	assert.NotNil(t, report.GeneratedAt)
}

func TestHandleJobCountsOutcomes(t *testing.T) {
	metrics := NewMetrics(nil)
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)

	report := &models.Report{ID: "r1", Type: models.ReportInventory, Status: models.ReportPending}
	repo := &mockReportRepo{byID: report}
	svc := NewReportService(repo, &mockGenerator{location: "inventory/r1.csv"}, &mockQueue{}, signer, metrics, nil, ReportServiceConfig{MaxAttempts: 1})

	require.NoError(t, svc.HandleJob(context.Background(), jobs.Job{ID: "j1", Payload: "r1"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReportsTotal.WithLabelValues("inventory", "completed")))

	failing := &models.Report{ID: "r2", Type: models.ReportHealth, Status: models.ReportPending}
	repo = &mockReportRepo{byID: failing}
	svc = NewReportService(repo, &mockGenerator{generateErr: errors.New("render failed")}, &mockQueue{}, signer, metrics, nil, ReportServiceConfig{MaxAttempts: 1})

	require.NoError(t, svc.HandleJob(context.Background(), jobs.Job{ID: "j2", Payload: "r2"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReportsTotal.WithLabelValues("health", "failed")))
}

func TestHandleJobMissingReport(t *testing.T) {
	repo := &mockReportRepo{getErr: sql.ErrNoRows}
	svc := newTestReportService(repo, &mockGenerator{}, &mockQueue{})

	err := svc.HandleJob(context.Background(), jobs.Job{ID: "j1", Payload: "missing"})
	require.NoError(t, err)
	assert.Empty(t, repo.updates)
}

func TestMergeParamsOnlyPending(t *testing.T) {
	report := &models.Report{ID: "r1", Status: models.ReportPending, Params: models.ReportParams{"format": "csv"}}
	repo := &mockReportRepo{byID: report}
	svc := newTestReportService(repo, &mockGenerator{}, &mockQueue{})

	updated, err := svc.MergeParams(context.Background(), "r1", models.ReportParams{"status": "sick"})
	require.NoError(t, err)
	assert.Equal(t, "sick", updated.Params["status"])
	assert.Equal(t, "csv", updated.Params["format"])

	report.Status = models.ReportProcessing
	_, err = svc.MergeParams(context.Background(), "r1", models.ReportParams{"x": "y"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestResolveDownload(t *testing.T) {
	location := "inventory/r1.csv"
	report := &models.Report{ID: "r1", Status: models.ReportCompleted, Location: &location}
	repo := &mockReportRepo{byID: report}
	svc := newTestReportService(repo, &mockGenerator{}, &mockQueue{})

	result, err := svc.ResolveDownload(context.Background(), "r1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Contains(t, result.URL, result.Token)

	gotID, gotLocation, err := svc.ParseDownloadToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "r1", gotID)
	assert.Equal(t, location, gotLocation)
}

func TestResolveDownloadNotReady(t *testing.T) {
	report := &models.Report{ID: "r1", Status: models.ReportProcessing}
	repo := &mockReportRepo{byID: report}
	svc := newTestReportService(repo, &mockGenerator{}, &mockQueue{})

	_, err := svc.ResolveDownload(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRecoverPending(t *testing.T) {
	repo := &mockReportRepo{pending: []models.Report{{ID: "r1"}, {ID: "r2"}}}
	queue := &mockQueue{}
	svc := newTestReportService(repo, &mockGenerator{}, queue)

	recovered, err := svc.RecoverPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, recovered)
	assert.Len(t, queue.jobs, 2)
}
