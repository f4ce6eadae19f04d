package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vacuno/ganado-api/internal/dto"
	"github.com/vacuno/ganado-api/internal/models"
	"github.com/vacuno/ganado-api/internal/repository"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
	"github.com/vacuno/ganado-api/pkg/jobs"
	"github.com/vacuno/ganado-api/pkg/storage"
)

// ReportJobType identifies report generation jobs on the queue.
const ReportJobType = "report.generate"

type reportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Report, error)
	Update(ctx context.Context, id string, params repository.UpdateReportParams) error
	ListPending(ctx context.Context, limit int) ([]models.Report, error)
	ListCompletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Report, error)
}

type reportGenerator interface {
	Generate(ctx context.Context, report *models.Report) (string, error)
	Delete(location string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ReportService coordinates asynchronous report requests.
type ReportService struct {
	repo      reportRepository
	generator reportGenerator
	queue     jobEnqueuer
	signer    *storage.SignedURLSigner
	metrics   *Metrics
	logger    *zap.Logger

	maxAttempts  int
	retentionTTL time.Duration
}

// ReportServiceConfig holds tunables for the report pipeline.
type ReportServiceConfig struct {
	MaxAttempts  int
	RetentionTTL time.Duration
}

// NewReportService constructs a ReportService instance. The metrics handle
// may be nil.
func NewReportService(repo reportRepository, generator reportGenerator, queue jobEnqueuer, signer *storage.SignedURLSigner, metrics *Metrics, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetentionTTL <= 0 {
		cfg.RetentionTTL = 7 * 24 * time.Hour
	}
	return &ReportService{
		repo:         repo,
		generator:    generator,
		queue:        queue,
		signer:       signer,
		metrics:      metrics,
		logger:       logger,
		maxAttempts:  cfg.MaxAttempts,
		retentionTTL: cfg.RetentionTTL,
	}
}

// Create registers a pending report request and enqueues its generation.
func (s *ReportService) Create(ctx context.Context, userID string, req dto.CreateReportRequest) (*models.Report, error) {
	reportType := models.ReportType(req.Type)
	if !reportType.IsValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "type must be inventory or health")
	}

	params := models.ReportParams{}
	for k, v := range req.Params {
		params[k] = v
	}
	if req.Format != "" {
		format := ExportFormat(req.Format)
		if !format.IsValid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
		}
		params["format"] = string(format)
	}

	report := &models.Report{
		UserID: &userID,
		Type:   reportType,
		Params: params,
		Status: models.ReportPending,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report")
	}

	if err := s.enqueue(report.ID); err != nil {
		// The row stays pending; recovery picks it up on the next start.
		s.logger.Warn("failed to enqueue report", zap.String("report_id", report.ID), zap.Error(err))
	}

	s.logger.Info("report requested",
		zap.String("report_id", report.ID),
		zap.String("type", string(report.Type)),
		zap.String("user_id", userID))
	return report, nil
}

func (s *ReportService) enqueue(reportID string) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    ReportJobType,
		Payload: reportID,
	})
}

// Get returns one report request by identifier.
func (s *ReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	return report, nil
}

// ListByUser returns the requester's reports, newest first.
func (s *ReportService) ListByUser(ctx context.Context, userID string, limit int) ([]models.Report, error) {
	reports, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	return reports, nil
}

// MergeParams shallow-merges additional parameters into a report request.
// Only pending reports can be amended; later states already consumed them.
func (s *ReportService) MergeParams(ctx context.Context, id string, newParams models.ReportParams) (*models.Report, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only pending reports accept parameter changes")
	}
	report.MergeParameters(newParams)
	if err := s.repo.Update(ctx, report.ID, repository.UpdateReportParams{Params: &report.Params}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update report params")
	}
	return report, nil
}

// ResolveDownload issues a signed download token for a completed report.
func (s *ReportService) ResolveDownload(ctx context.Context, id string) (*dto.ReportDownloadResponse, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !report.IsDownloadable() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "report is not ready for download")
	}

	token, expiresAt, err := s.signer.Generate(report.ID, *report.Location)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}
	return &dto.ReportDownloadResponse{
		ReportID:  report.ID,
		Token:     token,
		URL:       fmt.Sprintf("/api/v1/downloads/%s", token),
		ExpiresAt: expiresAt,
	}, nil
}

// ParseDownloadToken validates a signed token and returns the stored location.
func (s *ReportService) ParseDownloadToken(token string) (reportID, location string, err error) {
	reportID, location, _, err = s.signer.Parse(token, false)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	return reportID, location, nil
}

// RecoverPending re-enqueues reports left pending by a previous process.
func (s *ReportService) RecoverPending(ctx context.Context) (int, error) {
	pending, err := s.repo.ListPending(ctx, 100)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending reports")
	}
	recovered := 0
	for i := range pending {
		if err := s.enqueue(pending[i].ID); err != nil {
			s.logger.Warn("failed to requeue pending report", zap.String("report_id", pending[i].ID), zap.Error(err))
			continue
		}
		recovered++
	}
	if recovered > 0 {
		s.logger.Info("recovered pending reports", zap.Int("count", recovered))
	}
	return recovered, nil
}

// CleanupExpired removes files for completed reports past retention and
// clears their stored locations.
func (s *ReportService) CleanupExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.retentionTTL)
	expired, err := s.repo.ListCompletedBefore(ctx, cutoff, 100)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expired reports")
	}

	removed := 0
	for i := range expired {
		report := &expired[i]
		if report.Location != nil {
			if err := s.generator.Delete(*report.Location); err != nil {
				s.logger.Warn("failed to delete report file", zap.String("report_id", report.ID), zap.Error(err))
				continue
			}
		}
		empty := ""
		if err := s.repo.Update(ctx, report.ID, repository.UpdateReportParams{Location: &empty}); err != nil {
			s.logger.Warn("failed to clear report location", zap.String("report_id", report.ID), zap.Error(err))
			continue
		}
		removed++
	}

	// Orphaned files without a row go on TTL alone.
	if _, err := s.generator.CleanupOlderThan(s.retentionTTL); err != nil {
		s.logger.Warn("storage cleanup failed", zap.Error(err))
	}

	return removed, nil
}

// StartCleanup runs CleanupExpired on the given interval until the context ends.
func (s *ReportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.CleanupExpired(ctx); err != nil {
					s.logger.Warn("report cleanup pass failed", zap.Error(err))
				}
			}
		}
	}()
}

// HandleJob is the queue handler driving one report through its lifecycle.
// The processing transition is unconditional; a re-delivered job regenerates
// the file rather than erroring out.
func (s *ReportService) HandleJob(ctx context.Context, job jobs.Job) error {
	reportID, ok := job.Payload.(string)
	if !ok || reportID == "" {
		s.logger.Error("report job with invalid payload", zap.String("job_id", job.ID))
		return nil
	}

	report, err := s.Get(ctx, reportID)
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrNotFound.Code {
			s.logger.Warn("report job references missing report", zap.String("report_id", reportID))
			return nil
		}
		return err
	}

	report.MarkProcessing()
	processingStatus := report.Status
	if err := s.repo.Update(ctx, report.ID, repository.UpdateReportParams{Status: &processingStatus}); err != nil {
		return fmt.Errorf("mark report processing: %w", err)
	}

	location, genErr := s.generator.Generate(ctx, report)
	if genErr != nil {
		if job.Attempt+1 >= s.maxAttempts {
			report.MarkFailed()
			if err := s.repo.Update(ctx, report.ID, repository.UpdateReportParams{
				Status:      &report.Status,
				GeneratedAt: report.GeneratedAt,
			}); err != nil {
				s.logger.Error("failed to mark report failed", zap.String("report_id", report.ID), zap.Error(err))
			}
			s.metrics.ReportGenerated(string(report.Type), string(models.ReportFailed))
			s.logger.Error("report generation gave up",
				zap.String("report_id", report.ID),
				zap.Int("attempts", job.Attempt+1),
				zap.Error(genErr))
			return nil
		}
		return genErr
	}

	report.MarkCompleted(location)
	if err := s.repo.Update(ctx, report.ID, repository.UpdateReportParams{
		Status:      &report.Status,
		Location:    report.Location,
		GeneratedAt: report.GeneratedAt,
	}); err != nil {
		return fmt.Errorf("mark report completed: %w", err)
	}

	s.metrics.ReportGenerated(string(report.Type), string(models.ReportCompleted))
	s.logger.Info("report completed",
		zap.String("report_id", report.ID),
		zap.String("location", location))
	return nil
}
