package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vacuno/ganado-api/internal/models"
)

// ReportRepository persists report request metadata.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, user_id, type, params, status, location, requested_at, generated_at`

// Create inserts a new report row with generated defaults.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.Status == "" {
		report.Status = models.ReportPending
	}
	if report.RequestedAt.IsZero() {
		report.RequestedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reports (id, user_id, type, params, status, location, requested_at, generated_at)
VALUES (:id, :user_id, :type, :params, :status, :location, :requested_at, :generated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// GetByID returns a report row by its identifier.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id = $1`, reportColumns)
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &report, nil
}

// ListByUser returns reports requested by a user, newest first.
func (r *ReportRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE user_id = $1 ORDER BY requested_at DESC LIMIT $2`, reportColumns)
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// UpdateReportParams defines the mutable fields.
type UpdateReportParams struct {
	Status      *models.ReportStatus
	Params      *models.ReportParams
	Location    *string
	GeneratedAt *time.Time
}

// Update persists the provided changes for a report row.
func (r *ReportRepository) Update(ctx context.Context, id string, params UpdateReportParams) error {
	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	argPos := 1

	if params.Status != nil {
		set = append(set, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *params.Status)
		argPos++
	}
	if params.Params != nil {
		set = append(set, fmt.Sprintf("params = $%d", argPos))
		args = append(args, *params.Params)
		argPos++
	}
	if params.Location != nil {
		set = append(set, fmt.Sprintf("location = $%d", argPos))
		args = append(args, *params.Location)
		argPos++
	}
	if params.GeneratedAt != nil {
		set = append(set, fmt.Sprintf("generated_at = $%d", argPos))
		args = append(args, *params.GeneratedAt)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE reports SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

// ListPending fetches pending reports (used for cold start recovery).
func (r *ReportRepository) ListPending(ctx context.Context, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE status = 'pending' ORDER BY requested_at ASC LIMIT $1`, reportColumns)
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, limit); err != nil {
		return nil, fmt.Errorf("list pending reports: %w", err)
	}
	return reports, nil
}

// ListCompletedBefore retrieves completed reports prior to cutoff for cleanup.
func (r *ReportRepository) ListCompletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE status = 'completed' AND generated_at IS NOT NULL AND generated_at < $1 ORDER BY generated_at ASC LIMIT $2`, reportColumns)
	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, cutoff, limit); err != nil {
		return nil, fmt.Errorf("list completed reports: %w", err)
	}
	return reports, nil
}
