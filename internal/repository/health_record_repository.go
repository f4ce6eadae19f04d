package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vacuno/ganado-api/internal/models"
)

// HealthRecordRepository persists medical history entries.
type HealthRecordRepository struct {
	db *sqlx.DB
}

// NewHealthRecordRepository constructs the repository.
func NewHealthRecordRepository(db *sqlx.DB) *HealthRecordRepository {
	return &HealthRecordRepository{db: db}
}

const healthColumns = `id, cattle_id, date, type, description, medication, dosage, professional, created_at`

// FindByID returns a health record by identifier.
func (r *HealthRecordRepository) FindByID(ctx context.Context, id string) (*models.HealthRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM health_records WHERE id = $1 LIMIT 1`, healthColumns)
	var record models.HealthRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find health record: %w", err)
	}
	return &record, nil
}

// ListByCattle returns the medical history for one animal, newest first.
func (r *HealthRecordRepository) ListByCattle(ctx context.Context, cattleID string) ([]models.HealthRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM health_records WHERE cattle_id = $1 ORDER BY date DESC, created_at DESC`, healthColumns)
	var records []models.HealthRecord
	if err := r.db.SelectContext(ctx, &records, query, cattleID); err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	return records, nil
}

// ListByDateRange returns records captured within [from, to], used by the
// health report export.
func (r *HealthRecordRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.HealthRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM health_records WHERE date >= $1 AND date <= $2 ORDER BY date ASC`, healthColumns)
	var records []models.HealthRecord
	if err := r.db.SelectContext(ctx, &records, query, from, to); err != nil {
		return nil, fmt.Errorf("list health records by range: %w", err)
	}
	return records, nil
}

// Create inserts a new health record with generated defaults.
func (r *HealthRecordRepository) Create(ctx context.Context, record *models.HealthRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO health_records (id, cattle_id, date, type, description, medication, dosage, professional, created_at)
VALUES (:id, :cattle_id, :date, :type, :description, :medication, :dosage, :professional, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create health record: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a health record.
func (r *HealthRecordRepository) Update(ctx context.Context, record *models.HealthRecord) error {
	const query = `UPDATE health_records SET date = :date, type = :type, description = :description, medication = :medication, dosage = :dosage, professional = :professional WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update health record: %w", err)
	}
	return nil
}
