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

// WeightRecordRepository persists weight history entries.
type WeightRecordRepository struct {
	db *sqlx.DB
}

// NewWeightRecordRepository constructs the repository.
func NewWeightRecordRepository(db *sqlx.DB) *WeightRecordRepository {
	return &WeightRecordRepository{db: db}
}

const weightColumns = `id, cattle_id, date, weight, unit, method, created_at`

// FindByID returns a weight record by identifier.
func (r *WeightRecordRepository) FindByID(ctx context.Context, id string) (*models.WeightRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM weight_records WHERE id = $1 LIMIT 1`, weightColumns)
	var record models.WeightRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find weight record: %w", err)
	}
	return &record, nil
}

// ListByCattle returns the weight history for one animal, oldest first so
// consecutive variations line up.
func (r *WeightRecordRepository) ListByCattle(ctx context.Context, cattleID string) ([]models.WeightRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM weight_records WHERE cattle_id = $1 ORDER BY date ASC, created_at ASC`, weightColumns)
	var records []models.WeightRecord
	if err := r.db.SelectContext(ctx, &records, query, cattleID); err != nil {
		return nil, fmt.Errorf("list weight records: %w", err)
	}
	return records, nil
}

// Create inserts a new weight record with generated defaults.
func (r *WeightRecordRepository) Create(ctx context.Context, record *models.WeightRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO weight_records (id, cattle_id, date, weight, unit, method, created_at)
VALUES (:id, :cattle_id, :date, :weight, :unit, :method, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create weight record: %w", err)
	}
	return nil
}

// Update persists the measurement value and unit.
func (r *WeightRecordRepository) Update(ctx context.Context, record *models.WeightRecord) error {
	const query = `UPDATE weight_records SET date = :date, weight = :weight, unit = :unit, method = :method WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update weight record: %w", err)
	}
	return nil
}

// AverageKilograms computes the mean canonical weight across all records,
// normalizing pounds in SQL. Returns nil when no records exist.
func (r *WeightRecordRepository) AverageKilograms(ctx context.Context) (*float64, error) {
	const query = `SELECT AVG(CASE WHEN unit = 'lb' THEN weight * 0.453592 ELSE weight END) FROM weight_records`
	var avg sql.NullFloat64
	if err := r.db.GetContext(ctx, &avg, query); err != nil {
		return nil, fmt.Errorf("average weight: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	value := models.Round2(avg.Float64)
	return &value, nil
}
