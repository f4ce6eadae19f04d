package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vacuno/ganado-api/internal/models"
)

// CattleRepository provides database access for animal records.
type CattleRepository struct {
	db *sqlx.DB
}

// NewCattleRepository constructs the repository.
func NewCattleRepository(db *sqlx.DB) *CattleRepository {
	return &CattleRepository{db: db}
}

const cattleColumns = `id, identifier, name, breed, birth_date, sex, status, current_weight, owner_id, created_at, updated_at`

// FindByID returns an animal record by internal id.
func (r *CattleRepository) FindByID(ctx context.Context, id string) (*models.Cattle, error) {
	query := fmt.Sprintf(`SELECT %s FROM cattle WHERE id = $1 LIMIT 1`, cattleColumns)
	var cattle models.Cattle
	if err := r.db.GetContext(ctx, &cattle, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find cattle by id: %w", err)
	}
	return &cattle, nil
}

// ExistsByIdentifier reports whether the business identifier is already used
// by any record, regardless of owner.
func (r *CattleRepository) ExistsByIdentifier(ctx context.Context, identifier string, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM cattle WHERE identifier = $1)`
	args := []interface{}{identifier}
	if excludeID != "" {
		query = `SELECT EXISTS (SELECT 1 FROM cattle WHERE identifier = $1 AND id <> $2)`
		args = append(args, excludeID)
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("check cattle identifier: %w", err)
	}
	return exists, nil
}

// List returns animal records based on filters with total count.
func (r *CattleRepository) List(ctx context.Context, filter models.CattleFilter) ([]models.Cattle, int, error) {
	baseQuery := `FROM cattle WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", len(args)+1))
		args = append(args, filter.OwnerID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(identifier) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", cattleColumns, baseQuery, pageSize, offset)

	var cattle []models.Cattle
	if err := r.db.SelectContext(ctx, &cattle, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list cattle: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count cattle: %w", err)
	}

	return cattle, total, nil
}

// ListAll returns every record matching the filter without pagination,
// used by report generation.
func (r *CattleRepository) ListAll(ctx context.Context, filter models.CattleFilter) ([]models.Cattle, error) {
	baseQuery := fmt.Sprintf("SELECT %s FROM cattle WHERE 1=1", cattleColumns)
	var args []interface{}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, *filter.Status)
	}
	if filter.OwnerID != "" {
		baseQuery += fmt.Sprintf(" AND owner_id = $%d", len(args)+1)
		args = append(args, filter.OwnerID)
	}
	baseQuery += " ORDER BY identifier ASC"

	var cattle []models.Cattle
	if err := r.db.SelectContext(ctx, &cattle, baseQuery, args...); err != nil {
		return nil, fmt.Errorf("list all cattle: %w", err)
	}
	return cattle, nil
}

// Create inserts a new animal record with generated defaults.
func (r *CattleRepository) Create(ctx context.Context, cattle *models.Cattle) error {
	if cattle.ID == "" {
		cattle.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cattle.CreatedAt.IsZero() {
		cattle.CreatedAt = now
	}
	cattle.UpdatedAt = now

	const query = `INSERT INTO cattle (id, identifier, name, breed, birth_date, sex, status, current_weight, owner_id, created_at, updated_at)
VALUES (:id, :identifier, :name, :breed, :birth_date, :sex, :status, :current_weight, :owner_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cattle); err != nil {
		return fmt.Errorf("create cattle: %w", err)
	}
	return nil
}

// Update persists mutable fields, refreshing the update timestamp with the
// same statement so it changes atomically with the mutation.
func (r *CattleRepository) Update(ctx context.Context, cattle *models.Cattle) error {
	cattle.UpdatedAt = time.Now().UTC()
	const query = `UPDATE cattle SET name = :name, breed = :breed, birth_date = :birth_date, sex = :sex, status = :status, current_weight = :current_weight, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, cattle); err != nil {
		return fmt.Errorf("update cattle: %w", err)
	}
	return nil
}

// Delete removes the record. Health and weight histories go with it via the
// schema's ON DELETE CASCADE rules.
func (r *CattleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM cattle WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete cattle: %w", err)
	}
	return nil
}

// CountByStatus aggregates record counts per lifecycle status.
func (r *CattleRepository) CountByStatus(ctx context.Context) (map[models.CattleStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM cattle GROUP BY status`
	rows := []struct {
		Status models.CattleStatus `db:"status"`
		Total  int                 `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count cattle by status: %w", err)
	}
	counts := make(map[models.CattleStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
