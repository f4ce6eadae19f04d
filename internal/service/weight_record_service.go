package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/vacuno/ganado-api/internal/dto"
	"github.com/vacuno/ganado-api/internal/models"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

type weightRecordRepository interface {
	FindByID(ctx context.Context, id string) (*models.WeightRecord, error)
	ListByCattle(ctx context.Context, cattleID string) ([]models.WeightRecord, error)
	Create(ctx context.Context, record *models.WeightRecord) error
	Update(ctx context.Context, record *models.WeightRecord) error
}

type cattleWeightSyncer interface {
	FindByID(ctx context.Context, id string) (*models.Cattle, error)
	Update(ctx context.Context, cattle *models.Cattle) error
}

// WeightRecordService manages per-animal weight histories.
type WeightRecordService struct {
	repo   weightRecordRepository
	cattle cattleWeightSyncer
	logger *zap.Logger
}

// NewWeightRecordService constructs a WeightRecordService instance.
func NewWeightRecordService(repo weightRecordRepository, cattle cattleWeightSyncer, logger *zap.Logger) *WeightRecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeightRecordService{repo: repo, cattle: cattle, logger: logger}
}

func (s *WeightRecordService) loadCattle(ctx context.Context, cattleID string) (*models.Cattle, error) {
	cattle, err := s.cattle.FindByID(ctx, cattleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cattle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cattle")
	}
	return cattle, nil
}

// Get returns one measurement by identifier.
func (s *WeightRecordService) Get(ctx context.Context, id string) (*models.WeightRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "weight record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weight record")
	}
	return record, nil
}

// History returns the chronological weight history for one animal.
func (s *WeightRecordService) History(ctx context.Context, cattleID string) ([]models.WeightRecord, error) {
	if _, err := s.loadCattle(ctx, cattleID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListByCattle(ctx, cattleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list weight records")
	}
	return records, nil
}

// Create logs a measurement and refreshes the animal's current weight with
// the kilogram-normalized value.
func (s *WeightRecordService) Create(ctx context.Context, cattleID string, req dto.CreateWeightRecordRequest) (*models.WeightRecord, error) {
	cattle, err := s.loadCattle(ctx, cattleID)
	if err != nil {
		return nil, err
	}

	date, err := models.ParseEventDate(req.Date)
	if err != nil {
		return nil, err
	}

	unit := models.UnitKilogram
	if req.Unit != nil {
		unit = models.WeightUnit(*req.Unit)
		if !unit.IsValid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unit must be kg or lb")
		}
	}
	method := models.MethodManual
	if req.Method != nil {
		method = models.CaptureMethod(*req.Method)
		if !method.IsValid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "method must be manual, scale or automatic")
		}
	}
	if req.Weight <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weight must be positive")
	}

	record := &models.WeightRecord{
		CattleID: cattleID,
		Date:     date,
		Weight:   models.Round2(req.Weight),
		Unit:     unit,
		Method:   method,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create weight record")
	}

	if err := cattle.UpdateWeight(record.Kilograms()); err == nil {
		if err := s.cattle.Update(ctx, cattle); err != nil {
			// The measurement is already stored; a stale current weight is
			// recoverable on the next capture.
			s.logger.Warn("failed to sync current weight", zap.String("cattle_id", cattleID), zap.Error(err))
		}
	}

	s.logger.Info("weight logged",
		zap.String("record_id", record.ID),
		zap.String("cattle_id", cattleID),
		zap.String("weight", record.FormattedWeight()))
	return record, nil
}

// UpdateMeasurement corrects the value (and optionally the unit) of a
// stored measurement.
func (s *WeightRecordService) UpdateMeasurement(ctx context.Context, id string, req dto.UpdateWeightRecordRequest) (*models.WeightRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var unit *models.WeightUnit
	if req.Unit != nil {
		u := models.WeightUnit(*req.Unit)
		unit = &u
	}
	if err := record.UpdateWeight(req.Weight, unit); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update weight record")
	}
	return record, nil
}
