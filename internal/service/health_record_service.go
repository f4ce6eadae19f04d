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

type healthRecordRepository interface {
	FindByID(ctx context.Context, id string) (*models.HealthRecord, error)
	ListByCattle(ctx context.Context, cattleID string) ([]models.HealthRecord, error)
	Create(ctx context.Context, record *models.HealthRecord) error
	Update(ctx context.Context, record *models.HealthRecord) error
}

type cattleFinder interface {
	FindByID(ctx context.Context, id string) (*models.Cattle, error)
}

// HealthRecordService manages per-animal medical histories.
type HealthRecordService struct {
	repo   healthRecordRepository
	cattle cattleFinder
	logger *zap.Logger
}

// NewHealthRecordService constructs a HealthRecordService instance.
func NewHealthRecordService(repo healthRecordRepository, cattle cattleFinder, logger *zap.Logger) *HealthRecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthRecordService{repo: repo, cattle: cattle, logger: logger}
}

func (s *HealthRecordService) ensureCattle(ctx context.Context, cattleID string) error {
	if _, err := s.cattle.FindByID(ctx, cattleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "cattle not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cattle")
	}
	return nil
}

// Get returns one medical event by identifier.
func (s *HealthRecordService) Get(ctx context.Context, id string) (*models.HealthRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "health record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load health record")
	}
	return record, nil
}

// ListByCattle returns the medical history for one animal, newest first.
func (s *HealthRecordService) ListByCattle(ctx context.Context, cattleID string) ([]models.HealthRecord, error) {
	if err := s.ensureCattle(ctx, cattleID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListByCattle(ctx, cattleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list health records")
	}
	return records, nil
}

// Create logs a medical event. Free-text types are classified into a
// canonical event type, unknown text ends up as "other".
func (s *HealthRecordService) Create(ctx context.Context, cattleID string, req dto.CreateHealthRecordRequest) (*models.HealthRecord, error) {
	if err := s.ensureCattle(ctx, cattleID); err != nil {
		return nil, err
	}

	date, err := models.ParseEventDate(req.Date)
	if err != nil {
		return nil, err
	}

	record := &models.HealthRecord{
		CattleID:     cattleID,
		Date:         date,
		Type:         models.ClassifyEventType(req.Type),
		Description:  req.Description,
		Medication:   req.Medication,
		Dosage:       req.Dosage,
		Professional: req.Professional,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create health record")
	}

	s.logger.Info("health event logged",
		zap.String("record_id", record.ID),
		zap.String("cattle_id", cattleID),
		zap.String("type", string(record.Type)))
	return record, nil
}

// Update merges the recognized payload keys into the record and persists it.
func (s *HealthRecordService) Update(ctx context.Context, id string, payload map[string]interface{}) (*models.HealthRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.ApplyPayload(payload); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update health record")
	}
	return record, nil
}

// AssignMedication records medication details on an existing event.
func (s *HealthRecordService) AssignMedication(ctx context.Context, id string, medication string, dosage *string) (*models.HealthRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.AssignMedication(medication, dosage); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update health record")
	}
	return record, nil
}

// AssignProfessional records the attending professional on an existing event.
func (s *HealthRecordService) AssignProfessional(ctx context.Context, id string, professional string) (*models.HealthRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.AssignProfessional(professional); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update health record")
	}
	return record, nil
}
