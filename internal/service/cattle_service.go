package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vacuno/ganado-api/internal/dto"
	"github.com/vacuno/ganado-api/internal/models"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

type cattleRepository interface {
	FindByID(ctx context.Context, id string) (*models.Cattle, error)
	ExistsByIdentifier(ctx context.Context, identifier string, excludeID string) (bool, error)
	List(ctx context.Context, filter models.CattleFilter) ([]models.Cattle, int, error)
	Create(ctx context.Context, cattle *models.Cattle) error
	Update(ctx context.Context, cattle *models.Cattle) error
	Delete(ctx context.Context, id string) error
}

// CattleService manages the animal inventory.
type CattleService struct {
	repo      cattleRepository
	validator *validator.Validate
	logger    *zap.Logger
	onChange  func(ctx context.Context)
}

// NewCattleService constructs a CattleService instance.
func NewCattleService(repo cattleRepository, validate *validator.Validate, logger *zap.Logger) *CattleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CattleService{repo: repo, validator: validate, logger: logger}
}

// OnChange registers a hook invoked after any successful mutation. The stats
// service uses it to invalidate cached aggregates.
func (s *CattleService) OnChange(fn func(ctx context.Context)) {
	s.onChange = fn
}

func (s *CattleService) notifyChange(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}

// Get returns a single animal by identifier.
func (s *CattleService) Get(ctx context.Context, id string) (*models.Cattle, error) {
	cattle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "cattle not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cattle")
	}
	return cattle, nil
}

// List returns filtered animals with the total count for pagination.
func (s *CattleService) List(ctx context.Context, filter models.CattleFilter) ([]models.Cattle, int, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "invalid cattle status filter")
	}
	cattle, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cattle")
	}
	return cattle, total, nil
}

// Create registers a new animal. The business identifier must be unique across
// the whole herd, not just the owner's animals.
func (s *CattleService) Create(ctx context.Context, ownerID string, req dto.CreateCattleRequest) (*models.Cattle, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cattle payload")
	}

	sex := models.CattleSex(req.Sex)
	if !sex.IsValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sex must be female or male")
	}

	exists, err := s.repo.ExistsByIdentifier(ctx, req.Identifier, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check identifier")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "identifier already registered")
	}

	cattle := &models.Cattle{
		Identifier: req.Identifier,
		Name:       req.Name,
		Breed:      req.Breed,
		BirthDate:  req.BirthDate,
		Sex:        sex,
		Status:     models.StatusActive,
		OwnerID:    ownerID,
	}
	if req.CurrentWeight != nil {
		if err := cattle.UpdateWeight(*req.CurrentWeight); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, cattle); err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "identifier already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create cattle")
	}

	s.logger.Info("cattle registered", zap.String("cattle_id", cattle.ID), zap.String("identifier", cattle.Identifier))
	s.notifyChange(ctx)
	return cattle, nil
}

// Update applies the provided partial changes. The business identifier is
// immutable after registration.
func (s *CattleService) Update(ctx context.Context, id string, req dto.UpdateCattleRequest) (*models.Cattle, error) {
	cattle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name cannot be empty")
		}
		cattle.Name = *req.Name
	}
	if req.Breed != nil {
		cattle.Breed = req.Breed
	}
	if req.BirthDate != nil {
		cattle.BirthDate = req.BirthDate
	}
	if req.Sex != nil {
		sex := models.CattleSex(*req.Sex)
		if !sex.IsValid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "sex must be female or male")
		}
		cattle.Sex = sex
	}

	if err := s.repo.Update(ctx, cattle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update cattle")
	}
	s.notifyChange(ctx)
	return cattle, nil
}

// UpdateWeight stores a corrected current weight on the animal record.
func (s *CattleService) UpdateWeight(ctx context.Context, id string, weight float64) (*models.Cattle, error) {
	cattle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cattle.UpdateWeight(weight); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cattle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update cattle weight")
	}
	s.notifyChange(ctx)
	return cattle, nil
}

// UpdateStatus moves the animal to a new lifecycle status.
func (s *CattleService) UpdateStatus(ctx context.Context, id string, status models.CattleStatus) (*models.Cattle, error) {
	cattle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cattle.UpdateStatus(status); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cattle); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update cattle status")
	}
	s.logger.Info("cattle status changed", zap.String("cattle_id", cattle.ID), zap.String("status", string(status)))
	s.notifyChange(ctx)
	return cattle, nil
}

// Delete removes the animal; its health and weight histories cascade with it.
func (s *CattleService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete cattle")
	}
	s.logger.Info("cattle deleted", zap.String("cattle_id", id))
	s.notifyChange(ctx)
	return nil
}
