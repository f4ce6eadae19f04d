package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacuno/ganado-api/internal/dto"
	"github.com/vacuno/ganado-api/internal/models"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

type mockWeightRepo struct {
	byID    *models.WeightRecord
	findErr error
	history []models.WeightRecord
	created *models.WeightRecord
	updated *models.WeightRecord
}

func (m *mockWeightRepo) FindByID(ctx context.Context, id string) (*models.WeightRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byID, nil
}

func (m *mockWeightRepo) ListByCattle(ctx context.Context, cattleID string) ([]models.WeightRecord, error) {
	return m.history, nil
}

func (m *mockWeightRepo) Create(ctx context.Context, record *models.WeightRecord) error {
	record.ID = "w1"
	m.created = record
	return nil
}

func (m *mockWeightRepo) Update(ctx context.Context, record *models.WeightRecord) error {
	m.updated = record
	return nil
}

type mockCattleSyncer struct {
	cattle    *models.Cattle
	findErr   error
	updated   *models.Cattle
	updateErr error
}

func (m *mockCattleSyncer) FindByID(ctx context.Context, id string) (*models.Cattle, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.cattle, nil
}

func (m *mockCattleSyncer) Update(ctx context.Context, cattle *models.Cattle) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = cattle
	return nil
}

func TestWeightCreateSyncsCurrentWeight(t *testing.T) {
	repo := &mockWeightRepo{}
	syncer := &mockCattleSyncer{cattle: &models.Cattle{ID: "c1"}}
	svc := NewWeightRecordService(repo, syncer, nil)

	lb := "lb"
	record, err := svc.Create(context.Background(), "c1", dto.CreateWeightRecordRequest{
		Date:   "2026-04-01",
		Weight: 1000,
		Unit:   &lb,
	})
	require.NoError(t, err)
	assert.Equal(t, "w1", record.ID)
	assert.Equal(t, models.UnitPound, record.Unit)
	assert.Equal(t, models.MethodManual, record.Method)

	// Current weight carries the kilogram-normalized value.
	require.NotNil(t, syncer.updated)
	require.NotNil(t, syncer.updated.CurrentWeight)
	assert.InDelta(t, 453.59, *syncer.updated.CurrentWeight, 0.01)
}

func TestWeightCreateRejectsInvalidInput(t *testing.T) {
	syncer := &mockCattleSyncer{cattle: &models.Cattle{ID: "c1"}}
	svc := NewWeightRecordService(&mockWeightRepo{}, syncer, nil)

	_, err := svc.Create(context.Background(), "c1", dto.CreateWeightRecordRequest{Date: "2026-04-01", Weight: 0})
	require.Error(t, err)

	bad := "stone"
	_, err = svc.Create(context.Background(), "c1", dto.CreateWeightRecordRequest{Date: "2026-04-01", Weight: 10, Unit: &bad})
	require.Error(t, err)

	badMethod := "guess"
	_, err = svc.Create(context.Background(), "c1", dto.CreateWeightRecordRequest{Date: "2026-04-01", Weight: 10, Method: &badMethod})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), "c1", dto.CreateWeightRecordRequest{Date: "april first", Weight: 10})
	require.Error(t, err)
}

func TestWeightCreateUnknownCattle(t *testing.T) {
	syncer := &mockCattleSyncer{findErr: sql.ErrNoRows}
	svc := NewWeightRecordService(&mockWeightRepo{}, syncer, nil)

	_, err := svc.Create(context.Background(), "missing", dto.CreateWeightRecordRequest{Date: "2026-04-01", Weight: 10})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestWeightHistoryPreservesOrder(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockWeightRepo{history: []models.WeightRecord{
		{ID: "w1", Weight: 440, Unit: models.UnitKilogram, Date: now.AddDate(0, -1, 0)},
		{ID: "w2", Weight: 450, Unit: models.UnitKilogram, Date: now},
	}}
	syncer := &mockCattleSyncer{cattle: &models.Cattle{ID: "c1"}}
	svc := NewWeightRecordService(repo, syncer, nil)

	records, err := svc.History(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "w1", records[0].ID)

	history := dto.NewWeightHistoryResponse(records)
	require.Len(t, history.Records, 2)
	assert.Nil(t, history.Records[0].VariationKg)
	require.NotNil(t, history.Records[1].VariationKg)
	assert.Equal(t, 10.0, *history.Records[1].VariationKg)
	require.NotNil(t, history.AverageKg)
	assert.Equal(t, 445.0, *history.AverageKg)
}

func TestWeightUpdateMeasurement(t *testing.T) {
	repo := &mockWeightRepo{byID: &models.WeightRecord{ID: "w1", Weight: 450, Unit: models.UnitKilogram}}
	svc := NewWeightRecordService(repo, &mockCattleSyncer{}, nil)

	kg := "kg"
	record, err := svc.UpdateMeasurement(context.Background(), "w1", dto.UpdateWeightRecordRequest{Weight: 460, Unit: &kg})
	require.NoError(t, err)
	assert.Equal(t, 460.0, record.Weight)
	require.NotNil(t, repo.updated)

	_, err = svc.UpdateMeasurement(context.Background(), "w1", dto.UpdateWeightRecordRequest{Weight: -1})
	require.Error(t, err)
}
