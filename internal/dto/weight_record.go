package dto

import (
	"time"

	"github.com/vacuno/ganado-api/internal/models"
)

// CreateWeightRecordRequest is the payload for logging a measurement.
type CreateWeightRecordRequest struct {
	Date   string  `json:"date" binding:"required"`
	Weight float64 `json:"weight" binding:"required"`
	Unit   *string `json:"unit,omitempty"`
	Method *string `json:"method,omitempty"`
}

// UpdateWeightRecordRequest corrects an existing measurement. A nil unit
// keeps the current one.
type UpdateWeightRecordRequest struct {
	Weight float64 `json:"weight" binding:"required"`
	Unit   *string `json:"unit,omitempty"`
}

// WeightRecordResponse is the API rendering of one measurement, including the
// signed variation against the previous entry in the animal's history.
type WeightRecordResponse struct {
	ID          string    `json:"id"`
	CattleID    string    `json:"cattle_id"`
	Date        time.Time `json:"date"`
	Weight      float64   `json:"weight"`
	Unit        string    `json:"unit"`
	Method      string    `json:"method"`
	Kilograms   float64   `json:"kilograms"`
	VariationKg *float64  `json:"variation_kg,omitempty"`
	Display     string    `json:"display"`
	CreatedAt   time.Time `json:"created_at"`
}

// WeightHistoryResponse wraps the chronological history with its average.
type WeightHistoryResponse struct {
	Records   []WeightRecordResponse `json:"records"`
	AverageKg *float64               `json:"average_kg,omitempty"`
}

// NewWeightRecordResponse maps one measurement with its predecessor.
func NewWeightRecordResponse(w *models.WeightRecord, previous *models.WeightRecord) WeightRecordResponse {
	return WeightRecordResponse{
		ID:          w.ID,
		CattleID:    w.CattleID,
		Date:        w.Date,
		Weight:      w.Weight,
		Unit:        string(w.Unit),
		Method:      string(w.Method),
		Kilograms:   models.Round2(w.Kilograms()),
		VariationKg: w.VariationFrom(previous),
		Display:     w.Describe(previous),
		CreatedAt:   w.CreatedAt,
	}
}

// NewWeightHistoryResponse maps an ordered history, wiring consecutive
// variations and the overall average.
func NewWeightHistoryResponse(records []models.WeightRecord) WeightHistoryResponse {
	out := WeightHistoryResponse{
		Records:   make([]WeightRecordResponse, 0, len(records)),
		AverageKg: models.AverageWeight(records),
	}
	for i := range records {
		var previous *models.WeightRecord
		if i > 0 {
			previous = &records[i-1]
		}
		out.Records = append(out.Records, NewWeightRecordResponse(&records[i], previous))
	}
	return out
}
