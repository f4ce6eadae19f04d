package dto

import (
	"time"

	"github.com/vacuno/ganado-api/internal/models"
)

// CreateHealthRecordRequest is the payload for logging a medical event.
// Type accepts free text; it is classified into a canonical event type.
type CreateHealthRecordRequest struct {
	Date         string  `json:"date" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	Description  *string `json:"description,omitempty"`
	Medication   *string `json:"medication,omitempty"`
	Dosage       *string `json:"dosage,omitempty"`
	Professional *string `json:"professional,omitempty"`
}

// UpdateHealthRecordRequest is a free-form partial update; unrecognized keys
// are ignored.
type UpdateHealthRecordRequest map[string]interface{}

// AssignMedicationRequest records medication details on an event.
type AssignMedicationRequest struct {
	Medication string  `json:"medication" binding:"required"`
	Dosage     *string `json:"dosage,omitempty"`
}

// AssignProfessionalRequest records the attending professional.
type AssignProfessionalRequest struct {
	Professional string `json:"professional" binding:"required"`
}

// HealthRecordResponse is the API rendering of a medical event.
type HealthRecordResponse struct {
	ID                 string    `json:"id"`
	CattleID           string    `json:"cattle_id"`
	Date               time.Time `json:"date"`
	Type               string    `json:"type"`
	Description        *string   `json:"description,omitempty"`
	ShortDescription   *string   `json:"short_description,omitempty"`
	Medication         *string   `json:"medication,omitempty"`
	Dosage             *string   `json:"dosage,omitempty"`
	Professional       *string   `json:"professional,omitempty"`
	RequiresFollowUp   bool      `json:"requires_follow_up"`
	RequiresMedication bool      `json:"requires_medication"`
	DaysSinceEvent     int       `json:"days_since_event"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewHealthRecordResponse maps a model into its API shape.
func NewHealthRecordResponse(h *models.HealthRecord) HealthRecordResponse {
	return HealthRecordResponse{
		ID:                 h.ID,
		CattleID:           h.CattleID,
		Date:               h.Date,
		Type:               string(h.Type),
		Description:        h.Description,
		ShortDescription:   h.ShortDescription(),
		Medication:         h.Medication,
		Dosage:             h.Dosage,
		Professional:       h.Professional,
		RequiresFollowUp:   h.Type.RequiresFollowUp(),
		RequiresMedication: h.RequiresMedication(),
		DaysSinceEvent:     h.DaysSinceEvent(),
		CreatedAt:          h.CreatedAt,
	}
}

// NewHealthRecordResponseList maps a slice of models.
func NewHealthRecordResponseList(items []models.HealthRecord) []HealthRecordResponse {
	out := make([]HealthRecordResponse, 0, len(items))
	for i := range items {
		out = append(out, NewHealthRecordResponse(&items[i]))
	}
	return out
}
