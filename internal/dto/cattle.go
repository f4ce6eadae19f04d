package dto

import (
	"time"

	"github.com/vacuno/ganado-api/internal/models"
)

// CreateCattleRequest is the payload for registering an animal.
type CreateCattleRequest struct {
	Identifier    string     `json:"identifier" binding:"required" validate:"required,min=1,max=64"`
	Name          string     `json:"name" binding:"required" validate:"required,min=1,max=120"`
	Breed         *string    `json:"breed,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Sex           string     `json:"sex" binding:"required" validate:"required"`
	CurrentWeight *float64   `json:"current_weight,omitempty"`
}

// UpdateCattleRequest carries optional field updates. Nil means keep.
type UpdateCattleRequest struct {
	Name      *string    `json:"name,omitempty"`
	Breed     *string    `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Sex       *string    `json:"sex,omitempty"`
}

// UpdateCattleWeightRequest carries a direct weight correction.
type UpdateCattleWeightRequest struct {
	Weight float64 `json:"weight" binding:"required"`
}

// UpdateCattleStatusRequest carries a lifecycle status change.
type UpdateCattleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CattleResponse is the API rendering of an animal record.
type CattleResponse struct {
	ID            string     `json:"id"`
	Identifier    string     `json:"identifier"`
	Name          string     `json:"name"`
	Breed         *string    `json:"breed,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Sex           string     `json:"sex"`
	Status        string     `json:"status"`
	CurrentWeight *float64   `json:"current_weight,omitempty"`
	OwnerID       string     `json:"owner_id"`
	AgeInDays     *int       `json:"age_in_days,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewCattleResponse maps a model into its API shape.
func NewCattleResponse(c *models.Cattle) CattleResponse {
	return CattleResponse{
		ID:            c.ID,
		Identifier:    c.Identifier,
		Name:          c.Name,
		Breed:         c.Breed,
		BirthDate:     c.BirthDate,
		Sex:           string(c.Sex),
		Status:        string(c.Status),
		CurrentWeight: c.CurrentWeight,
		OwnerID:       c.OwnerID,
		AgeInDays:     c.AgeInDays(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// NewCattleResponseList maps a slice of models.
func NewCattleResponseList(items []models.Cattle) []CattleResponse {
	out := make([]CattleResponse, 0, len(items))
	for i := range items {
		out = append(out, NewCattleResponse(&items[i]))
	}
	return out
}
