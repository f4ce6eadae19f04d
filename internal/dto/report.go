package dto

import (
	"time"

	"github.com/vacuno/ganado-api/internal/models"
)

// CreateReportRequest asks for an asynchronous export.
type CreateReportRequest struct {
	Type   string              `json:"type" binding:"required"`
	Format string              `json:"format,omitempty"`
	Params models.ReportParams `json:"params,omitempty"`
}

// MergeReportParamsRequest adds or overrides parameters on an existing report.
type MergeReportParamsRequest struct {
	Params models.ReportParams `json:"params" binding:"required"`
}

// ReportResponse is the API rendering of a report request.
type ReportResponse struct {
	ID           string              `json:"id"`
	UserID       *string             `json:"user_id,omitempty"`
	Type         string              `json:"type"`
	Description  string              `json:"description"`
	Params       models.ReportParams `json:"params"`
	Status       string              `json:"status"`
	Downloadable bool                `json:"downloadable"`
	RequestedAt  time.Time           `json:"requested_at"`
	GeneratedAt  *time.Time          `json:"generated_at,omitempty"`
}

// ReportDownloadResponse carries the signed download token for a completed report.
type ReportDownloadResponse struct {
	ReportID  string    `json:"report_id"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewReportResponse maps a model into its API shape. The storage location is
// never exposed directly; downloads go through signed tokens.
func NewReportResponse(r *models.Report) ReportResponse {
	return ReportResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		Type:         string(r.Type),
		Description:  r.Type.Description(),
		Params:       r.Params,
		Status:       string(r.Status),
		Downloadable: r.IsDownloadable(),
		RequestedAt:  r.RequestedAt,
		GeneratedAt:  r.GeneratedAt,
	}
}

// NewReportResponseList maps a slice of models.
func NewReportResponseList(items []models.Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(items))
	for i := range items {
		out = append(out, NewReportResponse(&items[i]))
	}
	return out
}
