package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReportType enumerates the supported export categories.
type ReportType string

const (
	ReportInventory ReportType = "inventory"
	ReportHealth    ReportType = "health"
)

// IsValid reports whether the type is one of the enumerated values.
func (t ReportType) IsValid() bool {
	return t == ReportInventory || t == ReportHealth
}

// Description returns a short human description of the report contents.
func (t ReportType) Description() string {
	if t == ReportInventory {
		return "full cattle roster with basic filters"
	}
	return "health records within a date range"
}

// ReportStatus captures the export job lifecycle states.
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportProcessing ReportStatus = "processing"
	ReportCompleted  ReportStatus = "completed"
	ReportFailed     ReportStatus = "failed"
)

// ReportParams stores request-scoped options persisted as JSONB.
type ReportParams map[string]interface{}

// Value marshals params to JSON for persistence.
func (p ReportParams) Value() (driver.Value, error) {
	if p == nil {
		p = ReportParams{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal report params: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the params map.
func (p *ReportParams) Scan(value interface{}) error {
	if value == nil {
		*p = ReportParams{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ReportParams", value)
	}
	if len(data) == 0 {
		*p = ReportParams{}
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("unmarshal report params: %w", err)
	}
	return nil
}

// Report represents an asynchronous export job.
// UserID is nullable: the report survives deletion of its author.
type Report struct {
	ID          string       `db:"id" json:"id"`
	UserID      *string      `db:"user_id" json:"user_id,omitempty"`
	Type        ReportType   `db:"type" json:"type"`
	Params      ReportParams `db:"params" json:"params"`
	Status      ReportStatus `db:"status" json:"status"`
	Location    *string      `db:"location" json:"location,omitempty"`
	RequestedAt time.Time    `db:"requested_at" json:"requested_at"`
	GeneratedAt *time.Time   `db:"generated_at" json:"generated_at,omitempty"`
}

// MarkProcessing moves the report into the processing state.
// The transition is unconditional, including from terminal states; callers
// that need stricter lifecycle rules must guard re-entry themselves.
func (r *Report) MarkProcessing() {
	r.Status = ReportProcessing
}

// MarkCompleted records the storage location and completion time.
func (r *Report) MarkCompleted(location string) {
	r.Status = ReportCompleted
	r.Location = &location
	now := time.Now().UTC()
	r.GeneratedAt = &now
}

// MarkFailed records the completion time without a storage location.
func (r *Report) MarkFailed() {
	r.Status = ReportFailed
	now := time.Now().UTC()
	r.GeneratedAt = &now
}

// IsDownloadable holds only for completed reports with a stored location.
func (r *Report) IsDownloadable() bool {
	return r.Status == ReportCompleted && r.Location != nil && *r.Location != ""
}

// MergeParameters shallow-merges the given parameters, last write wins per key.
func (r *Report) MergeParameters(newParams ReportParams) {
	if r.Params == nil {
		r.Params = ReportParams{}
	}
	for k, v := range newParams {
		r.Params[k] = v
	}
}
