package models

import (
	"fmt"
	"strings"
	"time"

	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

// HealthEventType enumerates the medical event categories.
type HealthEventType string

const (
	HealthVaccination HealthEventType = "vaccination"
	HealthDeworming   HealthEventType = "deworming"
	HealthCheckup     HealthEventType = "checkup"
	HealthTreatment   HealthEventType = "treatment"
	HealthOther       HealthEventType = "other"
)

// healthTypeAliases maps normalized free text to canonical event types.
// The Spanish forms come from legacy field captures and stay accepted.
var healthTypeAliases = map[string]HealthEventType{
	"vaccination":     HealthVaccination,
	"vacunacion":      HealthVaccination,
	"deworming":       HealthDeworming,
	"desparasitacion": HealthDeworming,
	"checkup":         HealthCheckup,
	"revision":        HealthCheckup,
	"treatment":       HealthTreatment,
	"tratamiento":     HealthTreatment,
	"other":           HealthOther,
	"otro":            HealthOther,
}

// ClassifyEventType maps user-provided text to a valid event type.
// It is total: unrecognized text falls back to HealthOther.
func ClassifyEventType(raw string) HealthEventType {
	if t, ok := healthTypeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return HealthOther
}

// RequiresFollowUp reports whether the event type typically needs follow-up checks.
func (t HealthEventType) RequiresFollowUp() bool {
	return t == HealthTreatment || t == HealthCheckup
}

// HealthRecord is a single dated medical entry for one animal.
type HealthRecord struct {
	ID           string          `db:"id" json:"id"`
	CattleID     string          `db:"cattle_id" json:"cattle_id"`
	Date         time.Time       `db:"date" json:"date"`
	Type         HealthEventType `db:"type" json:"type"`
	Description  *string         `db:"description" json:"description,omitempty"`
	Medication   *string         `db:"medication" json:"medication,omitempty"`
	Dosage       *string         `db:"dosage" json:"dosage,omitempty"`
	Professional *string         `db:"professional" json:"professional,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// healthPayloadFields is the set of keys ApplyPayload recognizes.
var healthPayloadFields = map[string]struct{}{
	"date":         {},
	"type":         {},
	"description":  {},
	"medication":   {},
	"dosage":       {},
	"professional": {},
}

// RequiresMedication indicates whether medication information is still needed.
// Used for UI prompts, not enforced as a constraint.
func (h *HealthRecord) RequiresMedication() bool {
	if h.Type != HealthTreatment && h.Type != HealthVaccination {
		return false
	}
	return h.Medication == nil || *h.Medication == ""
}

// AssignMedication records the medication and optional dosage.
func (h *HealthRecord) AssignMedication(name string, dosage *string) error {
	if name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "medication name is required")
	}
	h.Medication = &name
	h.Dosage = dosage
	return nil
}

// AssignProfessional records the attending professional, trimmed.
func (h *HealthRecord) AssignProfessional(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return appErrors.Clone(appErrors.ErrValidation, "professional name is required")
	}
	h.Professional = &trimmed
	return nil
}

// ApplyPayload merges recognized keys from the payload into the record.
// Unrecognized keys are silently ignored.
func (h *HealthRecord) ApplyPayload(payload map[string]interface{}) error {
	for key, value := range payload {
		if _, ok := healthPayloadFields[key]; !ok {
			continue
		}
		switch key {
		case "type":
			h.Type = ClassifyEventType(fmt.Sprintf("%v", value))
		case "date":
			parsed, err := ParseEventDate(value)
			if err != nil {
				return err
			}
			h.Date = parsed
		case "description":
			h.Description = optionalString(value)
		case "medication":
			h.Medication = optionalString(value)
		case "dosage":
			h.Dosage = optionalString(value)
		case "professional":
			h.Professional = optionalString(value)
		}
	}
	return nil
}

// ShortDescription truncates the description for UI listings.
func (h *HealthRecord) ShortDescription() *string {
	if h.Description == nil || *h.Description == "" {
		return nil
	}
	desc := *h.Description
	if len(desc) >= 60 {
		desc = desc[:57] + "..."
	}
	return &desc
}

// Summary returns a one-line rendering of the event.
func (h *HealthRecord) Summary() string {
	desc := "no description"
	if short := h.ShortDescription(); short != nil {
		desc = *short
	}
	return fmt.Sprintf("%s - %s (%s)", h.Date.Format("2006-01-02"), h.Type, desc)
}

// DaysSinceEvent counts days from the event date until today.
// Future-dated events yield a negative count.
func (h *HealthRecord) DaysSinceEvent() int {
	return daysBetween(h.Date, time.Now().UTC())
}

// ParseEventDate accepts an already parsed time or an ISO-8601 date string.
func ParseEventDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date is required")
		}
		return *v, nil
	case string:
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			return parsed, nil
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed, nil
		}
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected ISO-8601")
	default:
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date value")
	}
}

func optionalString(value interface{}) *string {
	if value == nil {
		return nil
	}
	s := fmt.Sprintf("%v", value)
	if s == "" {
		return nil
	}
	return &s
}
