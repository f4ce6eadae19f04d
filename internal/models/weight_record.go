package models

import (
	"fmt"
	"time"

	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

// WeightUnit enumerates the supported measurement units.
type WeightUnit string

const (
	UnitKilogram WeightUnit = "kg"
	UnitPound    WeightUnit = "lb"
)

// PoundsToKilograms is the canonical lb -> kg conversion factor.
const PoundsToKilograms = 0.453592

// IsValid reports whether the unit is one of the enumerated values.
func (u WeightUnit) IsValid() bool {
	return u == UnitKilogram || u == UnitPound
}

// ToKilograms converts a value in this unit to the canonical kilogram value.
func (u WeightUnit) ToKilograms(value float64) float64 {
	if u == UnitPound {
		return value * PoundsToKilograms
	}
	return value
}

// CaptureMethod describes how a weight measurement was taken.
type CaptureMethod string

const (
	MethodManual    CaptureMethod = "manual"
	MethodScale     CaptureMethod = "scale"
	MethodAutomatic CaptureMethod = "automatic"
)

// IsValid reports whether the method is one of the enumerated values.
func (m CaptureMethod) IsValid() bool {
	return m == MethodManual || m == MethodScale || m == MethodAutomatic
}

// WeightRecord is a single dated weight measurement for one animal.
type WeightRecord struct {
	ID        string        `db:"id" json:"id"`
	CattleID  string        `db:"cattle_id" json:"cattle_id"`
	Date      time.Time     `db:"date" json:"date"`
	Weight    float64       `db:"weight" json:"weight"`
	Unit      WeightUnit    `db:"unit" json:"unit"`
	Method    CaptureMethod `db:"method" json:"method"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// Kilograms returns the measurement normalized to kilograms.
func (w *WeightRecord) Kilograms() float64 {
	return w.Unit.ToKilograms(w.Weight)
}

// FormattedWeight returns a human friendly weight string.
func (w *WeightRecord) FormattedWeight() string {
	return fmt.Sprintf("%.2f %s", w.Weight, w.Unit)
}

// VariationFrom returns the signed kilogram delta against a previous
// measurement, rounded to two decimals, or nil without one.
func (w *WeightRecord) VariationFrom(previous *WeightRecord) *float64 {
	if previous == nil {
		return nil
	}
	diff := Round2(w.Kilograms() - previous.Kilograms())
	return &diff
}

// UpdateWeight replaces the measurement value, optionally changing the unit
// atomically with it. Non-positive weights are rejected.
func (w *WeightRecord) UpdateWeight(newWeight float64, unit *WeightUnit) error {
	if newWeight <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "weight must be positive")
	}
	w.Weight = Round2(newWeight)
	if unit != nil {
		if !unit.IsValid() {
			return appErrors.Clone(appErrors.ErrValidation, "invalid weight unit")
		}
		w.Unit = *unit
	}
	return nil
}

// Describe renders a readable line with the optional signed variation.
func (w *WeightRecord) Describe(previous *WeightRecord) string {
	line := fmt.Sprintf("%s - %s", w.Date.Format("2006-01-02"), w.FormattedWeight())
	if diff := w.VariationFrom(previous); diff != nil {
		sign := ""
		if *diff >= 0 {
			sign = "+"
		}
		line = fmt.Sprintf("%s (%s%g kg)", line, sign, *diff)
	}
	return line
}

// AverageWeight returns the mean of the kilogram-normalized values rounded
// to two decimals, or nil for an empty set.
func AverageWeight(records []WeightRecord) *float64 {
	if len(records) == 0 {
		return nil
	}
	var sum float64
	for i := range records {
		sum += records[i].Kilograms()
	}
	avg := Round2(sum / float64(len(records)))
	return &avg
}
