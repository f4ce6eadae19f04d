package models

import (
	"fmt"
	"math"
	"time"

	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

// CattleSex enumerates the recorded sex of an animal.
type CattleSex string

const (
	SexFemale CattleSex = "female"
	SexMale   CattleSex = "male"
)

// IsValid reports whether the sex is one of the enumerated values.
func (s CattleSex) IsValid() bool {
	return s == SexFemale || s == SexMale
}

// CattleStatus enumerates the lifecycle states of an animal.
type CattleStatus string

const (
	StatusActive   CattleStatus = "active"
	StatusSick     CattleStatus = "sick"
	StatusSold     CattleStatus = "sold"
	StatusDeceased CattleStatus = "deceased"
)

// IsValid reports whether the status is one of the enumerated values.
// There is no transition table: any enumerated value is reachable from any other.
func (s CattleStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusSick, StatusSold, StatusDeceased:
		return true
	default:
		return false
	}
}

// Cattle represents one tracked animal.
type Cattle struct {
	ID            string       `db:"id" json:"id"`
	Identifier    string       `db:"identifier" json:"identifier"`
	Name          string       `db:"name" json:"name"`
	Breed         *string      `db:"breed" json:"breed,omitempty"`
	BirthDate     *time.Time   `db:"birth_date" json:"birth_date,omitempty"`
	Sex           CattleSex    `db:"sex" json:"sex"`
	Status        CattleStatus `db:"status" json:"status"`
	CurrentWeight *float64     `db:"current_weight" json:"current_weight,omitempty"`
	OwnerID       string       `db:"owner_id" json:"owner_id"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// UpdateWeight stores a positive weight rounded to two decimals.
func (c *Cattle) UpdateWeight(newWeight float64) error {
	if newWeight <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "weight must be positive")
	}
	rounded := Round2(newWeight)
	c.CurrentWeight = &rounded
	return nil
}

// UpdateStatus replaces the status after checking enum membership.
func (c *Cattle) UpdateStatus(newStatus CattleStatus) error {
	if !newStatus.IsValid() {
		return appErrors.Clone(appErrors.ErrValidation, "invalid cattle status")
	}
	c.Status = newStatus
	return nil
}

// AgeInDays returns the age in days, or nil when the birth date is unknown.
// A future birth date yields a negative age; it is not rejected.
func (c *Cattle) AgeInDays() *int {
	if c.BirthDate == nil {
		return nil
	}
	days := daysBetween(*c.BirthDate, time.Now().UTC())
	return &days
}

// Summary returns a short textual summary useful for logging and listings.
func (c *Cattle) Summary() string {
	ageTxt := "unknown age"
	if age := c.AgeInDays(); age != nil {
		ageTxt = fmt.Sprintf("%d days", *age)
	}
	return fmt.Sprintf("%s - %s - %s", c.Identifier, c.Status, ageTxt)
}

// CattleFilter captures filtering criteria for listing cattle.
type CattleFilter struct {
	Status   *CattleStatus
	OwnerID  string
	Search   string
	Page     int
	PageSize int
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// daysBetween counts whole calendar days from a to b, negative when b precedes a.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
