package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEventType(t *testing.T) {
	cases := map[string]HealthEventType{
		"vaccination":     HealthVaccination,
		"Vacunacion":      HealthVaccination,
		"DEWORMING":       HealthDeworming,
		"desparasitacion": HealthDeworming,
		"checkup":         HealthCheckup,
		"  revision  ":    HealthCheckup,
		"treatment":       HealthTreatment,
		"tratamiento":     HealthTreatment,
		"other":           HealthOther,
		"otro":            HealthOther,
		"xyz":             HealthOther,
		"":                HealthOther,
	}
	for input, want := range cases {
		assert.Equal(t, want, ClassifyEventType(input), "input %q", input)
	}
}

func TestRequiresFollowUp(t *testing.T) {
	assert.True(t, HealthTreatment.RequiresFollowUp())
	assert.True(t, HealthCheckup.RequiresFollowUp())
	assert.False(t, HealthVaccination.RequiresFollowUp())
	assert.False(t, HealthDeworming.RequiresFollowUp())
	assert.False(t, HealthOther.RequiresFollowUp())
}

func TestRequiresMedication(t *testing.T) {
	record := &HealthRecord{Type: HealthTreatment}
	assert.True(t, record.RequiresMedication())

	med := "ivermectin"
	record.Medication = &med
	assert.False(t, record.RequiresMedication())

	empty := ""
	record.Medication = &empty
	assert.True(t, record.RequiresMedication())

	assert.False(t, (&HealthRecord{Type: HealthCheckup}).RequiresMedication())
}

func TestAssignMedication(t *testing.T) {
	record := &HealthRecord{Type: HealthTreatment}
	dosage := "5ml"
	require.NoError(t, record.AssignMedication("ivermectin", &dosage))
	require.NotNil(t, record.Medication)
	assert.Equal(t, "ivermectin", *record.Medication)
	require.NotNil(t, record.Dosage)
	assert.Equal(t, "5ml", *record.Dosage)

	err := record.AssignMedication("", nil)
	require.Error(t, err)
}

func TestAssignProfessionalTrims(t *testing.T) {
	record := &HealthRecord{}
	require.NoError(t, record.AssignProfessional("  Dr. Lopez  "))
	require.NotNil(t, record.Professional)
	assert.Equal(t, "Dr. Lopez", *record.Professional)

	require.Error(t, record.AssignProfessional("   "))
}

func TestApplyPayloadMergesRecognizedKeys(t *testing.T) {
	record := &HealthRecord{Type: HealthOther}
	err := record.ApplyPayload(map[string]interface{}{
		"type":        "tratamiento",
		"description": "limping on rear leg",
		"medication":  "flunixin",
		"unknown_key": "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, HealthTreatment, record.Type)
	require.NotNil(t, record.Description)
	assert.Equal(t, "limping on rear leg", *record.Description)
	require.NotNil(t, record.Medication)
	assert.Equal(t, "flunixin", *record.Medication)
}

func TestApplyPayloadDate(t *testing.T) {
	record := &HealthRecord{}
	require.NoError(t, record.ApplyPayload(map[string]interface{}{"date": "2026-03-15"}))
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), record.Date)

	err := record.ApplyPayload(map[string]interface{}{"date": "15/03/2026"})
	require.Error(t, err)
}

func TestShortDescription(t *testing.T) {
	record := &HealthRecord{}
	assert.Nil(t, record.ShortDescription())

	short := "routine checkup"
	record.Description = &short
	got := record.ShortDescription()
	require.NotNil(t, got)
	assert.Equal(t, "routine checkup", *got)

	long := strings.Repeat("a", 80)
	record.Description = &long
	got = record.ShortDescription()
	require.NotNil(t, got)
	assert.Len(t, *got, 60)
	assert.True(t, strings.HasSuffix(*got, "..."))
}

func TestParseEventDate(t *testing.T) {
	when := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	got, err := ParseEventDate(when)
	require.NoError(t, err)
	assert.Equal(t, when, got)

	got, err = ParseEventDate("2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, when, got)

	got, err = ParseEventDate("2026-01-02T00:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(when))

	_, err = ParseEventDate(12345)
	require.Error(t, err)

	_, err = ParseEventDate((*time.Time)(nil))
	require.Error(t, err)
}
