package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToKilograms(t *testing.T) {
	assert.Equal(t, 100.0, UnitKilogram.ToKilograms(100))
	assert.InDelta(t, 45.3592, UnitPound.ToKilograms(100), 0.0001)
}

func TestVariationFrom(t *testing.T) {
	date := time.Now().UTC()
	first := WeightRecord{Weight: 440, Unit: UnitKilogram, Date: date}
	second := WeightRecord{Weight: 450, Unit: UnitKilogram, Date: date.AddDate(0, 0, 30)}

	diff := second.VariationFrom(&first)
	require.NotNil(t, diff)
	assert.Equal(t, 10.0, *diff)

	assert.Nil(t, first.VariationFrom(nil))
}

func TestVariationAcrossUnits(t *testing.T) {
	prev := WeightRecord{Weight: 1000, Unit: UnitPound}
	curr := WeightRecord{Weight: 460, Unit: UnitKilogram}

	diff := curr.VariationFrom(&prev)
	require.NotNil(t, diff)
	// 460 - 453.592
	assert.InDelta(t, 6.41, *diff, 0.001)
}

func TestUpdateWeightMeasurement(t *testing.T) {
	record := &WeightRecord{Weight: 450, Unit: UnitKilogram}

	require.NoError(t, record.UpdateWeight(455.555, nil))
	assert.Equal(t, 455.56, record.Weight)
	assert.Equal(t, UnitKilogram, record.Unit)

	lb := UnitPound
	require.NoError(t, record.UpdateWeight(1000, &lb))
	assert.Equal(t, 1000.0, record.Weight)
	assert.Equal(t, UnitPound, record.Unit)

	require.Error(t, record.UpdateWeight(0, nil))
	require.Error(t, record.UpdateWeight(-5, nil))

	bad := WeightUnit("stone")
	require.Error(t, record.UpdateWeight(10, &bad))
}

func TestAverageWeight(t *testing.T) {
	assert.Nil(t, AverageWeight(nil))
	assert.Nil(t, AverageWeight([]WeightRecord{}))

	records := []WeightRecord{
		{Weight: 400, Unit: UnitKilogram},
		{Weight: 500, Unit: UnitKilogram},
	}
	avg := AverageWeight(records)
	require.NotNil(t, avg)
	assert.Equal(t, 450.0, *avg)

	mixed := []WeightRecord{
		{Weight: 100, Unit: UnitKilogram},
		{Weight: 100, Unit: UnitPound},
	}
	avg = AverageWeight(mixed)
	require.NotNil(t, avg)
	// (100 + 45.3592) / 2 rounded
	assert.Equal(t, 72.68, *avg)
}

func TestDescribe(t *testing.T) {
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	prev := WeightRecord{Weight: 440, Unit: UnitKilogram, Date: date.AddDate(0, 0, -30)}
	curr := WeightRecord{Weight: 450, Unit: UnitKilogram, Date: date}

	assert.Equal(t, "2026-04-01 - 450.00 kg", curr.Describe(nil))
	assert.Equal(t, "2026-04-01 - 450.00 kg (+10 kg)", curr.Describe(&prev))

	lighter := WeightRecord{Weight: 430, Unit: UnitKilogram, Date: date}
	assert.Equal(t, "2026-04-01 - 430.00 kg (-10 kg)", lighter.Describe(&prev))
}

func TestCaptureMethodIsValid(t *testing.T) {
	assert.True(t, MethodManual.IsValid())
	assert.True(t, MethodScale.IsValid())
	assert.True(t, MethodAutomatic.IsValid())
	assert.False(t, CaptureMethod("guess").IsValid())
}
