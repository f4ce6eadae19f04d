package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportLifecycle(t *testing.T) {
	report := &Report{Status: ReportPending}

	report.MarkProcessing()
	assert.Equal(t, ReportProcessing, report.Status)
	assert.Nil(t, report.GeneratedAt)

	report.MarkCompleted("inventory/abc.csv")
	assert.Equal(t, ReportCompleted, report.Status)
	require.NotNil(t, report.Location)
	assert.Equal(t, "inventory/abc.csv", *report.Location)
	assert.NotNil(t, report.GeneratedAt)
}

func TestMarkFailedKeepsLocationEmpty(t *testing.T) {
	report := &Report{Status: ReportProcessing}
	report.MarkFailed()
	assert.Equal(t, ReportFailed, report.Status)
	assert.Nil(t, report.Location)
	assert.NotNil(t, report.GeneratedAt)
}

func TestMarkProcessingFromTerminalStates(t *testing.T) {
	// The transition is unconditional; re-entry from completed or failed is
	// accepted and simply regenerates.
	for _, from := range []ReportStatus{ReportCompleted, ReportFailed, ReportProcessing} {
		report := &Report{Status: from}
		report.MarkProcessing()
		assert.Equal(t, ReportProcessing, report.Status)
	}
}

func TestIsDownloadable(t *testing.T) {
	location := "health/xyz.pdf"
	empty := ""

	assert.True(t, (&Report{Status: ReportCompleted, Location: &location}).IsDownloadable())
	assert.False(t, (&Report{Status: ReportCompleted}).IsDownloadable())
	assert.False(t, (&Report{Status: ReportCompleted, Location: &empty}).IsDownloadable())
	assert.False(t, (&Report{Status: ReportPending, Location: &location}).IsDownloadable())
	assert.False(t, (&Report{Status: ReportFailed, Location: &location}).IsDownloadable())
}

func TestMergeParameters(t *testing.T) {
	report := &Report{Params: ReportParams{"format": "csv", "status": "active"}}
	report.MergeParameters(ReportParams{"status": "sold", "from": "2026-01-01"})

	assert.Equal(t, "csv", report.Params["format"])
	assert.Equal(t, "sold", report.Params["status"])
	assert.Equal(t, "2026-01-01", report.Params["from"])
}

func TestMergeParametersOnNilMap(t *testing.T) {
	report := &Report{}
	report.MergeParameters(ReportParams{"format": "pdf"})
	assert.Equal(t, "pdf", report.Params["format"])
}

func TestReportParamsRoundTrip(t *testing.T) {
	params := ReportParams{"format": "csv", "limit": float64(10)}
	value, err := params.Value()
	require.NoError(t, err)

	var scanned ReportParams
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, params, scanned)

	var fromNil ReportParams
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)
}

func TestReportTypeAndStatusEnums(t *testing.T) {
	assert.True(t, ReportInventory.IsValid())
	assert.True(t, ReportHealth.IsValid())
	assert.False(t, ReportType("sales").IsValid())
	assert.NotEmpty(t, ReportInventory.Description())
	assert.NotEmpty(t, ReportHealth.Description())
}
