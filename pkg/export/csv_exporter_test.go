package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRenderOrdersColumnsByHeader(t *testing.T) {
	exporter := NewCSVExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"identifier", "name", "status"},
		Rows: []map[string]string{
			{"status": "active", "identifier": "MX-001", "name": "Paloma"},
			{"identifier": "MX-002", "name": "Lucero"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "identifier,name,status\nMX-001,Paloma,active\nMX-002,Lucero,\n", string(out))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestCSVRenderEmptyRows(t *testing.T) {
	exporter := NewCSVExporter()

	out, err := exporter.Render(Dataset{Headers: []string{"identifier"}})
	require.NoError(t, err)
	assert.Equal(t, "identifier\n", string(out))
}

func TestPDFRenderProducesDocument(t *testing.T) {
	exporter := NewPDFExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"identifier", "weight"},
		Rows:    []map[string]string{{"identifier": "MX-001", "weight": "450.50"}},
	}, "inventory report")
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	exporter := NewPDFExporter()

	_, err := exporter.Render(Dataset{}, "inventory report")
	require.Error(t, err)
}
