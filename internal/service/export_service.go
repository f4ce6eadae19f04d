package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vacuno/ganado-api/internal/models"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
	"github.com/vacuno/ganado-api/pkg/export"
	"github.com/vacuno/ganado-api/pkg/storage"
)

type inventoryLister interface {
	ListAll(ctx context.Context, filter models.CattleFilter) ([]models.Cattle, error)
}

type healthRangeLister interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]models.HealthRecord, error)
}

// ExportFormat enumerates the supported file formats for generated reports.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// IsValid reports whether the format is one of the enumerated values.
func (f ExportFormat) IsValid() bool {
	return f == FormatCSV || f == FormatPDF
}

// ExportService turns report requests into stored files.
type ExportService struct {
	cattle  inventoryLister
	health  healthRangeLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage *storage.LocalStorage
	logger  *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(cattle inventoryLister, health healthRangeLister, store *storage.LocalStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		cattle:  cattle,
		health:  health,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		storage: store,
		logger:  logger,
	}
}

// Generate builds the dataset for the report, renders it in the requested
// format and stores the file. It returns the relative storage location.
func (s *ExportService) Generate(ctx context.Context, report *models.Report) (string, error) {
	var (
		dataset export.Dataset
		err     error
	)
	switch report.Type {
	case models.ReportInventory:
		dataset, err = s.buildInventoryDataset(ctx, report.Params)
	case models.ReportHealth:
		dataset, err = s.buildHealthDataset(ctx, report.Params)
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown report type")
	}
	if err != nil {
		return "", err
	}

	format := formatFromParams(report.Params)
	var payload []byte
	switch format {
	case FormatPDF:
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("%s report", report.Type))
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := buildReportFilename(report, format)
	location, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report file")
	}

	s.logger.Info("report file generated",
		zap.String("report_id", report.ID),
		zap.String("location", location),
		zap.Int("rows", len(dataset.Rows)))
	return location, nil
}

// Open returns a read handle for a stored report file. A file that has been
// cleaned up since the token was issued maps to not found.
func (s *ExportService) Open(location string) (*os.File, error) {
	file, err := s.storage.Open(location)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report file not found")
	}
	return file, nil
}

// Delete removes a stored report file.
func (s *ExportService) Delete(location string) error {
	return s.storage.Delete(location)
}

// CleanupOlderThan deletes stored files past their retention window.
func (s *ExportService) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildInventoryDataset(ctx context.Context, params models.ReportParams) (export.Dataset, error) {
	filter := models.CattleFilter{}
	if raw, ok := params["status"].(string); ok && raw != "" {
		status := models.CattleStatus(raw)
		if !status.IsValid() {
			return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, "invalid status parameter")
		}
		filter.Status = &status
	}
	if raw, ok := params["owner_id"].(string); ok {
		filter.OwnerID = raw
	}

	cattle, err := s.cattle.ListAll(ctx, filter)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inventory")
	}

	dataset := export.Dataset{
		Headers: []string{"identifier", "name", "breed", "sex", "status", "age_days", "current_weight_kg"},
		Rows:    make([]map[string]string, 0, len(cattle)),
	}
	for i := range cattle {
		c := &cattle[i]
		row := map[string]string{
			"identifier": c.Identifier,
			"name":       c.Name,
			"sex":        string(c.Sex),
			"status":     string(c.Status),
		}
		if c.Breed != nil {
			row["breed"] = *c.Breed
		}
		if age := c.AgeInDays(); age != nil {
			row["age_days"] = fmt.Sprintf("%d", *age)
		}
		if c.CurrentWeight != nil {
			row["current_weight_kg"] = fmt.Sprintf("%.2f", *c.CurrentWeight)
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset, nil
}

func (s *ExportService) buildHealthDataset(ctx context.Context, params models.ReportParams) (export.Dataset, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, -1, 0)
	if raw, ok := params["from"].(string); ok && raw != "" {
		parsed, err := models.ParseEventDate(raw)
		if err != nil {
			return export.Dataset{}, err
		}
		from = parsed
	}
	if raw, ok := params["to"].(string); ok && raw != "" {
		parsed, err := models.ParseEventDate(raw)
		if err != nil {
			return export.Dataset{}, err
		}
		to = parsed
	}
	if to.Before(from) {
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, "date range end precedes start")
	}

	records, err := s.health.ListByDateRange(ctx, from, to)
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load health records")
	}

	dataset := export.Dataset{
		Headers: []string{"date", "cattle_id", "type", "description", "medication", "professional"},
		Rows:    make([]map[string]string, 0, len(records)),
	}
	for i := range records {
		r := &records[i]
		row := map[string]string{
			"date":      r.Date.Format("2006-01-02"),
			"cattle_id": r.CattleID,
			"type":      string(r.Type),
		}
		if short := r.ShortDescription(); short != nil {
			row["description"] = *short
		}
		if r.Medication != nil {
			row["medication"] = *r.Medication
		}
		if r.Professional != nil {
			row["professional"] = *r.Professional
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset, nil
}

func formatFromParams(params models.ReportParams) ExportFormat {
	if raw, ok := params["format"].(string); ok {
		format := ExportFormat(strings.ToLower(raw))
		if format.IsValid() {
			return format
		}
	}
	return FormatCSV
}

func buildReportFilename(report *models.Report, format ExportFormat) string {
	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s/%s_%s.%s", report.Type, report.ID, stamp, format)
}
