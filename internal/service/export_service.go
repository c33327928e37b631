package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/visa-admin/internal/grid"
	"github.com/noah-isme/visa-admin/pkg/export"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportResult is a rendered document ready to stream to the browser.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

// ExportService renders the filtered, sorted rows of a list view, all pages, with the
// columns currently visible.
type ExportService struct {
	apps      *ApplicationService
	renderers map[ExportFormat]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(apps *ApplicationService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		apps: apps,
		renderers: map[ExportFormat]renderer{
			ExportCSV: export.NewCSVExporter(),
			ExportPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Export renders module rows matching q in the requested format.
func (s *ExportService) Export(ctx context.Context, module string, format ExportFormat, q grid.Query) (*ExportResult, error) {
	r, ok := s.renderers[ExportFormat(strings.ToLower(string(format)))]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	m, rows, err := s.apps.Filtered(ctx, module, q)
	if err != nil {
		return nil, err
	}

	table := s.apps.Table()
	dataset := export.Dataset{Title: fmt.Sprintf("%s visa applications", m.Title)}
	var visible []int
	for i, col := range table.Columns() {
		if col.Fixed || q.IsVisible(col.Key) {
			visible = append(visible, i)
			dataset.Headers = append(dataset.Headers, col.Header)
		}
	}
	cols := table.Columns()
	for _, app := range rows {
		row := make([]string, 0, len(visible))
		for _, i := range visible {
			row = append(row, cols[i].Value(app))
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	body, err := r.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("list exported", zap.String("module", m.Name), zap.String("format", r.Extension()), zap.Int("rows", len(rows)))
	return &ExportResult{
		Filename:    fmt.Sprintf("%s-applications-%s.%s", m.Name, s.now().Format("20060102-1504"), r.Extension()),
		ContentType: r.ContentType(),
		Body:        body,
		Rows:        len(rows),
	}, nil
}
