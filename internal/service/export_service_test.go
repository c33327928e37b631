package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/visa-admin/internal/grid"
)

func TestExportCSVUsesFilteredRowsAndVisibleColumns(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewExportService(f.svc, zap.NewNop())

	q := grid.Query{
		Filters: map[string]string{"status": "submitted"},
		Sort:    "name",
		Order:   grid.Desc,
		Visible: []string{"name", "status"},
	}
	result, err := svc.Export(context.Background(), "india", ExportCSV, q)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.True(t, strings.HasPrefix(result.Filename, "india-applications-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	records, err := csv.NewReader(strings.NewReader(string(result.Body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Application ID", "Applicant", "Status"}, records[0])
	assert.Equal(t, []string{"a3", "Chen Test", "submitted"}, records[1])
	assert.Equal(t, []string{"a1", "Asha Test", "submitted"}, records[2])
}

func TestExportPDF(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewExportService(f.svc, zap.NewNop())

	result, err := svc.Export(context.Background(), "india", ExportPDF, grid.Query{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Body), "%PDF"))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	f := newServiceFixture(t)
	svc := NewExportService(f.svc, zap.NewNop())
	_, err := svc.Export(context.Background(), "india", ExportFormat("xlsx"), grid.Query{})
	require.Error(t, err)
}
