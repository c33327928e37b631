package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"ID", "Name"},
		Rows:    [][]string{{"a1", "Jane Doe"}, {"a2", "Smith, John"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ID,Name\na1,Jane Doe\na2,\"Smith, John\"\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{Headers: []string{"ID", "Name"}, Rows: [][]string{{"a1"}}})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	rows := make([][]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{"id", "a very long applicant name that will certainly not fit inside the column", "submitted"})
	}
	out, err := NewPDFExporter().Render(Dataset{Title: "India applications", Headers: []string{"ID", "Name", "Status"}, Rows: rows})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}
