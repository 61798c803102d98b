package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Asistencias",
		Headers: []string{"Evento", "Programa"},
		Rows: []map[string]string{
			{"Evento": "Búsqueda en Bases de Datos", "Programa": "Ingeniería"},
			{"Evento": "Visita de Grupos"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	text := string(bytes.TrimPrefix(out, []byte("\xef\xbb\xbf")))
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Evento,Programa", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Ingeniería")
	// Missing cells render as empty fields.
	assert.Equal(t, "Visita de Grupos,", strings.TrimSpace(lines[2]))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestExcelExporterRender(t *testing.T) {
	out, err := NewExcelExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Asistencias")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Evento", "Programa"}, rows[0])
	assert.Equal(t, "Ingeniería", rows[1][1])
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
