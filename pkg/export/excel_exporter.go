package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter renders a Dataset into an .xlsx workbook with a bold,
// filtered header row.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

func (e *ExcelExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("excel requires at least one header")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Datos"
	if data.Title != "" {
		sheet = data.Title
	}
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerRow := make([]interface{}, len(data.Headers))
	for i, header := range data.Headers {
		headerRow[i] = header
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("write excel headers: %w", err)
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(data.Headers), 1)
		_ = f.SetCellStyle(sheet, "A1", lastCol, style)
	}

	for i, row := range data.Rows {
		record := data.Record(row)
		cells := make([]interface{}, len(record))
		for j, cell := range record {
			cells[j] = cell
		}
		addr, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return nil, fmt.Errorf("write excel row %d: %w", i+1, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(data.Headers))
	_ = f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", lastCol), nil)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render excel: %w", err)
	}

	return buf.Bytes(), nil
}
