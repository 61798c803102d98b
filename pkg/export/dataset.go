// Package export renders tabular datasets into the download formats the
// reporting endpoints serve: CSV, Excel and PDF.
package export

// Dataset defines tabular export content. Rows index cell values by header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Record flattens a row into header order, filling missing cells with "".
func (d Dataset) Record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}

	return record
}
