package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is one table of export output: the selected-section roster in the
// CSV download, or a single day's meetings inside the timetable PDF. Cells
// are addressed by header name so callers can fill columns in any order.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// AddRow appends one record; columns without a cell render empty.
func (d *Dataset) AddRow(cells map[string]string) {
	d.Rows = append(d.Rows, cells)
}

// CSVExporter renders a Dataset in RFC 4180 form, header row first.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render encodes the dataset. Column order follows Headers; cells under a
// name not listed in Headers are dropped.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv export needs a header row")
	}

	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		records = append(records, record)
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("encode csv export: %w", err)
	}
	return buf.Bytes(), nil
}
