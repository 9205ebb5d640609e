package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"reflect"

	"github.com/gocarina/gocsv"
)

// CSVExporter renders slices of csv-tagged structs.
type CSVExporter struct {
	delimiter rune
}

// NewCSVExporter builds a CSV exporter. A zero delimiter means comma.
func NewCSVExporter(delimiter rune) *CSVExporter {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVExporter{delimiter: delimiter}
}

// Render produces CSV bytes for records, which must be a non-empty slice of structs.
func (e *CSVExporter) Render(records interface{}) ([]byte, error) {
	value := reflect.ValueOf(records)
	if value.Kind() != reflect.Slice || value.Len() == 0 {
		return nil, fmt.Errorf("csv requires at least one record")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	writer.Comma = e.delimiter
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
