package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRow struct {
	Time   string `csv:"Time"`
	Monday string `csv:"Monday"`
}

func TestCSVExporterRendersTaggedRows(t *testing.T) {
	out, err := NewCSVExporter(';').Render([]sampleRow{
		{Time: "09:00 - 10:00", Monday: "CSCI3100\n09:30 - 10:15"},
		{Time: "10:00 - 11:00"},
	})
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	assert.Equal(t, "Time;Monday", lines[0])
	assert.Equal(t, `09:00 - 10:00;"CSCI3100`, lines[1])
}

func TestCSVExporterRejectsEmptyInput(t *testing.T) {
	_, err := NewCSVExporter(0).Render([]sampleRow{})
	assert.Error(t, err)
	_, err = NewCSVExporter(0).Render("nope")
	assert.Error(t, err)
}

func TestPDFExporterRendersMultilineCells(t *testing.T) {
	data := Dataset{
		Headers: []string{"Time", "Monday", "Tuesday"},
		Rows: []map[string]string{
			{"Time": "09:00 - 10:00", "Monday": "CSCI3100\n09:30 - 10:15\nDr. Wong"},
			{"Time": "10:00 - 11:00", "Tuesday": "ELTU3502"},
		},
	}
	out, err := NewPDFExporter(28).Render(data, "Timetable")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter(0).Render(Dataset{}, "")
	assert.Error(t, err)
}

func TestColumnWidths(t *testing.T) {
	widths := NewPDFExporter(30).columnWidths(130, 3)
	assert.Equal(t, []float64{30, 50, 50}, widths)
	assert.Equal(t, 3.0*lineHeight+1, rowHeight([]string{"a"}, map[string]string{"a": "x\ny\nz"}))
}
