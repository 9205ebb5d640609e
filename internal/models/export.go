package models

// ExportFormat enumerates the renderings a candidate timetable can be exported as.
type ExportFormat string

const (
	ExportFormatCSV     ExportFormat = "csv"
	ExportFormatPDF     ExportFormat = "pdf"
	ExportFormatChoices ExportFormat = "choices"
)

// Valid reports whether f is a supported export format.
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportFormatCSV, ExportFormatPDF, ExportFormatChoices:
		return true
	default:
		return false
	}
}
