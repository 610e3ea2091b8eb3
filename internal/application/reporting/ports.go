package reporting

import "github.com/mennyrose/Bunker-data/internal/domain/report"

// SummaryExporter renders summary rows into a spreadsheet.
type SummaryExporter interface {
	Export(rows []report.SummaryEntry) ([]byte, error)
}

// SummaryPDFGenerator renders summary rows into a printable PDF.
type SummaryPDFGenerator interface {
	Generate(rows []report.SummaryEntry) ([]byte, error)
}
