// Package excel renders the grouped management summary into a spreadsheet
// with the original dashboard's Hebrew column vocabulary.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mennyrose/Bunker-data/internal/application/reporting"
	"github.com/mennyrose/Bunker-data/internal/domain/report"
)

// Sheet vocabulary of the exported workbook.
const (
	sheetName = "סיכום מנהלים"

	headerUnit     = "יחידה/פלוגה"
	headerItemName = "שם פריט"
	headerTotal    = `סך הכל (שצ"ל)`
	headerMeasure  = "יחידות מידה"

	measureUnit = "יח'"
)

// SummaryExporter writes summary rows to an xlsx workbook.
type SummaryExporter struct{}

var _ reporting.SummaryExporter = (*SummaryExporter)(nil)

func NewSummaryExporter() *SummaryExporter { return &SummaryExporter{} }

// Export renders one row per summary entry under a fixed Hebrew header.
func (e *SummaryExporter) Export(rows []report.SummaryEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	headers := []string{headerUnit, headerItemName, headerTotal, headerMeasure}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		_ = f.SetCellStyle(sheetName, "A1", "D1", headerStyle)
	}

	for i, r := range rows {
		rowNum := i + 2
		values := []interface{}{r.Unit, r.ItemName, r.Total.InexactFloat64(), measureUnit}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", rowNum, err)
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 28)
	_ = f.SetColWidth(sheetName, "C", "D", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
