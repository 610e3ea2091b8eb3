package excel_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mennyrose/Bunker-data/internal/domain/report"
	"github.com/mennyrose/Bunker-data/internal/infrastructure/excel"
)

func sampleRows() []report.SummaryEntry {
	return []report.SummaryEntry{
		{Unit: "פלוגה א", SKU: "X", ItemName: "5.56 רגיל", Total: decimal.NewFromInt(120)},
		{Unit: "פלוגה ב", SKU: "Y", ItemName: "רימון עשן", Total: decimal.NewFromInt(8)},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err, "the exported bytes must be a readable workbook")
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExport_WritesHebrewHeaderAndRows(t *testing.T) {
	data, err := excel.NewSummaryExporter().Export(sampleRows())
	require.NoError(t, err)

	f := openWorkbook(t, data)

	sheets := f.GetSheetList()
	require.Equal(t, []string{"סיכום מנהלים"}, sheets, "only the summary sheet must exist")

	cell := func(ref string) string {
		v, err := f.GetCellValue("סיכום מנהלים", ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "יחידה/פלוגה", cell("A1"))
	assert.Equal(t, "שם פריט", cell("B1"))
	assert.Equal(t, `סך הכל (שצ"ל)`, cell("C1"))
	assert.Equal(t, "יחידות מידה", cell("D1"))

	assert.Equal(t, "פלוגה א", cell("A2"))
	assert.Equal(t, "5.56 רגיל", cell("B2"))
	assert.Equal(t, "120", cell("C2"))
	assert.Equal(t, "יח'", cell("D2"))

	assert.Equal(t, "פלוגה ב", cell("A3"))
	assert.Equal(t, "8", cell("C3"))
}

func TestExport_EmptyRowsStillProducesHeader(t *testing.T) {
	data, err := excel.NewSummaryExporter().Export(nil)
	require.NoError(t, err)

	f := openWorkbook(t, data)

	v, err := f.GetCellValue("סיכום מנהלים", "A1")
	require.NoError(t, err)
	assert.Equal(t, "יחידה/פלוגה", v)

	v, err = f.GetCellValue("סיכום מנהלים", "A2")
	require.NoError(t, err)
	assert.Empty(t, v)
}
