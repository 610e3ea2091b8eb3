// Package pdf renders the grouped management summary as a printable A4
// document.
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/mennyrose/Bunker-data/internal/application/reporting"
	"github.com/mennyrose/Bunker-data/internal/domain/report"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// SummaryPDFGenerator renders summary rows using Maroto v2.
type SummaryPDFGenerator struct {
	title string
}

var _ reporting.SummaryPDFGenerator = (*SummaryPDFGenerator)(nil)

func NewSummaryPDFGenerator(title string) *SummaryPDFGenerator {
	return &SummaryPDFGenerator{title: title}
}

// Generate builds the PDF and returns its bytes.
func (g *SummaryPDFGenerator) Generate(rows []report.SummaryEntry) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range rows {
		m.AddRows(tableRow(r))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(rows)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generating document: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(title string) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New(time.Now().Format("02/01/2006"), props.Text{
				Size: 9, Top: 3, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(s string, width int) core.Col {
		return col.New(width).Add(
			text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary}),
		)
	}
	return row.New(8).Add(
		header("Unit", 4),
		header("Item", 5),
		header("Total", 3),
	)
}

func tableRow(r report.SummaryEntry) core.Row {
	return row.New(6).Add(
		col.New(4).Add(text.New(r.Unit, props.Text{Size: 9})),
		col.New(5).Add(text.New(r.ItemName, props.Text{Size: 9})),
		col.New(3).Add(text.New(r.Total.String(), props.Text{Size: 9, Align: align.Right})),
	)
}

func footerRow(rowCount int) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("%d rows", rowCount), props.Text{
				Size: 8, Color: colorGray, Top: 2,
			}),
		),
	)
}
