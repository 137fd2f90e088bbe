package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"surface-inspector/internal/domain/entity"
)

// TableReporter печатает дефекты таблицей для оператора.
type TableReporter struct {
	style table.Style
}

// NewTableReporter создаёт табличный репортер
func NewTableReporter() *TableReporter {
	style := table.StyleLight
	style.Format.Footer = text.FormatDefault
	return &TableReporter{style: style}
}

// Report пишет таблицу дефектов и итог по типам.
func (r *TableReporter) Report(w io.Writer, result *entity.InspectionResult) error {
	if result == nil {
		result = entity.EmptyResult()
	}

	t := table.NewWriter()
	t.SetStyle(r.style)
	t.SetTitle(fmt.Sprintf("Image %dx%d, %d tiles", result.ImageWidth, result.ImageHeight, result.Tiles))
	t.AppendHeader(table.Row{"#", "Type", "X", "Y", "Width", "Height", "Center", "Area"})
	for i, d := range ordered(result.Defects) {
		cx, cy := d.Center()
		t.AppendRow(table.Row{i + 1, d.Type, d.X, d.Y, d.Width, d.Height, fmt.Sprintf("%d,%d", cx, cy), d.Area()})
	}

	counts := result.CountByType()
	t.AppendFooter(table.Row{
		"", "Total", len(result.Defects), "",
		fmt.Sprintf("%s %d", entity.DefectDark, counts[entity.DefectDark]),
		fmt.Sprintf("%s %d", entity.DefectBright, counts[entity.DefectBright]),
		fmt.Sprintf("%s %d", entity.DefectUnknown, counts[entity.DefectUnknown]),
		"",
	})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
