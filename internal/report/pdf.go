package report

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/andresuchdata/replenishment/internal/inventory"
)

// GeneratePDF renders t restricted to columns as a landscape A4 table.
func GeneratePDF(title string, t *inventory.Table, columns []string) ([]byte, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("pdf report needs at least one column")
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithMaxGridSize(len(columns)).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addTitle(m, title, t.Len(), len(columns))
	addHeaderRow(m, columns)
	for i := 0; i < t.Len(); i++ {
		addDataRow(m, t, i, columns)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addTitle(m core.Maroto, title string, rows, grid int) {
	m.AddRows(
		row.New(12).Add(
			col.New(grid).Add(
				text.New(title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	m.AddRows(
		row.New(8).Add(
			col.New(grid).Add(
				text.New(fmt.Sprintf("%d items, generated %s", rows, time.Now().Format("2006-01-02 15:04")), props.Text{
					Size:  9,
					Align: align.Center,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

func addHeaderRow(m core.Maroto, columns []string) {
	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	cols := make([]core.Col, len(columns))
	for i, c := range columns {
		cols[i] = col.New(1).Add(text.New(c, headerText)).WithStyle(headerCell)
	}
	m.AddRows(row.New(10).Add(cols...))
}

func addDataRow(m core.Maroto, t *inventory.Table, i int, columns []string) {
	var cellStyle *props.Cell
	if i%2 == 1 {
		cellStyle = &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	}

	cols := make([]core.Col, len(columns))
	for j, c := range columns {
		v := t.Get(i, c)
		style := props.Text{Size: 7, Align: align.Left}
		if v.Kind() == inventory.KindNumber {
			style.Align = align.Right
		}
		if c == inventory.ColStockStatus && v.String() == inventory.StatusLow {
			style.Style = fontstyle.Bold
			style.Color = &props.Color{Red: 180, Green: 30, Blue: 30}
		}
		cc := col.New(1).Add(text.New(FormatCell(v), style))
		if cellStyle != nil {
			cc = cc.WithStyle(cellStyle)
		}
		cols[j] = cc
	}
	m.AddRows(row.New(6).Add(cols...))
}
