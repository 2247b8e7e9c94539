package export

import (
	"fmt"

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
)

// 网格共12列，超出的表格列被截断
const gridColumns = 12

var (
	colorPrimary = &props.Color{Red: 33, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 110, Green: 110, Blue: 110}
)

func renderPDF(doc *document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(doc.Title, true).
		WithAuthor("Tech Bookstore", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(12).Add(col.New(gridColumns).Add(
		text.New(doc.Title, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2}),
	)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	for _, kv := range doc.Meta {
		m.AddRows(pairRow(kv, colorGray))
	}

	if len(doc.Summary) > 0 {
		m.AddRows(sectionRow("Summary"))
		for _, kv := range doc.Summary {
			m.AddRows(pairRow(kv, nil))
		}
	}

	for _, t := range doc.Tables {
		m.AddRows(sectionRow(t.Name))
		m.AddRows(tableRows(t)...)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("export: 生成PDF失败: %w", err)
	}
	return out.GetBytes(), nil
}

func sectionRow(title string) core.Row {
	return row.New(10).Add(col.New(gridColumns).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 4}),
	))
}

func pairRow(kv [2]string, color *props.Color) core.Row {
	return row.New(5).Add(
		col.New(4).Add(text.New(kv[0], props.Text{Style: fontstyle.Bold, Size: 8, Color: color})),
		col.New(8).Add(text.New(kv[1], props.Text{Size: 8, Color: color})),
	)
}

func tableRows(t table) []core.Row {
	columns := t.Columns
	if len(columns) > gridColumns {
		columns = columns[:gridColumns]
	}
	if len(columns) == 0 {
		return nil
	}
	width := gridColumns / len(columns)

	cells := func(values []string, style fontstyle.Type) core.Row {
		cols := make([]core.Col, len(columns))
		for i := range columns {
			v := ""
			if i < len(values) {
				v = values[i]
			}
			cols[i] = col.New(width).Add(text.New(v, props.Text{Style: style, Size: 7, Align: align.Left, Right: 1}))
		}
		return row.New(5).Add(cols...)
	}

	rows := []core.Row{cells(columns, fontstyle.Bold), line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2})}
	for _, r := range t.Rows {
		rows = append(rows, cells(r, fontstyle.Normal))
	}
	return rows
}
