package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"rds-igsplit/decision_tree/ml/data"
	"rds-igsplit/decision_tree/ml/tree"
)

func RenderTable(w io.Writer, dataset *data.Dataset, splits []tree.Split) error {
	rows, err := Rows(dataset, splits)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Attr", Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Name: "Name", AlignHeader: text.AlignCenter, WidthMax: 30},
		{Name: "Type", Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Name: "Gain", Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Name: "Threshold", Align: text.AlignRight, AlignHeader: text.AlignCenter}})
	t.SetTitle("INFORMATION GAIN")
	t.AppendHeader(table.Row{"Attr", "Name", "Type", "Gain", "Threshold"})
	for _, row := range rows {
		threshold := "/"
		if row.Threshold != nil {
			threshold = strconv.FormatFloat(*row.Threshold, 'g', -1, 64)
		}
		t.AppendRow(table.Row{row.Attr, row.Name, row.Type, fmt.Sprintf("%.6f", row.Gain), threshold})
	}
	t.Render()
	return nil
}
