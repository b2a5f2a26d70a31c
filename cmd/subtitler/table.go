package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableView is one rounded go-pretty table. Columns listed in numeric are
// right-aligned; they are zero-based indices into headers.
type tableView struct {
	title   string
	headers []string
	rows    [][]string
	numeric []int
}

func (v tableView) render() string {
	if len(v.headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if v.title != "" {
		tw.SetTitle(v.title)
	}
	tw.AppendHeader(toRow(v.headers, len(v.headers)))
	for _, row := range v.rows {
		tw.AppendRow(toRow(row, len(v.headers)))
	}

	configs := make([]table.ColumnConfig, len(v.headers))
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
	}
	for _, idx := range v.numeric {
		if idx >= 0 && idx < len(configs) {
			configs[idx].Align = text.AlignRight
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// toRow pads or truncates cells to width columns.
func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range width {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div := int64(unit)
	exp := 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(v)/float64(div), "KMGTPE"[exp])
}
