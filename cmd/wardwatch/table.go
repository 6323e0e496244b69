package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable draws a rounded table for console listings. When no explicit
// alignments are given, columns whose cells are all integers are right
// aligned, which lines up the room id and frame count columns without
// per-call-site configuration.
func renderTable(headers []string, rows [][]string, aligns ...columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}
	if len(aligns) == 0 {
		aligns = inferAlignments(columns, rows)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// inferAlignments right-aligns every column that holds nothing but integers.
func inferAlignments(columns int, rows [][]string) []columnAlignment {
	aligns := make([]columnAlignment, columns)
	if len(rows) == 0 {
		return aligns
	}
	for col := 0; col < columns; col++ {
		numeric := true
		for _, row := range rows {
			if col >= len(row) {
				numeric = false
				break
			}
			if _, err := strconv.Atoi(row[col]); err != nil {
				numeric = false
				break
			}
		}
		if numeric {
			aligns[col] = alignRight
		}
	}
	return aligns
}
