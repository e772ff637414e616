package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"slowcount.lopezb.com/internal/slowcount"
)

// formatResult renders an estimate the way the tool prints it.
func formatResult(r slowcount.Result) string {
	return fmt.Sprintf("%.2f ± %.2f", r.Estimate, r.StdError)
}

// renderHistogram renders the non-empty rows of a register histogram.
func renderHistogram(histo [32]int) string {
	total := 0
	for _, c := range histo {
		total += c
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"Rank", "Registers", "Share"})
	for k, c := range histo {
		if c == 0 {
			continue
		}
		share := 0.0
		if total > 0 {
			share = 100 * float64(c) / float64(total)
		}
		tbl.AppendRow(table.Row{k, c, fmt.Sprintf("%.1f%%", share)})
	}
	tbl.AppendFooter(table.Row{"Total", total, ""})

	return tbl.Render()
}
