// cmd/kscli/render.go
package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"kingdomseekers/internal/resource"
)

var (
	brand       = lipgloss.Color("#101F38")
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	muted       = lipgloss.Color("#6b7280")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle  = lipgloss.NewStyle().Foreground(muted).Width(34)
	emptyStyle  = lipgloss.NewStyle().Foreground(muted).Italic(true)
)

func noticeStyle(s resource.Severity) lipgloss.Style {
	if s == resource.SeverityError {
		return lipgloss.NewStyle().Bold(true).Foreground(destructive)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(accent)
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, emptyStyle.Render("No records."))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(brand)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

// renderPairs prints a titled label/value card.
func renderPairs(w io.Writer, title string, pairs [][2]string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	for _, p := range pairs {
		fmt.Fprintln(w, labelStyle.Render(p[0])+p[1])
	}
}

func money(v float64) string {
	return "KSh " + humanize.CommafWithDigits(v, 2)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func optionalID(v *int64) string {
	if v == nil {
		return "-"
	}
	return id(*v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
