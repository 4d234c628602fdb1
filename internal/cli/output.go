package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
// Other writers, such as buffers in tests, get plain output.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

func headerColor() lipgloss.Color { return lipgloss.Color("33") }
func borderColor() lipgloss.Color { return lipgloss.Color("240") }

// renderTable writes rows under headers, as a bordered Lip Gloss table on
// a terminal and as aligned plain text otherwise.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	if isWriterTerminal(w) {
		return renderStyledTable(w, headers, rows)
	}
	return renderPlainTable(w, headers, rows)
}

func renderStyledTable(w io.Writer, headers []string, rows [][]string) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(headerColor()).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor())).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func renderPlainTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
