package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// PrintTable renders rows under headers as a bordered table.
func PrintTable(w io.Writer, headers []string, rows [][]string) {
	t := DefaultTheme
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Inherit(t.Header)
			}
			if col == 0 {
				return style.Inherit(t.Command)
			}
			return style
		})
	fmt.Fprintln(w, tbl.Render())
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
