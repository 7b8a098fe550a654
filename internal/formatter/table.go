package formatter

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
)

// writeTable renders rows under headers with box-drawing borders. Cells are stripped of escape sequences
// so the columns stay aligned.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	for _, row := range rows {
		for i, cell := range row {
			row[i] = ansi.Strip(cell)
		}
	}

	cell := lipgloss.NewRenderer(w).NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true)
			}
			return cell
		})

	_, err := io.WriteString(w, t.String()+"\n")
	return err
}
