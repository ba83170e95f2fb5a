package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// Text writes sheets as bordered terminal tables.
type Text struct {
	Out io.Writer
}

// NewText returns a text writer.
func NewText(out io.Writer) *Text {
	return &Text{Out: out}
}

// Write renders every sheet, separated by blank lines. Empty sheets are
// rendered as a single "no data" line.
func (t *Text) Write(sheets ...Sheet) error {
	for i, s := range sheets {
		if i > 0 {
			if _, err := fmt.Fprintln(t.Out); err != nil {
				return err
			}
		}
		if err := t.write(s); err != nil {
			return fmt.Errorf("failed to write %q: %w", s.Title, err)
		}
	}
	return nil
}

func (t *Text) write(s Sheet) error {
	if s.Title != "" {
		if _, err := fmt.Fprintln(t.Out, titleStyle.Render(s.Title)); err != nil {
			return err
		}
	}
	if s.Empty() {
		_, err := fmt.Fprintln(t.Out, "no data")
		return err
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(s.Headers...).
		Rows(s.TextRows()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if s.numeric(col) {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(t.Out, tbl.Render()); err != nil {
		return err
	}
	if s.Footer != "" {
		if _, err := fmt.Fprintln(t.Out, footerStyle.Render(s.Footer)); err != nil {
			return err
		}
	}
	return nil
}
