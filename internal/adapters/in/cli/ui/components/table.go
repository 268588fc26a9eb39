// Package components holds the lipgloss building blocks of CLI output.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/cli/ui/styles"
)

// Column describes one table column. Width 0 means as wide as the content.
type Column struct {
	Title string
	Width int
	Right bool
}

// Table renders rows under a fixed set of columns with a rounded border.
type Table struct {
	columns []Column
	rows    [][]string
	header  lipgloss.Style
	cell    lipgloss.Style
}

// NewTable creates a table with the default launcher styles.
func NewTable(columns ...Column) *Table {
	return &Table{
		columns: columns,
		header:  lipgloss.NewStyle().Bold(true).Foreground(styles.ColorPrimary).Padding(0, 1),
		cell:    lipgloss.NewStyle().Foreground(styles.ColorText).Padding(0, 1),
	}
}

// Plain drops colors and bold, leaving only padding. Used by tests and
// when output is piped.
func (t *Table) Plain() *Table {
	t.header = lipgloss.NewStyle().Padding(0, 1)
	t.cell = lipgloss.NewStyle().Padding(0, 1)
	return t
}

// Add appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) Add(cells ...string) *Table {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(cells) {
			row[i] = truncateCell(cells[i], t.columns[i].Width)
		}
	}
	t.rows = append(t.rows, row)
	return t
}

// AddRows appends several rows.
func (t *Table) AddRows(rows [][]string) *Table {
	for _, r := range rows {
		t.Add(r...)
	}
	return t
}

// Render returns the table, or "" when it has no columns.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		headers[i] = truncateCell(c.Title, c.Width)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.ColorBorder)).
		Headers(headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := t.cell
			if row == table.HeaderRow {
				s = t.header
			}
			if col < 0 || col >= len(t.columns) {
				return s
			}
			c := t.columns[col]
			if c.Width > 0 {
				// +2 for the horizontal padding.
				s = s.Width(c.Width + 2).MaxWidth(c.Width + 2)
			}
			if c.Right && row != table.HeaderRow {
				s = s.Align(lipgloss.Right)
			}
			return s
		}).
		String()
}

// truncateCell shortens value to maxWidth display cells, ending in "...".
// Wide runes and grapheme clusters are never split. Styled strings are
// left alone since their escape codes have no display width.
func truncateCell(value string, maxWidth int) string {
	if strings.Contains(value, "\x1b[") {
		return value
	}
	if maxWidth <= 0 || runewidth.StringWidth(value) <= maxWidth {
		return value
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	budget := maxWidth - 3
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(value)
	for g.Next() {
		w := runewidth.StringWidth(g.Str())
		if used+w > budget {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	if b.Len() == 0 {
		return strings.Repeat(".", maxWidth)
	}
	return b.String() + "..."
}

// RouteTable renders `launcher routes` rows:
// route, container, port, health path, auth mode, models.
func RouteTable(rows [][]string) string {
	return NewTable(
		Column{Title: "Route"},
		Column{Title: "Container", Width: 28},
		Column{Title: "Port", Right: true},
		Column{Title: "Health"},
		Column{Title: "Auth"},
		Column{Title: "Models", Width: 40},
	).AddRows(rows).Render()
}

// ModelTable renders the model index: id, route, owner.
func ModelTable(rows [][]string) string {
	return NewTable(
		Column{Title: "Model", Width: 40},
		Column{Title: "Route"},
		Column{Title: "Owned By"},
	).AddRows(rows).Render()
}

// StatsTable renders `launcher stats` rows: container, state, last hit,
// start count, last and average cold start.
func StatsTable(rows [][]string) string {
	return NewTable(
		Column{Title: "Container", Width: 28},
		Column{Title: "State"},
		Column{Title: "Last Hit", Right: true},
		Column{Title: "Starts", Right: true},
		Column{Title: "Last Start", Right: true},
		Column{Title: "Avg Start", Right: true},
	).AddRows(rows).Render()
}
