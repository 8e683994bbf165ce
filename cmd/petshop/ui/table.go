package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable renders static rows with aligned columns.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string

	// Right lists column indices to right-align (prices, quantities).
	Right map[int]bool

	// Cell optionally styles a cell after padding; nil uses the body style.
	Cell func(row, col int, text string) lipgloss.Style
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
		Right:   make(map[int]bool),
	}
}

// AlignRight marks columns as right-aligned.
func (t *SimpleTable) AlignRight(cols ...int) *SimpleTable {
	for _, c := range cols {
		t.Right[c] = true
	}
	return t
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Widths returns each column's content width plus one cell of padding on
// either side.
func (t *SimpleTable) Widths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}
	return widths
}

// View renders the table using the provided styles. An empty table renders
// as an empty string.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	widths := t.Widths()
	sep := styles.Muted.Render("│")

	align := func(col int) lipgloss.Position {
		if t.Right[col] {
			return lipgloss.Right
		}
		return lipgloss.Left
	}

	for i, h := range t.Headers {
		sb.WriteString(styles.Bold.Padding(0, 1).Width(widths[i]).Align(align(i)).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	total := len(t.Headers) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("─", total)))
	sb.WriteString("\n")

	for r, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			style := styles.Body
			if t.Cell != nil {
				style = t.Cell(r, i, cell)
			}
			sb.WriteString(style.Padding(0, 1).Width(widths[i]).Align(align(i)).Render(cell))
			if i < len(row)-1 && i < len(widths)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
