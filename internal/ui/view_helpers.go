package ui

// view_helpers.go provides common View() rendering helpers.
// Use these to build consistent layouts across all TUI models.

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
)

// RenderTableWithSelection renders a bubbles table with full-width selection
// highlight. The table's Selected style should use a neutral background, and
// this function applies the visible selection styling.
//
// Line 0 of the bubbles table output is the header row; data rows follow.
// The visible cursor position is recomputed from the table height because
// the component scrolls its internal viewport.
func RenderTableWithSelection(t table.Model, layout Layout) string {
	tableOutput := t.View()
	lines := strings.Split(tableOutput, "\n")
	var result []string

	cursor := t.Cursor()
	height := t.Height()
	totalRows := len(t.Rows())

	start := 0
	if totalRows > height {
		if cursor >= height {
			start = cursor - height + 1
		}
		maxStart := totalRows - height
		if start > maxStart {
			start = maxStart
		}
	}

	visibleCursorIndex := cursor - start

	for i, line := range lines {
		if i == 0 {
			result = append(result, NormalStyle.Render(line))
			result = append(result, strings.Repeat("─", layout.InnerWidth))
			continue
		}

		dataRowIndex := i - 1

		// Strip escape codes first so embedded resets cannot kill the
		// selection background
		if dataRowIndex == visibleCursorIndex {
			cleanLine := stripEscapeCodes(line)
			if StringWidth(cleanLine) > layout.InnerWidth {
				cleanLine = truncateToWidth(cleanLine, layout.InnerWidth)
			}
			result = append(result, RenderSelectedWidth(cleanLine, layout.InnerWidth))
			continue
		}

		result = append(result, NormalStyle.Render(line))
	}

	return strings.Join(result, "\n")
}

// ViewHeader renders title + full-width divider + spacing.
// Use at the start of all View() content to ensure consistent headers.
func ViewHeader(title string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// ViewHeaderWithSubtitle renders title + subtitle + divider + spacing.
func ViewHeaderWithSubtitle(title, subtitle string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	if subtitle != "" {
		b.WriteString(RenderDim(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// CenterText centers text within given width.
// Uses StringWidth() for accurate ANSI-aware width calculation.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	padding := (width - textW) / 2
	return strings.Repeat(" ", padding) + text
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}
