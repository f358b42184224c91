package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 100
	MaxViewportWidth  = 150
	DefaultWidth      = 120 // Used when terminal size is unknown
	DefaultHeight     = 35
	MinViewportHeight = 24
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // clamped terminal height
	InnerWidth     int // ViewportWidth - 2 (content inside borders)
	TableWidth     int // InnerWidth - padding
	TableHeight    int // visible data rows in the main table
}

// NewLayout creates a Layout from the terminal size, clamping to min/max
func NewLayout(width, height int) Layout {
	w := clamp(width, MinViewportWidth, MaxViewportWidth)
	h := height
	if h < MinViewportHeight {
		h = MinViewportHeight
	}
	// viewport minus borders, header block, pagination and help box
	tableHeight := h - 14
	if tableHeight < 5 {
		tableHeight = 5
	}
	return Layout{
		ViewportWidth:  w,
		ViewportHeight: h,
		InnerWidth:     w - 2,
		TableWidth:     w - 4,
		TableHeight:    tableHeight,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("39")  // blue
	ColorHighlight = lipgloss.Color("24")  // dark blue background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorUp        = lipgloss.Color("196") // red, price went up
	ColorDown      = lipgloss.Color("82")  // green, price went down
	ColorWarn      = lipgloss.Color("208") // orange
)

// Common styles - reusable style definitions
var (
	// Border style for main viewport
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Title style for section headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	// Selected row/item style
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	// Normal text style
	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	// Hint/help text style
	HintStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// Accent style for highlighted text (yellow)
	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Dim style for secondary info
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// Price movement styles
	PriceUpStyle = lipgloss.NewStyle().
			Foreground(ColorUp)

	PriceDownStyle = lipgloss.NewStyle().
			Foreground(ColorDown)

	// Warning style for stale/offline indicators
	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarn).
			Bold(true)

	// Error style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorUp).
			Bold(true)

	// Success style
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorDown).
			Bold(true)
)

// RenderTitle renders a section title
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderDim renders secondary text
func RenderDim(text string) string {
	return DimStyle.Render(text)
}

// RenderNormal renders body text
func RenderNormal(text string) string {
	return NormalStyle.Render(text)
}

// RenderSelectedWidth renders text as a selected row padded to width
func RenderSelectedWidth(text string, width int) string {
	if StringWidth(text) < width {
		text += strings.Repeat(" ", width-StringWidth(text))
	}
	return SelectedStyle.Render(text)
}

// StringWidth returns the printable width of a string, ANSI-aware
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

// stripEscapeCodes removes ANSI escape sequences from a string
func stripEscapeCodes(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// truncateToWidth cuts a string down to the given printable width
func truncateToWidth(s string, width int) string {
	if StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && StringWidth(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

// Truncate shortens a string to width, appending an ellipsis when cut
func Truncate(s string, width int) string {
	if StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return truncateToWidth(s, width)
	}
	return truncateToWidth(s, width-1) + "…"
}

// BuildTwoBoxView renders the standard layout: a bordered main box and a
// single-row help box underneath with centered help text.
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	main := BorderStyle.
		Width(layout.InnerWidth).
		Render(content)

	help := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTextDim).
		Width(layout.InnerWidth).
		Render(CenterText(HintStyle.Render(helpText), layout.InnerWidth))

	return main + "\n" + help
}

// ApplyTableStyles sets the shared bubbles/table styling. Selection uses a
// neutral background; RenderTableWithSelection paints the visible cursor row.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(ColorText).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorTextDim).
		BorderBottom(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
}

// NewAppSpinner creates the standard dot spinner
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAccent)
	return s
}

// NewAppTheme creates a huh theme matching the app's style guide
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorHighlight).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(ColorUp)

	return t
}
