package ui

import (
	"fmt"
)

// PrintSuccess prints a green success line to stdout. Used by the main loop
// between TUI programs.
func PrintSuccess(msg string) {
	fmt.Println(SuccessStyle.Render("✓ " + msg))
}

// PrintError prints a red error line to stdout.
func PrintError(msg string) {
	fmt.Println(ErrorStyle.Render("✗ " + msg))
}

// PrintInfo prints a dim informational line to stdout.
func PrintInfo(msg string) {
	fmt.Println(DimStyle.Render(msg))
}
