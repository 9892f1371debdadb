// Package cli provides the command-line surface styling and output helpers
// for cmd/loudnorm, independent of the progress TUI in internal/tui.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// The palette leans on the terminal's own ANSI colors rather than fixed hex
// values, so output stays legible on light and dark backgrounds alike.
const (
	colorAccent = lipgloss.Color("12") // bright blue
	colorDim    = lipgloss.Color("8")
	colorStrong = lipgloss.Color("15")
	colorAlert  = lipgloss.Color("9")
	colorNotice = lipgloss.Color("11")
)

var (
	heading = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	label   = lipgloss.NewStyle().Foreground(colorDim)
	value   = lipgloss.NewStyle().Foreground(colorStrong).Bold(true)
	alert   = lipgloss.NewStyle().Foreground(colorAlert).Bold(true)
	notice  = lipgloss.NewStyle().Foreground(colorNotice).Bold(true)
)

// PrintVersion prints the program name and version.
func PrintVersion(version string) {
	fmt.Printf("%s %s\n", heading.Render("loudnorm"), label.Render(version))
}

// PrintError writes an error line to stderr.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", alert.Render("error:"), message)
}

// PrintWarning writes a warning line to stderr, used for degradations the
// analysis surfaces without erroring (a file too short for its method, for
// example).
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", notice.Render("warning:"), message)
}
