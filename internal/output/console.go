// Package output renders benchmark results for the terminal and for files.
package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for result output.
type ColorScheme struct {
	Header    *color.Color
	Label     *color.Color
	Value     *color.Color
	Highlight *color.Color
	Dim       *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:    color.New(color.FgCyan, color.Bold),
		Label:     color.New(color.FgYellow),
		Value:     color.New(color.FgWhite),
		Highlight: color.New(color.FgGreen, color.Bold),
		Dim:       color.New(color.Faint),
	}
}

// NoColorScheme returns a color scheme with all colors disabled.
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	scheme.Header.DisableColor()
	scheme.Label.DisableColor()
	scheme.Value.DisableColor()
	scheme.Highlight.DisableColor()
	scheme.Dim.DisableColor()
	return scheme
}

// IsTerminal reports whether f is an interactive terminal, so callers can
// decide whether colored output is appropriate.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
