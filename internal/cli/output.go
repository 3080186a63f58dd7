// Package cli provides terminal output helpers for the trap command
package cli

import (
	"fmt"
	"io"
	"os"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// Printer writes status lines, colored when attached to a terminal
type Printer struct {
	w        io.Writer
	colorize bool
}

// NewPrinter creates a printer for w. Colors are enabled only when w is a
// terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, colorize: IsTerminal(w)}
}

// DisableColor disables colored output
func (p *Printer) DisableColor() *Printer {
	p.colorize = false
	return p
}

// Colorize returns text wrapped in color when colors are enabled
func (p *Printer) Colorize(text, color string) string {
	if !p.colorize {
		return text
	}
	return color + text + ColorReset
}

// Success prints a success message
func (p *Printer) Success(message string) {
	fmt.Fprintf(p.w, "%s %s\n", p.Colorize("✓", ColorGreen), message)
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.w, "%s %s\n", p.Colorize("✗", ColorRed), message)
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	fmt.Fprintf(p.w, "%s %s\n", p.Colorize("⚠", ColorYellow), message)
}

// Info prints an info message
func (p *Printer) Info(message string) {
	fmt.Fprintf(p.w, "%s %s\n", p.Colorize("ℹ", ColorBlue), message)
}

// IsTerminal reports whether w is a character device
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
