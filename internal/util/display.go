package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Terminal colors
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorBold   = "\033[1m"
)

const defaultTerminalWidth = 100

// GetDisplayWidth calculates the display width of a string, counting CJK
// characters and emoji as two cells.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads s with spaces to the given display width.
func PadString(s string, width int, leftAlign bool) string {
	actual := GetDisplayWidth(s)
	if actual >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// TruncateString shortens s to width display cells, ending with "…".
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// TerminalWidth reports the width of stdout, or a fallback when stdout is
// not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width < 40 {
		return defaultTerminalWidth
	}
	return width
}

// IsColorTerminal reports whether ANSI colors should be used on stdout.
func IsColorTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
}

// Colorize wraps text in an ANSI color when enabled.
func Colorize(text, color string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	return fmt.Sprintf("%s%s%s", color, text, ColorReset)
}
