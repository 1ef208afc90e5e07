package xconsole

import (
	"os"
	"strconv"

	"github.com/dianlight/xconsole/termfit"
	"golang.org/x/term"
)

// defaultColumns is used when no terminal width can be determined.
const defaultColumns = 80

// FitToWidth truncates every line of text to columns visible characters,
// ending cut lines with "..." and suffix. See termfit.Fit.
func FitToWidth(text, suffix string, columns int) string {
	return termfit.Fit(text, suffix, columns)
}

// TerminalColumns returns the width of the terminal behind f, then the
// COLUMNS environment variable, then 80.
func TerminalColumns(f *os.File) int {
	if f != nil {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	if columns, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && columns > 0 {
		return columns
	}
	return defaultColumns
}

// FitOnTerm fits text to the width of the logger's terminal.
func (l *Logger) FitOnTerm(text, suffix string) string {
	return termfit.Fit(text, suffix, TerminalColumns(l.terminal))
}
