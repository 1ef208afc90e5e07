package xconsole

import (
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// colorAttributes names the escape codes of the built-in color table.
var colorAttributes = map[string]color.Attribute{
	"Reset":      color.Reset,
	"Bright":     color.Bold,
	"Dim":        color.Faint,
	"Underscore": color.Underline,
	"Blink":      color.BlinkSlow,
	"Reverse":    color.ReverseVideo,
	"Hidden":     color.Concealed,

	"FgBlack":   color.FgBlack,
	"FgRed":     color.FgRed,
	"FgGreen":   color.FgGreen,
	"FgYellow":  color.FgYellow,
	"FgBlue":    color.FgBlue,
	"FgMagenta": color.FgMagenta,
	"FgCyan":    color.FgCyan,
	"FgWhite":   color.FgWhite,
	"FgGray":    color.FgHiBlack,

	"BgBlack":   color.BgBlack,
	"BgRed":     color.BgRed,
	"BgGreen":   color.BgGreen,
	"BgYellow":  color.BgYellow,
	"BgBlue":    color.BgBlue,
	"BgMagenta": color.BgMagenta,
	"BgCyan":    color.BgCyan,
	"BgWhite":   color.BgWhite,
	"BgGray":    color.BgHiBlack,
}

// functionColorToken colors the function name in the default line layout.
const functionColorToken = "FgGreen"

// DefaultColors returns a fresh copy of the built-in color table.
func DefaultColors() map[string]string {
	colors := make(map[string]string, len(colorAttributes))
	for name, attr := range colorAttributes {
		colors[name] = escape(attr)
	}
	return colors
}

func escape(attr color.Attribute) string {
	return "\x1b[" + strconv.Itoa(int(attr)) + "m"
}

// palette resolves color tokens; a disabled palette renders every token empty.
type palette struct {
	tokens  map[string]string
	enabled bool
}

func (p palette) token(name string) string {
	if !p.enabled {
		return ""
	}
	return p.tokens[name]
}

// isTerminalSupported checks if f is a terminal that accepts colors
func isTerminalSupported(f *os.File) bool {
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) || strings.Contains(os.Getenv("TERM"), "color") && !color.NoColor
}
