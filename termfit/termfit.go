// Package termfit truncates colorized text to a terminal width.
//
// Widths are measured in visible columns: ANSI escape sequences count as
// zero and East Asian wide runes count as two.
package termfit

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Ellipsis is appended to every truncated line, before the caller's suffix.
const Ellipsis = "..."

const esc = 0x1b

// Fit truncates every line of text independently so it fits in columns.
// A line whose visible width is at most columns is returned unchanged.
// Longer lines keep as many runes as fit in columns - VisibleWidth(suffix) - 3
// and end in Ellipsis followed by suffix.
func Fit(text, suffix string, columns int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = fitLine(line, suffix, columns)
	}
	return strings.Join(lines, "\n")
}

func fitLine(line, suffix string, columns int) string {
	if VisibleWidth(line) <= columns {
		return line
	}
	limit := columns - VisibleWidth(suffix) - len(Ellipsis)

	var b strings.Builder
	visible := 0
	for i := 0; i < len(line); {
		if n := escapeLen(line[i:]); n > 0 {
			b.WriteString(line[i : i+n])
			i += n
			continue
		}
		r, size := utf8.DecodeRuneInString(line[i:])
		w := runeWidth(r)
		if visible+w > limit {
			break
		}
		b.WriteString(line[i : i+size])
		visible += w
		i += size
	}
	b.WriteString(Ellipsis)
	b.WriteString(suffix)
	return b.String()
}

// VisibleWidth returns the number of terminal columns s occupies.
func VisibleWidth(s string) int {
	total := 0
	for i := 0; i < len(s); {
		if n := escapeLen(s[i:]); n > 0 {
			i += n
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		total += runeWidth(r)
		i += size
	}
	return total
}

// Strip removes every escape sequence from s.
func Strip(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if n := escapeLen(s[i:]); n > 0 {
			i += n
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// escapeLen returns the byte length of the escape sequence at the start of
// s, or 0 when s does not start with one. It recognizes CSI (ESC [ ... final),
// OSC (ESC ] ... BEL or ESC \) and two-byte ESC sequences. An unterminated
// sequence extends to the end of s.
func escapeLen(s string) int {
	if len(s) == 0 || s[0] != esc {
		return 0
	}
	if len(s) == 1 {
		return 1
	}
	switch s[1] {
	case '[':
		for i := 2; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return len(s)
	case ']':
		for i := 2; i < len(s); i++ {
			if s[i] == 0x07 {
				return i + 1
			}
			if s[i] == esc && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return len(s)
	default:
		return 2
	}
}

func runeWidth(r rune) int {
	if r == utf8.RuneError || !unicode.IsPrint(r) && r != '\t' {
		return 0
	}
	if unicode.Is(unicode.Mn, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
