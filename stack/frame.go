// Package stack captures backtraces as text and resolves call sites from them.
//
// A backtrace line is a RawFrame in one of two conventions:
//
//	at main.handler (/srv/app/main.go:42:7)   // function and parenthesized location
//	at /srv/app/main.go:42                    // bare location, no function
//
// Parse turns a RawFrame into a Frame. Capture and FromPCs render Go runtime
// frames in the same textual form, so call sites captured in-process and
// traces pasted from elsewhere go through the same parser.
package stack

import (
	"strconv"
	"strings"
)

// RawFrame is one unparsed line of a backtrace.
type RawFrame = string

// Frame is a parsed backtrace line.
// Function is empty when the frame has no (or an anonymous) function name
// and Column is zero when the line carries no column.
type Frame struct {
	Function string
	File     string
	Line     int
	Column   int
}

// anonymousMarkers are function names that stand for "no name".
var anonymousMarkers = map[string]struct{}{
	"<anonymous>":        {},
	"Object.<anonymous>": {},
}

// Parse parses one backtrace line. It returns false when the line matches
// neither convention or carries no usable line number.
func Parse(raw RawFrame) (Frame, bool) {
	line := strings.TrimSpace(raw)
	rest, ok := strings.CutPrefix(line, "at ")
	if !ok {
		return Frame{}, false
	}
	rest = strings.TrimSpace(rest)

	var function, location string
	if idx := strings.Index(rest, " ("); idx > 0 && strings.HasSuffix(rest, ")") {
		function = strings.TrimSpace(rest[:idx])
		location = rest[idx+2 : len(rest)-1]
	} else {
		location = rest
	}

	// eval frames nest another frame in the location:
	// at eval (eval at <anonymous> (/x.js:1:1), <anonymous>:1:1)
	if strings.Contains(location, "), ") {
		return Frame{}, false
	}

	file, lineNo, column, ok := parseLocation(location)
	if !ok {
		return Frame{}, false
	}
	if _, anon := anonymousMarkers[function]; anon {
		function = ""
	}
	return Frame{Function: function, File: file, Line: lineNo, Column: column}, true
}

// parseLocation splits "<path>:<line>[:<column>]" reading numbers from the right.
func parseLocation(location string) (file string, line, column int, ok bool) {
	tokens := strings.Split(strings.TrimSpace(location), ":")
	if len(tokens) < 2 {
		return "", 0, 0, false
	}

	last, err := positive(tokens[len(tokens)-1])
	if err != nil {
		return "", 0, 0, false
	}
	pathTokens := tokens[:len(tokens)-1]
	line = last
	if len(tokens) >= 3 {
		if prev, perr := positive(tokens[len(tokens)-2]); perr == nil {
			line, column = prev, last
			pathTokens = tokens[:len(tokens)-2]
		}
	}
	if line <= 0 {
		return "", 0, 0, false
	}

	file = joinPath(pathTokens)
	if file == "" {
		return "", 0, 0, false
	}
	return file, line, column, true
}

// positive parses a non-negative decimal made only of digits.
func positive(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// joinPath reassembles the colon-split path tokens. A single letter followed
// by a segment starting with a separator is a drive letter ("C:\src");
// every other colon belongs to the path itself.
func joinPath(tokens []string) string {
	var b strings.Builder
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if i > 0 {
			b.WriteByte(':')
		}
		if isDriveLetter(tok) && i+1 < len(tokens) && startsWithSeparator(tokens[i+1]) {
			b.WriteString(tok)
			b.WriteByte(':')
			b.WriteString(tokens[i+1])
			i++
			continue
		}
		b.WriteString(tok)
	}
	return strings.TrimSpace(b.String())
}

func isDriveLetter(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0] | 0x20
	return c >= 'a' && c <= 'z'
}

func startsWithSeparator(s string) bool {
	return s != "" && (s[0] == '/' || s[0] == '\\')
}

// String renders the frame back in Convention A, or B when it has no function.
func (f Frame) String() string {
	var b strings.Builder
	b.WriteString("at ")
	if f.Function != "" {
		b.WriteString(f.Function)
		b.WriteString(" (")
	}
	b.WriteString(f.File)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(f.Line))
	if f.Column > 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(f.Column))
	}
	if f.Function != "" {
		b.WriteByte(')')
	}
	return b.String()
}
