package xconsole

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dianlight/xconsole/stack"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/text/language"
)

// CallSite is the frame a log line or error is attributed to.
type CallSite struct {
	// File is the path as captured.
	File string
	// Path is File after FormatPath.
	Path string
	// Function is the function name, or the configured alias when it has none.
	Function string
	Line     int
	Column   int
}

func newCallSite(frame stack.Frame, mode PathMode, projectRoot, alias string) *CallSite {
	function := frame.Function
	if function == "" {
		function = alias
	}
	return &CallSite{
		File:     frame.File,
		Path:     FormatPath(frame.File, mode, projectRoot),
		Function: function,
		Line:     frame.Line,
		Column:   frame.Column,
	}
}

// LogContext describes one log call. It is built per call and never mutated.
type LogContext struct {
	Severity Severity
	// Color is the escape sequence of the severity tag, empty when colors are off.
	Color string
	// CallSite is nil when the caller's frame could not be resolved.
	CallSite *CallSite
	Time     time.Time
}

// LineFormatter renders the prefix of a log line.
type LineFormatter interface {
	FormatLine(ctx LogContext) string
}

// LineFormatterFunc adapts a function to LineFormatter.
type LineFormatterFunc func(ctx LogContext) string

func (f LineFormatterFunc) FormatLine(ctx LogContext) string { return f(ctx) }

// ArgumentFormatter renders the caller's arguments.
type ArgumentFormatter interface {
	FormatArgs(ctx LogContext, args []any) string
}

// ArgumentFormatterFunc adapts a function to ArgumentFormatter.
type ArgumentFormatterFunc func(ctx LogContext, args []any) string

func (f ArgumentFormatterFunc) FormatArgs(ctx LogContext, args []any) string { return f(ctx, args) }

// Gate can veto a log call after its context has been resolved.
type Gate interface {
	Allow(ctx LogContext, args []any) bool
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx LogContext, args []any) bool

func (f GateFunc) Allow(ctx LogContext, args []any) bool { return f(ctx, args) }

// AllowAll is the default Gate.
var AllowAll Gate = GateFunc(func(LogContext, []any) bool { return true })

// lineFormatter renders
//
//	<color><time> [<SEVERITY>]<reset> <path> - Line <line> (<green><function><reset>):
type lineFormatter struct {
	reset     string
	funcColor string
	clock     clockFormat
}

func (f lineFormatter) FormatLine(ctx LogContext) string {
	var b strings.Builder
	b.WriteString(ctx.Color)
	b.WriteString(f.clock.format(ctx.Time))
	b.WriteString(" [")
	b.WriteString(ctx.Severity.String())
	b.WriteString("]")
	b.WriteString(f.reset)
	if site := ctx.CallSite; site != nil {
		b.WriteString(" ")
		b.WriteString(site.Path)
		b.WriteString(" - Line ")
		b.WriteString(strconv.Itoa(site.Line))
		b.WriteString(" (")
		b.WriteString(f.funcColor)
		b.WriteString(site.Function)
		b.WriteString(f.reset)
		b.WriteString(")")
	}
	b.WriteString(":")
	return b.String()
}

// JoinArguments stringifies every argument and joins them with single spaces.
func JoinArguments() ArgumentFormatter {
	return joinFormatter{stringify: plainString}
}

// ErrorArguments formats like JoinArguments but replaces a trailing error
// argument with describe(err).
func ErrorArguments(describe func(error) string) ArgumentFormatter {
	return errorFormatter{describe: describe, stringify: plainString}
}

type joinFormatter struct {
	stringify func(any) string
}

func (f joinFormatter) FormatArgs(_ LogContext, args []any) string {
	return joinArgs(args, f.stringify)
}

type errorFormatter struct {
	describe  func(error) string
	stringify func(any) string
}

func (f errorFormatter) FormatArgs(_ LogContext, args []any) string {
	if len(args) == 0 {
		return ""
	}
	last := args[len(args)-1]
	var tail string
	if err, ok := last.(error); ok && err != nil {
		tail = f.describe(err)
	} else {
		tail = f.stringify(last)
	}
	if len(args) == 1 {
		return tail
	}
	return joinArgs(args[:len(args)-1], f.stringify) + " " + tail
}

func joinArgs(args []any, stringify func(any) string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = stringify(arg)
	}
	return strings.Join(parts, " ")
}

func plainString(v any) string {
	return fmt.Sprint(v)
}

// prettyString renders composite values with pp and everything else like plainString.
func prettyString(printer *pp.PrettyPrinter) func(any) string {
	return func(v any) string {
		if v == nil {
			return plainString(v)
		}
		if _, ok := v.(error); ok {
			return plainString(v)
		}
		if _, ok := v.(fmt.Stringer); ok {
			return plainString(v)
		}
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		switch rv.Kind() {
		case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
			return printer.Sprint(v)
		}
		return plainString(v)
	}
}

// clockFormat renders time-of-day in a zone with the hour cycle of a locale.
type clockFormat struct {
	location *time.Location
	layout   string
}

const (
	layout24h = "15:04:05"
	layout12h = "03:04:05 PM"
)

// twelveHourRegions use a 12-hour clock by default.
var twelveHourRegions = map[string]struct{}{
	"US": {}, "CA": {}, "AU": {}, "NZ": {}, "IN": {}, "PH": {},
	"PK": {}, "BD": {}, "EG": {}, "SA": {}, "MY": {}, "CO": {},
}

func newClockFormat(location *time.Location, locale string) clockFormat {
	if location == nil {
		location = time.Local
	}
	return clockFormat{location: location, layout: hourLayout(locale)}
}

func hourLayout(locale string) string {
	if locale == "" {
		return layout24h
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return layout24h
	}
	region, _ := tag.Region()
	if _, ok := twelveHourRegions[region.String()]; ok {
		return layout12h
	}
	return layout24h
}

func (c clockFormat) format(t time.Time) string {
	return t.In(c.location).Format(c.layout)
}
