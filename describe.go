package xconsole

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/dianlight/xconsole/stack"
	"gitlab.com/tozd/go/errors"
)

// genericErrorPackages build errors whose type name says nothing useful;
// their errors are named "Error".
var genericErrorPackages = map[string]struct{}{
	"errors":                    {},
	"fmt":                       {},
	"gitlab.com/tozd/go/errors": {},
	"github.com/pkg/errors":     {},
}

// ErrorDescriber turns errors into one-line descriptions annotated with the
// place they were created.
type ErrorDescriber struct {
	Resolver    stack.Resolver
	Mode        PathMode
	ProjectRoot string
	// Alias replaces an empty function name.
	Alias string
}

// NewErrorDescriber configures a describer from the error-side settings of cfg.
func NewErrorDescriber(cfg Config) *ErrorDescriber {
	return &ErrorDescriber{
		Resolver:    stack.Resolver{ExcludeDependencies: cfg.IgnoreNodeModulesErrors},
		Mode:        cfg.ErrorFilenamesFormat,
		ProjectRoot: cfg.ProjectRoot,
		Alias:       cfg.ErrorFilenamesAnonymousObjectAlias,
	}
}

// DescribeError describes err using DefaultConfig.
func DescribeError(err error) string {
	return NewErrorDescriber(DefaultConfig()).Describe(err)
}

// Describe returns "(<name>) <first line of message>" followed by
// " (<path>:<function>:<line>[:<column>])" when the error carries a stack
// trace with a resolvable origin.
func (d *ErrorDescriber) Describe(err error) string {
	if err == nil {
		return fmt.Sprint(err)
	}
	description := "(" + ErrorName(err) + ") " + firstLine(safeMessage(err))
	site, ok := d.Origin(err)
	if !ok {
		return description
	}

	var fields []string
	for _, field := range []string{site.Path, site.Function, positiveString(site.Line), positiveString(site.Column)} {
		if field != "" {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return description
	}
	return description + " (" + strings.Join(fields, ":") + ")"
}

// Origin resolves where err was created from the deepest stack trace in its
// chain. Errors without a stack trace have no origin.
func (d *ErrorDescriber) Origin(err error) (*CallSite, bool) {
	pcs := stackTrace(err)
	if len(pcs) == 0 {
		return nil, false
	}
	frame, ok := d.Resolver.Scan(stack.FromPCs(pcs))
	if !ok {
		return nil, false
	}
	return newCallSite(frame, d.Mode, d.ProjectRoot, d.Alias), true
}

// RawStack renders err with its stack trace, as printed by "%+v".
func RawStack(err error) string {
	if err == nil {
		return fmt.Sprint(err)
	}
	if len(stackTrace(err)) == 0 {
		return safeMessage(err)
	}
	return fmt.Sprintf("%+v", err)
}

// ErrorName names the kind of err: the result of a Name() method when err
// has one, otherwise its type name, or "Error" for generic constructors.
func ErrorName(err error) string {
	if name := safeName(err); name != "" {
		return name
	}
	t := reflect.TypeOf(err)
	if t == nil {
		return "Error"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if _, generic := genericErrorPackages[t.PkgPath()]; generic || t.Name() == "" {
		return "Error"
	}
	return t.Name()
}

func stackTrace(err error) (pcs []uintptr) {
	defer func() {
		if r := recover(); r != nil {
			pcs = nil
		}
	}()
	for e := err; e != nil; e = errors.Unwrap(e) {
		if tracer, ok := e.(interface{ StackTrace() []uintptr }); ok {
			if trace := tracer.StackTrace(); len(trace) > 0 {
				pcs = trace
			}
		}
	}
	return pcs
}

// safeName calls err.Name when err has one. A panicking Name (typically a
// nil pointer receiver) yields "".
func safeName(err error) (name string) {
	named, ok := err.(interface{ Name() string })
	if !ok {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			name = ""
		}
	}()
	return named.Name()
}

// safeMessage calls err.Error, falling back to fmt when it panics
// (typically a nil pointer receiver).
func safeMessage(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprint(err)
		}
	}()
	return err.Error()
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimRight(s[:idx], "\r")
	}
	return s
}

func positiveString(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
