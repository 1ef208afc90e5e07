package xconsole

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dianlight/xconsole/stack"
	slogformatter "github.com/samber/slog-formatter"
)

// Handler returns a slog.Handler that renders records through the logger:
// the record's level picks the severity, its PC the call site, and the
// message is followed by key=value attributes. Error attributes are
// rewritten to their description.
//
//	slog.SetDefault(slog.New(logger.Handler()))
func (l *Logger) Handler() slog.Handler {
	return slogformatter.NewFormatterHandler(l.ErrorFormatter())(&recordHandler{logger: l})
}

// ErrorFormatter is a slog-formatter Formatter replacing error values with
// their description, or their raw stack when FormatErrors is off.
func (l *Logger) ErrorFormatter() slogformatter.Formatter {
	return slogformatter.FormatByType(func(err error) slog.Value {
		if !l.config.FormatErrors {
			return slog.StringValue(RawStack(err))
		}
		return slog.StringValue(l.describer.Describe(err))
	})
}

type recordHandler struct {
	logger *Logger
	attrs  []string
	group  string
}

func (h *recordHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.gate.Enabled(SeverityFromSlog(level))
}

func (h *recordHandler) Handle(_ context.Context, record slog.Record) error {
	severity := SeverityFromSlog(record.Level)
	if !h.logger.gate.Enabled(severity) {
		return nil
	}
	r := h.logger.reporters[severity]

	var site *CallSite
	if record.PC != 0 {
		site = h.logger.logCallSite(stack.FromPCs([]uintptr{record.PC}), 0)
	}
	ctx := LogContext{
		Severity: severity,
		Color:    r.color,
		CallSite: site,
		Time:     record.Time,
	}
	if ctx.Time.IsZero() {
		ctx.Time = h.logger.now()
	}

	args := make([]any, 0, 1+len(h.attrs)+record.NumAttrs())
	if record.Message != "" {
		args = append(args, record.Message)
	}
	for _, attr := range h.attrs {
		args = append(args, attr)
	}
	record.Attrs(func(a slog.Attr) bool {
		args = appendAttr(args, h.group, a)
		return true
	})

	line := r.line.FormatLine(ctx)
	r.sink.Write(line, joinFormatter{stringify: plainString}.FormatArgs(ctx, args))
	return nil
}

func (h *recordHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]string, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	var rendered []any
	for _, a := range attrs {
		rendered = appendAttr(rendered, h.group, a)
	}
	for _, a := range rendered {
		next.attrs = append(next.attrs, a.(string))
	}
	return &next
}

func (h *recordHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = joinKey(h.group, name)
	return &next
}

// appendAttr renders a as key=value, flattening groups into dotted keys.
func appendAttr(args []any, group string, a slog.Attr) []any {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return args
	}
	if a.Value.Kind() == slog.KindGroup {
		prefix := joinKey(group, a.Key)
		for _, child := range a.Value.Group() {
			args = appendAttr(args, prefix, child)
		}
		return args
	}
	return append(args, joinKey(group, a.Key)+"="+a.Value.String())
}

func joinKey(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	default:
		return strings.Join([]string{group, key}, ".")
	}
}
