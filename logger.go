package xconsole

import (
	"os"
	"time"

	"github.com/dianlight/xconsole/stack"
	"github.com/k0kubun/pp/v3"
)

// logCallDepth is the backtrace index of the user's call site as seen from
// emit: [emit, exported reporting method or Reporter closure, caller].
const logCallDepth = 2

// Logger renders call-site annotated log lines. It is built once from a
// Config and is safe for concurrent use; nothing in it changes after New.
type Logger struct {
	config    Config
	colors    palette
	gate      LevelGate
	clock     clockFormat
	now       func() time.Time
	describer *ErrorDescriber
	sinks     [3]Sink
	terminal  *os.File
	pretty    bool

	reporters [3]*reporter
}

// LoggerOption is a functional option for configuring a Logger
type LoggerOption func(*Logger)

// WithOutput routes one severity to sink.
func WithOutput(severity Severity, sink Sink) LoggerOption {
	return func(l *Logger) {
		if severity.valid() && sink != nil {
			l.sinks[severity] = sink
		}
	}
}

// WithColors forces colored output on or off instead of detecting a terminal.
func WithColors(enabled bool) LoggerOption {
	return func(l *Logger) {
		l.colors.enabled = enabled
	}
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) LoggerOption {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithTerminal sets the file whose width FitOnTerm measures.
func WithTerminal(f *os.File) LoggerOption {
	return func(l *Logger) {
		l.terminal = f
	}
}

// WithPrettyArguments renders struct, map and slice arguments with pp.
func WithPrettyArguments() LoggerOption {
	return func(l *Logger) {
		l.pretty = true
	}
}

// New validates cfg and builds a Logger. By default INFO goes to stdout,
// WARN and ERROR to stderr, and colors are enabled when stdout is a terminal.
func New(cfg Config, opts ...LoggerOption) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	location, err := cfg.location()
	if err != nil {
		return nil, err
	}
	cfg = cfg.clone()

	stdout, stderr := WriterSink(os.Stdout), WriterSink(os.Stderr)
	l := &Logger{
		config:    cfg,
		colors:    palette{tokens: cfg.Colors, enabled: isTerminalSupported(os.Stdout)},
		gate:      LevelGate(cfg.LogLevel),
		clock:     newClockFormat(location, cfg.Locale),
		now:       time.Now,
		describer: NewErrorDescriber(cfg),
		sinks:     [3]Sink{SeverityInfo: stdout, SeverityWarn: stderr, SeverityError: stderr},
		terminal:  os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}
	for _, severity := range []Severity{SeverityInfo, SeverityWarn, SeverityError} {
		l.reporters[severity] = l.newReporter(severity)
	}
	return l, nil
}

// Config returns a copy of the configuration the logger was built with.
func (l *Logger) Config() Config {
	return l.config.clone()
}

// Enabled reports whether severity passes the configured verbosity threshold.
func (l *Logger) Enabled(severity Severity) bool {
	return l.gate.Enabled(severity)
}

// Report logs args at INFO.
func (l *Logger) Report(args ...any) {
	l.emit(l.reporters[SeverityInfo], args)
}

// ReportWarn logs args at WARN.
func (l *Logger) ReportWarn(args ...any) {
	l.emit(l.reporters[SeverityWarn], args)
}

// ReportError logs args at ERROR. A trailing error argument is replaced by
// its description (or its raw stack when FormatErrors is off).
func (l *Logger) ReportError(args ...any) {
	l.emit(l.reporters[SeverityError], args)
}

// DescribeError describes err with the logger's error-side settings.
func (l *Logger) DescribeError(err error) string {
	return l.describer.Describe(err)
}

// reporter is one configured emit pipeline.
type reporter struct {
	severity Severity
	color    string
	line     LineFormatter
	args     ArgumentFormatter
	gate     Gate
	sink     Sink
}

// ReporterOption customizes a reporter built by Logger.Reporter.
type ReporterOption func(*reporter)

// WithLineFormatter replaces the line prefix layout.
func WithLineFormatter(f LineFormatter) ReporterOption {
	return func(r *reporter) {
		if f != nil {
			r.line = f
		}
	}
}

// WithArgumentFormatter replaces how arguments are rendered.
func WithArgumentFormatter(f ArgumentFormatter) ReporterOption {
	return func(r *reporter) {
		if f != nil {
			r.args = f
		}
	}
}

// WithGate adds a veto consulted after the verbosity threshold.
func WithGate(g Gate) ReporterOption {
	return func(r *reporter) {
		if g != nil {
			r.gate = g
		}
	}
}

// WithSink sends the reporter's lines to sink instead of the severity's output.
func WithSink(sink Sink) ReporterOption {
	return func(r *reporter) {
		if sink != nil {
			r.sink = sink
		}
	}
}

// Reporter builds a log function for severity. Without options it behaves
// like the matching Report method.
func (l *Logger) Reporter(severity Severity, opts ...ReporterOption) func(args ...any) {
	r := l.newReporter(severity)
	for _, opt := range opts {
		opt(r)
	}
	return func(args ...any) {
		l.emit(r, args)
	}
}

func (l *Logger) newReporter(severity Severity) *reporter {
	if !severity.valid() {
		severity = SeverityInfo
	}
	stringify := plainString
	if l.pretty {
		printer := pp.New()
		printer.SetColoringEnabled(l.colors.enabled)
		stringify = prettyString(printer)
	}

	var args ArgumentFormatter = joinFormatter{stringify: stringify}
	if severity == SeverityError {
		describe := l.describer.Describe
		if !l.config.FormatErrors {
			describe = RawStack
		}
		args = errorFormatter{describe: describe, stringify: stringify}
	}

	return &reporter{
		severity: severity,
		color:    l.colors.token(severity.ColorToken()),
		line: lineFormatter{
			reset:     l.colors.token("Reset"),
			funcColor: l.colors.token(functionColorToken),
			clock:     l.clock,
		},
		args: args,
		gate: AllowAll,
		sink: l.sinks[severity],
	}
}

// emit is the low-level logging method. It must always be called directly
// by an exported logging method or a Reporter closure, because it uses a
// fixed call depth to find the call site.
func (l *Logger) emit(r *reporter, args []any) {
	if !l.gate.Enabled(r.severity) {
		return
	}
	trace := stack.Capture(0)
	ctx := LogContext{
		Severity: r.severity,
		Color:    r.color,
		CallSite: l.logCallSite(trace, logCallDepth),
		Time:     l.now(),
	}
	l.dispatch(r, ctx, args)
}

func (l *Logger) dispatch(r *reporter, ctx LogContext, args []any) {
	if !r.gate.Allow(ctx, args) {
		return
	}
	r.sink.Write(r.line.FormatLine(ctx), r.args.FormatArgs(ctx, args))
}

// logCallSite resolves the frame at depth with the log-side path settings.
func (l *Logger) logCallSite(trace []stack.RawFrame, depth int) *CallSite {
	frame, ok := stack.AtDepth(trace, depth)
	if !ok {
		return nil
	}
	return newCallSite(frame, l.config.LogFilenamesFormat, l.config.ProjectRoot, l.config.LogFilenamesAnonymousObjectAlias)
}
