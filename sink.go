package xconsole

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/lmittmann/tint"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
)

// Sink receives rendered log lines as a prefix and an argument string.
type Sink interface {
	Write(prefix, args string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(prefix, args string)

func (f SinkFunc) Write(prefix, args string) { f(prefix, args) }

// joinLine joins the two parts the way a console prints two values.
func joinLine(prefix, args string) string {
	if args == "" {
		return prefix
	}
	return prefix + " " + args
}

type writerSink struct {
	mu *sync.Mutex
	w  io.Writer
}

// WriterSink writes one newline-terminated line per call to w. Lines from
// concurrent callers never interleave. Write errors are dropped.
func WriterSink(w io.Writer) Sink {
	return &writerSink{mu: &sync.Mutex{}, w: w}
}

func (s *writerSink) Write(prefix, args string) {
	line := joinLine(prefix, args) + "\n"
	s.mu.Lock()
	_, _ = io.WriteString(s.w, line)
	s.mu.Unlock()
}

type slogSink struct {
	logger *slog.Logger
	level  slog.Level
}

// SlogSink forwards every line as the message of a slog record at level.
// Several handlers are fanned out with slog-multi.
func SlogSink(level slog.Level, handlers ...slog.Handler) Sink {
	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.Default().Handler()
	case 1:
		handler = handlers[0]
	default:
		handler = slogmulti.Fanout(handlers...)
	}
	return &slogSink{logger: slog.New(handler), level: level}
}

func (s *slogSink) Write(prefix, args string) {
	s.logger.Log(context.Background(), s.level, joinLine(prefix, args))
}

// NewTintHandler builds a tint console handler for SlogSink. Time and level
// are dropped because the rendered prefix already carries them.
func NewTintHandler(w io.Writer, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:   slog.LevelDebug,
		NoColor: noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return a
		},
	})
}

type zerologSink struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// ZerologSink writes every line as the message of a zerolog event at level.
func ZerologSink(logger zerolog.Logger, level zerolog.Level) Sink {
	return &zerologSink{logger: logger, level: level}
}

func (s *zerologSink) Write(prefix, args string) {
	s.logger.WithLevel(s.level).Msg(joinLine(prefix, args))
}
