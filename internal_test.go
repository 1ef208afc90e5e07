package xconsole

import (
	"testing"
	"time"

	"github.com/dianlight/xconsole/stack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, sink Sink) *Logger {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.Locale = "en-GB"
	l, err := New(cfg,
		WithOutput(SeverityInfo, sink),
		WithColors(false),
		WithClock(func() time.Time { return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return l
}

func TestMissingCallSite(t *testing.T) {
	var prefix, args string
	l := newTestLogger(t, SinkFunc(func(p, a string) { prefix, args = p, a }))

	trace := []stack.RawFrame{"garbage", "at nowhere", "still not a frame"}
	site := l.logCallSite(trace, logCallDepth)
	assert.Nil(t, site)
	assert.Nil(t, l.logCallSite(trace[:1], logCallDepth))

	r := l.reporters[SeverityInfo]
	l.dispatch(r, LogContext{Severity: SeverityInfo, Time: l.now()}, []any{"orphan"})
	assert.Equal(t, "15:04:05 [INFO]:", prefix)
	assert.Equal(t, "orphan", args)
}

func TestAnonymousAlias(t *testing.T) {
	l := newTestLogger(t, SinkFunc(func(string, string) {}))

	site := l.logCallSite([]stack.RawFrame{"", "", "at /x/y.go:3"}, logCallDepth)
	require.NotNil(t, site)
	assert.Equal(t, DefaultAnonymousAlias, site.Function)
	assert.Equal(t, "/x/y.go", site.Path)
	assert.Equal(t, 3, site.Line)
}

func TestEmitCapturesCaller(t *testing.T) {
	var prefix string
	l := newTestLogger(t, SinkFunc(func(p, _ string) { prefix = p }))

	l.Report("x")
	assert.Contains(t, prefix, "internal_test.go - Line ")
	assert.Contains(t, prefix, "(TestEmitCapturesCaller):")
}

func TestTerminalDetection(t *testing.T) {
	assert.False(t, isTerminalSupported(nil))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, isTerminalSupported(nil))
}

func TestDefaultColors(t *testing.T) {
	colors := DefaultColors()
	for _, token := range append(requiredColors, functionColorToken, "FgGray", "BgWhite") {
		assert.Regexp(t, `^\x1b\[\d+m$`, colors[token], token)
	}
	assert.Equal(t, "\x1b[0m", colors["Reset"])
	assert.Equal(t, "\x1b[31m", colors["FgRed"])

	// callers get their own copy
	colors["Reset"] = ""
	assert.Equal(t, "\x1b[0m", DefaultColors()["Reset"])
}

func TestPaletteDisabled(t *testing.T) {
	p := palette{tokens: DefaultColors()}
	assert.Empty(t, p.token("FgRed"))
	p.enabled = true
	assert.Equal(t, "\x1b[31m", p.token("FgRed"))
	assert.Empty(t, p.token("Unknown"))
}

func TestHourLayout(t *testing.T) {
	assert.Equal(t, layout12h, hourLayout("en-US"))
	assert.Equal(t, layout12h, hourLayout("hi-IN"))
	assert.Equal(t, layout24h, hourLayout("en-GB"))
	assert.Equal(t, layout24h, hourLayout("it-IT"))
	assert.Equal(t, layout24h, hourLayout(""))
	assert.Equal(t, layout24h, hourLayout("???"))
}
