package xconsole

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Severity is the kind of a log line.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// Verbosity thresholds accepted by Config.LogLevel.
const (
	LevelSilent = 0
	LevelError  = 1
	LevelWarn   = 2
	LevelAll    = 3
)

var severityNames = [...]string{
	SeverityInfo:  "INFO",
	SeverityWarn:  "WARN",
	SeverityError: "ERROR",
}

// severityColors maps each severity to the color token of its tag.
var severityColors = [...]string{
	SeverityInfo:  "FgCyan",
	SeverityWarn:  "FgYellow",
	SeverityError: "FgRed",
}

// levelNames maps threshold names to LogLevel values
var levelNames = map[string]int{
	"silent":  LevelSilent,
	"none":    LevelSilent,
	"error":   LevelError,
	"warn":    LevelWarn,
	"warning": LevelWarn, // alias for warn
	"info":    LevelAll,
	"all":     LevelAll,
}

func (s Severity) valid() bool { return s >= SeverityInfo && s <= SeverityError }

func (s Severity) String() string {
	if !s.valid() {
		return "Severity(" + strconv.Itoa(int(s)) + ")"
	}
	return severityNames[s]
}

// RequiredLevel is the lowest LogLevel at which s is emitted.
func (s Severity) RequiredLevel() int {
	return LevelAll - int(s)
}

// ColorToken names the palette entry used for the severity tag.
func (s Severity) ColorToken() string {
	if !s.valid() {
		return ""
	}
	return severityColors[s]
}

// SeverityFromSlog maps slog levels onto the three severities.
func SeverityFromSlog(level slog.Level) Severity {
	switch {
	case level >= slog.LevelError:
		return SeverityError
	case level >= slog.LevelWarn:
		return SeverityWarn
	default:
		return SeverityInfo
	}
}

// LevelGate decides which severities a verbosity threshold lets through.
type LevelGate int

// Enabled reports whether s is emitted at this threshold. Thresholds
// outside 0-3 are clamped.
func (g LevelGate) Enabled(s Severity) bool {
	if !s.valid() {
		return false
	}
	t := int(g)
	if t > LevelAll {
		t = LevelAll
	}
	return t > LevelSilent && s.RequiredLevel() <= t
}

// ParseLevel converts a threshold name (silent, error, warn/warning, info)
// or a number 0-3 into a LevelGate. The comparison is case-insensitive.
func ParseLevel(levelStr string) (LevelGate, error) {
	if strings.TrimSpace(levelStr) == "" {
		return 0, errors.New("log level cannot be empty")
	}

	normalized := strings.ToLower(strings.TrimSpace(levelStr))
	if n, err := strconv.Atoi(normalized); err == nil {
		if n < LevelSilent || n > LevelAll {
			return 0, errors.Errorf("invalid log level '%s': expected %d-%d", levelStr, LevelSilent, LevelAll)
		}
		return LevelGate(n), nil
	}

	level, exists := levelNames[normalized]
	if !exists {
		return 0, errors.Errorf("invalid log level '%s': supported levels are %s",
			levelStr, supportedLevelsString())
	}
	return LevelGate(level), nil
}

func supportedLevelsString() string {
	names := make([]string, 0, len(levelNames))
	for name := range levelNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
