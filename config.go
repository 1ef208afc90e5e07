package xconsole

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
	yaml "go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
)

// ConfigSection is the key under which a shared configuration document
// nests the logger settings. A document without it is read as the section itself.
const ConfigSection = "extend-console"

// Environment variables that override file settings.
const (
	EnvProjectRoot  = "projectRoot"
	EnvFormatErrors = "format_errors"
)

// PathMode selects how a call-site path is displayed.
type PathMode string

const (
	PathFull     PathMode = "full"
	PathFilename PathMode = "filename"
	PathRelative PathMode = "relative"
)

// DefaultAnonymousAlias replaces empty function names.
const DefaultAnonymousAlias = "<anonymous>"

// requiredColors must be present in every color table.
var requiredColors = []string{"Reset", SeverityInfo.ColorToken(), SeverityWarn.ColorToken(), SeverityError.ColorToken()}

// Config holds the logger settings. It is read once at startup and never
// mutated afterwards; New takes a copy.
type Config struct {
	// Colors maps token names (Reset, FgRed, ...) to escape sequences.
	Colors map[string]string `json:"colors"`
	// Timezone is an IANA zone name; empty or "Local" means the system zone.
	Timezone string `json:"timezone"`
	// Locale is a BCP 47 tag deciding between 12- and 24-hour timestamps.
	Locale string `json:"locale"`
	// LogLevel is the verbosity threshold: 0 silent, 1 errors, 2 warnings, 3 everything.
	LogLevel int `json:"logLevel"`

	LogFilenamesFormat                 PathMode `json:"logFilenamesFormat"`
	ErrorFilenamesFormat               PathMode `json:"errorFilenamesFormat"`
	LogFilenamesAnonymousObjectAlias   string   `json:"logFilenamesAnonymousObjectAlias"`
	ErrorFilenamesAnonymousObjectAlias string   `json:"errorFilenamesAnonymousObjectAlias"`

	// IgnoreNodeModulesErrors excludes dependency frames when locating an error origin.
	IgnoreNodeModulesErrors bool `json:"ignoreNodeModulesErrors"`
	// ProjectRoot anchors PathRelative.
	ProjectRoot string `json:"projectRoot"`
	// FormatErrors renders errors as one-line descriptions; false prints the raw stack.
	FormatErrors bool `json:"formatErrors"`
}

// DefaultConfig returns a complete configuration using the built-in color table.
func DefaultConfig() Config {
	return Config{
		Colors:                             DefaultColors(),
		Timezone:                           "Local",
		Locale:                             "en-US",
		LogLevel:                           LevelAll,
		LogFilenamesFormat:                 PathFull,
		ErrorFilenamesFormat:               PathFull,
		LogFilenamesAnonymousObjectAlias:   DefaultAnonymousAlias,
		ErrorFilenamesAnonymousObjectAlias: DefaultAnonymousAlias,
		IgnoreNodeModulesErrors:            true,
		FormatErrors:                       true,
	}
}

// LoadConfig reads a JSON or YAML (.yaml/.yml) configuration file, applies
// environment overrides and validates the result. Fields missing from the
// file keep their DefaultConfig values, except colors which is required.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WithDetails(errors.Errorf("cannot read config: %w", err), "path", path)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return Config{}, errors.WithDetails(err, "path", path)
	}
	return cfg, nil
}

// MustLoadConfig is LoadConfig for process startup: it panics with the
// diagnostic when the configuration is missing or invalid.
func MustLoadConfig(path string) Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// ParseConfig decodes a configuration document. ext selects the format
// (".yaml" and ".yml" are YAML, anything else JSON).
func ParseConfig(data []byte, ext string) (Config, error) {
	jb, err := coerceToJSON(data, ext)
	if err != nil {
		return Config{}, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(jb, &doc); err != nil {
		return Config{}, errors.Errorf("invalid config document: %w", err)
	}
	if section, ok := doc[ConfigSection]; ok {
		jb = section
	}

	cfg := DefaultConfig()
	cfg.Colors = nil
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Errorf("invalid config: %w", err)
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Config{}, errors.New("invalid config: trailing data")
	}
	if cfg.Colors == nil {
		return Config{}, errors.New("missing required field colors")
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func coerceToJSON(data []byte, ext string) ([]byte, error) {
	ext = strings.ToLower(ext)
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, errors.Errorf("yaml unmarshal: %w", err)
	}
	jb, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Errorf("yaml to json: %w", err)
	}
	return jb, nil
}

// ApplyEnv applies the projectRoot and format_errors environment overrides.
// projectRoot only fills an empty ProjectRoot.
func (c *Config) ApplyEnv() {
	if c.ProjectRoot == "" {
		c.ProjectRoot = os.Getenv(EnvProjectRoot)
	}
	if v, ok := os.LookupEnv(EnvFormatErrors); ok {
		c.FormatErrors = strings.EqualFold(strings.TrimSpace(v), "true")
	}
}

// Validate reports the first problem that would make the logger unusable.
func (c Config) Validate() error {
	var missing []string
	for _, token := range requiredColors {
		if _, ok := c.Colors[token]; !ok {
			missing = append(missing, token)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.WithDetails(
			errors.Errorf("color table is missing required tokens: %s", strings.Join(missing, ", ")),
			"missing", missing,
		)
	}
	if c.LogLevel < LevelSilent || c.LogLevel > LevelAll {
		return errors.Errorf("invalid logLevel %d: expected %d-%d", c.LogLevel, LevelSilent, LevelAll)
	}
	for _, mode := range []PathMode{c.LogFilenamesFormat, c.ErrorFilenamesFormat} {
		if !mode.valid() {
			return errors.Errorf("invalid filenames format '%s': supported formats are full, filename, relative", mode)
		}
	}
	if _, err := c.location(); err != nil {
		return err
	}
	if _, err := language.Parse(c.Locale); c.Locale != "" && err != nil {
		return errors.Errorf("invalid locale '%s': %w", c.Locale, err)
	}
	return nil
}

func (m PathMode) valid() bool {
	switch m {
	case PathFull, PathFilename, PathRelative, "":
		return true
	}
	return false
}

func (c Config) location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return loc, nil
}

// clone returns a copy that shares no mutable state with c.
func (c Config) clone() Config {
	colors := make(map[string]string, len(c.Colors))
	for k, v := range c.Colors {
		colors[k] = v
	}
	c.Colors = colors
	return c
}
