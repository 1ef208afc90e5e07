// Package xconsole renders console log lines annotated with the place they
// were emitted from.
//
// # Basic Usage
//
//	cfg := xconsole.MustLoadConfig("config.json")
//	logger, err := xconsole.New(cfg)
//	if err != nil {
//	    panic(err)
//	}
//
//	logger.Report("server started on", addr)
//	logger.ReportWarn("cache miss ratio", ratio)
//	logger.ReportError("cannot open database", err)
//
// Each call captures the caller's file, line and function and prints
//
//	14:02:11 [INFO] cmd/server/main.go - Line 31 (main): server started on :8080
//
// The severity tag and the function name are colored with the tokens of the
// configured color table (FgCyan, FgYellow, FgRed, FgGreen, Reset).
//
// # Errors
//
// ReportError replaces a trailing error argument with a one-line description:
//
//	(PathError) open /etc/app.conf: permission denied
//	(Error) connection refused (internal/db/pool.go:dial:88)
//
// The location is taken from the stack trace carried by the error, such as
// the ones recorded by gitlab.com/tozd/go/errors. Frames from the module cache,
// vendor directories and the Go toolchain are skipped when
// IgnoreNodeModulesErrors is set.
//
// # Verbosity
//
// Config.LogLevel gates severities: 0 silences everything, 1 keeps ERROR,
// 2 adds WARN and 3 adds INFO. Disabled calls return before capturing a
// backtrace.
//
// # Configuration
//
// LoadConfig reads JSON or YAML. The settings may sit at the top level or
// under an "extend-console" key:
//
//	{
//	  "extend-console": {
//	    "colors": {"Reset": "\u001b[0m", "FgRed": "\u001b[31m", "FgYellow": "\u001b[33m",
//	               "FgCyan": "\u001b[36m", "FgGreen": "\u001b[32m"},
//	    "timezone": "Europe/Rome",
//	    "locale": "it-IT",
//	    "logLevel": 3,
//	    "logFilenamesFormat": "relative",
//	    "errorFilenamesFormat": "filename",
//	    "ignoreNodeModulesErrors": true
//	  }
//	}
//
// The projectRoot and format_errors environment variables override the file.
//
// # Customization
//
// Reporter builds log functions with their own LineFormatter,
// ArgumentFormatter, Gate or Sink; Handler exposes the logger as a
// slog.Handler.
package xconsole
