package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dianlight/xconsole"
	"gitlab.com/tozd/go/errors"
)

type request struct {
	ID     int
	Method string
	Tags   []string
}

func main() {
	fmt.Println("=== xconsole demonstration ===")

	cfg := xconsole.DefaultConfig()
	if len(os.Args) > 1 {
		cfg = xconsole.MustLoadConfig(os.Args[1])
	}
	if wd, err := os.Getwd(); err == nil && cfg.ProjectRoot == "" {
		cfg.ProjectRoot = wd
		cfg.LogFilenamesFormat = xconsole.PathRelative
	}

	logger, err := xconsole.New(cfg, xconsole.WithPrettyArguments())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("1. Severities:")
	logger.Report("server listening on", ":8080")
	logger.ReportWarn("cache miss ratio", 0.42)
	logger.ReportError("request failed", fmt.Errorf("connection refused"))

	fmt.Println()
	fmt.Println("2. Errors with an origin:")
	logger.ReportError("cannot load profile", loadProfile("alice"))
	func() {
		logger.ReportError(errors.New("raised inside a closure"))
	}()

	fmt.Println()
	fmt.Println("3. Pretty arguments:")
	logger.Report("handling", request{ID: 7, Method: "GET", Tags: []string{"api", "v2"}})

	fmt.Println()
	fmt.Println("4. Custom reporter:")
	audit := logger.Reporter(xconsole.SeverityWarn,
		xconsole.WithLineFormatter(xconsole.LineFormatterFunc(func(ctx xconsole.LogContext) string {
			return "[AUDIT " + ctx.Severity.String() + "]"
		})),
		xconsole.WithGate(xconsole.GateFunc(func(_ xconsole.LogContext, args []any) bool {
			return len(args) > 0
		})),
	)
	audit("user", "alice", "changed role")
	audit()

	fmt.Println()
	fmt.Println("5. slog bridge:")
	slog.SetDefault(slog.New(logger.Handler()))
	slog.Info("served", "status", 200, slog.Group("req", "path", "/health"))
	slog.Error("lookup failed", "error", loadProfile("bob"))

	fmt.Println()
	fmt.Println("6. Fit to terminal:")
	long := "a very long line that will be shortened to the width of the terminal the demo is running in, " +
		"so that it never wraps"
	fmt.Println(logger.FitOnTerm(long, " ]"))
}

func loadProfile(user string) error {
	return errors.WithDetails(errors.New("profile not found"), "user", user)
}
