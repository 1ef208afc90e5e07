package stack

import (
	"runtime"
	"strings"
)

// maxDepth bounds how many program counters a capture records.
const maxDepth = 64

// Capture records the calling goroutine's backtrace as raw lines.
// Element 0 is the function that called Capture; skip drops that many
// additional frames from the top.
func Capture(skip int) []RawFrame {
	pcs := make([]uintptr, maxDepth)
	// skip [runtime.Callers, Capture]
	n := runtime.Callers(2+skip, pcs)
	return FromPCs(pcs[:n])
}

// FromPCs renders a program-counter trace (from runtime.Callers, a slog
// record or an error's StackTrace) as raw lines, expanding inlined calls.
func FromPCs(pcs []uintptr) []RawFrame {
	if len(pcs) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]RawFrame, 0, len(pcs))
	for {
		frame, more := frames.Next()
		if frame.File != "" {
			lines = append(lines, Frame{
				Function: ShortFunction(frame.Function),
				File:     frame.File,
				Line:     frame.Line,
			}.String())
		}
		if !more {
			break
		}
	}
	return lines
}

// ShortFunction strips the import path and package name from a fully
// qualified Go function name:
//
//	github.com/acme/app/server.(*Server).Serve -> (*Server).Serve
//	main.main.func1                            -> main.func1
func ShortFunction(name string) string {
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
