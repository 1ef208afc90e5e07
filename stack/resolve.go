package stack

import (
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultExtensions are the source-file extensions an error origin may have.
var DefaultExtensions = []string{".go"}

// DefaultDependencyMarkers are path fragments that identify third-party or
// toolchain code.
var DefaultDependencyMarkers = dependencyMarkers()

func dependencyMarkers() []string {
	markers := []string{"/pkg/mod/", "/vendor/", "node_modules"}
	//nolint:staticcheck // GOROOT is only used as a path hint for toolchain frames.
	if root := runtime.GOROOT(); root != "" {
		markers = append(markers, filepath.ToSlash(filepath.Join(root, "src"))+"/")
	}
	return markers
}

// AtDepth parses the frame at a fixed depth of trace. It performs no
// fallback scan: a missing or unparsable frame yields false.
func AtDepth(trace []RawFrame, depth int) (Frame, bool) {
	if depth < 0 || depth >= len(trace) {
		return Frame{}, false
	}
	return Parse(trace[depth])
}

// Resolver selects the frame an error originated from.
type Resolver struct {
	// Extensions lists accepted source-file extensions; empty means DefaultExtensions.
	Extensions []string
	// DependencyMarkers lists path fragments of dependency code; nil means DefaultDependencyMarkers.
	DependencyMarkers []string
	// ExcludeDependencies skips frames whose path contains a dependency marker.
	ExcludeDependencies bool
}

// Scan walks trace from the top and returns the first parsable frame that
// Accept admits. Unparsable lines are skipped.
func (r Resolver) Scan(trace []RawFrame) (Frame, bool) {
	for _, raw := range trace {
		frame, ok := Parse(raw)
		if !ok {
			continue
		}
		if r.Accept(frame) {
			return frame, true
		}
	}
	return Frame{}, false
}

// Accept reports whether frame may be an error origin.
func (r Resolver) Accept(frame Frame) bool {
	exts := r.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	if !hasAnySuffix(frame.File, exts) {
		return false
	}
	if !r.ExcludeDependencies {
		return true
	}
	markers := r.DependencyMarkers
	if markers == nil {
		markers = DefaultDependencyMarkers
	}
	path := strings.ReplaceAll(frame.File, "\\", "/")
	for _, marker := range markers {
		if marker != "" && strings.Contains(path, strings.ReplaceAll(marker, "\\", "/")) {
			return false
		}
	}
	return true
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
