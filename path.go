package xconsole

import (
	"path/filepath"
	"strings"
)

// FormatPath renders a call-site path for display.
//
//	PathFull      /srv/app/cmd/main.go
//	PathFilename  main.go
//	PathRelative  cmd/main.go (with projectRoot /srv/app)
//
// PathRelative falls back to the full path when projectRoot is empty or the
// path cannot be expressed relative to it. Both / and \ separators are
// understood regardless of the host platform.
func FormatPath(path string, mode PathMode, projectRoot string) string {
	switch mode {
	case PathFilename:
		return baseName(path)
	case PathRelative:
		if projectRoot == "" {
			return path
		}
		return relativePath(path, projectRoot)
	default:
		return path
	}
}

func baseName(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if idx := strings.LastIndexAny(trimmed, `/\`); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func relativePath(path, root string) string {
	backslashes := strings.Contains(path, `\`) && !strings.Contains(path, "/")
	slashPath := strings.ReplaceAll(path, `\`, "/")
	slashRoot := strings.ReplaceAll(root, `\`, "/")

	rel, err := filepath.Rel(filepath.FromSlash(slashRoot), filepath.FromSlash(slashPath))
	if err != nil {
		return path
	}
	rel = filepath.ToSlash(rel)
	if backslashes {
		rel = strings.ReplaceAll(rel, "/", `\`)
	}
	return rel
}
