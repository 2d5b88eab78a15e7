package stacktrace

import "strings"

// InternalPaths extracts "internal/<pkg>/<file>.go:<line>" frames from a
// runtime/debug stack, dropping frames outside this module's internal tree.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)

		_, rest, ok := strings.Cut(line, "/internal/")
		if !ok {
			continue
		}

		if !strings.Contains(rest, ".go:") {
			continue
		}

		frame, _, _ := strings.Cut(rest, " ")
		paths = append(paths, "internal/"+frame)
	}

	return paths
}
