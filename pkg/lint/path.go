package lint

import (
	"strconv"
	"strings"
)

// Path builds a slash pointer from segments. Strings are used verbatim and ints
// become array indices: Path("entities", 2, "name") == "/entities/2/name".
func Path(segments ...any) string {
	if len(segments) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteByte('/')
		switch v := seg.(type) {
		case string:
			sb.WriteString(v)
		case int:
			sb.WriteString(strconv.Itoa(v))
		}
	}
	return sb.String()
}

// Join appends segments to an existing pointer.
func Join(base string, segments ...any) string {
	if len(segments) == 0 {
		return base
	}
	if base == "/" {
		base = ""
	}
	return base + Path(segments...)
}

// SplitPath returns the segments of a slash pointer.
func SplitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
