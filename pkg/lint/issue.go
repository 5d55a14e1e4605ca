package lint

import "fmt"

// Issue is a single validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"`
}

// String formats the issue for plain-text logs.
func (i Issue) String() string {
	loc := i.Path
	if i.Line > 0 {
		loc = fmt.Sprintf("%s (line %d)", i.Path, i.Line)
	}
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Code, loc, i.Message)
}

// Partition splits issues into errors and warnings. Info issues land in neither.
func Partition(issues []Issue) (errs, warns []Issue) {
	errs = []Issue{}
	warns = []Issue{}
	for _, is := range issues {
		switch is.Severity {
		case SeverityError:
			errs = append(errs, is)
		case SeverityWarn:
			warns = append(warns, is)
		}
	}
	return errs, warns
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}
