package lint

import "fmt"

// Builder accumulates issues during a validation pass.
// A Builder is not safe for concurrent use; each pass owns its own.
type Builder struct {
	issues []Issue
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{issues: []Issue{}}
}

// Add appends a fully formed issue.
func (b *Builder) Add(is Issue) {
	b.issues = append(b.issues, is)
}

// Addf appends an issue with a formatted message.
func (b *Builder) Addf(sev Severity, code, path, format string, args ...any) {
	b.Add(Issue{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Path:     path,
	})
}

// Errorf appends an error.
func (b *Builder) Errorf(code, path, format string, args ...any) {
	b.Addf(SeverityError, code, path, format, args...)
}

// Warnf appends a warning.
func (b *Builder) Warnf(code, path, format string, args ...any) {
	b.Addf(SeverityWarn, code, path, format, args...)
}

// Merge appends issues produced elsewhere.
func (b *Builder) Merge(issues []Issue) {
	b.issues = append(b.issues, issues...)
}

// Issues returns the accumulated issues in insertion order.
func (b *Builder) Issues() []Issue {
	out := make([]Issue, len(b.issues))
	copy(out, b.issues)
	return out
}
