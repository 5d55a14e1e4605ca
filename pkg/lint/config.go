package lint

// Config controls which issues are shown. Errors are never filtered.
type Config struct {
	// DisabledCodes contains codes to hide
	DisabledCodes map[string]bool

	// MinSeverity hides issues less severe than this level
	MinSeverity Severity
}

// NewConfig creates a configuration that shows everything.
func NewConfig() *Config {
	return &Config{
		DisabledCodes: make(map[string]bool),
		MinSeverity:   SeverityInfo,
	}
}

// IsDisabled returns true if the code should be hidden.
func (c *Config) IsDisabled(code string) bool {
	if c == nil {
		return false
	}
	return c.DisabledCodes[code]
}

// Disable hides a code.
func (c *Config) Disable(code string) *Config {
	c.DisabledCodes[code] = true
	return c
}

// SetMinSeverity hides issues below sev.
func (c *Config) SetMinSeverity(sev Severity) *Config {
	c.MinSeverity = sev
	return c
}

// Filter returns the issues that should be shown.
func (c *Config) Filter(issues []Issue) []Issue {
	if c == nil {
		return issues
	}
	out := make([]Issue, 0, len(issues))
	for _, is := range issues {
		if is.Severity == SeverityError {
			out = append(out, is)
			continue
		}
		if c.IsDisabled(is.Code) || !is.Severity.AtLeast(c.MinSeverity) {
			continue
		}
		out = append(out, is)
	}
	return out
}
