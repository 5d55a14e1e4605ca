package lint

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity indicates the importance of an issue.
type Severity int

// Severity levels, most severe first.
const (
	// SeverityError marks a document as invalid and blocks the gate.
	SeverityError Severity = iota
	// SeverityWarn is advisory.
	SeverityWarn
	// SeverityInfo is reserved for informational feedback.
	SeverityInfo
)

// String returns the wire form of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarn:
		return "warn"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is as severe as minimum or more.
func (s Severity) AtLeast(minimum Severity) bool {
	return s <= minimum
}

// ParseSeverity converts a string to a Severity value.
// Returns SeverityWarn and false if the string is not recognized.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warn", "warning":
		return SeverityWarn, true
	case "info":
		return SeverityInfo, true
	default:
		return SeverityWarn, false
	}
}

// MarshalJSON encodes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its string form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sev, ok := ParseSeverity(str)
	if !ok {
		return fmt.Errorf("unknown severity %q", str)
	}
	*s = sev
	return nil
}
