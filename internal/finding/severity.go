// Package finding provides the core data model for the aesthetics audit
// engine: findings claimed by detectors, their validated derivatives, and
// per-file metrics.
package finding

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents how serious an aesthetic defect is.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type Severity int

const (
	// SeverityCritical indicates a defect that materially harms usability
	// (e.g. unreadable text contrast).
	SeverityCritical Severity = iota
	// SeverityHigh indicates a significant visual quality problem.
	SeverityHigh
	// SeverityMedium indicates a noticeable but non-blocking issue.
	SeverityMedium
	// SeverityLow indicates a polish/style preference.
	SeverityLow
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
// Pointer receiver required by json.Unmarshaler interface.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a severity string into a Severity value.
// External models are sloppy about casing, so parsing is case-insensitive.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical, nil
	case "high":
		return SeverityHigh, nil
	case "medium", "moderate":
		return SeverityMedium, nil
	case "low", "minor":
		return SeverityLow, nil
	default:
		return SeverityMedium, fmt.Errorf("unknown severity: %q", s)
	}
}

// ParseSeverityLenient parses a severity string, defaulting to medium for
// anything unrecognizable. Used when ingesting untrusted model output where
// a bad severity must not reject the whole claim.
func ParseSeverityLenient(s string) Severity {
	sev, err := ParseSeverity(s)
	if err != nil {
		return SeverityMedium
	}
	return sev
}

// IsMoreSevereThan returns true if s is more severe than other.
func (s Severity) IsMoreSevereThan(other Severity) bool {
	return s < other // Lower value = more severe
}

// IsAtLeast returns true if s is at least as severe as threshold.
func (s Severity) IsAtLeast(threshold Severity) bool {
	return s <= threshold
}
