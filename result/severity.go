package result

import "fmt"

// Severity ranks findings. Lower values are more severe.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "information", "info":
		*s = SeverityInformation
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}
