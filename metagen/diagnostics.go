package metagen

import "fmt"

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a problem found in user code. Diagnostics never stop a
// discovery pass.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Position Position `json:"position"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Position.File, d.Position.Line, d.Position.Column, d.Severity, d.Message)
}

// Diagnostics collects the diagnostics of one pass. A nil *Diagnostics
// discards everything reported to it.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) Errorf(pos Position, format string, args ...any) {
	d.add(SeverityError, pos, format, args...)
}

func (d *Diagnostics) Warnf(pos Position, format string, args ...any) {
	d.add(SeverityWarning, pos, format, args...)
}

func (d *Diagnostics) add(severity Severity, pos Position, format string, args ...any) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diagnostic{
		Severity: severity,
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (d *Diagnostics) All() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.items
}

func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.All() {
		if item.Severity == SeverityError {
			return true
		}
	}
	return false
}
