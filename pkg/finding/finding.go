// Package finding provides the line-addressed diagnostics produced while
// parsing and binding a site log.
package finding

import (
	"fmt"
	"strings"
)

// Level is the severity of a finding.
type Level int

const (
	// Ignored marks expected noise such as placeholder text or template sections.
	Ignored Level = iota
	// Warning marks a recoverable oddity.
	Warning
	// Error marks content that needs operator review before the log is trusted.
	Error
)

var levelNames = [...]string{
	Ignored: "ignored",
	Warning: "warning",
	Error:   "error",
}

// String returns the lower case name of the level.
func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Tag returns the bracketed upper case form used in rendered findings.
func (l Level) Tag() string {
	return "[" + strings.ToUpper(l.String()) + "]"
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel parses a level name, ignoring case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	if strings.EqualFold(s, "warn") {
		return Warning, nil
	}
	return Ignored, fmt.Errorf("unknown finding level %q", s)
}

// Finding is a diagnostic attached to a single source line.
type Finding struct {
	// Line is the 0-based index into the document's lines.
	Line      int    `json:"line"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
	Section   string `json:"section,omitempty"`   // index string of the section involved
	Parameter string `json:"parameter,omitempty"` // parameter name involved
	// Text is the raw line as it read when the finding was created.
	Text string `json:"text,omitempty"`
}

// Errorf creates an Error finding.
func Errorf(line int, format string, args ...any) Finding {
	return Finding{Line: line, Level: Error, Message: fmt.Sprintf(format, args...)}
}

// Warnf creates a Warning finding.
func Warnf(line int, format string, args ...any) Finding {
	return Finding{Line: line, Level: Warning, Message: fmt.Sprintf(format, args...)}
}

// Ignoref creates an Ignored finding.
func Ignoref(line int, format string, args ...any) Finding {
	return Finding{Line: line, Level: Ignored, Message: fmt.Sprintf(format, args...)}
}

// In returns a copy of f tagged with a section index.
func (f Finding) In(section string) Finding {
	f.Section = section
	return f
}

// For returns a copy of f tagged with a parameter name.
func (f Finding) For(parameter string) Finding {
	f.Parameter = parameter
	return f
}

// On returns a copy of f carrying the raw line text.
func (f Finding) On(text string) Finding {
	f.Text = text
	return f
}

// Mismatch reports whether the line the finding was recorded against has
// since been rewritten in lines.
func (f Finding) Mismatch(lines []string) bool {
	if f.Text == "" {
		return false
	}
	if f.Line < 0 || f.Line >= len(lines) {
		return true
	}
	return strings.TrimRight(lines[f.Line], "\r") != f.Text
}

// String renders the finding without the source line.
func (f Finding) String() string {
	return fmt.Sprintf("(%4d) %s: %s", f.Line+1, f.Level.Tag(), f.Message)
}

// Format renders the finding next to its source line:
//
//	(  12) Receiver Type : XYZ                              [ERROR]: message
func (f Finding) Format(lines []string) string {
	text := f.Text
	if f.Line >= 0 && f.Line < len(lines) {
		text = lines[f.Line]
	}
	return fmt.Sprintf("(%4d) %-80s%s: %s", f.Line+1, strings.TrimRight(text, "\r"), f.Level.Tag(), f.Message)
}
