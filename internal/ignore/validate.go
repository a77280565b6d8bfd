package ignore

import (
	"strings"
)

// Severity classifies a validation issue. Only SeverityError blocks
// the add operation at the default validation level.
type Severity int

const (
	// SeverityInfo is a suggestion, never blocking at the warn level.
	SeverityInfo Severity = iota
	// SeverityWarning flags a pattern that is likely broader than intended.
	SeverityWarning
	// SeverityError flags a pattern that would corrupt the ignore file.
	SeverityError
)

// String returns the display name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Issue describes one potential problem with a candidate pattern.
type Issue struct {
	Pattern  string
	Severity Severity
	Message  string
}

// Level selects how strictly validation issues are enforced.
type Level int

const (
	// LevelNone skips enforcement entirely.
	LevelNone Level = iota
	// LevelWarn reports all issues but blocks only on errors.
	LevelWarn
	// LevelStrict blocks on any issue.
	LevelStrict
)

// ParseLevel converts a config/flag string to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "none":
		return LevelNone, true
	case "warn", "":
		return LevelWarn, true
	case "strict":
		return LevelStrict, true
	default:
		return LevelWarn, false
	}
}

// protectedNames are patterns that would hide files almost every
// repository wants tracked. Matched by exact string equality.
var protectedNames = map[string]struct{}{
	".git":       {},
	".gitignore": {},
	"README*":    {},
	"LICENSE*":   {},
}

// validationRule pairs a predicate with the issue it produces.
// Rules receive both the raw pattern and its sanitized form; reportRaw
// selects which of the two the issue names.
type validationRule struct {
	applies   func(raw, sanitized string) bool
	severity  Severity
	message   string
	reportRaw bool
}

var validationRules = []validationRule{
	{
		applies:   func(raw, _ string) bool { return strings.ContainsAny(raw, "\n\r") },
		severity:  SeverityError,
		message:   "pattern contains newline characters which will corrupt the ignore file",
		reportRaw: true,
	},
	{
		applies: func(_, p string) bool {
			return len(p) > 2 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/")
		},
		severity: SeverityInfo,
		message:  "pattern has leading and trailing slashes - might be too restrictive",
	},
	{
		applies:  func(_, p string) bool { return strings.HasPrefix(p, "./") },
		severity: SeverityInfo,
		message:  "pattern starts with './' which is redundant",
	},
	{
		applies:  func(_, p string) bool { return strings.Count(p, "**") > 1 },
		severity: SeverityWarning,
		message:  "pattern contains multiple '**' which may not work as expected",
	},
	{
		applies:  func(_, p string) bool { return p == "*" || p == "**" || p == "/" },
		severity: SeverityWarning,
		message:  "pattern is very broad and may ignore more than intended",
	},
	{
		applies: func(_, p string) bool {
			_, protected := protectedNames[p]
			return protected
		},
		severity: SeverityWarning,
		message:  "pattern might ignore important project files",
	},
}

// Validate checks candidate patterns against the rule table and
// returns every issue found, in input order. Pure: never fails, never
// mutates its input. Patterns that sanitize to the empty string are
// skipped entirely.
func Validate(patterns []string) []Issue {
	var issues []Issue

	for _, raw := range patterns {
		sanitized := Sanitize(raw)
		if sanitized == "" {
			continue
		}

		for _, rule := range validationRules {
			if !rule.applies(raw, sanitized) {
				continue
			}
			pattern := sanitized
			if rule.reportRaw {
				pattern = raw
			}
			issues = append(issues, Issue{
				Pattern:  pattern,
				Severity: rule.severity,
				Message:  rule.message,
			})
		}
	}

	return issues
}

// Blocking reports whether the issues should abort the add operation
// at the given validation level.
func Blocking(issues []Issue, level Level) bool {
	switch level {
	case LevelNone:
		return false
	case LevelStrict:
		return len(issues) > 0
	default:
		for _, issue := range issues {
			if issue.Severity == SeverityError {
				return true
			}
		}
		return false
	}
}
