package location

import "regexp"

// validLabel is compiled once and shared; regexp matching is safe for
// concurrent use.
var validLabel = regexp.MustCompile(`^[a-zA-Z0-9_ ]+$`)

// IsValidLabel reports whether s is usable as a source label: non-empty and
// built only from ASCII letters, digits, underscores and spaces. Labels are
// always bound as query parameters, so this is a data-quality gate rather
// than an injection defense.
func IsValidLabel(s string) bool {
	return validLabel.MatchString(s)
}
