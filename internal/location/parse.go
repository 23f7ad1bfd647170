package location

// OptionalField coerces a raw query parameter into an optional value. An
// absent or empty string yields nil, meaning the caller did not constrain the
// field at all. Anything non-empty must parse, otherwise the whole request is
// rejected with a MalformedFieldError.
//
// Every optional filter field goes through this one function so the
// empty-means-absent rule cannot drift between fields.
func OptionalField[T any](name, value string, parse func(string) (T, error)) (*T, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := parse(value)
	if err != nil {
		return nil, &MalformedFieldError{Field: name, Err: err}
	}
	return &parsed, nil
}
