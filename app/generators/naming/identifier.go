package naming

import "fmt"

// InvalidIdentifierError reports a name that is not a letter followed by
// ASCII letters and digits.
type InvalidIdentifierError struct {
	Name   string
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Name, e.Reason)
}

// IsIdentifier reports whether s matches [A-Za-z][A-Za-z0-9]*.
func IsIdentifier(s string) bool {
	return ValidateIdentifier(s) == nil
}

// ValidateIdentifier returns an *InvalidIdentifierError when s is not a
// valid entity identifier.
func ValidateIdentifier(s string) error {
	if s == "" {
		return &InvalidIdentifierError{Name: s, Reason: "name is empty"}
	}
	if !isLetter(s[0]) {
		return &InvalidIdentifierError{Name: s, Reason: "must start with a letter"}
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !isDigit(c) {
			return &InvalidIdentifierError{
				Name:   s,
				Reason: fmt.Sprintf("character %q at position %d is not a letter or digit", rune(c), i),
			}
		}
	}
	return nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
