package locators

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Locator is an absolute IRI.
// Locators are immutable and comparable: two locators are equal if their references are equal,
// so they may be used as map keys.
type Locator struct {
	// reference is the canonical form of the IRI
	reference string
}

// NewLocator builds a locator from an absolute reference.
// Relative references, empty values and unparsable values return an error
func NewLocator(reference string) (Locator, error) {
	var result Locator
	value := strings.TrimSpace(reference)
	if len(value) == 0 {
		return result, errors.New("empty reference")
	}

	parsed, errParse := url.Parse(value)
	if errParse != nil {
		return result, fmt.Errorf("invalid reference %s: %w", reference, errParse)
	} else if !parsed.IsAbs() {
		return result, fmt.Errorf("reference %s is not absolute", reference)
	}

	result.reference = canonicalForm(parsed)
	return result, nil
}

// MustLocator builds a locator and panics if reference is not valid.
// Use it for constants only
func MustLocator(reference string) Locator {
	if result, err := NewLocator(reference); err != nil {
		panic(err)
	} else {
		return result
	}
}

// Reference returns the canonical reference of the locator
func (l Locator) Reference() string {
	return l.reference
}

// String returns the reference
func (l Locator) String() string {
	return l.reference
}

// IsZero returns true for the zero value, that is a locator built without NewLocator
func (l Locator) IsZero() bool {
	return len(l.reference) == 0
}

// Resolve returns the locator that results from resolving relative against l.
// An absolute parameter is returned as is (in its canonical form)
func (l Locator) Resolve(relative string) (Locator, error) {
	var result Locator
	if l.IsZero() {
		return result, errors.New("cannot resolve against an empty locator")
	}

	base, errBase := url.Parse(l.reference)
	if errBase != nil {
		return result, errBase
	}

	other, errOther := url.Parse(strings.TrimSpace(relative))
	if errOther != nil {
		return result, fmt.Errorf("invalid reference %s: %w", relative, errOther)
	}

	result.reference = canonicalForm(base.ResolveReference(other))
	return result, nil
}

// canonicalForm lowers scheme and host so that equivalent IRIs compare equal
func canonicalForm(value *url.URL) string {
	copyValue := *value
	copyValue.Scheme = strings.ToLower(copyValue.Scheme)
	copyValue.Host = strings.ToLower(copyValue.Host)
	return copyValue.String()
}
