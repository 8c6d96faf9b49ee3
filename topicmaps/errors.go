package topicmaps

import (
	"errors"
	"fmt"

	"github.com/zefrenchwan/topicmaps.git/locators"
)

var (
	// ErrModelConstraint is the kind of any rejected mutation: nil argument, foreign construct,
	// broken structural rule. Identity, in use and read only errors are model constraint errors too
	ErrModelConstraint = errors.New("model constraint violation")
	// ErrIdentityConstraint is raised when an identity would equate two constructs that cannot merge
	ErrIdentityConstraint = errors.New("identity constraint violation")
	// ErrTopicInUse is raised when removing a topic that is still referenced
	ErrTopicInUse = errors.New("topic in use")
	// ErrReadOnly is raised on any mutation of a read only system
	ErrReadOnly = errors.New("read only topic map system")
	// ErrRemovedConstruct is raised when using a construct that was removed or merged away
	ErrRemovedConstruct = errors.New("construct was removed")
	// ErrTopicMapExists is raised when a locator is already bound in the system
	ErrTopicMapExists = errors.New("topic map already exists")
)

// ConstraintError details a rejected operation.
// Use errors.Is with the sentinel errors to test its kind
type ConstraintError struct {
	// kind is one of the sentinel errors
	kind error
	// Reporter is the construct the operation was called on, if any
	Reporter Construct
	// Existing is the construct already holding the identity, for identity errors
	Existing Construct
	// Locator is the locator at stake, if any
	Locator locators.Locator
	// message is the detail
	message string
}

// Error to implement error interface
func (e *ConstraintError) Error() string {
	if e.Locator.IsZero() {
		return fmt.Sprintf("%s: %s", e.kind.Error(), e.message)
	}

	return fmt.Sprintf("%s: %s (%s)", e.kind.Error(), e.message, e.Locator.Reference())
}

// Is returns true for its kind and for ErrModelConstraint.
// Removed constructs errors are model errors too
func (e *ConstraintError) Is(target error) bool {
	return target == e.kind || target == ErrModelConstraint
}

// newModelError builds a model constraint error
func newModelError(reporter Construct, message string) error {
	return &ConstraintError{kind: ErrModelConstraint, Reporter: reporter, message: message}
}

// newIdentityError builds an identity error between reporter and existing for loc
func newIdentityError(reporter, existing Construct, loc locators.Locator, message string) error {
	return &ConstraintError{
		kind:     ErrIdentityConstraint,
		Reporter: reporter,
		Existing: existing,
		Locator:  loc,
		message:  message,
	}
}

// newTopicInUseError builds an error for topic removal
func newTopicInUseError(reporter *Topic, message string) error {
	return &ConstraintError{kind: ErrTopicInUse, Reporter: reporter, message: message}
}

// newReadOnlyError builds an error for a mutation in a read only system
func newReadOnlyError(reporter Construct) error {
	return &ConstraintError{kind: ErrReadOnly, Reporter: reporter, message: "mutation refused"}
}

// newRemovedError builds an error for an operation on a removed construct
func newRemovedError(reporter Construct) error {
	return &ConstraintError{kind: ErrRemovedConstruct, Reporter: reporter, message: "construct " + reporter.Id()}
}
