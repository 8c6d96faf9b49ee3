package topicmaps

import (
	"github.com/zefrenchwan/topicmaps.git/datatypes"
	"github.com/zefrenchwan/topicmaps.git/locators"
)

// Construct is any node of a topic map: the topic map itself, topics and statements.
type Construct interface {
	// Id returns the id of the construct, unique in the system and never reused
	Id() string
	// TopicMap returns the topic map the construct belongs to
	TopicMap() *TopicMap
	// Parent returns the construct that owns this one, nil for a topic map
	Parent() Construct
	// IsRemoved returns true once the construct was removed or merged into another one
	IsRemoved() bool

	// ItemIdentifiers returns the item identifiers of the construct
	ItemIdentifiers() []locators.Locator
	// AddItemIdentifier adds an item identifier, merging topics if needed
	AddItemIdentifier(locators.Locator) error
	// RemoveItemIdentifier removes an item identifier, if any
	RemoveItemIdentifier(locators.Locator) error

	// Remove deletes the construct from its topic map
	Remove() error

	// base returns the shared state of the construct
	base() *construct
}

// Reifiable is a construct that a topic may represent as a subject
type Reifiable interface {
	Construct
	// Reifier returns the topic reifying the construct, or nil
	Reifier() *Topic
	// SetReifier sets the reifier. Nil clears the reifier
	SetReifier(*Topic) error

	reifiableBase() *reifiable
}

// Typed is a construct with exactly one type
type Typed interface {
	Construct
	// Type returns the type, never nil for a live construct
	Type() *Topic
	// SetType changes the type
	SetType(*Topic) error

	typedBase() *typed
}

// Scoped is a construct valid in a scope, that is a set of themes.
// Empty scope is the unconstrained scope
type Scoped interface {
	Construct
	// Scope returns the themes of the construct
	Scope() []*Topic
	// AddTheme adds a theme to the scope
	AddTheme(*Topic) error
	// RemoveTheme removes a theme from the scope
	RemoveTheme(*Topic) error

	scopedBase() *scoped
}

// DatatypeAware is a construct holding a literal: occurrences and variants
type DatatypeAware interface {
	Reifiable
	Scoped
	// Value returns the lexical value
	Value() string
	// Datatype returns the datatype of the value
	Datatype() locators.Locator
	// Literal returns value and datatype
	Literal() datatypes.Literal
	// SetValue sets a string value
	SetValue(string) error
	// SetTypedValue sets a value with an explicit datatype
	SetTypedValue(string, locators.Locator) error
	// SetLocatorValue sets an IRI value
	SetLocatorValue(locators.Locator) error
}

var (
	_ Reifiable     = (*TopicMap)(nil)
	_ Construct     = (*Topic)(nil)
	_ Reifiable     = (*Association)(nil)
	_ Typed         = (*Association)(nil)
	_ Scoped        = (*Association)(nil)
	_ Reifiable     = (*Role)(nil)
	_ Typed         = (*Role)(nil)
	_ Typed         = (*Name)(nil)
	_ Scoped        = (*Name)(nil)
	_ Reifiable     = (*Name)(nil)
	_ Typed         = (*Occurrence)(nil)
	_ DatatypeAware = (*Occurrence)(nil)
	_ DatatypeAware = (*Variant)(nil)
)
