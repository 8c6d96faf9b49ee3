package topicmaps

import (
	"math/big"

	"github.com/zefrenchwan/topicmaps.git/datatypes"
	"github.com/zefrenchwan/topicmaps.git/locators"
)

// literalValue is the value of occurrences and variants
type literalValue struct {
	literal datatypes.Literal
}

// Value returns the lexical value
func (l *literalValue) Value() string {
	return l.literal.Value
}

// Datatype returns the datatype of the value
func (l *literalValue) Datatype() locators.Locator {
	return l.literal.Datatype
}

// Literal returns the value and its datatype
func (l *literalValue) Literal() datatypes.Literal {
	return l.literal
}

// IntValue returns the value as an int
func (l *literalValue) IntValue() (int32, error) {
	return l.literal.IntValue()
}

// LongValue returns the value as a long
func (l *literalValue) LongValue() (int64, error) {
	return l.literal.LongValue()
}

// FloatValue returns the value as a float
func (l *literalValue) FloatValue() (float32, error) {
	return l.literal.FloatValue()
}

// DecimalValue returns the value as a decimal
func (l *literalValue) DecimalValue() (*big.Float, error) {
	return l.literal.DecimalValue()
}

// LocatorValue returns the value as a locator
func (l *literalValue) LocatorValue() (locators.Locator, error) {
	return l.literal.LocatorValue()
}

// Occurrence is a typed and scoped piece of information about a topic
type Occurrence struct {
	construct
	reifiable
	typed
	scoped
	literalValue

	// parent is the topic of the occurrence
	parent *Topic
}

// Parent returns the topic of the occurrence
func (o *Occurrence) Parent() Construct {
	if o == nil || o.parent == nil {
		return nil
	}

	return o.parent
}

// Topic returns the topic of the occurrence
func (o *Occurrence) Topic() *Topic {
	if o == nil {
		return nil
	}

	return o.parent
}

// SetValue sets a string value
func (o *Occurrence) SetValue(value string) error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	}

	return o.topicMap.setLiteral(o, &o.literalValue, datatypes.NewStringLiteral(value))
}

// SetTypedValue sets a value with its datatype
func (o *Occurrence) SetTypedValue(value string, datatype locators.Locator) error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	}

	literal, errLiteral := datatypes.NewLiteral(value, datatype)
	if errLiteral != nil {
		return newModelError(o, errLiteral.Error())
	}

	return o.topicMap.setLiteral(o, &o.literalValue, literal)
}

// SetLocatorValue sets an IRI value
func (o *Occurrence) SetLocatorValue(value locators.Locator) error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	}

	if value.IsZero() {
		return newModelError(o, "occurrence value must not be null")
	}

	return o.topicMap.setLiteral(o, &o.literalValue, datatypes.NewLocatorLiteral(value))
}

// AddItemIdentifier adds an item identifier to the occurrence
func (o *Occurrence) AddItemIdentifier(loc locators.Locator) error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	}

	return o.topicMap.addItemIdentifier(o, loc)
}

// RemoveItemIdentifier removes an item identifier of the occurrence
func (o *Occurrence) RemoveItemIdentifier(loc locators.Locator) error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	}

	return o.topicMap.removeIdentifier(ITEM_IDENTIFIER, o, loc)
}

// SetType changes the type of the occurrence
func (o *Occurrence) SetType(occurrenceType *Topic) error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	}

	return o.topicMap.setType(o, occurrenceType)
}

// AddTheme adds a theme to the scope
func (o *Occurrence) AddTheme(theme *Topic) error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	}

	return o.topicMap.addTheme(o, theme)
}

// RemoveTheme removes a theme from the scope
func (o *Occurrence) RemoveTheme(theme *Topic) error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	}

	return o.topicMap.removeTheme(o, theme)
}

// SetReifier sets the reifier of the occurrence
func (o *Occurrence) SetReifier(reifier *Topic) error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	}

	return o.topicMap.setReifier(o, reifier)
}

// Remove removes the occurrence from its topic
func (o *Occurrence) Remove() error {
	if o == nil {
		return newModelError(nil, "nil occurrence")
	} else if o.removed {
		return nil
	}

	return o.topicMap.atomically(o, func() error {
		o.topicMap.removeOccurrence(o)
		return nil
	})
}
