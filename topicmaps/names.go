package topicmaps

import (
	"github.com/zefrenchwan/topicmaps.git/datatypes"
	"github.com/zefrenchwan/topicmaps.git/locators"
)

// Name is a typed and scoped label of a topic
type Name struct {
	construct
	reifiable
	typed
	scoped

	// parent is the topic the name belongs to
	parent *Topic
	// value of the name
	value string
	// variants are alternative forms of the name
	variants []*Variant
}

// Parent returns the topic of the name
func (n *Name) Parent() Construct {
	if n == nil || n.parent == nil {
		return nil
	}

	return n.parent
}

// Topic returns the topic of the name
func (n *Name) Topic() *Topic {
	if n == nil {
		return nil
	}

	return n.parent
}

// Value returns the value of the name
func (n *Name) Value() string {
	if n == nil {
		return ""
	}

	return n.value
}

// SetValue changes the value of the name
func (n *Name) SetValue(value string) error {
	if n == nil {
		return newModelError(nil, "nil name")
	}

	return n.topicMap.atomically(n, func() error {
		n.topicMap.assignNameValue(n, value)
		return nil
	})
}

// Variants returns the variants of the name
func (n *Name) Variants() []*Variant {
	if n == nil {
		return nil
	}

	result := make([]*Variant, len(n.variants))
	copy(result, n.variants)
	return result
}

// CreateVariant creates a variant with a string value.
// Scope must contain at least one theme that is not in the name scope
func (n *Name) CreateVariant(value string, scope ...*Topic) (*Variant, error) {
	return n.createVariant(datatypes.NewStringLiteral(value), scope)
}

// CreateTypedVariant creates a variant with an explicit datatype
func (n *Name) CreateTypedVariant(value string, datatype locators.Locator, scope ...*Topic) (*Variant, error) {
	literal, errLiteral := datatypes.NewLiteral(value, datatype)
	if errLiteral != nil {
		return nil, newModelError(n, errLiteral.Error())
	}

	return n.createVariant(literal, scope)
}

// CreateLocatorVariant creates a variant with an IRI value
func (n *Name) CreateLocatorVariant(value locators.Locator, scope ...*Topic) (*Variant, error) {
	if n == nil {
		return nil, newModelError(nil, "nil name")
	} else if value.IsZero() {
		return nil, newModelError(n, "variant value must not be null")
	}

	return n.createVariant(datatypes.NewLocatorLiteral(value), scope)
}

func (n *Name) createVariant(literal datatypes.Literal, scope []*Topic) (*Variant, error) {
	if n == nil {
		return nil, newModelError(nil, "nil name")
	}

	var result *Variant
	err := n.topicMap.atomically(n, func() error {
		variant, errVariant := n.topicMap.createVariant(n, literal, scope)
		result = variant
		return errVariant
	})

	return result, err
}

// AddItemIdentifier adds an item identifier to the name
func (n *Name) AddItemIdentifier(loc locators.Locator) error {
	if n == nil {
		return newModelError(nil, "nil name")
	}

	return n.topicMap.addItemIdentifier(n, loc)
}

// RemoveItemIdentifier removes an item identifier of the name
func (n *Name) RemoveItemIdentifier(loc locators.Locator) error {
	if n == nil {
		return newModelError(nil, "nil name")
	}

	return n.topicMap.removeIdentifier(ITEM_IDENTIFIER, n, loc)
}

// SetType changes the type of the name
func (n *Name) SetType(nameType *Topic) error {
	if n == nil {
		return newModelError(nil, "nil name")
	}

	return n.topicMap.setType(n, nameType)
}

// AddTheme adds a theme to the name scope.
// Variants scopes grow accordingly. It fails if a variant scope would become the name scope
func (n *Name) AddTheme(theme *Topic) error {
	if n == nil {
		return newModelError(nil, "nil name")
	}

	return n.topicMap.addTheme(n, theme)
}

// RemoveTheme removes a theme from the name scope
func (n *Name) RemoveTheme(theme *Topic) error {
	if n == nil {
		return newModelError(nil, "nil name")
	}

	return n.topicMap.removeTheme(n, theme)
}

// SetReifier sets the reifier of the name
func (n *Name) SetReifier(reifier *Topic) error {
	if n == nil {
		return newModelError(nil, "nil name")
	}

	return n.topicMap.setReifier(n, reifier)
}

// Remove removes the name and its variants
func (n *Name) Remove() error {
	if n == nil {
		return newModelError(nil, "nil name")
	} else if n.removed {
		return nil
	}

	return n.topicMap.atomically(n, func() error {
		n.topicMap.removeName(n)
		return nil
	})
}

// Variant is an alternative form of a name, for a more specific scope.
// Its scope is the scope of its name plus its own themes
type Variant struct {
	construct
	reifiable
	scoped
	literalValue

	// parent is the name of the variant
	parent *Name
}

// Parent returns the name of the variant
func (v *Variant) Parent() Construct {
	if v == nil || v.parent == nil {
		return nil
	}

	return v.parent
}

// Name returns the name of the variant
func (v *Variant) Name() *Name {
	if v == nil {
		return nil
	}

	return v.parent
}

// Scope returns the union of the name scope and the own themes of the variant
func (v *Variant) Scope() []*Topic {
	if v == nil {
		return nil
	} else if v.parent == nil {
		return sortedTopics(v.themes)
	}

	return unionTopics(v.parent.themes, v.themes)
}

// OwnThemes returns the themes added to the variant, in addition to the name scope
func (v *Variant) OwnThemes() []*Topic {
	if v == nil {
		return nil
	}

	return sortedTopics(v.themes)
}

// AddTheme adds a theme to the variant
func (v *Variant) AddTheme(theme *Topic) error {
	if v == nil {
		return newModelError(nil, "nil variant")
	}

	return v.topicMap.addTheme(v, theme)
}

// RemoveTheme removes an own theme of the variant.
// It fails for themes coming from the name, or if the scope would be the name scope
func (v *Variant) RemoveTheme(theme *Topic) error {
	if v == nil {
		return newModelError(nil, "nil variant")
	}

	return v.topicMap.removeTheme(v, theme)
}

// SetValue sets a string value
func (v *Variant) SetValue(value string) error {
	if v == nil {
		return newModelError(nil, "nil variant")
	}

	return v.topicMap.setLiteral(v, &v.literalValue, datatypes.NewStringLiteral(value))
}

// SetTypedValue sets a value with its datatype
func (v *Variant) SetTypedValue(value string, datatype locators.Locator) error {
	if v == nil {
		return newModelError(nil, "nil variant")
	}

	literal, errLiteral := datatypes.NewLiteral(value, datatype)
	if errLiteral != nil {
		return newModelError(v, errLiteral.Error())
	}

	return v.topicMap.setLiteral(v, &v.literalValue, literal)
}

// SetLocatorValue sets an IRI value
func (v *Variant) SetLocatorValue(value locators.Locator) error {
	if v == nil {
		return newModelError(nil, "nil variant")
	}

	if value.IsZero() {
		return newModelError(v, "variant value must not be null")
	}

	return v.topicMap.setLiteral(v, &v.literalValue, datatypes.NewLocatorLiteral(value))
}

// AddItemIdentifier adds an item identifier to the variant
func (v *Variant) AddItemIdentifier(loc locators.Locator) error {
	if v == nil {
		return newModelError(nil, "nil variant")
	}

	return v.topicMap.addItemIdentifier(v, loc)
}

// RemoveItemIdentifier removes an item identifier of the variant
func (v *Variant) RemoveItemIdentifier(loc locators.Locator) error {
	if v == nil {
		return newModelError(nil, "nil variant")
	}

	return v.topicMap.removeIdentifier(ITEM_IDENTIFIER, v, loc)
}

// SetReifier sets the reifier of the variant
func (v *Variant) SetReifier(reifier *Topic) error {
	if v == nil {
		return newModelError(nil, "nil variant")
	}

	return v.topicMap.setReifier(v, reifier)
}

// Remove removes the variant from its name
func (v *Variant) Remove() error {
	if v == nil {
		return newModelError(nil, "nil variant")
	} else if v.removed {
		return nil
	}

	return v.topicMap.atomically(v, func() error {
		v.topicMap.removeVariant(v)
		return nil
	})
}
