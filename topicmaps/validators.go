package topicmaps

import (
	"slices"

	"github.com/zefrenchwan/topicmaps.git/datatypes"
	"github.com/zefrenchwan/topicmaps.git/locators"
)

// checkTopic returns an error if value is nil, removed or belongs to another topic map.
// Usage names the parameter for the error message
func (tm *TopicMap) checkTopic(reporter Construct, value *Topic, usage string) error {
	if value == nil {
		return newModelError(reporter, usage+" must not be null")
	} else if value.topicMap != tm {
		return newModelError(reporter, usage+" belongs to another topic map")
	} else if value.removed {
		return newRemovedError(value)
	}

	return nil
}

// checkThemes applies checkTopic to each theme
func (tm *TopicMap) checkThemes(reporter Construct, themes []*Topic) error {
	for _, theme := range themes {
		if err := tm.checkTopic(reporter, theme, "theme"); err != nil {
			return err
		}
	}

	return nil
}

// mergeOnCollision merges other into keep if automerge is active, or returns an identity error
func (tm *TopicMap) mergeOnCollision(keep, other *Topic, loc locators.Locator) error {
	if !tm.features().AutoMerge {
		return newIdentityError(keep, other, loc, "identity is used by another topic and automerge is disabled")
	}

	return tm.mergeTopics(keep, other)
}

// addItemIdentifier adds loc to value.
// A collision with another topic merges both topics, any other collision is an identity error
func (tm *TopicMap) addItemIdentifier(value Construct, loc locators.Locator) error {
	if loc.IsZero() {
		return newModelError(value, "item identifier must not be null")
	}

	return tm.atomically(value, func() error {
		topic, isTopic := value.(*Topic)
		existing := tm.index.lookup(ITEM_IDENTIFIER, loc)
		if existing == value {
			return nil
		} else if existing != nil {
			other, otherIsTopic := existing.(*Topic)
			if !isTopic || !otherIsTopic {
				return newIdentityError(value, existing, loc, "item identifier is already used")
			}

			// other's item identifiers move to topic
			return tm.mergeOnCollision(topic, other, loc)
		}

		if isTopic {
			if other := tm.index.lookupTopic(SUBJECT_IDENTIFIER, loc); other != nil && other != topic {
				if err := tm.mergeOnCollision(topic, other, loc); err != nil {
					return err
				}
			}
		}

		tm.addIdentity(ITEM_IDENTIFIER, value, loc)
		return nil
	})
}

// addSubjectIdentifier adds loc to topic, merging on collisions
func (tm *TopicMap) addSubjectIdentifier(topic *Topic, loc locators.Locator) error {
	if loc.IsZero() {
		return newModelError(topic, "subject identifier must not be null")
	}

	return tm.atomically(topic, func() error {
		existing := tm.index.lookupTopic(SUBJECT_IDENTIFIER, loc)
		if existing == topic {
			return nil
		} else if existing != nil {
			return tm.mergeOnCollision(topic, existing, loc)
		}

		// an item identifier of a statement may equal a subject identifier
		if other := tm.index.lookupTopic(ITEM_IDENTIFIER, loc); other != nil && other != topic {
			if err := tm.mergeOnCollision(topic, other, loc); err != nil {
				return err
			}
		}

		tm.addIdentity(SUBJECT_IDENTIFIER, topic, loc)
		return nil
	})
}

// addSubjectLocator adds loc to topic, merging on collisions
func (tm *TopicMap) addSubjectLocator(topic *Topic, loc locators.Locator) error {
	if loc.IsZero() {
		return newModelError(topic, "subject locator must not be null")
	}

	return tm.atomically(topic, func() error {
		existing := tm.index.lookupTopic(SUBJECT_LOCATOR, loc)
		if existing == topic {
			return nil
		} else if existing != nil {
			return tm.mergeOnCollision(topic, existing, loc)
		}

		tm.addIdentity(SUBJECT_LOCATOR, topic, loc)
		return nil
	})
}

// removeIdentifier removes loc of that kind from value, if present
func (tm *TopicMap) removeIdentifier(kind IdentityKind, value Construct, loc locators.Locator) error {
	return tm.atomically(value, func() error {
		tm.removeIdentity(kind, value, loc)
		return nil
	})
}

// setType validates and sets the type of value
func (tm *TopicMap) setType(value Typed, topicType *Topic) error {
	return tm.atomically(value, func() error {
		if err := tm.checkTopic(value, topicType, "type"); err != nil {
			return err
		}

		tm.assignType(value, topicType)
		return nil
	})
}

// addTheme validates and adds a theme to value.
// For a name, each variant must keep a scope strictly larger than the new name scope
func (tm *TopicMap) addTheme(value Scoped, theme *Topic) error {
	return tm.atomically(value, func() error {
		if err := tm.checkTopic(value, theme, "theme"); err != nil {
			return err
		}

		if name, ok := value.(*Name); ok && !slices.Contains(name.themes, theme) {
			nameScope := append(slices.Clone(name.themes), theme)
			for _, variant := range name.variants {
				if isSubsetOf(variant.themes, nameScope) {
					return newModelError(value, "variant scope would not be a superset of its name scope")
				}
			}
		}

		tm.insertTheme(value, theme)
		return nil
	})
}

// removeTheme removes a theme of value.
// For a variant, only own themes may be removed and the scope must stay larger than the name scope
func (tm *TopicMap) removeTheme(value Scoped, theme *Topic) error {
	return tm.atomically(value, func() error {
		if theme == nil {
			return newModelError(value, "theme must not be null")
		}

		if variant, ok := value.(*Variant); ok {
			if !slices.Contains(variant.themes, theme) {
				if slices.Contains(variant.parent.themes, theme) {
					return newModelError(value, "theme belongs to the name scope")
				}

				return nil
			}

			remaining := removeValue(slices.Clone(variant.themes), theme)
			if isSubsetOf(remaining, variant.parent.themes) {
				return newModelError(value, "variant scope would not be a superset of its name scope")
			}
		}

		tm.deleteTheme(value, theme)
		return nil
	})
}

// setReifier validates and sets the reifier of value. Nil clears the reifier
func (tm *TopicMap) setReifier(value Reifiable, reifier *Topic) error {
	return tm.atomically(value, func() error {
		if reifier == nil {
			tm.assignReifier(value, nil)
			return nil
		} else if err := tm.checkTopic(value, reifier, "reifier"); err != nil {
			return err
		}

		if value.Reifier() == reifier {
			return nil
		} else if reifier.reified != nil && reifier.reified != value {
			return newModelError(value, "reifier already reifies another construct")
		}

		tm.assignReifier(value, reifier)
		return nil
	})
}

// setLiteral changes the literal of an occurrence or a variant
func (tm *TopicMap) setLiteral(value Construct, holder *literalValue, literal datatypes.Literal) error {
	return tm.atomically(value, func() error {
		tm.assignLiteral(holder, literal)
		return nil
	})
}

// addTopicType validates and adds topicType to the types of instance
func (tm *TopicMap) addTopicType(instance, topicType *Topic) error {
	return tm.atomically(instance, func() error {
		if err := tm.checkTopic(instance, topicType, "type"); err != nil {
			return err
		} else if instance.hasType(topicType) {
			return nil
		}

		tm.insertTopicType(instance, topicType)
		if tm.features().TypeInstanceAssociations {
			return tm.createTypeInstanceAssociation(instance, topicType)
		}

		return nil
	})
}

// removeTopicType removes topicType from the types of instance
func (tm *TopicMap) removeTopicType(instance, topicType *Topic) error {
	return tm.atomically(instance, func() error {
		if topicType == nil {
			return newModelError(instance, "type must not be null")
		} else if !instance.hasType(topicType) {
			return nil
		}

		tm.deleteTopicType(instance, topicType)
		if tm.features().TypeInstanceAssociations {
			tm.removeTypeInstanceAssociations(instance, topicType)
		}

		return nil
	})
}

// createName validates and creates a name for parent.
// Caller runs it in a transaction
func (tm *TopicMap) createName(parent *Topic, nameType *Topic, value string, scope []*Topic) (*Name, error) {
	if err := tm.checkTopic(parent, nameType, "name type"); err != nil {
		return nil, err
	} else if err := tm.checkThemes(parent, scope); err != nil {
		return nil, err
	}

	name := &Name{construct: newConstruct(tm), value: value}
	tm.attachName(parent, name)
	tm.registerConstruct(name)
	tm.assignType(name, nameType)
	for _, theme := range scope {
		tm.insertTheme(name, theme)
	}

	return name, nil
}

// createOccurrence validates and creates an occurrence for parent.
// Caller runs it in a transaction
func (tm *TopicMap) createOccurrence(parent *Topic, occurrenceType *Topic, literal datatypes.Literal, scope []*Topic) (*Occurrence, error) {
	if err := tm.checkTopic(parent, occurrenceType, "occurrence type"); err != nil {
		return nil, err
	} else if err := tm.checkThemes(parent, scope); err != nil {
		return nil, err
	}

	occurrence := &Occurrence{construct: newConstruct(tm)}
	occurrence.literal = literal
	tm.attachOccurrence(parent, occurrence)
	tm.registerConstruct(occurrence)
	tm.assignType(occurrence, occurrenceType)
	for _, theme := range scope {
		tm.insertTheme(occurrence, theme)
	}

	return occurrence, nil
}

// createVariant validates and creates a variant for parent.
// Scope is kept as given, even themes already in the name scope.
// Caller runs it in a transaction
func (tm *TopicMap) createVariant(parent *Name, literal datatypes.Literal, scope []*Topic) (*Variant, error) {
	if len(scope) == 0 {
		return nil, newModelError(parent, "variant scope must not be empty")
	} else if err := tm.checkThemes(parent, scope); err != nil {
		return nil, err
	} else if isSubsetOf(scope, parent.themes) {
		return nil, newModelError(parent, "variant scope must be a strict superset of its name scope")
	}

	variant := &Variant{construct: newConstruct(tm)}
	variant.literal = literal
	tm.attachVariant(parent, variant)
	tm.registerConstruct(variant)
	for _, theme := range scope {
		tm.insertTheme(variant, theme)
	}

	return variant, nil
}
