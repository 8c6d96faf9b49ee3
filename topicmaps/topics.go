package topicmaps

import (
	"slices"

	"github.com/zefrenchwan/topicmaps.git/datatypes"
	"github.com/zefrenchwan/topicmaps.git/locators"
)

const (
	// DEFAULT_NAME_TYPE is the subject identifier of the type of names created without type
	DEFAULT_NAME_TYPE = "http://psi.topicmaps.org/iso13250/model/topic-name"
)

// Topic represents a subject in the topic map.
// It is the only construct with subject identifiers and locators, and the only one that merges
type Topic struct {
	construct

	// subjectIdentifiers identify the subject
	subjectIdentifiers []locators.Locator
	// subjectLocators are the addresses of the subject
	subjectLocators []locators.Locator
	// types of the topic (instance of)
	types []*Topic
	// names of the topic
	names []*Name
	// occurrences of the topic
	occurrences []*Occurrence
	// rolesPlayed are the roles with this topic as player
	rolesPlayed []*Role
	// reified is the construct this topic reifies, if any
	reified Reifiable

	// instances are the topics having this one as a type
	instances map[*Topic]struct{}
	// typedBy are the typed constructs having this topic as type
	typedBy map[Construct]struct{}
	// themeOf are the scoped constructs having this topic as an own theme
	themeOf map[Construct]struct{}
}

// newTopic builds a detached topic for tm
func newTopic(tm *TopicMap) *Topic {
	return &Topic{
		construct: newConstruct(tm),
		instances: make(map[*Topic]struct{}),
		typedBy:   make(map[Construct]struct{}),
		themeOf:   make(map[Construct]struct{}),
	}
}

// Parent returns the topic map of the topic
func (t *Topic) Parent() Construct {
	if t == nil {
		return nil
	}

	return t.topicMap
}

// SubjectIdentifiers returns the sorted subject identifiers
func (t *Topic) SubjectIdentifiers() []locators.Locator {
	if t == nil {
		return nil
	}

	return sortedLocators(t.subjectIdentifiers)
}

// SubjectLocators returns the sorted subject locators
func (t *Topic) SubjectLocators() []locators.Locator {
	if t == nil {
		return nil
	}

	return sortedLocators(t.subjectLocators)
}

// Types returns the types of the topic, sorted by id
func (t *Topic) Types() []*Topic {
	if t == nil {
		return nil
	}

	return sortedTopics(t.types)
}

// Names returns the names of the topic
func (t *Topic) Names() []*Name {
	if t == nil {
		return nil
	}

	result := make([]*Name, len(t.names))
	copy(result, t.names)
	return result
}

// NamesByType returns the names of the topic with that type
func (t *Topic) NamesByType(nameType *Topic) []*Name {
	var result []*Name
	for _, name := range t.Names() {
		if name.topicType == nameType {
			result = append(result, name)
		}
	}

	return result
}

// Occurrences returns the occurrences of the topic
func (t *Topic) Occurrences() []*Occurrence {
	if t == nil {
		return nil
	}

	result := make([]*Occurrence, len(t.occurrences))
	copy(result, t.occurrences)
	return result
}

// OccurrencesByType returns the occurrences of the topic with that type
func (t *Topic) OccurrencesByType(occurrenceType *Topic) []*Occurrence {
	var result []*Occurrence
	for _, occurrence := range t.Occurrences() {
		if occurrence.topicType == occurrenceType {
			result = append(result, occurrence)
		}
	}

	return result
}

// RolesPlayed returns the roles the topic plays
func (t *Topic) RolesPlayed() []*Role {
	if t == nil {
		return nil
	}

	result := make([]*Role, len(t.rolesPlayed))
	copy(result, t.rolesPlayed)
	return result
}

// RolesPlayedByType returns the roles played with that role type
func (t *Topic) RolesPlayedByType(roleType *Topic) []*Role {
	var result []*Role
	for _, role := range t.RolesPlayed() {
		if role.topicType == roleType {
			result = append(result, role)
		}
	}

	return result
}

// RolesPlayedByTypes returns the roles played with that role type, in associations of that type
func (t *Topic) RolesPlayedByTypes(roleType, associationType *Topic) []*Role {
	var result []*Role
	for _, role := range t.RolesPlayedByType(roleType) {
		if role.parent != nil && role.parent.topicType == associationType {
			result = append(result, role)
		}
	}

	return result
}

// Reified returns the construct this topic reifies, nil if none
func (t *Topic) Reified() Reifiable {
	if t == nil {
		return nil
	}

	return t.reified
}

// AddItemIdentifier adds an item identifier, merging with the topic holding it if any
func (t *Topic) AddItemIdentifier(loc locators.Locator) error {
	if t == nil {
		return newModelError(nil, "nil topic")
	}

	return t.topicMap.addItemIdentifier(t, loc)
}

// RemoveItemIdentifier removes an item identifier
func (t *Topic) RemoveItemIdentifier(loc locators.Locator) error {
	if t == nil {
		return newModelError(nil, "nil topic")
	}

	return t.topicMap.removeIdentifier(ITEM_IDENTIFIER, t, loc)
}

// AddSubjectIdentifier adds a subject identifier, merging with the topic holding it if any
func (t *Topic) AddSubjectIdentifier(loc locators.Locator) error {
	if t == nil {
		return newModelError(nil, "nil topic")
	}

	return t.topicMap.addSubjectIdentifier(t, loc)
}

// RemoveSubjectIdentifier removes a subject identifier
func (t *Topic) RemoveSubjectIdentifier(loc locators.Locator) error {
	if t == nil {
		return newModelError(nil, "nil topic")
	}

	return t.topicMap.removeIdentifier(SUBJECT_IDENTIFIER, t, loc)
}

// AddSubjectLocator adds a subject locator, merging with the topic holding it if any
func (t *Topic) AddSubjectLocator(loc locators.Locator) error {
	if t == nil {
		return newModelError(nil, "nil topic")
	}

	return t.topicMap.addSubjectLocator(t, loc)
}

// RemoveSubjectLocator removes a subject locator
func (t *Topic) RemoveSubjectLocator(loc locators.Locator) error {
	if t == nil {
		return newModelError(nil, "nil topic")
	}

	return t.topicMap.removeIdentifier(SUBJECT_LOCATOR, t, loc)
}

// AddType adds a type to the topic, no duplicate
func (t *Topic) AddType(topicType *Topic) error {
	if t == nil {
		return newModelError(nil, "nil topic")
	}

	return t.topicMap.addTopicType(t, topicType)
}

// RemoveType removes a type of the topic, if any
func (t *Topic) RemoveType(topicType *Topic) error {
	if t == nil {
		return newModelError(nil, "nil topic")
	}

	return t.topicMap.removeTopicType(t, topicType)
}

// CreateName creates a name with the default name type
func (t *Topic) CreateName(value string, scope ...*Topic) (*Name, error) {
	if t == nil {
		return nil, newModelError(nil, "nil topic")
	}

	var result *Name
	err := t.topicMap.atomically(t, func() error {
		nameType, errType := t.topicMap.CreateTopicBySubjectIdentifier(locators.MustLocator(DEFAULT_NAME_TYPE))
		if errType != nil {
			return errType
		}

		name, errName := t.topicMap.createName(t, nameType, value, scope)
		result = name
		return errName
	})

	return result, err
}

// CreateTypedName creates a name with an explicit type
func (t *Topic) CreateTypedName(nameType *Topic, value string, scope ...*Topic) (*Name, error) {
	if t == nil {
		return nil, newModelError(nil, "nil topic")
	}

	var result *Name
	err := t.topicMap.atomically(t, func() error {
		name, errName := t.topicMap.createName(t, nameType, value, scope)
		result = name
		return errName
	})

	return result, err
}

// CreateOccurrence creates an occurrence with a string value
func (t *Topic) CreateOccurrence(occurrenceType *Topic, value string, scope ...*Topic) (*Occurrence, error) {
	return t.createOccurrence(occurrenceType, datatypes.NewStringLiteral(value), scope)
}

// CreateTypedOccurrence creates an occurrence with an explicit datatype
func (t *Topic) CreateTypedOccurrence(occurrenceType *Topic, value string, datatype locators.Locator, scope ...*Topic) (*Occurrence, error) {
	literal, errLiteral := datatypes.NewLiteral(value, datatype)
	if errLiteral != nil {
		return nil, newModelError(t, errLiteral.Error())
	}

	return t.createOccurrence(occurrenceType, literal, scope)
}

// CreateLocatorOccurrence creates an occurrence with an IRI value
func (t *Topic) CreateLocatorOccurrence(occurrenceType *Topic, value locators.Locator, scope ...*Topic) (*Occurrence, error) {
	if value.IsZero() {
		return nil, newModelError(t, "occurrence value must not be null")
	}

	return t.createOccurrence(occurrenceType, datatypes.NewLocatorLiteral(value), scope)
}

// createOccurrence creates an occurrence in a transaction
func (t *Topic) createOccurrence(occurrenceType *Topic, literal datatypes.Literal, scope []*Topic) (*Occurrence, error) {
	if t == nil {
		return nil, newModelError(nil, "nil topic")
	}

	var result *Occurrence
	err := t.topicMap.atomically(t, func() error {
		occurrence, errOccurrence := t.topicMap.createOccurrence(t, occurrenceType, literal, scope)
		result = occurrence
		return errOccurrence
	})

	return result, err
}

// MergeIn merges other into t. Other is removed, t holds all its identities and statements.
// Merging a topic with itself does nothing
func (t *Topic) MergeIn(other *Topic) error {
	if t == nil || other == nil {
		return newModelError(t, "cannot merge a nil topic")
	} else if t == other {
		return nil
	} else if other.topicMap != t.topicMap {
		return newModelError(t, "cannot merge topics from different topic maps")
	}

	return t.topicMap.atomically(t, func() error {
		if other.removed {
			return newRemovedError(other)
		}

		return t.topicMap.mergeTopics(t, other)
	})
}

// Remove removes the topic and its statements.
// It fails if the topic is still used as a type, a player, a theme or a reifier
func (t *Topic) Remove() error {
	if t == nil {
		return newModelError(nil, "nil topic")
	} else if t.removed {
		return nil
	}

	return t.topicMap.atomically(t, func() error {
		return t.topicMap.removeTopic(t)
	})
}

// isOwnStatement returns true if value is a name, an occurrence or a variant of t
func (t *Topic) isOwnStatement(value Construct) bool {
	switch statement := value.(type) {
	case *Name:
		return statement.parent == t
	case *Occurrence:
		return statement.parent == t
	case *Variant:
		return statement.parent != nil && statement.parent.parent == t
	default:
		return false
	}
}

// hasType returns true if topicType is a direct type of t
func (t *Topic) hasType(topicType *Topic) bool {
	return slices.Contains(t.types, topicType)
}
