package topicmaps

import "github.com/zefrenchwan/topicmaps.git/locators"

// IdentityKind is the kind of an identity locator
type IdentityKind int

const (
	// ITEM_IDENTIFIER identifies a construct in its source representation
	ITEM_IDENTIFIER IdentityKind = iota
	// SUBJECT_IDENTIFIER identifies the subject a topic represents
	SUBJECT_IDENTIFIER
	// SUBJECT_LOCATOR is the address of the subject itself
	SUBJECT_LOCATOR
)

// String returns the name of the kind
func (k IdentityKind) String() string {
	switch k {
	case ITEM_IDENTIFIER:
		return "item identifier"
	case SUBJECT_IDENTIFIER:
		return "subject identifier"
	case SUBJECT_LOCATOR:
		return "subject locator"
	default:
		return "unknown"
	}
}

// identityIndex maps identities to constructs within a topic map.
// It just stores keys: collisions are detected before registration
type identityIndex struct {
	byItemIdentifier    map[locators.Locator]Construct
	bySubjectIdentifier map[locators.Locator]*Topic
	bySubjectLocator    map[locators.Locator]*Topic
	byId                map[string]Construct
}

// newIdentityIndex returns an empty index
func newIdentityIndex() identityIndex {
	return identityIndex{
		byItemIdentifier:    make(map[locators.Locator]Construct),
		bySubjectIdentifier: make(map[locators.Locator]*Topic),
		bySubjectLocator:    make(map[locators.Locator]*Topic),
		byId:                make(map[string]Construct),
	}
}

// register maps loc to value for that kind.
// Subject identifiers and locators only accept topics
func (i *identityIndex) register(kind IdentityKind, loc locators.Locator, value Construct) {
	switch kind {
	case ITEM_IDENTIFIER:
		i.byItemIdentifier[loc] = value
	case SUBJECT_IDENTIFIER:
		if topic, ok := value.(*Topic); ok {
			i.bySubjectIdentifier[loc] = topic
		}
	case SUBJECT_LOCATOR:
		if topic, ok := value.(*Topic); ok {
			i.bySubjectLocator[loc] = topic
		}
	}
}

// lookup returns the construct for loc and kind, or nil
func (i *identityIndex) lookup(kind IdentityKind, loc locators.Locator) Construct {
	switch kind {
	case ITEM_IDENTIFIER:
		if value, found := i.byItemIdentifier[loc]; found {
			return value
		}
	case SUBJECT_IDENTIFIER:
		if value, found := i.bySubjectIdentifier[loc]; found {
			return value
		}
	case SUBJECT_LOCATOR:
		if value, found := i.bySubjectLocator[loc]; found {
			return value
		}
	}

	return nil
}

// lookupTopic returns the topic for loc and kind, or nil if none or not a topic
func (i *identityIndex) lookupTopic(kind IdentityKind, loc locators.Locator) *Topic {
	if topic, ok := i.lookup(kind, loc).(*Topic); ok {
		return topic
	}

	return nil
}

// unregister removes the entry for loc and kind
func (i *identityIndex) unregister(kind IdentityKind, loc locators.Locator) {
	switch kind {
	case ITEM_IDENTIFIER:
		delete(i.byItemIdentifier, loc)
	case SUBJECT_IDENTIFIER:
		delete(i.bySubjectIdentifier, loc)
	case SUBJECT_LOCATOR:
		delete(i.bySubjectLocator, loc)
	}
}

// registerConstruct maps the id of value to value
func (i *identityIndex) registerConstruct(value Construct) {
	i.byId[value.Id()] = value
}

// unregisterConstruct removes the id of value
func (i *identityIndex) unregisterConstruct(value Construct) {
	delete(i.byId, value.Id())
}

// constructById returns the construct for id, or nil
func (i *identityIndex) constructById(id string) Construct {
	if value, found := i.byId[id]; found {
		return value
	}

	return nil
}
