package topicmaps

import (
	"github.com/zefrenchwan/topicmaps.git/locators"
	"go.uber.org/zap"
)

// TopicMap is a graph of topics and associations, bound to a locator in its system.
// It owns the identity index of all its constructs
type TopicMap struct {
	construct
	reifiable

	// system the topic map belongs to
	system *TopicMapSystem
	// locator the topic map is bound to
	locator locators.Locator
	// topics of the topic map
	topics []*Topic
	// associations of the topic map
	associations []*Association
	// index resolves identities and ids
	index identityIndex
	// journal is not nil during an operation
	journal *journal
	// loading allows mutations while the system builds the topic map, even if read only
	loading bool
}

// newTopicMap builds an empty topic map for system
func newTopicMap(system *TopicMapSystem, loc locators.Locator) *TopicMap {
	tm := &TopicMap{
		system:  system,
		locator: loc,
		index:   newIdentityIndex(),
	}

	tm.construct = newConstruct(tm)
	tm.index.registerConstruct(tm)
	return tm
}

// Locator returns the locator the topic map is bound to
func (tm *TopicMap) Locator() locators.Locator {
	if tm == nil {
		return locators.Locator{}
	}

	return tm.locator
}

// System returns the system owning the topic map
func (tm *TopicMap) System() *TopicMapSystem {
	if tm == nil {
		return nil
	}

	return tm.system
}

// Parent returns nil: a topic map has no parent
func (tm *TopicMap) Parent() Construct {
	return nil
}

// Topics returns the topics of the topic map
func (tm *TopicMap) Topics() []*Topic {
	if tm == nil {
		return nil
	}

	result := make([]*Topic, len(tm.topics))
	copy(result, tm.topics)
	return result
}

// Associations returns the associations of the topic map
func (tm *TopicMap) Associations() []*Association {
	if tm == nil {
		return nil
	}

	result := make([]*Association, len(tm.associations))
	copy(result, tm.associations)
	return result
}

// ConstructById returns the live construct with that id, nil if none
func (tm *TopicMap) ConstructById(id string) Construct {
	if tm == nil {
		return nil
	}

	return tm.index.constructById(id)
}

// ConstructByItemIdentifier returns the construct with that item identifier, nil if none
func (tm *TopicMap) ConstructByItemIdentifier(loc locators.Locator) Construct {
	if tm == nil {
		return nil
	}

	return tm.index.lookup(ITEM_IDENTIFIER, loc)
}

// TopicBySubjectIdentifier returns the topic with that subject identifier, nil if none
func (tm *TopicMap) TopicBySubjectIdentifier(loc locators.Locator) *Topic {
	if tm == nil {
		return nil
	}

	return tm.index.lookupTopic(SUBJECT_IDENTIFIER, loc)
}

// TopicBySubjectLocator returns the topic with that subject locator, nil if none
func (tm *TopicMap) TopicBySubjectLocator(loc locators.Locator) *Topic {
	if tm == nil {
		return nil
	}

	return tm.index.lookupTopic(SUBJECT_LOCATOR, loc)
}

// CreateTopic creates a topic with a generated item identifier based on the topic map locator
func (tm *TopicMap) CreateTopic() (*Topic, error) {
	var result *Topic
	err := tm.atomically(tm, func() error {
		topic := tm.newAttachedTopic()
		if loc, err := tm.locator.Resolve("#" + topic.id); err != nil {
			return newModelError(tm, err.Error())
		} else if tm.index.lookup(ITEM_IDENTIFIER, loc) == nil {
			tm.addIdentity(ITEM_IDENTIFIER, topic, loc)
		}

		result = topic
		return nil
	})

	return result, err
}

// CreateTopicByItemIdentifier returns the topic with that item identifier.
// If a topic has loc as a subject identifier, loc is added to it as an item identifier.
// Otherwise, a new topic is created.
// If loc identifies a construct that is not a topic, it returns an identity error
func (tm *TopicMap) CreateTopicByItemIdentifier(loc locators.Locator) (*Topic, error) {
	if loc.IsZero() {
		return nil, newModelError(tm, "item identifier must not be null")
	}

	var result *Topic
	err := tm.atomically(tm, func() error {
		if existing := tm.index.lookup(ITEM_IDENTIFIER, loc); existing != nil {
			if topic, ok := existing.(*Topic); ok {
				result = topic
				return nil
			}

			return newIdentityError(tm, existing, loc, "item identifier is used by a construct that is not a topic")
		}

		topic := tm.index.lookupTopic(SUBJECT_IDENTIFIER, loc)
		if topic == nil {
			topic = tm.newAttachedTopic()
		}

		tm.addIdentity(ITEM_IDENTIFIER, topic, loc)
		result = topic
		return nil
	})

	return result, err
}

// CreateTopicBySubjectIdentifier returns the topic with that subject identifier.
// If a topic has loc as an item identifier, loc is added to it as a subject identifier.
// Otherwise, a new topic is created
func (tm *TopicMap) CreateTopicBySubjectIdentifier(loc locators.Locator) (*Topic, error) {
	if loc.IsZero() {
		return nil, newModelError(tm, "subject identifier must not be null")
	}

	var result *Topic
	err := tm.atomically(tm, func() error {
		if topic := tm.index.lookupTopic(SUBJECT_IDENTIFIER, loc); topic != nil {
			result = topic
			return nil
		}

		topic := tm.index.lookupTopic(ITEM_IDENTIFIER, loc)
		if topic == nil {
			topic = tm.newAttachedTopic()
		}

		tm.addIdentity(SUBJECT_IDENTIFIER, topic, loc)
		result = topic
		return nil
	})

	return result, err
}

// CreateTopicBySubjectLocator returns the topic with that subject locator, or creates it
func (tm *TopicMap) CreateTopicBySubjectLocator(loc locators.Locator) (*Topic, error) {
	if loc.IsZero() {
		return nil, newModelError(tm, "subject locator must not be null")
	}

	var result *Topic
	err := tm.atomically(tm, func() error {
		topic := tm.index.lookupTopic(SUBJECT_LOCATOR, loc)
		if topic == nil {
			topic = tm.newAttachedTopic()
			tm.addIdentity(SUBJECT_LOCATOR, topic, loc)
		}

		result = topic
		return nil
	})

	return result, err
}

// CreateAssociation creates an association with given type and scope
func (tm *TopicMap) CreateAssociation(associationType *Topic, scope ...*Topic) (*Association, error) {
	var result *Association
	err := tm.atomically(tm, func() error {
		if err := tm.checkTopic(tm, associationType, "association type"); err != nil {
			return err
		} else if err := tm.checkThemes(tm, scope); err != nil {
			return err
		}

		association := &Association{construct: newConstruct(tm)}
		tm.attachAssociation(association)
		tm.registerConstruct(association)
		tm.assignType(association, associationType)
		for _, theme := range scope {
			tm.insertTheme(association, theme)
		}

		result = association
		return nil
	})

	return result, err
}

// AddItemIdentifier adds an item identifier to the topic map
func (tm *TopicMap) AddItemIdentifier(loc locators.Locator) error {
	return tm.addItemIdentifier(tm, loc)
}

// RemoveItemIdentifier removes an item identifier of the topic map
func (tm *TopicMap) RemoveItemIdentifier(loc locators.Locator) error {
	return tm.removeIdentifier(ITEM_IDENTIFIER, tm, loc)
}

// SetReifier sets the topic reifying the topic map
func (tm *TopicMap) SetReifier(reifier *Topic) error {
	return tm.setReifier(tm, reifier)
}

// MergeIn merges source into tm. Source is not modified.
// Merging a topic map into itself does nothing
func (tm *TopicMap) MergeIn(source *TopicMap) error {
	if tm == nil || source == nil {
		return newModelError(tm, "cannot merge a nil topic map")
	} else if tm == source {
		return nil
	}

	return tm.atomically(tm, func() error {
		return newMerger(tm).mergeTopicMap(source)
	})
}

// Atomically runs operation as a single change of tm.
// If operation returns an error, every change it made is undone
func (tm *TopicMap) Atomically(operation func() error) error {
	return tm.atomically(tm, operation)
}

// Remove unbinds the topic map from its system and releases all its constructs
func (tm *TopicMap) Remove() error {
	if tm == nil {
		return newModelError(nil, "nil topic map")
	} else if tm.removed {
		return nil
	} else if tm.system != nil && tm.system.features.ReadOnly {
		return newReadOnlyError(tm)
	}

	if tm.system != nil {
		tm.system.unbind(tm)
	}

	tm.release()
	return nil
}

// Close ends the use of the topic map. Content remains in the system
func (tm *TopicMap) Close() {
	if tm != nil {
		tm.logger().Debug("topic map closed", zap.String("locator", tm.locator.Reference()))
	}
}

// release drops all the content of the topic map
func (tm *TopicMap) release() {
	for _, topic := range tm.topics {
		topic.removed = true
	}

	for _, association := range tm.associations {
		association.removed = true
	}

	for _, value := range tm.index.byId {
		value.base().removed = true
	}

	tm.topics = nil
	tm.associations = nil
	tm.index = newIdentityIndex()
	tm.removed = true
}

// newAttachedTopic builds a new topic without identity and adds it to tm
func (tm *TopicMap) newAttachedTopic() *Topic {
	topic := newTopic(tm)
	tm.attachTopic(topic)
	tm.registerConstruct(topic)
	return topic
}

// logger returns the logger of the system
func (tm *TopicMap) logger() *zap.Logger {
	return tm.system.Logger()
}

// features returns the features of the system
func (tm *TopicMap) features() Features {
	return tm.system.Features()
}
