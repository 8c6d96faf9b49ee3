package topicmaps

import (
	"go.uber.org/zap"
)

// topicPair is a pending equivalence: other will be merged into keep
type topicPair struct {
	keep  *Topic
	other *Topic
}

// merger merges topics until no pending equivalence remains.
// Merging two topics may make statements equal, and merging those statements may equate their reifiers:
// those cascades are queued, not run recursively
type merger struct {
	// tm is the topic map the merges happen in
	tm *TopicMap
	// pending merges, in order
	pending []topicPair
	// aliases links an absorbed topic to the topic that absorbed it
	aliases map[*Topic]*Topic
	// root is the topic the caller keeps using, it is never absorbed
	root *Topic
	// mapping links source topics to target topics during a topic map merge
	mapping map[*Topic]*Topic
	// merges counts the topics absorbed
	merges int
}

// newMerger returns a merger with no pending equivalence
func newMerger(tm *TopicMap) *merger {
	return &merger{
		tm:      tm,
		aliases: make(map[*Topic]*Topic),
		mapping: make(map[*Topic]*Topic),
	}
}

// mergeTopics merges other into keep, and all the cascading merges.
// Caller runs it in a transaction
func (tm *TopicMap) mergeTopics(keep, other *Topic) error {
	m := newMerger(tm)
	m.root = keep
	m.enqueue(keep, other)
	return m.run()
}

// resolve returns the live topic standing for topic after merges
func (m *merger) resolve(topic *Topic) *Topic {
	for {
		next, found := m.aliases[topic]
		if !found {
			return topic
		}

		topic = next
	}
}

// enqueue adds a pending equivalence
func (m *merger) enqueue(keep, other *Topic) {
	m.pending = append(m.pending, topicPair{keep: keep, other: other})
}

// run processes pending equivalences until none remains
func (m *merger) run() error {
	for len(m.pending) > 0 {
		pair := m.pending[0]
		m.pending = m.pending[1:]

		keep, other := m.resolve(pair.keep), m.resolve(pair.other)
		if keep == other {
			continue
		} else if other == m.root {
			keep, other = other, keep
		}

		if err := m.mergeOne(keep, other); err != nil {
			return err
		}
	}

	return nil
}

// mergeOne absorbs other into keep: identities, types, references, statements.
// Then duplicates among statements around keep collapse
func (m *merger) mergeOne(keep, other *Topic) error {
	tm := m.tm
	if keep.removed {
		return newRemovedError(keep)
	} else if other.removed {
		return newRemovedError(other)
	} else if keep.reified != nil && other.reified != nil {
		return newModelError(keep, "both topics reify a different construct")
	}

	// identities
	for _, kind := range []IdentityKind{ITEM_IDENTIFIER, SUBJECT_IDENTIFIER, SUBJECT_LOCATOR} {
		for _, loc := range sortedLocators(*identitiesOf(kind, other)) {
			tm.removeIdentity(kind, other, loc)
			tm.addIdentity(kind, keep, loc)
		}
	}

	// types and instances
	replace := func(topic *Topic) *Topic {
		if topic == other {
			return keep
		}

		return topic
	}

	for _, topicType := range other.Types() {
		tm.deleteTopicType(other, topicType)
		tm.insertTopicType(keep, replace(topicType))
	}

	for _, instance := range sortedConstructs(other.instances) {
		tm.deleteTopicType(instance, other)
		tm.insertTopicType(replace(instance), keep)
	}

	// typed and scoped constructs
	for _, reference := range sortedConstructs(other.typedBy) {
		tm.assignType(reference.(Typed), keep)
	}

	var changedNames []*Name
	for _, reference := range sortedConstructs(other.themeOf) {
		value := reference.(Scoped)
		tm.deleteTheme(value, other)
		tm.insertTheme(value, keep)
		switch statement := value.(type) {
		case *Name:
			changedNames = appendUnique(changedNames, statement)
		case *Variant:
			changedNames = appendUnique(changedNames, statement.parent)
		}
	}

	for _, name := range changedNames {
		for _, variant := range name.variants {
			if isSubsetOf(variant.themes, name.themes) {
				return newModelError(variant, "merge would make a variant scope equal to its name scope")
			}
		}
	}

	// roles played
	for _, role := range other.RolesPlayed() {
		tm.assignPlayer(role, keep)
	}

	// reification
	if reified := other.reified; reified != nil {
		tm.assignReifier(reified, nil)
		tm.assignReifier(reified, keep)
	}

	// statements
	for _, name := range other.Names() {
		tm.detachName(name)
		tm.attachName(keep, name)
	}

	for _, occurrence := range other.Occurrences() {
		tm.detachOccurrence(occurrence)
		tm.attachOccurrence(keep, occurrence)
	}

	tm.detachTopic(other)
	tm.unregisterConstruct(other)
	m.aliases[other] = keep
	m.merges++

	tm.logger().Debug("topics merged",
		zap.String("topic_map", tm.locator.Reference()),
		zap.String("kept", keep.id),
		zap.String("absorbed", other.id),
		zap.Int("pending", len(m.pending)),
	)

	m.collapseAround(keep)
	return nil
}
