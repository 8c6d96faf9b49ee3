package topicmaps

import (
	"slices"

	"github.com/zefrenchwan/topicmaps.git/datatypes"
	"github.com/zefrenchwan/topicmaps.git/locators"
)

// Primitives below change the graph and the index without any check.
// Each one records its inverse so that a failing operation restores the graph.

// identitiesOf returns the set of locators of that kind for value
func identitiesOf(kind IdentityKind, value Construct) *[]locators.Locator {
	switch kind {
	case SUBJECT_IDENTIFIER:
		return &value.(*Topic).subjectIdentifiers
	case SUBJECT_LOCATOR:
		return &value.(*Topic).subjectLocators
	default:
		return &value.base().itemIdentifiers
	}
}

// addIdentity adds loc to value and registers it
func (tm *TopicMap) addIdentity(kind IdentityKind, value Construct, loc locators.Locator) {
	values := identitiesOf(kind, value)
	if slices.Contains(*values, loc) {
		return
	}

	*values = append(*values, loc)
	tm.index.register(kind, loc, value)
	tm.record(func() { tm.removeIdentity(kind, value, loc) })
}

// removeIdentity removes loc from value and unregisters it
func (tm *TopicMap) removeIdentity(kind IdentityKind, value Construct, loc locators.Locator) {
	values := identitiesOf(kind, value)
	if !slices.Contains(*values, loc) {
		return
	}

	*values = removeValue(*values, loc)
	if tm.index.lookup(kind, loc) == value {
		tm.index.unregister(kind, loc)
	}

	tm.record(func() { tm.addIdentity(kind, value, loc) })
}

// registerConstruct makes value reachable by id
func (tm *TopicMap) registerConstruct(value Construct) {
	tm.index.registerConstruct(value)
	value.base().removed = false
	tm.record(func() { tm.unregisterConstruct(value) })
}

// unregisterConstruct flags value as removed, its id is no longer resolvable
func (tm *TopicMap) unregisterConstruct(value Construct) {
	tm.index.unregisterConstruct(value)
	value.base().removed = true
	tm.record(func() { tm.registerConstruct(value) })
}

func (tm *TopicMap) attachTopic(topic *Topic) {
	tm.topics = append(tm.topics, topic)
	tm.record(func() { tm.detachTopic(topic) })
}

func (tm *TopicMap) detachTopic(topic *Topic) {
	tm.topics = removeValue(tm.topics, topic)
	tm.record(func() { tm.attachTopic(topic) })
}

func (tm *TopicMap) attachAssociation(association *Association) {
	tm.associations = append(tm.associations, association)
	tm.record(func() { tm.detachAssociation(association) })
}

func (tm *TopicMap) detachAssociation(association *Association) {
	tm.associations = removeValue(tm.associations, association)
	tm.record(func() { tm.attachAssociation(association) })
}

func (tm *TopicMap) attachRole(parent *Association, role *Role) {
	role.parent = parent
	parent.roles = append(parent.roles, role)
	tm.record(func() { tm.detachRole(role) })
}

func (tm *TopicMap) detachRole(role *Role) {
	parent := role.parent
	parent.roles = removeValue(parent.roles, role)
	tm.record(func() { tm.attachRole(parent, role) })
}

func (tm *TopicMap) attachName(parent *Topic, name *Name) {
	name.parent = parent
	parent.names = append(parent.names, name)
	tm.record(func() { tm.detachName(name) })
}

func (tm *TopicMap) detachName(name *Name) {
	parent := name.parent
	parent.names = removeValue(parent.names, name)
	tm.record(func() { tm.attachName(parent, name) })
}

func (tm *TopicMap) attachOccurrence(parent *Topic, occurrence *Occurrence) {
	occurrence.parent = parent
	parent.occurrences = append(parent.occurrences, occurrence)
	tm.record(func() { tm.detachOccurrence(occurrence) })
}

func (tm *TopicMap) detachOccurrence(occurrence *Occurrence) {
	parent := occurrence.parent
	parent.occurrences = removeValue(parent.occurrences, occurrence)
	tm.record(func() { tm.attachOccurrence(parent, occurrence) })
}

func (tm *TopicMap) attachVariant(parent *Name, variant *Variant) {
	variant.parent = parent
	parent.variants = append(parent.variants, variant)
	tm.record(func() { tm.detachVariant(variant) })
}

func (tm *TopicMap) detachVariant(variant *Variant) {
	parent := variant.parent
	parent.variants = removeValue(parent.variants, variant)
	tm.record(func() { tm.attachVariant(parent, variant) })
}

// assignType sets the type of value and maintains the typedBy back references
func (tm *TopicMap) assignType(value Typed, topicType *Topic) {
	state := value.typedBase()
	previous := state.topicType
	if previous == topicType {
		return
	}

	if previous != nil {
		delete(previous.typedBy, value)
	}

	state.topicType = topicType
	if topicType != nil {
		topicType.typedBy[value] = struct{}{}
	}

	tm.record(func() { tm.assignType(value, previous) })
}

// insertTheme adds theme to the own themes of value
func (tm *TopicMap) insertTheme(value Scoped, theme *Topic) {
	state := value.scopedBase()
	if slices.Contains(state.themes, theme) {
		return
	}

	state.themes = append(state.themes, theme)
	theme.themeOf[value] = struct{}{}
	tm.record(func() { tm.deleteTheme(value, theme) })
}

// deleteTheme removes theme from the own themes of value
func (tm *TopicMap) deleteTheme(value Scoped, theme *Topic) {
	state := value.scopedBase()
	if !slices.Contains(state.themes, theme) {
		return
	}

	state.themes = removeValue(state.themes, theme)
	delete(theme.themeOf, value)
	tm.record(func() { tm.insertTheme(value, theme) })
}

// insertTopicType adds topicType to the types of instance
func (tm *TopicMap) insertTopicType(instance, topicType *Topic) {
	if slices.Contains(instance.types, topicType) {
		return
	}

	instance.types = append(instance.types, topicType)
	topicType.instances[instance] = struct{}{}
	tm.record(func() { tm.deleteTopicType(instance, topicType) })
}

// deleteTopicType removes topicType from the types of instance
func (tm *TopicMap) deleteTopicType(instance, topicType *Topic) {
	if !slices.Contains(instance.types, topicType) {
		return
	}

	instance.types = removeValue(instance.types, topicType)
	delete(topicType.instances, instance)
	tm.record(func() { tm.insertTopicType(instance, topicType) })
}

// assignPlayer sets the player of role and maintains the roles played
func (tm *TopicMap) assignPlayer(role *Role, player *Topic) {
	previous := role.player
	if previous == player {
		return
	}

	if previous != nil {
		previous.rolesPlayed = removeValue(previous.rolesPlayed, role)
	}

	role.player = player
	if player != nil {
		player.rolesPlayed = append(player.rolesPlayed, role)
	}

	tm.record(func() { tm.assignPlayer(role, previous) })
}

// assignReifier sets the reifier of value, both sides.
// Caller ensures that reifier does not reify another construct
func (tm *TopicMap) assignReifier(value Reifiable, reifier *Topic) {
	state := value.reifiableBase()
	previous := state.reifier
	if previous == reifier {
		return
	}

	if previous != nil {
		previous.reified = nil
	}

	state.reifier = reifier
	if reifier != nil {
		reifier.reified = value
	}

	tm.record(func() { tm.assignReifier(value, previous) })
}

// assignLiteral sets the literal of an occurrence or a variant
func (tm *TopicMap) assignLiteral(holder *literalValue, value datatypes.Literal) {
	previous := holder.literal
	if previous == value {
		return
	}

	holder.literal = value
	tm.record(func() { tm.assignLiteral(holder, previous) })
}

// assignNameValue sets the value of a name
func (tm *TopicMap) assignNameValue(name *Name, value string) {
	previous := name.value
	if previous == value {
		return
	}

	name.value = value
	tm.record(func() { tm.assignNameValue(name, previous) })
}
