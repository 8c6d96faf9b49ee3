package topicmaps

import (
	"go.uber.org/zap"
)

// checkTopicInUse returns a topic in use error if topic is referenced outside its own statements
func (tm *TopicMap) checkTopicInUse(topic *Topic) error {
	if topic.reified != nil {
		return newTopicInUseError(topic, "topic reifies a construct")
	}

	for _, role := range topic.rolesPlayed {
		if !tm.isMirroredInstanceRole(role) {
			return newTopicInUseError(topic, "topic plays a role")
		}
	}

	for instance := range topic.instances {
		if instance != topic {
			return newTopicInUseError(topic, "topic is the type of another topic")
		}
	}

	for value := range topic.typedBy {
		if !topic.isOwnStatement(value) {
			return newTopicInUseError(topic, "topic is used as a type")
		}
	}

	for value := range topic.themeOf {
		if !topic.isOwnStatement(value) {
			return newTopicInUseError(topic, "topic is used as a theme")
		}
	}

	return nil
}

// removeTopic removes topic, its names and occurrences if topic is not in use.
// Caller runs it in a transaction
func (tm *TopicMap) removeTopic(topic *Topic) error {
	if err := tm.checkTopicInUse(topic); err != nil {
		return err
	}

	for _, name := range topic.Names() {
		tm.removeName(name)
	}

	for _, occurrence := range topic.Occurrences() {
		tm.removeOccurrence(occurrence)
	}

	for _, topicType := range topic.Types() {
		tm.deleteTopicType(topic, topicType)
		if tm.features().TypeInstanceAssociations {
			tm.removeTypeInstanceAssociations(topic, topicType)
		}
	}

	for _, role := range topic.RolesPlayed() {
		// only mirrored type-instance roles remain
		tm.removeAssociation(role.parent)
	}

	for _, kind := range []IdentityKind{ITEM_IDENTIFIER, SUBJECT_IDENTIFIER, SUBJECT_LOCATOR} {
		for _, loc := range sortedLocators(*identitiesOf(kind, topic)) {
			tm.removeIdentity(kind, topic, loc)
		}
	}

	tm.detachTopic(topic)
	tm.unregisterConstruct(topic)
	tm.logger().Debug("topic removed",
		zap.String("topic_map", tm.locator.Reference()),
		zap.String("topic", topic.id),
	)

	return nil
}

// releaseStatement clears what any statement holds: item identifiers, reifier, type, themes.
// Then the statement is no longer reachable by id
func (tm *TopicMap) releaseStatement(value Construct) {
	for _, loc := range value.ItemIdentifiers() {
		tm.removeIdentity(ITEM_IDENTIFIER, value, loc)
	}

	if reifiable, ok := value.(Reifiable); ok {
		tm.assignReifier(reifiable, nil)
	}

	if typed, ok := value.(Typed); ok {
		tm.assignType(typed, nil)
	}

	if scoped, ok := value.(Scoped); ok {
		for _, theme := range scoped.scopedBase().Scope() {
			tm.deleteTheme(scoped, theme)
		}
	}

	tm.unregisterConstruct(value)
}

// removeAssociation removes association and its roles
func (tm *TopicMap) removeAssociation(association *Association) {
	if association.removed {
		return
	}

	for _, role := range association.Roles() {
		tm.removeRole(role)
	}

	tm.releaseStatement(association)
	tm.detachAssociation(association)
}

// removeRole removes role from its association, player no longer plays it
func (tm *TopicMap) removeRole(role *Role) {
	if role.removed {
		return
	}

	tm.assignPlayer(role, nil)
	tm.releaseStatement(role)
	tm.detachRole(role)
}

// removeName removes name and its variants
func (tm *TopicMap) removeName(name *Name) {
	if name.removed {
		return
	}

	for _, variant := range name.Variants() {
		tm.removeVariant(variant)
	}

	tm.releaseStatement(name)
	tm.detachName(name)
}

// removeOccurrence removes occurrence from its topic
func (tm *TopicMap) removeOccurrence(occurrence *Occurrence) {
	if occurrence.removed {
		return
	}

	tm.releaseStatement(occurrence)
	tm.detachOccurrence(occurrence)
}

// removeVariant removes variant from its name
func (tm *TopicMap) removeVariant(variant *Variant) {
	if variant.removed {
		return
	}

	tm.releaseStatement(variant)
	tm.detachVariant(variant)
}
