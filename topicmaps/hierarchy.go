package topicmaps

import (
	"slices"

	"github.com/zefrenchwan/topicmaps.git/locators"
)

const (
	// SUPERTYPE_SUBTYPE is the association type linking a subtype to its supertype
	SUPERTYPE_SUBTYPE = "http://psi.topicmaps.org/iso13250/model/supertype-subtype"
	// SUPERTYPE is the role type of the supertype
	SUPERTYPE = "http://psi.topicmaps.org/iso13250/model/supertype"
	// SUBTYPE is the role type of the subtype
	SUBTYPE = "http://psi.topicmaps.org/iso13250/model/subtype"
	// TYPE_INSTANCE is the association type mirroring topic types
	TYPE_INSTANCE = "http://psi.topicmaps.org/iso13250/model/type-instance"
	// TYPE is the role type of the type in a type-instance association
	TYPE = "http://psi.topicmaps.org/iso13250/model/type"
	// INSTANCE is the role type of the instance in a type-instance association
	INSTANCE = "http://psi.topicmaps.org/iso13250/model/instance"
)

// AddSupertype links subtype to supertype with a supertype-subtype association.
// For instance, cat is a subtype of animal
func (tm *TopicMap) AddSupertype(subtype, supertype *Topic) error {
	if tm == nil {
		return newModelError(nil, "nil topic map")
	}

	return tm.atomically(tm, func() error {
		if err := tm.checkTopic(tm, subtype, "subtype"); err != nil {
			return err
		} else if err := tm.checkTopic(tm, supertype, "supertype"); err != nil {
			return err
		} else if slices.Contains(tm.DirectSupertypes(subtype), supertype) {
			return nil
		}

		return tm.createBinaryAssociation(SUPERTYPE_SUBTYPE, SUPERTYPE, supertype, SUBTYPE, subtype)
	})
}

// DirectSupertypes returns the direct supertypes of topic, sorted by id.
// If topic has no supertype, result is empty
func (tm *TopicMap) DirectSupertypes(topic *Topic) []*Topic {
	return tm.linkedTopics(topic, SUPERTYPE_SUBTYPE, SUBTYPE, SUPERTYPE)
}

// DirectSubtypes returns the direct subtypes of topic, sorted by id.
// If topic has no subtype, result is empty
func (tm *TopicMap) DirectSubtypes(topic *Topic) []*Topic {
	return tm.linkedTopics(topic, SUPERTYPE_SUBTYPE, SUPERTYPE, SUBTYPE)
}

// Supertypes returns all the supertypes of topic, direct or not, sorted by id.
// Cycles are allowed, topic is part of the result only if it is its own supertype
func (tm *TopicMap) Supertypes(topic *Topic) []*Topic {
	var result []*Topic
	visited := map[*Topic]bool{}
	toVisit := tm.DirectSupertypes(topic)
	for len(toVisit) != 0 {
		current := toVisit[0]
		toVisit = toVisit[1:]
		if visited[current] {
			continue
		}

		visited[current] = true
		result = append(result, current)
		toVisit = append(toVisit, tm.DirectSupertypes(current)...)
	}

	return sortedTopics(result)
}

// IsInstanceOf returns true if topicType is a type of topic, or a supertype of one of its types
func (tm *TopicMap) IsInstanceOf(topic, topicType *Topic) bool {
	if topic == nil || topicType == nil {
		return false
	}

	for _, current := range topic.types {
		if current == topicType || slices.Contains(tm.Supertypes(current), topicType) {
			return true
		}
	}

	return false
}

// linkedTopics returns the players of targetRole in associations of associationType where topic plays sourceRole
func (tm *TopicMap) linkedTopics(topic *Topic, associationType, sourceRole, targetRole string) []*Topic {
	result := make([]*Topic, 0)
	if tm == nil || topic == nil {
		return result
	}

	associationTopic := tm.TopicBySubjectIdentifier(locators.MustLocator(associationType))
	sourceTopic := tm.TopicBySubjectIdentifier(locators.MustLocator(sourceRole))
	targetTopic := tm.TopicBySubjectIdentifier(locators.MustLocator(targetRole))
	if associationTopic == nil || sourceTopic == nil || targetTopic == nil {
		return result
	}

	for _, role := range topic.rolesPlayed {
		if role.topicType != sourceTopic || role.parent.topicType != associationTopic {
			continue
		}

		for _, other := range role.parent.roles {
			if other.topicType == targetTopic {
				result = appendUnique(result, other.player)
			}
		}
	}

	return sortedTopics(result)
}

// createBinaryAssociation creates an association typed by a subject identifier, with two roles
func (tm *TopicMap) createBinaryAssociation(associationType, firstRole string, firstPlayer *Topic, secondRole string, secondPlayer *Topic) error {
	types := make([]*Topic, 0, 3)
	for _, reference := range []string{associationType, firstRole, secondRole} {
		if topic, err := tm.CreateTopicBySubjectIdentifier(locators.MustLocator(reference)); err != nil {
			return err
		} else {
			types = append(types, topic)
		}
	}

	association, err := tm.CreateAssociation(types[0])
	if err != nil {
		return err
	} else if _, err := association.CreateRole(types[1], firstPlayer); err != nil {
		return err
	} else if _, err := association.CreateRole(types[2], secondPlayer); err != nil {
		return err
	}

	return nil
}

// createTypeInstanceAssociation mirrors a topic type as a type-instance association
func (tm *TopicMap) createTypeInstanceAssociation(instance, topicType *Topic) error {
	return tm.createBinaryAssociation(TYPE_INSTANCE, TYPE, topicType, INSTANCE, instance)
}

// removeTypeInstanceAssociations removes the type-instance associations between instance and topicType
func (tm *TopicMap) removeTypeInstanceAssociations(instance, topicType *Topic) {
	typeRole := tm.TopicBySubjectIdentifier(locators.MustLocator(TYPE))
	for _, role := range instance.RolesPlayed() {
		if !tm.isMirroredInstanceRole(role) {
			continue
		}

		for _, other := range role.parent.roles {
			if other.topicType == typeRole && other.player == topicType {
				tm.removeAssociation(role.parent)
				break
			}
		}
	}
}

// isMirroredInstanceRole returns true for the instance role of a type-instance association,
// when those associations mirror topic types
func (tm *TopicMap) isMirroredInstanceRole(role *Role) bool {
	if !tm.features().TypeInstanceAssociations || role.parent == nil {
		return false
	}

	associationType := tm.TopicBySubjectIdentifier(locators.MustLocator(TYPE_INSTANCE))
	instanceRole := tm.TopicBySubjectIdentifier(locators.MustLocator(INSTANCE))
	return associationType != nil && instanceRole != nil &&
		role.parent.topicType == associationType && role.topicType == instanceRole
}
