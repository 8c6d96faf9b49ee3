package topicmaps

import (
	"slices"
	"strings"
)

// Two statements are duplicates when they say the same thing about the same subjects.
// Signatures below compute a key per statement so that duplicates share a key.
// Topics are compared by id once resolved: within a topic map, resolver returns the topic itself.
// During a topic map merge, resolver maps source topics to target topics.

// topicResolver maps a topic to the topic it stands for
type topicResolver func(*Topic) *Topic

// sameTopic is the resolver within a topic map
func sameTopic(topic *Topic) *Topic {
	return topic
}

// signatureSeparator is not a valid character in ids nor in IRIs
const signatureSeparator = "\x00"

// topicKey returns the id of the resolved topic, empty for nil
func topicKey(topic *Topic, resolver topicResolver) string {
	if topic == nil {
		return ""
	}

	if resolved := resolver(topic); resolved != nil {
		return resolved.id
	}

	return ""
}

// scopeKey returns the sorted ids of resolved themes
func scopeKey(themes []*Topic, resolver topicResolver) string {
	keys := make([]string, 0, len(themes))
	for _, theme := range themes {
		key := topicKey(theme, resolver)
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)
	return strings.Join(keys, ",")
}

// nameSignature is type, value and scope
func nameSignature(name *Name, resolver topicResolver) string {
	return strings.Join([]string{
		topicKey(name.topicType, resolver),
		name.value,
		scopeKey(name.themes, resolver),
	}, signatureSeparator)
}

// occurrenceSignature is type, value, datatype and scope
func occurrenceSignature(occurrence *Occurrence, resolver topicResolver) string {
	return strings.Join([]string{
		topicKey(occurrence.topicType, resolver),
		occurrence.literal.Value,
		occurrence.literal.Datatype.Reference(),
		scopeKey(occurrence.themes, resolver),
	}, signatureSeparator)
}

// variantSignature is value, datatype and full scope (name scope included)
func variantSignature(variant *Variant, resolver topicResolver) string {
	themes := variant.themes
	if variant.parent != nil {
		themes = append(slices.Clone(variant.parent.themes), variant.themes...)
	}

	return strings.Join([]string{
		variant.literal.Value,
		variant.literal.Datatype.Reference(),
		scopeKey(themes, resolver),
	}, signatureSeparator)
}

// rolePlaySignature is role type and player, it identifies duplicate roles in an association
func rolePlaySignature(role *Role, resolver topicResolver) string {
	return topicKey(role.topicType, resolver) + signatureSeparator + topicKey(role.player, resolver)
}

// roleSignature is role type, player and reifier (or none)
func roleSignature(role *Role, resolver topicResolver) string {
	return rolePlaySignature(role, resolver) + signatureSeparator + topicKey(role.reifier, resolver)
}

// associationSignature is type, scope and the multiset of role signatures
func associationSignature(association *Association, resolver topicResolver) string {
	roles := make([]string, 0, len(association.roles))
	for _, role := range association.roles {
		roles = append(roles, roleSignature(role, resolver))
	}

	slices.Sort(roles)
	return strings.Join([]string{
		topicKey(association.topicType, resolver),
		scopeKey(association.themes, resolver),
		strings.Join(roles, ";"),
	}, signatureSeparator)
}

// collapseDuplicates merges each value into the first previous value with the same signature.
// Removed values are ignored
func collapseDuplicates[T Reifiable](values []T, signature func(T) string, absorb func(keep, duplicate T)) {
	survivors := make(map[string]T)
	for _, value := range values {
		if value.IsRemoved() {
			continue
		}

		key := signature(value)
		if keep, found := survivors[key]; found {
			absorb(keep, value)
		} else {
			survivors[key] = value
		}
	}
}

// absorbStatement moves item identifiers and reifier of duplicate to keep.
// If both have a reifier, reifiers are queued to merge
func (m *merger) absorbStatement(keep, duplicate Reifiable) {
	tm := m.tm
	for _, loc := range duplicate.ItemIdentifiers() {
		tm.removeIdentity(ITEM_IDENTIFIER, duplicate, loc)
		tm.addIdentity(ITEM_IDENTIFIER, keep, loc)
	}

	reifier := duplicate.Reifier()
	if reifier == nil {
		return
	}

	tm.assignReifier(duplicate, nil)
	if current := keep.Reifier(); current == nil {
		tm.assignReifier(keep, reifier)
	} else if current != reifier {
		m.enqueue(current, reifier)
	}
}

// collapseNames merges duplicate names of topic, then duplicate variants of each name
func (m *merger) collapseNames(topic *Topic) {
	collapseDuplicates(topic.Names(),
		func(name *Name) string { return nameSignature(name, sameTopic) },
		func(keep, duplicate *Name) {
			m.absorbStatement(keep, duplicate)
			for _, variant := range duplicate.Variants() {
				m.tm.detachVariant(variant)
				m.tm.attachVariant(keep, variant)
			}

			m.tm.removeName(duplicate)
		},
	)

	for _, name := range topic.names {
		m.collapseVariants(name)
	}
}

// collapseOccurrences merges duplicate occurrences of topic
func (m *merger) collapseOccurrences(topic *Topic) {
	collapseDuplicates(topic.Occurrences(),
		func(occurrence *Occurrence) string { return occurrenceSignature(occurrence, sameTopic) },
		func(keep, duplicate *Occurrence) {
			m.absorbStatement(keep, duplicate)
			m.tm.removeOccurrence(duplicate)
		},
	)
}

// collapseVariants merges duplicate variants of name
func (m *merger) collapseVariants(name *Name) {
	collapseDuplicates(name.Variants(),
		func(variant *Variant) string { return variantSignature(variant, sameTopic) },
		func(keep, duplicate *Variant) {
			m.absorbStatement(keep, duplicate)
			m.tm.removeVariant(duplicate)
		},
	)
}

// collapseRoles merges roles of association with same type and player
func (m *merger) collapseRoles(association *Association) {
	collapseDuplicates(association.Roles(),
		func(role *Role) string { return rolePlaySignature(role, sameTopic) },
		func(keep, duplicate *Role) {
			m.absorbStatement(keep, duplicate)
			m.tm.removeRole(duplicate)
		},
	)
}

// collapseAssociation merges association into an equivalent association, if any.
// Candidates are the associations of the first player, or all associations if there is no role
func (m *merger) collapseAssociation(association *Association) {
	if association.removed {
		return
	}

	var candidates []*Association
	if len(association.roles) == 0 {
		candidates = m.tm.Associations()
	} else {
		for _, role := range association.roles[0].player.rolesPlayed {
			candidates = appendUnique(candidates, role.parent)
		}
	}

	signature := associationSignature(association, sameTopic)
	for _, candidate := range candidates {
		if candidate == association || candidate.removed {
			continue
		} else if associationSignature(candidate, sameTopic) != signature {
			continue
		}

		m.absorbAssociation(candidate, association)
		return
	}
}

// absorbAssociation merges duplicate into keep. Both have the same signature
func (m *merger) absorbAssociation(keep, duplicate *Association) {
	m.absorbStatement(keep, duplicate)

	matched := make(map[*Role]bool)
	for _, role := range duplicate.Roles() {
		signature := roleSignature(role, sameTopic)
		for _, candidate := range keep.roles {
			if !matched[candidate] && roleSignature(candidate, sameTopic) == signature {
				matched[candidate] = true
				m.absorbStatement(candidate, role)
				break
			}
		}
	}

	m.tm.removeAssociation(duplicate)
}

// collapseAround removes duplicates among the statements that refer to topic
func (m *merger) collapseAround(topic *Topic) {
	topics := []*Topic{topic}
	var names []*Name
	var associations []*Association

	references := append(sortedConstructs(topic.typedBy), sortedConstructs(topic.themeOf)...)
	for _, reference := range references {
		switch statement := reference.(type) {
		case *Name:
			topics = appendUnique(topics, statement.parent)
		case *Occurrence:
			topics = appendUnique(topics, statement.parent)
		case *Variant:
			names = appendUnique(names, statement.parent)
		case *Role:
			associations = appendUnique(associations, statement.parent)
		case *Association:
			associations = appendUnique(associations, statement)
		}
	}

	for _, role := range topic.rolesPlayed {
		associations = appendUnique(associations, role.parent)
	}

	for _, current := range topics {
		if !current.removed {
			m.collapseNames(current)
			m.collapseOccurrences(current)
		}
	}

	for _, name := range names {
		if !name.removed {
			m.collapseVariants(name)
		}
	}

	for _, association := range associations {
		if !association.removed {
			m.collapseRoles(association)
			m.collapseAssociation(association)
		}
	}
}
