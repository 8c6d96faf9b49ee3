package topicmaps

import (
	"go.uber.org/zap"
)

// mergeTopicMap copies source into m.tm.
// Source topics map to target topics sharing an identity, or to new topics.
// Statements are copied unless an equivalent statement already exists.
// Caller runs it in a transaction
func (m *merger) mergeTopicMap(source *TopicMap) error {
	tm := m.tm
	if source.removed {
		return newRemovedError(source)
	}

	sourceTopics := sortedTopics(source.topics)
	for _, topic := range sourceTopics {
		if err := m.mapTopic(topic); err != nil {
			return err
		}
	}

	for _, topic := range sourceTopics {
		target := m.mapped(topic)
		for _, topicType := range topic.types {
			tm.insertTopicType(target, m.mapped(topicType))
		}
	}

	for _, topic := range sourceTopics {
		if err := m.copyNames(topic); err != nil {
			return err
		} else if err := m.copyOccurrences(topic); err != nil {
			return err
		}
	}

	if err := m.copyAssociations(source); err != nil {
		return err
	} else if err := m.copyItemIdentifiers(source, tm); err != nil {
		return err
	} else if err := m.copyReifier(source, tm); err != nil {
		return err
	} else if err := m.run(); err != nil {
		return err
	}

	tm.logger().Debug("topic maps merged",
		zap.String("target", tm.locator.Reference()),
		zap.String("source", source.locator.Reference()),
		zap.Int("topics", len(sourceTopics)),
		zap.Int("merges", m.merges),
	)

	return nil
}

// mapped returns the target topic for a source topic
func (m *merger) mapped(topic *Topic) *Topic {
	if topic == nil {
		return nil
	}

	return m.resolve(m.mapping[topic])
}

// mapTopic finds the target topics sharing an identity with topic.
// None: a topic is created. Many: they merge. Then identities of topic are copied
func (m *merger) mapTopic(topic *Topic) error {
	tm := m.tm
	var candidates []*Topic
	for _, loc := range topic.itemIdentifiers {
		if existing := tm.index.lookup(ITEM_IDENTIFIER, loc); existing != nil {
			if target, ok := existing.(*Topic); ok {
				candidates = appendUnique(candidates, target)
			} else {
				return newIdentityError(tm, existing, loc, "item identifier of a topic is used by a construct that is not a topic")
			}
		}

		if target := tm.index.lookupTopic(SUBJECT_IDENTIFIER, loc); target != nil {
			candidates = appendUnique(candidates, target)
		}
	}

	for _, loc := range topic.subjectIdentifiers {
		if target := tm.index.lookupTopic(SUBJECT_IDENTIFIER, loc); target != nil {
			candidates = appendUnique(candidates, target)
		}

		if target := tm.index.lookupTopic(ITEM_IDENTIFIER, loc); target != nil {
			candidates = appendUnique(candidates, target)
		}
	}

	for _, loc := range topic.subjectLocators {
		if target := tm.index.lookupTopic(SUBJECT_LOCATOR, loc); target != nil {
			candidates = appendUnique(candidates, target)
		}
	}

	var target *Topic
	if len(candidates) == 0 {
		target = tm.newAttachedTopic()
	} else {
		target = candidates[0]
		for _, other := range candidates[1:] {
			m.enqueue(target, other)
		}

		if err := m.run(); err != nil {
			return err
		}

		target = m.resolve(target)
	}

	m.mapping[topic] = target
	for _, kind := range []IdentityKind{ITEM_IDENTIFIER, SUBJECT_IDENTIFIER, SUBJECT_LOCATOR} {
		for _, loc := range *identitiesOf(kind, topic) {
			if tm.index.lookup(kind, loc) == nil {
				tm.addIdentity(kind, target, loc)
			}
		}
	}

	return nil
}

// mappedThemes returns the target themes for source themes
func (m *merger) mappedThemes(themes []*Topic) []*Topic {
	result := make([]*Topic, 0, len(themes))
	for _, theme := range themes {
		result = appendUnique(result, m.mapped(theme))
	}

	return result
}

// copyItemIdentifiers adds the item identifiers of source to target.
// An item identifier used by another construct is an identity error
func (m *merger) copyItemIdentifiers(source, target Construct) error {
	tm := m.tm
	for _, loc := range source.base().itemIdentifiers {
		existing := tm.index.lookup(ITEM_IDENTIFIER, loc)
		if existing == nil {
			tm.addIdentity(ITEM_IDENTIFIER, target, loc)
		} else if existing != target {
			return newIdentityError(target, existing, loc, "item identifier is already used")
		}
	}

	return nil
}

// copyReifier sets the mapped reifier of source on target.
// If target already has another reifier, both reifiers are queued to merge
func (m *merger) copyReifier(source, target Reifiable) error {
	sourceReifier := source.Reifier()
	if sourceReifier == nil {
		return nil
	}

	tm := m.tm
	reifier := m.mapped(sourceReifier)
	current := target.Reifier()
	if current == reifier {
		return nil
	} else if current != nil {
		m.enqueue(current, reifier)
		return nil
	} else if reifier.reified != nil {
		return newModelError(target, "reifier already reifies another construct")
	}

	tm.assignReifier(target, reifier)
	return nil
}

// copyNames copies the names and variants of a source topic to its target topic
func (m *merger) copyNames(topic *Topic) error {
	tm := m.tm
	target := m.mapped(topic)
	for _, name := range topic.names {
		signature := nameSignature(name, m.mapped)
		var copied *Name
		for _, candidate := range target.names {
			if nameSignature(candidate, sameTopic) == signature {
				copied = candidate
				break
			}
		}

		if copied == nil {
			created, err := tm.createName(target, m.mapped(name.topicType), name.value, m.mappedThemes(name.themes))
			if err != nil {
				return err
			}

			copied = created
		}

		if err := m.copyItemIdentifiers(name, copied); err != nil {
			return err
		} else if err := m.copyReifier(name, copied); err != nil {
			return err
		}

		for _, variant := range name.variants {
			if err := m.copyVariant(variant, copied); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyVariant copies a source variant to the target name
func (m *merger) copyVariant(variant *Variant, target *Name) error {
	signature := variantSignature(variant, m.mapped)
	var copied *Variant
	for _, candidate := range target.variants {
		if variantSignature(candidate, sameTopic) == signature {
			copied = candidate
			break
		}
	}

	if copied == nil {
		created, err := m.tm.createVariant(target, variant.literal, m.mappedThemes(variant.themes))
		if err != nil {
			return err
		}

		copied = created
	}

	if err := m.copyItemIdentifiers(variant, copied); err != nil {
		return err
	}

	return m.copyReifier(variant, copied)
}

// copyOccurrences copies the occurrences of a source topic to its target topic
func (m *merger) copyOccurrences(topic *Topic) error {
	tm := m.tm
	target := m.mapped(topic)
	for _, occurrence := range topic.occurrences {
		signature := occurrenceSignature(occurrence, m.mapped)
		var copied *Occurrence
		for _, candidate := range target.occurrences {
			if occurrenceSignature(candidate, sameTopic) == signature {
				copied = candidate
				break
			}
		}

		if copied == nil {
			created, err := tm.createOccurrence(target, m.mapped(occurrence.topicType), occurrence.literal, m.mappedThemes(occurrence.themes))
			if err != nil {
				return err
			}

			copied = created
		}

		if err := m.copyItemIdentifiers(occurrence, copied); err != nil {
			return err
		} else if err := m.copyReifier(occurrence, copied); err != nil {
			return err
		}
	}

	return nil
}

// copyAssociations copies associations of source, unless an equivalent association exists
func (m *merger) copyAssociations(source *TopicMap) error {
	tm := m.tm
	existing := make(map[string]*Association)
	for _, association := range tm.associations {
		existing[associationSignature(association, sameTopic)] = association
	}

	for _, association := range source.associations {
		signature := associationSignature(association, m.mapped)
		copied, found := existing[signature]
		if !found || copied.removed {
			created, err := m.copyAssociation(association)
			if err != nil {
				return err
			}

			copied = created
			existing[signature] = created
		} else if err := m.copyRoleIdentities(association, copied); err != nil {
			return err
		}

		if err := m.copyItemIdentifiers(association, copied); err != nil {
			return err
		} else if err := m.copyReifier(association, copied); err != nil {
			return err
		}
	}

	return nil
}

// copyAssociation creates the target association and its roles
func (m *merger) copyAssociation(association *Association) (*Association, error) {
	tm := m.tm
	created := &Association{construct: newConstruct(tm)}
	tm.attachAssociation(created)
	tm.registerConstruct(created)
	tm.assignType(created, m.mapped(association.topicType))
	for _, theme := range m.mappedThemes(association.themes) {
		tm.insertTheme(created, theme)
	}

	for _, role := range association.roles {
		copied := &Role{construct: newConstruct(tm)}
		tm.attachRole(created, copied)
		tm.registerConstruct(copied)
		tm.assignType(copied, m.mapped(role.topicType))
		tm.assignPlayer(copied, m.mapped(role.player))
		if err := m.copyItemIdentifiers(role, copied); err != nil {
			return nil, err
		} else if err := m.copyReifier(role, copied); err != nil {
			return nil, err
		}
	}

	return created, nil
}

// copyRoleIdentities copies item identifiers of source roles to matching target roles
func (m *merger) copyRoleIdentities(source, target *Association) error {
	matched := make(map[*Role]bool)
	for _, role := range source.roles {
		signature := roleSignature(role, m.mapped)
		for _, candidate := range target.roles {
			if matched[candidate] || roleSignature(candidate, sameTopic) != signature {
				continue
			}

			matched[candidate] = true
			if err := m.copyItemIdentifiers(role, candidate); err != nil {
				return err
			}

			break
		}
	}

	return nil
}
