package storage

import (
	"errors"
	"fmt"

	"github.com/zefrenchwan/topicmaps.git/locators"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
)

// TopicMapDTO is a full topic map representation.
// Topics are referenced by their id within the dto
type TopicMapDTO struct {
	Locator         string           `json:"locator"`
	ItemIdentifiers []string         `json:"item_identifiers,omitempty"`
	Reifier         string           `json:"reifier,omitempty"`
	Topics          []TopicDTO       `json:"topics"`
	Associations    []AssociationDTO `json:"associations,omitempty"`
}

// TopicDTO is a topic with its names and occurrences
type TopicDTO struct {
	Id                 string          `json:"id"`
	ItemIdentifiers    []string        `json:"item_identifiers,omitempty"`
	SubjectIdentifiers []string        `json:"subject_identifiers,omitempty"`
	SubjectLocators    []string        `json:"subject_locators,omitempty"`
	Types              []string        `json:"types,omitempty"`
	Names              []NameDTO       `json:"names,omitempty"`
	Occurrences        []OccurrenceDTO `json:"occurrences,omitempty"`
}

// NameDTO is a name of a topic
type NameDTO struct {
	ItemIdentifiers []string     `json:"item_identifiers,omitempty"`
	Type            string       `json:"type"`
	Value           string       `json:"value"`
	Scope           []string     `json:"scope,omitempty"`
	Reifier         string       `json:"reifier,omitempty"`
	Variants        []VariantDTO `json:"variants,omitempty"`
}

// VariantDTO is a variant of a name. Scope contains the own themes only
type VariantDTO struct {
	ItemIdentifiers []string `json:"item_identifiers,omitempty"`
	Value           string   `json:"value"`
	Datatype        string   `json:"datatype"`
	Scope           []string `json:"scope"`
	Reifier         string   `json:"reifier,omitempty"`
}

// OccurrenceDTO is an occurrence of a topic
type OccurrenceDTO struct {
	ItemIdentifiers []string `json:"item_identifiers,omitempty"`
	Type            string   `json:"type"`
	Value           string   `json:"value"`
	Datatype        string   `json:"datatype"`
	Scope           []string `json:"scope,omitempty"`
	Reifier         string   `json:"reifier,omitempty"`
}

// AssociationDTO is an association with its roles
type AssociationDTO struct {
	ItemIdentifiers []string  `json:"item_identifiers,omitempty"`
	Type            string    `json:"type"`
	Scope           []string  `json:"scope,omitempty"`
	Reifier         string    `json:"reifier,omitempty"`
	Roles           []RoleDTO `json:"roles"`
}

// RoleDTO is a role in an association
type RoleDTO struct {
	ItemIdentifiers []string `json:"item_identifiers,omitempty"`
	Type            string   `json:"type"`
	Player          string   `json:"player"`
	Reifier         string   `json:"reifier,omitempty"`
}

// TopicMapSummaryDTO describes a stored topic map
type TopicMapSummaryDTO struct {
	Locator      string `json:"locator"`
	Topics       int    `json:"topics"`
	Associations int    `json:"associations"`
	UpdatedAt    string `json:"updated_at"`
}

// serializeLocators returns the references of values
func serializeLocators(values []locators.Locator) []string {
	if len(values) == 0 {
		return nil
	}

	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, value.Reference())
	}

	return result
}

// serializeTopics returns the ids of topics
func serializeTopics(values []*topicmaps.Topic) []string {
	if len(values) == 0 {
		return nil
	}

	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, value.Id())
	}

	return result
}

// serializeReifier returns the id of the reifier, empty for none
func serializeReifier(value topicmaps.Reifiable) string {
	if reifier := value.Reifier(); reifier != nil {
		return reifier.Id()
	}

	return ""
}

// SerializeTopic returns the dto content of a topic: identities, types, names and occurrences
func SerializeTopic(topic *topicmaps.Topic) TopicDTO {
	topicDTO := TopicDTO{
		Id:                 topic.Id(),
		ItemIdentifiers:    serializeLocators(topic.ItemIdentifiers()),
		SubjectIdentifiers: serializeLocators(topic.SubjectIdentifiers()),
		SubjectLocators:    serializeLocators(topic.SubjectLocators()),
		Types:              serializeTopics(topic.Types()),
	}

	for _, name := range topic.Names() {
		nameDTO := NameDTO{
			ItemIdentifiers: serializeLocators(name.ItemIdentifiers()),
			Type:            name.Type().Id(),
			Value:           name.Value(),
			Scope:           serializeTopics(name.Scope()),
			Reifier:         serializeReifier(name),
		}

		for _, variant := range name.Variants() {
			nameDTO.Variants = append(nameDTO.Variants, VariantDTO{
				ItemIdentifiers: serializeLocators(variant.ItemIdentifiers()),
				Value:           variant.Value(),
				Datatype:        variant.Datatype().Reference(),
				Scope:           serializeTopics(variant.OwnThemes()),
				Reifier:         serializeReifier(variant),
			})
		}

		topicDTO.Names = append(topicDTO.Names, nameDTO)
	}

	for _, occurrence := range topic.Occurrences() {
		topicDTO.Occurrences = append(topicDTO.Occurrences, OccurrenceDTO{
			ItemIdentifiers: serializeLocators(occurrence.ItemIdentifiers()),
			Type:            occurrence.Type().Id(),
			Value:           occurrence.Value(),
			Datatype:        occurrence.Datatype().Reference(),
			Scope:           serializeTopics(occurrence.Scope()),
			Reifier:         serializeReifier(occurrence),
		})
	}

	return topicDTO
}

// SerializeTopicMap returns the dto content of a topic map
func SerializeTopicMap(tm *topicmaps.TopicMap) (*TopicMapDTO, error) {
	if tm == nil {
		return nil, errors.New("nil topic map")
	} else if tm.IsRemoved() {
		return nil, errors.New("removed topic map")
	}

	result := new(TopicMapDTO)
	result.Locator = tm.Locator().Reference()
	result.ItemIdentifiers = serializeLocators(tm.ItemIdentifiers())
	result.Reifier = serializeReifier(tm)
	result.Topics = make([]TopicDTO, 0)

	for _, topic := range tm.Topics() {
		result.Topics = append(result.Topics, SerializeTopic(topic))
	}

	for _, association := range tm.Associations() {
		associationDTO := AssociationDTO{
			ItemIdentifiers: serializeLocators(association.ItemIdentifiers()),
			Type:            association.Type().Id(),
			Scope:           serializeTopics(association.Scope()),
			Reifier:         serializeReifier(association),
			Roles:           make([]RoleDTO, 0),
		}

		for _, role := range association.Roles() {
			associationDTO.Roles = append(associationDTO.Roles, RoleDTO{
				ItemIdentifiers: serializeLocators(role.ItemIdentifiers()),
				Type:            role.Type().Id(),
				Player:          role.Player().Id(),
				Reifier:         serializeReifier(role),
			})
		}

		result.Associations = append(result.Associations, associationDTO)
	}

	return result, nil
}

// topicsLoader creates topics from their dto and resolves dto ids to topics
type topicsLoader struct {
	// tm is the topic map being loaded
	tm *topicmaps.TopicMap
	// topics links a dto id to the created topic
	topics map[string]*topicmaps.Topic
	// identities links a dto id to an identity of the topic, to find it back after a merge
	identities map[string]locators.Locator
}

// topic returns the topic for a dto id, following merges
func (l *topicsLoader) topic(id string) (*topicmaps.Topic, error) {
	topic, found := l.topics[id]
	if !found {
		return nil, fmt.Errorf("unknown topic reference %s", id)
	} else if !topic.IsRemoved() {
		return topic, nil
	}

	// topic merged with another one sharing an identity
	loc := l.identities[id]
	if merged := l.tm.TopicBySubjectIdentifier(loc); merged != nil {
		return merged, nil
	} else if merged := l.tm.TopicBySubjectLocator(loc); merged != nil {
		return merged, nil
	} else if merged, ok := l.tm.ConstructByItemIdentifier(loc).(*topicmaps.Topic); ok {
		return merged, nil
	}

	return nil, fmt.Errorf("lost topic reference %s", id)
}

// topicsFor returns the topics for dto ids
func (l *topicsLoader) topicsFor(ids []string) ([]*topicmaps.Topic, error) {
	result := make([]*topicmaps.Topic, 0, len(ids))
	for _, id := range ids {
		if topic, err := l.topic(id); err != nil {
			return nil, err
		} else {
			result = append(result, topic)
		}
	}

	return result, nil
}

// reifierFor sets the reifier of value, if any
func (l *topicsLoader) reifierFor(value topicmaps.Reifiable, id string) error {
	if len(id) == 0 {
		return nil
	} else if reifier, err := l.topic(id); err != nil {
		return err
	} else {
		return value.SetReifier(reifier)
	}
}

// itemIdentifiersFor adds item identifiers to value
func itemIdentifiersFor(value topicmaps.Construct, references []string) error {
	var globalErr error
	for _, reference := range references {
		if loc, err := locators.NewLocator(reference); err != nil {
			globalErr = errors.Join(globalErr, err)
		} else if err := value.AddItemIdentifier(loc); err != nil {
			globalErr = errors.Join(globalErr, err)
		}
	}

	return globalErr
}

// createTopic creates a topic with all its identities
func (l *topicsLoader) createTopic(dto TopicDTO) error {
	var identities []locators.Locator
	var kinds []topicmaps.IdentityKind
	for kind, references := range [][]string{
		topicmaps.ITEM_IDENTIFIER:    dto.ItemIdentifiers,
		topicmaps.SUBJECT_IDENTIFIER: dto.SubjectIdentifiers,
		topicmaps.SUBJECT_LOCATOR:    dto.SubjectLocators,
	} {
		for _, reference := range references {
			if loc, err := locators.NewLocator(reference); err != nil {
				return err
			} else {
				identities = append(identities, loc)
				kinds = append(kinds, topicmaps.IdentityKind(kind))
			}
		}
	}

	var topic *topicmaps.Topic
	if len(identities) == 0 {
		created, err := l.tm.CreateTopic()
		if err != nil {
			return err
		}

		topic = created
	} else {
		l.identities[dto.Id] = identities[0]
	}

	for index, loc := range identities {
		var err error
		if topic == nil {
			topic, err = l.createTopicByIdentity(kinds[index], loc)
		} else {
			err = l.addIdentity(topic, kinds[index], loc)
		}

		if err != nil {
			return err
		}
	}

	l.topics[dto.Id] = topic
	return nil
}

// createTopicByIdentity returns the topic with that identity, or creates it
func (l *topicsLoader) createTopicByIdentity(kind topicmaps.IdentityKind, loc locators.Locator) (*topicmaps.Topic, error) {
	switch kind {
	case topicmaps.SUBJECT_IDENTIFIER:
		return l.tm.CreateTopicBySubjectIdentifier(loc)
	case topicmaps.SUBJECT_LOCATOR:
		return l.tm.CreateTopicBySubjectLocator(loc)
	default:
		return l.tm.CreateTopicByItemIdentifier(loc)
	}
}

// addIdentity adds an identity to topic
func (l *topicsLoader) addIdentity(topic *topicmaps.Topic, kind topicmaps.IdentityKind, loc locators.Locator) error {
	switch kind {
	case topicmaps.SUBJECT_IDENTIFIER:
		return topic.AddSubjectIdentifier(loc)
	case topicmaps.SUBJECT_LOCATOR:
		return topic.AddSubjectLocator(loc)
	default:
		return topic.AddItemIdentifier(loc)
	}
}

// DeserializeTopicMap creates a topic map in system from its dto.
// Content is added through the topic map operations, so duplicate identities merge.
// It works on read only systems too.
// If any error occurs, the topic map is removed from the system
func DeserializeTopicMap(system *topicmaps.TopicMapSystem, dto *TopicMapDTO) (*topicmaps.TopicMap, error) {
	if system == nil {
		return nil, errors.New("nil system")
	} else if dto == nil {
		return nil, errors.New("nil topic map dto")
	}

	loc, errLoc := locators.NewLocator(dto.Locator)
	if errLoc != nil {
		return nil, errLoc
	}

	return system.BuildTopicMap(loc, func(tm *topicmaps.TopicMap) error {
		return loadTopicMapContent(tm, dto)
	})
}

// loadTopicMapContent adds the dto content to tm
func loadTopicMapContent(tm *topicmaps.TopicMap, dto *TopicMapDTO) error {
	loader := topicsLoader{
		tm:         tm,
		topics:     make(map[string]*topicmaps.Topic),
		identities: make(map[string]locators.Locator),
	}

	for _, topicDTO := range dto.Topics {
		if err := loader.createTopic(topicDTO); err != nil {
			return err
		}
	}

	var globalErr error
	for _, topicDTO := range dto.Topics {
		if err := loader.loadStatements(topicDTO); err != nil {
			globalErr = errors.Join(globalErr, err)
		}
	}

	for _, associationDTO := range dto.Associations {
		if err := loader.loadAssociation(associationDTO); err != nil {
			globalErr = errors.Join(globalErr, err)
		}
	}

	if err := itemIdentifiersFor(tm, dto.ItemIdentifiers); err != nil {
		globalErr = errors.Join(globalErr, err)
	} else if err := loader.reifierFor(tm, dto.Reifier); err != nil {
		globalErr = errors.Join(globalErr, err)
	}

	return globalErr
}

// loadStatements adds types, names and occurrences of a topic dto
func (l *topicsLoader) loadStatements(dto TopicDTO) error {
	topic, errTopic := l.topic(dto.Id)
	if errTopic != nil {
		return errTopic
	}

	if types, err := l.topicsFor(dto.Types); err != nil {
		return err
	} else {
		for _, topicType := range types {
			if err := topic.AddType(topicType); err != nil {
				return err
			}
		}
	}

	for _, nameDTO := range dto.Names {
		if err := l.loadName(topic, nameDTO); err != nil {
			return err
		}
	}

	for _, occurrenceDTO := range dto.Occurrences {
		if err := l.loadOccurrence(topic, occurrenceDTO); err != nil {
			return err
		}
	}

	return nil
}

// loadName creates a name and its variants
func (l *topicsLoader) loadName(topic *topicmaps.Topic, dto NameDTO) error {
	nameType, errType := l.topic(dto.Type)
	if errType != nil {
		return errType
	}

	scope, errScope := l.topicsFor(dto.Scope)
	if errScope != nil {
		return errScope
	}

	name, errName := topic.CreateTypedName(nameType, dto.Value, scope...)
	if errName != nil {
		return errName
	} else if err := itemIdentifiersFor(name, dto.ItemIdentifiers); err != nil {
		return err
	} else if err := l.reifierFor(name, dto.Reifier); err != nil {
		return err
	}

	for _, variantDTO := range dto.Variants {
		datatype, errDatatype := locators.NewLocator(variantDTO.Datatype)
		if errDatatype != nil {
			return errDatatype
		}

		variantScope, errVariantScope := l.topicsFor(variantDTO.Scope)
		if errVariantScope != nil {
			return errVariantScope
		}

		variant, errVariant := name.CreateTypedVariant(variantDTO.Value, datatype, variantScope...)
		if errVariant != nil {
			return errVariant
		} else if err := itemIdentifiersFor(variant, variantDTO.ItemIdentifiers); err != nil {
			return err
		} else if err := l.reifierFor(variant, variantDTO.Reifier); err != nil {
			return err
		}
	}

	return nil
}

// loadOccurrence creates an occurrence
func (l *topicsLoader) loadOccurrence(topic *topicmaps.Topic, dto OccurrenceDTO) error {
	occurrenceType, errType := l.topic(dto.Type)
	if errType != nil {
		return errType
	}

	scope, errScope := l.topicsFor(dto.Scope)
	if errScope != nil {
		return errScope
	}

	datatype, errDatatype := locators.NewLocator(dto.Datatype)
	if errDatatype != nil {
		return errDatatype
	}

	occurrence, errOccurrence := topic.CreateTypedOccurrence(occurrenceType, dto.Value, datatype, scope...)
	if errOccurrence != nil {
		return errOccurrence
	} else if err := itemIdentifiersFor(occurrence, dto.ItemIdentifiers); err != nil {
		return err
	}

	return l.reifierFor(occurrence, dto.Reifier)
}

// loadAssociation creates an association and its roles
func (l *topicsLoader) loadAssociation(dto AssociationDTO) error {
	associationType, errType := l.topic(dto.Type)
	if errType != nil {
		return errType
	}

	scope, errScope := l.topicsFor(dto.Scope)
	if errScope != nil {
		return errScope
	}

	// topic types already created them
	if l.tm.System().Features().TypeInstanceAssociations && isTypeInstance(associationType) {
		return nil
	}

	association, errAssociation := l.tm.CreateAssociation(associationType, scope...)
	if errAssociation != nil {
		return errAssociation
	} else if err := itemIdentifiersFor(association, dto.ItemIdentifiers); err != nil {
		return err
	} else if err := l.reifierFor(association, dto.Reifier); err != nil {
		return err
	}

	for _, roleDTO := range dto.Roles {
		roleType, errRoleType := l.topic(roleDTO.Type)
		if errRoleType != nil {
			return errRoleType
		}

		player, errPlayer := l.topic(roleDTO.Player)
		if errPlayer != nil {
			return errPlayer
		}

		role, errRole := association.CreateRole(roleType, player)
		if errRole != nil {
			return errRole
		} else if err := itemIdentifiersFor(role, roleDTO.ItemIdentifiers); err != nil {
			return err
		} else if err := l.reifierFor(role, roleDTO.Reifier); err != nil {
			return err
		}
	}

	return nil
}

// isTypeInstance returns true for the type-instance association type
func isTypeInstance(topic *topicmaps.Topic) bool {
	for _, loc := range topic.SubjectIdentifiers() {
		if loc.Reference() == topicmaps.TYPE_INSTANCE {
			return true
		}
	}

	return false
}
