package topicmaps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/topicmaps.git/datatypes"
	"github.com/zefrenchwan/topicmaps.git/locators"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
)

func TestMergeMovesEverything(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	keep := newTopicWithSubject(t, tm, "http://example.org/keep")
	other := newTopicWithSubject(t, tm, "http://example.org/other")
	require.NoError(t, other.AddSubjectLocator(locators.MustLocator("http://example.org/other.html")))

	topicType := newTopic(t, tm)
	instance := newTopic(t, tm)
	theme := newTopic(t, tm)
	require.NoError(t, other.AddType(topicType))
	require.NoError(t, instance.AddType(other))

	occurrenceType := newTopic(t, tm)
	_, err := other.CreateOccurrence(occurrenceType, "value")
	require.NoError(t, err)
	scopedName, err := theme.CreateName("scoped", other)
	require.NoError(t, err)

	association, err := tm.CreateAssociation(other)
	require.NoError(t, err)
	role, err := association.CreateRole(topicType, other)
	require.NoError(t, err)

	require.NoError(t, keep.MergeIn(other))

	assert.True(t, other.IsRemoved())
	assert.Nil(t, tm.ConstructById(other.Id()))
	assert.Same(t, keep, tm.TopicBySubjectIdentifier(locators.MustLocator("http://example.org/other")))
	assert.Same(t, keep, tm.TopicBySubjectLocator(locators.MustLocator("http://example.org/other.html")))
	assert.Equal(t, ids([]*topicmaps.Topic{topicType}), ids(keep.Types()))
	assert.Equal(t, ids([]*topicmaps.Topic{keep}), ids(instance.Types()))
	assert.Len(t, keep.Occurrences(), 1)
	assert.Same(t, keep, keep.Occurrences()[0].Topic())
	assert.Equal(t, ids([]*topicmaps.Topic{keep}), ids(scopedName.Scope()))
	assert.Same(t, keep, association.Type())
	assert.Same(t, keep, role.Player())
	assert.Equal(t, []*topicmaps.Role{role}, keep.RolesPlayed())
	requireUniqueIdentities(t, tm)
}

func TestMergeDuplicateNames(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopic(t, tm)
	second := newTopic(t, tm)
	firstName, err := first.CreateName("Puccini")
	require.NoError(t, err)
	secondName, err := second.CreateName("Puccini")
	require.NoError(t, err)
	require.NoError(t, firstName.AddItemIdentifier(locators.MustLocator("http://example.org/n1")))
	require.NoError(t, secondName.AddItemIdentifier(locators.MustLocator("http://example.org/n2")))

	require.NoError(t, first.MergeIn(second))

	require.Len(t, first.Names(), 1)
	survivor := first.Names()[0]
	assert.Equal(t, []string{"http://example.org/n1", "http://example.org/n2"}, references(survivor.ItemIdentifiers()))
	assert.True(t, firstName.IsRemoved() != secondName.IsRemoved())
	assert.Same(t, survivor, tm.ConstructByItemIdentifier(locators.MustLocator("http://example.org/n2")))
}

func TestMergeKeepsDistinctNames(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopic(t, tm)
	second := newTopic(t, tm)
	theme := newTopic(t, tm)
	_, err := first.CreateName("Puccini")
	require.NoError(t, err)
	_, err = second.CreateName("Puccini", theme)
	require.NoError(t, err)
	_, err = second.CreateName("Giacomo")
	require.NoError(t, err)

	require.NoError(t, first.MergeIn(second))
	assert.Len(t, first.Names(), 3)
}

func TestMergeDuplicateOccurrences(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopic(t, tm)
	second := newTopic(t, tm)
	occurrenceType := newTopic(t, tm)
	_, err := first.CreateTypedOccurrence(occurrenceType, "1858", datatypes.XSD_INT)
	require.NoError(t, err)
	_, err = second.CreateTypedOccurrence(occurrenceType, "1858", datatypes.XSD_INT)
	require.NoError(t, err)
	_, err = second.CreateOccurrence(occurrenceType, "1858")
	require.NoError(t, err)

	require.NoError(t, first.MergeIn(second))

	// string and int values differ by datatype
	require.Len(t, first.Occurrences(), 2)
	value, err := first.OccurrencesByType(occurrenceType)[0].IntValue()
	require.NoError(t, err)
	assert.Equal(t, int32(1858), value)
}

func TestMergeDuplicateNamesMergesReifiers(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopic(t, tm)
	second := newTopic(t, tm)
	firstName, err := first.CreateName("name")
	require.NoError(t, err)
	secondName, err := second.CreateName("name")
	require.NoError(t, err)
	firstReifier := newTopicWithSubject(t, tm, "http://example.org/r1")
	secondReifier := newTopicWithSubject(t, tm, "http://example.org/r2")
	require.NoError(t, firstName.SetReifier(firstReifier))
	require.NoError(t, secondName.SetReifier(secondReifier))

	// first, second, two reifiers and the default name type
	require.Len(t, tm.Topics(), 5)
	require.NoError(t, first.MergeIn(second))

	assert.Len(t, tm.Topics(), 3)
	require.Len(t, first.Names(), 1)
	reifier := first.Names()[0].Reifier()
	require.NotNil(t, reifier)
	assert.Equal(t, []string{"http://example.org/r1", "http://example.org/r2"}, references(reifier.SubjectIdentifiers()))
	assert.Same(t, first.Names()[0], reifier.Reified())
	requireUniqueIdentities(t, tm)
}

func TestMergeDuplicateNamesAdoptsReifier(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopic(t, tm)
	second := newTopic(t, tm)
	_, err := first.CreateName("name")
	require.NoError(t, err)
	secondName, err := second.CreateName("name")
	require.NoError(t, err)
	reifier := newTopic(t, tm)
	require.NoError(t, secondName.SetReifier(reifier))

	require.NoError(t, first.MergeIn(second))
	require.Len(t, first.Names(), 1)
	assert.Same(t, reifier, first.Names()[0].Reifier())
	assert.Same(t, first.Names()[0], reifier.Reified())
}

func TestMergeCollapsesVariants(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopic(t, tm)
	second := newTopic(t, tm)
	sort := newTopic(t, tm)
	display := newTopic(t, tm)
	firstName, err := first.CreateName("name")
	require.NoError(t, err)
	secondName, err := second.CreateName("name")
	require.NoError(t, err)
	_, err = firstName.CreateVariant("variant", sort)
	require.NoError(t, err)
	_, err = secondName.CreateVariant("variant", sort)
	require.NoError(t, err)
	_, err = secondName.CreateVariant("variant", display)
	require.NoError(t, err)

	require.NoError(t, first.MergeIn(second))
	require.Len(t, first.Names(), 1)
	assert.Len(t, first.Names()[0].Variants(), 2)
}

func TestMergeDuplicateAssociations(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopic(t, tm)
	second := newTopic(t, tm)
	associationType := newTopic(t, tm)
	roleType := newTopic(t, tm)
	partner := newTopic(t, tm)

	for _, player := range []*topicmaps.Topic{first, second} {
		association, err := tm.CreateAssociation(associationType)
		require.NoError(t, err)
		_, err = association.CreateRole(roleType, player)
		require.NoError(t, err)
		_, err = association.CreateRole(roleType, partner)
		require.NoError(t, err)
	}

	require.Len(t, tm.Associations(), 2)
	require.NoError(t, first.MergeIn(second))

	assert.Len(t, tm.Associations(), 1)
	assert.Len(t, first.RolesPlayed(), 1)
	assert.Len(t, partner.RolesPlayed(), 1)
	assert.Len(t, tm.Associations()[0].Roles(), 2)
}

func TestMergeKeepsAssociationsWithDistinctRoleReifiers(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopic(t, tm)
	second := newTopic(t, tm)
	associationType := newTopic(t, tm)
	roleType := newTopic(t, tm)

	for _, player := range []*topicmaps.Topic{first, second} {
		association, err := tm.CreateAssociation(associationType)
		require.NoError(t, err)
		role, err := association.CreateRole(roleType, player)
		require.NoError(t, err)
		require.NoError(t, role.SetReifier(newTopic(t, tm)))
	}

	require.NoError(t, first.MergeIn(second))
	assert.Len(t, tm.Associations(), 2)
}

func TestMergeWithReificationConflictRollsBack(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopicWithSubject(t, tm, "http://example.org/first")
	second := newTopicWithSubject(t, tm, "http://example.org/second")
	associationType := newTopic(t, tm)
	association, err := tm.CreateAssociation(associationType)
	require.NoError(t, err)
	holder := newTopic(t, tm)
	name, err := holder.CreateName("reified")
	require.NoError(t, err)
	require.NoError(t, association.SetReifier(first))
	require.NoError(t, name.SetReifier(second))
	count := len(tm.Topics())

	err = first.MergeIn(second)
	assert.ErrorIs(t, err, topicmaps.ErrModelConstraint)
	assert.Len(t, tm.Topics(), count)
	assert.False(t, second.IsRemoved())
	assert.Same(t, second, tm.TopicBySubjectIdentifier(locators.MustLocator("http://example.org/second")))
	assert.Same(t, second, name.Reifier())
	assert.Same(t, first, association.Reifier())

	// automatic merge fails the same way
	err = first.AddSubjectIdentifier(locators.MustLocator("http://example.org/second"))
	assert.ErrorIs(t, err, topicmaps.ErrModelConstraint)
	assert.Equal(t, []string{"http://example.org/first"}, references(first.SubjectIdentifiers()))
	requireUniqueIdentities(t, tm)
}

func TestMergeInheritsReification(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopic(t, tm)
	second := newTopic(t, tm)
	require.NoError(t, tm.SetReifier(second))

	require.NoError(t, first.MergeIn(second))
	assert.Same(t, first, tm.Reifier())
	assert.Same(t, tm, first.Reified())
}

func TestMergeIgnoresAutoMergeFlag(t *testing.T) {
	tm := newTestMap(t, topicmaps.Features{})
	first := newTopic(t, tm)
	second := newTopic(t, tm)

	require.NoError(t, first.MergeIn(second))
	assert.Len(t, tm.Topics(), 1)
}
