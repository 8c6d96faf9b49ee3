package topicmaps_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/topicmaps.git/locators"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
)

func TestCreateTopicGeneratesItemIdentifier(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	topic := newTopic(t, tm)

	require.Len(t, topic.ItemIdentifiers(), 1)
	assert.Equal(t, testMapLocator+"#"+topic.Id(), topic.ItemIdentifiers()[0].Reference())
	assert.Same(t, topic, tm.ConstructById(topic.Id()))
	assert.Same(t, tm, topic.Parent())
}

func TestItemIdentifierThenSubjectIdentifierMerges(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	loc := locators.MustLocator("http://sf.net/x")
	topic := newTopic(t, tm)
	require.NoError(t, topic.AddItemIdentifier(loc))
	count := len(tm.Topics())

	other, err := tm.CreateTopicBySubjectIdentifier(loc)
	require.NoError(t, err)
	assert.Same(t, topic, other)
	assert.Len(t, tm.Topics(), count)
	assert.Contains(t, references(topic.ItemIdentifiers()), "http://sf.net/x")
	assert.Equal(t, []string{"http://sf.net/x"}, references(topic.SubjectIdentifiers()))
	requireUniqueIdentities(t, tm)
}

func TestSubjectIdentifierThenItemIdentifierMerges(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	loc := locators.MustLocator("http://sf.net/x")
	first := newTopicWithSubject(t, tm, "http://sf.net/x")
	second := newTopic(t, tm)

	require.NoError(t, second.AddItemIdentifier(loc))
	assert.True(t, first.IsRemoved())
	assert.False(t, second.IsRemoved())
	assert.Len(t, tm.Topics(), 1)
	assert.Same(t, second, tm.TopicBySubjectIdentifier(loc))
	assert.Same(t, second, tm.ConstructByItemIdentifier(loc))
	assert.Nil(t, tm.ConstructById(first.Id()))
	requireUniqueIdentities(t, tm)
}

func TestCreateTopicByItemIdentifierUsesSubjectIdentifier(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	loc := locators.MustLocator("http://sf.net/y")
	topic := newTopicWithSubject(t, tm, "http://sf.net/y")

	other, err := tm.CreateTopicByItemIdentifier(loc)
	require.NoError(t, err)
	assert.Same(t, topic, other)
	assert.Same(t, topic, tm.ConstructByItemIdentifier(loc))
}

func TestSubjectLocatorCollisionMerges(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	loc := locators.MustLocator("http://example.org/document.pdf")
	first := newTopic(t, tm)
	second := newTopic(t, tm)

	require.NoError(t, first.AddSubjectLocator(loc))
	require.NoError(t, second.AddSubjectLocator(loc))
	assert.True(t, first.IsRemoved())
	assert.Same(t, second, tm.TopicBySubjectLocator(loc))
	assert.Len(t, second.ItemIdentifiers(), 2)
	requireUniqueIdentities(t, tm)
}

func TestCollisionWithoutAutoMerge(t *testing.T) {
	tm := newTestMap(t, topicmaps.Features{})
	loc := locators.MustLocator("http://sf.net/x")
	first := newTopicWithSubject(t, tm, "http://sf.net/x")
	second := newTopic(t, tm)

	err := second.AddItemIdentifier(loc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, topicmaps.ErrIdentityConstraint))
	assert.True(t, errors.Is(err, topicmaps.ErrModelConstraint))
	assert.Len(t, tm.Topics(), 2)
	assert.False(t, first.IsRemoved())
	assert.Len(t, second.ItemIdentifiers(), 1)

	err = second.AddSubjectIdentifier(loc)
	assert.ErrorIs(t, err, topicmaps.ErrIdentityConstraint)
	assert.Empty(t, second.SubjectIdentifiers())

	var constraint *topicmaps.ConstraintError
	require.ErrorAs(t, err, &constraint)
	assert.Same(t, first, constraint.Existing)
	assert.Equal(t, loc, constraint.Locator)
}

func TestStatementsNeverMerge(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	loc := locators.MustLocator("http://example.org/statement")
	topic := newTopic(t, tm)
	name, err := topic.CreateName("name")
	require.NoError(t, err)
	require.NoError(t, name.AddItemIdentifier(loc))

	occurrenceType := newTopic(t, tm)
	occurrence, err := topic.CreateOccurrence(occurrenceType, "value")
	require.NoError(t, err)

	assert.ErrorIs(t, occurrence.AddItemIdentifier(loc), topicmaps.ErrIdentityConstraint)
	assert.ErrorIs(t, topic.AddItemIdentifier(loc), topicmaps.ErrIdentityConstraint)
	assert.Same(t, name, tm.ConstructByItemIdentifier(loc))
	assert.Empty(t, occurrence.ItemIdentifiers())

	_, err = tm.CreateTopicByItemIdentifier(loc)
	assert.ErrorIs(t, err, topicmaps.ErrIdentityConstraint)

	// same construct again is fine
	assert.NoError(t, name.AddItemIdentifier(loc))
}

func TestNullIdentities(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	topic := newTopic(t, tm)

	assert.ErrorIs(t, topic.AddItemIdentifier(locators.Locator{}), topicmaps.ErrModelConstraint)
	assert.ErrorIs(t, topic.AddSubjectIdentifier(locators.Locator{}), topicmaps.ErrModelConstraint)
	assert.ErrorIs(t, topic.AddSubjectLocator(locators.Locator{}), topicmaps.ErrModelConstraint)

	_, err := tm.CreateTopicBySubjectIdentifier(locators.Locator{})
	assert.ErrorIs(t, err, topicmaps.ErrModelConstraint)
}

func TestItemIdentifierRoundTrip(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	loc := locators.MustLocator("http://example.org/round-trip")

	topic, err := tm.CreateTopicByItemIdentifier(loc)
	require.NoError(t, err)
	assert.Same(t, topic, tm.ConstructByItemIdentifier(loc))

	// second call returns the same topic
	again, err := tm.CreateTopicByItemIdentifier(loc)
	require.NoError(t, err)
	assert.Same(t, topic, again)

	require.NoError(t, topic.RemoveItemIdentifier(loc))
	assert.Nil(t, tm.ConstructByItemIdentifier(loc))
	assert.False(t, topic.IsRemoved())
	assert.Same(t, topic, tm.ConstructById(topic.Id()))
	assert.Empty(t, topic.ItemIdentifiers())
}

func TestRemoveSubjectIdentity(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	identifier := locators.MustLocator("http://example.org/si")
	address := locators.MustLocator("http://example.org/sl")
	topic := newTopicWithSubject(t, tm, identifier.Reference())
	require.NoError(t, topic.AddSubjectLocator(address))

	require.NoError(t, topic.RemoveSubjectIdentifier(identifier))
	require.NoError(t, topic.RemoveSubjectLocator(address))
	assert.Nil(t, tm.TopicBySubjectIdentifier(identifier))
	assert.Nil(t, tm.TopicBySubjectLocator(address))

	// removing again is a no-op
	assert.NoError(t, topic.RemoveSubjectLocator(address))
}

func TestMergeIdempotence(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	first := newTopicWithSubject(t, tm, "http://example.org/a")
	second := newTopicWithSubject(t, tm, "http://example.org/b")
	secondIdentifiers := second.ItemIdentifiers()

	require.NoError(t, first.MergeIn(second))
	count := len(tm.Topics())

	require.NoError(t, first.AddItemIdentifier(secondIdentifiers[0]))
	require.NoError(t, first.AddSubjectIdentifier(locators.MustLocator("http://example.org/b")))
	require.NoError(t, first.MergeIn(first))
	assert.Len(t, tm.Topics(), count)
	assert.Equal(t, []string{"http://example.org/a", "http://example.org/b"}, references(first.SubjectIdentifiers()))

	// absorbed topic cannot be merged again
	assert.ErrorIs(t, first.MergeIn(second), topicmaps.ErrRemovedConstruct)
	requireUniqueIdentities(t, tm)
}

func TestReifierRules(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	associationType := newTopic(t, tm)
	association, err := tm.CreateAssociation(associationType)
	require.NoError(t, err)
	topic := newTopic(t, tm)
	name, err := topic.CreateName("name")
	require.NoError(t, err)
	reifier := newTopic(t, tm)

	require.NoError(t, association.SetReifier(reifier))
	assert.Same(t, reifier, association.Reifier())
	assert.Same(t, association, reifier.Reified())

	// same reifier again is a no-op
	require.NoError(t, association.SetReifier(reifier))

	err = name.SetReifier(reifier)
	assert.ErrorIs(t, err, topicmaps.ErrModelConstraint)
	assert.Nil(t, name.Reifier())

	require.NoError(t, association.SetReifier(nil))
	assert.Nil(t, association.Reifier())
	assert.Nil(t, reifier.Reified())
	require.NoError(t, name.SetReifier(reifier))
	assert.Same(t, name, reifier.Reified())
}

func TestForeignTopicsAreRejected(t *testing.T) {
	system := newTestSystem(t, topicmaps.NewDefaultFeatures())
	tm, err := system.CreateTopicMap(locators.MustLocator("http://example.org/first"))
	require.NoError(t, err)
	other, err := system.CreateTopicMap(locators.MustLocator("http://example.org/second"))
	require.NoError(t, err)

	local := newTopic(t, tm)
	foreign := newTopic(t, other)

	_, err = tm.CreateAssociation(foreign)
	assert.ErrorIs(t, err, topicmaps.ErrModelConstraint)
	_, err = local.CreateTypedName(foreign, "name")
	assert.ErrorIs(t, err, topicmaps.ErrModelConstraint)
	_, err = local.CreateName("name", foreign)
	assert.ErrorIs(t, err, topicmaps.ErrModelConstraint)
	assert.ErrorIs(t, tm.SetReifier(foreign), topicmaps.ErrModelConstraint)
	assert.ErrorIs(t, local.AddType(foreign), topicmaps.ErrModelConstraint)
	assert.ErrorIs(t, local.MergeIn(foreign), topicmaps.ErrModelConstraint)

	association, err := tm.CreateAssociation(local)
	require.NoError(t, err)
	_, err = association.CreateRole(local, foreign)
	assert.ErrorIs(t, err, topicmaps.ErrModelConstraint)
	_, err = association.CreateRole(local, nil)
	assert.ErrorIs(t, err, topicmaps.ErrModelConstraint)
	assert.ErrorIs(t, association.SetType(nil), topicmaps.ErrModelConstraint)
	assert.Same(t, local, association.Type())
	assert.Empty(t, association.Roles())
}

func TestDefaultNameType(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	topic := newTopic(t, tm)
	name, err := topic.CreateName("value")
	require.NoError(t, err)

	nameType := tm.TopicBySubjectIdentifier(locators.MustLocator(topicmaps.DEFAULT_NAME_TYPE))
	require.NotNil(t, nameType)
	assert.Same(t, nameType, name.Type())
	assert.Equal(t, []*topicmaps.Name{name}, topic.NamesByType(nameType))
}
