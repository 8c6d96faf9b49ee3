package topicmaps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
)

func TestSupertypes(t *testing.T) {
	tm := newTestMap(t, topicmaps.NewDefaultFeatures())
	cat := newTopicWithSubject(t, tm, "http://example.org/cat")
	animal := newTopicWithSubject(t, tm, "http://example.org/animal")
	being := newTopicWithSubject(t, tm, "http://example.org/being")
	felix := newTopicWithSubject(t, tm, "http://example.org/felix")

	assert.Empty(t, tm.DirectSupertypes(cat))
	require.NoError(t, tm.AddSupertype(cat, animal))
	require.NoError(t, tm.AddSupertype(animal, being))
	// no duplicate link
	require.NoError(t, tm.AddSupertype(cat, animal))
	assert.Len(t, tm.Associations(), 2)

	assert.Equal(t, ids([]*topicmaps.Topic{animal}), ids(tm.DirectSupertypes(cat)))
	assert.Equal(t, ids([]*topicmaps.Topic{cat}), ids(tm.DirectSubtypes(animal)))
	assert.Equal(t, ids([]*topicmaps.Topic{animal, being}), ids(tm.Supertypes(cat)))
	assert.Empty(t, tm.Supertypes(being))

	require.NoError(t, felix.AddType(cat))
	assert.True(t, tm.IsInstanceOf(felix, cat))
	assert.True(t, tm.IsInstanceOf(felix, being))
	assert.False(t, tm.IsInstanceOf(cat, animal))

	// cycles end
	require.NoError(t, tm.AddSupertype(being, cat))
	assert.Equal(t, ids([]*topicmaps.Topic{cat, animal, being}), ids(tm.Supertypes(cat)))
}

func TestTypeInstanceAssociations(t *testing.T) {
	features := topicmaps.NewDefaultFeatures()
	features.TypeInstanceAssociations = true
	tm := newTestMap(t, features)
	cat := newTopicWithSubject(t, tm, "http://example.org/cat")
	felix := newTopicWithSubject(t, tm, "http://example.org/felix")
	tom := newTopicWithSubject(t, tm, "http://example.org/tom")

	require.NoError(t, felix.AddType(cat))
	require.NoError(t, tom.AddType(cat))
	assert.Len(t, tm.Associations(), 2)
	assert.Len(t, felix.RolesPlayed(), 1)

	require.NoError(t, tom.RemoveType(cat))
	assert.Len(t, tm.Associations(), 1)
	assert.Empty(t, tom.RolesPlayed())

	// mirrored roles do not block the removal of the instance
	require.NoError(t, felix.Remove())
	assert.Empty(t, tm.Associations())
	assert.NoError(t, cat.Remove())
}
