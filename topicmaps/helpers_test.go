package topicmaps_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/topicmaps.git/locators"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
	"go.uber.org/zap/zaptest"
)

const testMapLocator = "http://example.org/maps/test"

// newTestSystem returns a system logging to the test output
func newTestSystem(t *testing.T, features topicmaps.Features) *topicmaps.TopicMapSystem {
	t.Helper()
	return topicmaps.NewTopicMapSystem(features, zaptest.NewLogger(t))
}

// newTestMap returns an empty topic map in a new system
func newTestMap(t *testing.T, features topicmaps.Features) *topicmaps.TopicMap {
	t.Helper()
	tm, err := newTestSystem(t, features).CreateTopicMap(locators.MustLocator(testMapLocator))
	require.NoError(t, err)
	return tm
}

// newTopic creates a topic or fails the test
func newTopic(t *testing.T, tm *topicmaps.TopicMap) *topicmaps.Topic {
	t.Helper()
	topic, err := tm.CreateTopic()
	require.NoError(t, err)
	return topic
}

// newTopicWithSubject creates a topic with a subject identifier or fails the test
func newTopicWithSubject(t *testing.T, tm *topicmaps.TopicMap, reference string) *topicmaps.Topic {
	t.Helper()
	topic, err := tm.CreateTopicBySubjectIdentifier(locators.MustLocator(reference))
	require.NoError(t, err)
	return topic
}

// ids returns the sorted ids of topics
func ids(topics []*topicmaps.Topic) []string {
	result := make([]string, 0, len(topics))
	for _, topic := range topics {
		result = append(result, topic.Id())
	}

	slices.Sort(result)
	return result
}

// references returns the references of locators
func references(values []locators.Locator) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, value.Reference())
	}

	return result
}

// requireUniqueIdentities checks that each identity resolves to its holder
func requireUniqueIdentities(t *testing.T, tm *topicmaps.TopicMap) {
	t.Helper()
	for _, topic := range tm.Topics() {
		for _, loc := range topic.ItemIdentifiers() {
			require.Same(t, topic, tm.ConstructByItemIdentifier(loc))
		}

		for _, loc := range topic.SubjectIdentifiers() {
			require.Same(t, topic, tm.TopicBySubjectIdentifier(loc))
		}

		for _, loc := range topic.SubjectLocators() {
			require.Same(t, topic, tm.TopicBySubjectLocator(loc))
		}
	}
}
