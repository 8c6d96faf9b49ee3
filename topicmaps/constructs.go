package topicmaps

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/zefrenchwan/topicmaps.git/locators"
)

// construct is the state shared by all constructs
type construct struct {
	// id of the construct, generated once
	id string
	// topicMap is the owning topic map (itself for a topic map)
	topicMap *TopicMap
	// itemIdentifiers is the set of item identifiers, no duplicate
	itemIdentifiers []locators.Locator
	// removed is true once the construct left the graph
	removed bool
}

// newConstruct builds the shared state for a new construct of tm
func newConstruct(tm *TopicMap) construct {
	return construct{id: uuid.NewString(), topicMap: tm}
}

// Id returns the id of the construct
func (c *construct) Id() string {
	return c.id
}

// TopicMap returns the owning topic map
func (c *construct) TopicMap() *TopicMap {
	return c.topicMap
}

// IsRemoved returns true if the construct is no longer part of its topic map
func (c *construct) IsRemoved() bool {
	return c.removed
}

// ItemIdentifiers returns a sorted copy of the item identifiers
func (c *construct) ItemIdentifiers() []locators.Locator {
	return sortedLocators(c.itemIdentifiers)
}

func (c *construct) base() *construct {
	return c
}

// reifiable is the state of reifiable constructs
type reifiable struct {
	reifier *Topic
}

// Reifier returns the reifier, nil if none
func (r *reifiable) Reifier() *Topic {
	return r.reifier
}

func (r *reifiable) reifiableBase() *reifiable {
	return r
}

// typed is the state of typed constructs
type typed struct {
	topicType *Topic
}

// Type returns the type of the construct
func (t *typed) Type() *Topic {
	return t.topicType
}

func (t *typed) typedBase() *typed {
	return t
}

// scoped is the state of scoped constructs
type scoped struct {
	// themes are the own themes of the construct, no duplicate
	themes []*Topic
}

// Scope returns the themes, sorted by id
func (s *scoped) Scope() []*Topic {
	return sortedTopics(s.themes)
}

func (s *scoped) scopedBase() *scoped {
	return s
}

// sortedLocators returns a sorted copy of values, never nil
func sortedLocators(values []locators.Locator) []locators.Locator {
	result := make([]locators.Locator, len(values))
	copy(result, values)
	slices.SortFunc(result, func(a, b locators.Locator) int {
		return strings.Compare(a.Reference(), b.Reference())
	})

	return result
}

// sortedTopics returns a copy of topics sorted by id, never nil
func sortedTopics(values []*Topic) []*Topic {
	result := make([]*Topic, len(values))
	copy(result, values)
	slices.SortFunc(result, compareConstructs[*Topic])
	return result
}

// sortedConstructs returns the keys of a set of constructs, sorted by id
func sortedConstructs[T interface {
	comparable
	Construct
}](values map[T]struct{}) []T {
	result := make([]T, 0, len(values))
	for value := range values {
		result = append(result, value)
	}

	slices.SortFunc(result, compareConstructs[T])
	return result
}

// compareConstructs orders constructs by id
func compareConstructs[T Construct](a, b T) int {
	return strings.Compare(a.Id(), b.Id())
}

// appendUnique appends value if not already in values
func appendUnique[T comparable](values []T, value T) []T {
	if slices.Contains(values, value) {
		return values
	}

	return append(values, value)
}

// removeValue removes all occurrences of value in values
func removeValue[T comparable](values []T, value T) []T {
	return slices.DeleteFunc(values, func(element T) bool { return element == value })
}

// unionTopics returns the union of both sets, sorted by id
func unionTopics(a, b []*Topic) []*Topic {
	result := make([]*Topic, 0, len(a)+len(b))
	for _, value := range a {
		result = appendUnique(result, value)
	}

	for _, value := range b {
		result = appendUnique(result, value)
	}

	slices.SortFunc(result, compareConstructs[*Topic])
	return result
}

// isSubsetOf returns true if each element of values is in container
func isSubsetOf(values, container []*Topic) bool {
	for _, value := range values {
		if !slices.Contains(container, value) {
			return false
		}
	}

	return true
}
