package topicmaps

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zefrenchwan/topicmaps.git/locators"
	"go.uber.org/zap"
)

// Features are the options of a topic map system
type Features struct {
	// AutoMerge merges topics on identity collisions. If false, collisions raise identity errors
	AutoMerge bool
	// ReadOnly refuses any mutation
	ReadOnly bool
	// TypeInstanceAssociations mirrors topic types as type-instance associations
	TypeInstanceAssociations bool
}

// NewDefaultFeatures returns the default features: merges are automatic, system is writable
func NewDefaultFeatures() Features {
	return Features{AutoMerge: true}
}

// TopicMapSystem owns topic maps, each bound to a locator
type TopicMapSystem struct {
	// features of the system, fixed at creation
	features Features
	// topicMaps links a locator to its topic map
	topicMaps map[locators.Locator]*TopicMap
	// logger for structural events (merges, rollbacks)
	logger *zap.Logger
}

// NewTopicMapSystem builds an empty system.
// A nil logger means no log
func NewTopicMapSystem(features Features, logger *zap.Logger) *TopicMapSystem {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TopicMapSystem{
		features:  features,
		topicMaps: make(map[locators.Locator]*TopicMap),
		logger:    logger,
	}
}

// Features returns the features of the system
func (s *TopicMapSystem) Features() Features {
	if s == nil {
		return Features{}
	}

	return s.features
}

// Logger returns the logger of the system
func (s *TopicMapSystem) Logger() *zap.Logger {
	if s == nil || s.logger == nil {
		return zap.NewNop()
	}

	return s.logger
}

// CreateTopicMap creates a topic map bound to loc.
// If loc is already bound, it returns an error matching ErrTopicMapExists
func (s *TopicMapSystem) CreateTopicMap(loc locators.Locator) (*TopicMap, error) {
	if s == nil {
		return nil, newModelError(nil, "nil system")
	} else if loc.IsZero() {
		return nil, newModelError(nil, "topic map locator must not be null")
	} else if _, found := s.topicMaps[loc]; found {
		return nil, fmt.Errorf("%w: %s", ErrTopicMapExists, loc.Reference())
	}

	tm := newTopicMap(s, loc)
	s.topicMaps[loc] = tm
	s.logger.Debug("topic map created", zap.String("locator", loc.Reference()), zap.String("id", tm.Id()))
	return tm, nil
}

// BuildTopicMap creates a topic map bound to loc and fills it with content.
// Content may mutate the topic map even in a read only system.
// If content fails, the topic map is dropped and loc remains free
func (s *TopicMapSystem) BuildTopicMap(loc locators.Locator, content func(*TopicMap) error) (*TopicMap, error) {
	tm, err := s.CreateTopicMap(loc)
	if err != nil {
		return nil, err
	}

	tm.loading = true
	err = content(tm)
	tm.loading = false

	if err != nil {
		s.unbind(tm)
		tm.release()
		s.logger.Debug("topic map build failed", zap.String("locator", loc.Reference()), zap.Error(err))
		return nil, err
	}

	return tm, nil
}

// TopicMap returns the topic map bound to loc, nil if none
func (s *TopicMapSystem) TopicMap(loc locators.Locator) *TopicMap {
	if s == nil {
		return nil
	}

	return s.topicMaps[loc]
}

// Locators returns the locators of all topic maps, sorted
func (s *TopicMapSystem) Locators() []locators.Locator {
	if s == nil {
		return nil
	}

	result := make([]locators.Locator, 0, len(s.topicMaps))
	for loc := range s.topicMaps {
		result = append(result, loc)
	}

	slices.SortFunc(result, func(a, b locators.Locator) int {
		return strings.Compare(a.Reference(), b.Reference())
	})

	return result
}

// Close removes all topic maps from the system
func (s *TopicMapSystem) Close() {
	if s == nil {
		return
	}

	for _, loc := range s.Locators() {
		s.topicMaps[loc].release()
	}

	s.logger.Debug("topic map system closed", zap.Int("topic_maps", len(s.topicMaps)))
	clear(s.topicMaps)
}

// unbind removes the topic map from the system
func (s *TopicMapSystem) unbind(tm *TopicMap) {
	if current, found := s.topicMaps[tm.locator]; found && current == tm {
		delete(s.topicMaps, tm.locator)
	}
}
