package serving

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/zefrenchwan/topicmaps.git/locators"
	"github.com/zefrenchwan/topicmaps.git/storage"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
)

// TopicInput is input to create a topic.
// Types are ids of topics in the same topic map
type TopicInput struct {
	ItemIdentifiers    []string `json:"item_identifiers,omitempty"`
	SubjectIdentifiers []string `json:"subject_identifiers,omitempty"`
	SubjectLocators    []string `json:"subject_locators,omitempty"`
	Types              []string `json:"types,omitempty"`
	Names              []string `json:"names,omitempty"`
}

// topicFromQuery finds a topic of tm by id in query parameter key
func topicFromQuery(tm *topicmaps.TopicMap, r *http.Request, key string) (*topicmaps.Topic, error) {
	id := r.URL.Query().Get(key)
	if len(id) == 0 {
		return nil, NewServiceHttpClientError("expecting parameter " + key)
	} else if topic, ok := tm.ConstructById(id).(*topicmaps.Topic); !ok {
		return nil, NewServiceNotFoundError("no topic " + id)
	} else {
		return topic, nil
	}
}

// parseLocators reads all references as locators
func parseLocators(references []string) ([]locators.Locator, error) {
	result := make([]locators.Locator, 0, len(references))
	for _, reference := range references {
		if loc, err := locators.NewLocator(reference); err != nil {
			return nil, NewServiceHttpClientError(err.Error())
		} else {
			result = append(result, loc)
		}
	}

	return result, nil
}

// createTopicHandler creates a topic, or completes the topic matching an identity.
// It returns the resulting topic
func createTopicHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	tm, errMap := loadedTopicMap(wrapper, r, "map")
	if errMap != nil {
		return errMap
	}

	var input TopicInput
	if body, errBody := io.ReadAll(r.Body); errBody != nil {
		return NewServiceUnprocessableEntityError(errBody.Error())
	} else if err := json.Unmarshal(body, &input); err != nil {
		return NewServiceUnprocessableEntityError(err.Error())
	}

	subjectIdentifiers, errSI := parseLocators(input.SubjectIdentifiers)
	if errSI != nil {
		return errSI
	}

	subjectLocators, errSL := parseLocators(input.SubjectLocators)
	if errSL != nil {
		return errSL
	}

	itemIdentifiers, errIID := parseLocators(input.ItemIdentifiers)
	if errIID != nil {
		return errIID
	}

	types := make([]*topicmaps.Topic, 0, len(input.Types))
	for _, id := range input.Types {
		if topicType, ok := tm.ConstructById(id).(*topicmaps.Topic); !ok {
			return NewServiceNotFoundError("no topic " + id)
		} else {
			types = append(types, topicType)
		}
	}

	// topic and all its content are created at once, or not at all
	var topic *topicmaps.Topic
	errCreate := tm.Atomically(func() error {
		var err error
		switch {
		case len(subjectIdentifiers) != 0:
			topic, err = tm.CreateTopicBySubjectIdentifier(subjectIdentifiers[0])
		case len(subjectLocators) != 0:
			topic, err = tm.CreateTopicBySubjectLocator(subjectLocators[0])
		case len(itemIdentifiers) != 0:
			topic, err = tm.CreateTopicByItemIdentifier(itemIdentifiers[0])
		default:
			topic, err = tm.CreateTopic()
		}

		if err != nil {
			return err
		}

		// merges may happen, topic stays the receiver
		for _, loc := range subjectIdentifiers {
			if err := topic.AddSubjectIdentifier(loc); err != nil {
				return err
			}
		}

		for _, loc := range subjectLocators {
			if err := topic.AddSubjectLocator(loc); err != nil {
				return err
			}
		}

		for _, loc := range itemIdentifiers {
			if err := topic.AddItemIdentifier(loc); err != nil {
				return err
			}
		}

		for _, topicType := range types {
			if err := topic.AddType(topicType); err != nil {
				return err
			}
		}

		for _, name := range input.Names {
			if _, err := topic.CreateName(name); err != nil {
				return err
			}
		}

		return nil
	})

	if errCreate != nil {
		return BuildApiErrorFromModelError(errCreate)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(storage.SerializeTopic(topic))
	return nil
}

// loadTopicHandler returns a topic by id, or by subject identifier
func loadTopicHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	tm, errMap := loadedTopicMap(wrapper, r, "map")
	if errMap != nil {
		return errMap
	}

	var topic *topicmaps.Topic
	if len(r.URL.Query().Get("subject")) != 0 {
		if loc, err := locatorFromQuery(r, "subject"); err != nil {
			return err
		} else if topic = tm.TopicBySubjectIdentifier(loc); topic == nil {
			return NewServiceNotFoundError("no topic for subject " + loc.Reference())
		}
	} else if found, err := topicFromQuery(tm, r, "id"); err != nil {
		return err
	} else {
		topic = found
	}

	json.NewEncoder(w).Encode(storage.SerializeTopic(topic))
	return nil
}

// mergeTopicsHandler merges topic other into topic keep
func mergeTopicsHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	tm, errMap := loadedTopicMap(wrapper, r, "map")
	if errMap != nil {
		return errMap
	}

	keep, errKeep := topicFromQuery(tm, r, "keep")
	if errKeep != nil {
		return errKeep
	}

	other, errOther := topicFromQuery(tm, r, "other")
	if errOther != nil {
		return errOther
	}

	if err := keep.MergeIn(other); err != nil {
		return BuildApiErrorFromModelError(err)
	}

	json.NewEncoder(w).Encode(storage.SerializeTopic(keep))
	return nil
}

// deleteTopicHandler removes a topic, refused if the topic is in use
func deleteTopicHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	tm, errMap := loadedTopicMap(wrapper, r, "map")
	if errMap != nil {
		return errMap
	}

	if topic, err := topicFromQuery(tm, r, "id"); err != nil {
		return err
	} else if err := topic.Remove(); err != nil {
		return BuildApiErrorFromModelError(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
