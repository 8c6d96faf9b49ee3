package serving

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zefrenchwan/topicmaps.git/locators"
	"github.com/zefrenchwan/topicmaps.git/storage"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
)

// TopicMapInput is input to create a topic map
type TopicMapInput struct {
	Locator string `json:"locator"`
}

// TopicMapsListResponse lists loaded and stored topic maps
type TopicMapsListResponse struct {
	Loaded []string                     `json:"loaded"`
	Stored []storage.TopicMapSummaryDTO `json:"stored,omitempty"`
}

// locatorFromQuery reads a locator from the url query parameter key
func locatorFromQuery(r *http.Request, key string) (locators.Locator, error) {
	value := r.URL.Query().Get(key)
	if len(value) == 0 {
		return locators.Locator{}, NewServiceHttpClientError("expecting parameter " + key)
	} else if loc, err := locators.NewLocator(value); err != nil {
		return loc, NewServiceHttpClientError(err.Error())
	} else {
		return loc, nil
	}
}

// loadedTopicMap returns the topic map in memory for the locator in query parameter key
func loadedTopicMap(wrapper ServiceParameters, r *http.Request, key string) (*topicmaps.TopicMap, error) {
	if loc, err := locatorFromQuery(r, key); err != nil {
		return nil, err
	} else if tm := wrapper.System.TopicMap(loc); tm == nil {
		return nil, NewServiceNotFoundError("no loaded topic map for " + loc.Reference())
	} else {
		return tm, nil
	}
}

// summarize returns the summary of a loaded topic map
func summarize(tm *topicmaps.TopicMap) storage.TopicMapSummaryDTO {
	return storage.TopicMapSummaryDTO{
		Locator:      tm.Locator().Reference(),
		Topics:       len(tm.Topics()),
		Associations: len(tm.Associations()),
	}
}

// createTopicMapHandler creates an empty topic map in memory
func createTopicMapHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	var input TopicMapInput
	if body, errBody := io.ReadAll(r.Body); errBody != nil {
		return NewServiceUnprocessableEntityError(errBody.Error())
	} else if err := json.Unmarshal(body, &input); err != nil {
		return NewServiceUnprocessableEntityError(err.Error())
	}

	var tm *topicmaps.TopicMap
	if loc, err := locators.NewLocator(input.Locator); err != nil {
		return NewServiceHttpClientError(err.Error())
	} else if created, err := wrapper.System.CreateTopicMap(loc); err != nil {
		return BuildApiErrorFromModelError(err)
	} else {
		tm = created
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(summarize(tm))
	return nil
}

// listTopicMapsHandler returns loaded topic maps and, if any, stored ones
func listTopicMapsHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	result := TopicMapsListResponse{Loaded: make([]string, 0)}
	for _, loc := range wrapper.System.Locators() {
		result.Loaded = append(result.Loaded, loc.Reference())
	}

	if wrapper.Dao != nil {
		if stored, err := wrapper.Dao.ListTopicMaps(wrapper.Ctx, r.URL.Query().Get("prefix")); err != nil {
			return BuildApiErrorFromStorageError(err)
		} else {
			result.Stored = stored
		}
	}

	json.NewEncoder(w).Encode(result)
	return nil
}

// exportTopicMapHandler returns the full content of a loaded topic map
func exportTopicMapHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	tm, errMap := loadedTopicMap(wrapper, r, "locator")
	if errMap != nil {
		return errMap
	}

	if dto, err := storage.SerializeTopicMap(tm); err != nil {
		return NewServiceInternalServerError(err.Error())
	} else {
		json.NewEncoder(w).Encode(dto)
	}

	return nil
}

// importTopicMapHandler creates a topic map from its full content
func importTopicMapHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	var input storage.TopicMapDTO
	if body, errBody := io.ReadAll(r.Body); errBody != nil {
		return NewServiceUnprocessableEntityError(errBody.Error())
	} else if err := json.Unmarshal(body, &input); err != nil {
		return NewServiceUnprocessableEntityError(err.Error())
	}

	tm, errImport := storage.DeserializeTopicMap(wrapper.System, &input)
	if errors.Is(errImport, topicmaps.ErrTopicMapExists) {
		return NewServiceConflictError(errImport.Error())
	} else if errImport != nil {
		return NewServiceUnprocessableEntityError(errImport.Error())
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(summarize(tm))
	return nil
}

// mergeTopicMapsHandler merges source topic map into target topic map
func mergeTopicMapsHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	target, errTarget := loadedTopicMap(wrapper, r, "target")
	if errTarget != nil {
		return errTarget
	}

	source, errSource := loadedTopicMap(wrapper, r, "source")
	if errSource != nil {
		return errSource
	}

	if err := target.MergeIn(source); err != nil {
		return BuildApiErrorFromModelError(err)
	}

	json.NewEncoder(w).Encode(summarize(target))
	return nil
}

// deleteTopicMapHandler removes a topic map from memory.
// With stored=true, stored content is deleted too
func deleteTopicMapHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	loc, errLoc := locatorFromQuery(r, "locator")
	if errLoc != nil {
		return errLoc
	}

	tm := wrapper.System.TopicMap(loc)
	deleteStored := r.URL.Query().Get("stored") == "true"
	if tm == nil && !deleteStored {
		return NewServiceNotFoundError("no loaded topic map for " + loc.Reference())
	} else if tm != nil {
		if err := tm.Remove(); err != nil {
			return BuildApiErrorFromModelError(err)
		}
	}

	if deleteStored {
		if wrapper.Dao == nil {
			return NewServiceInternalServerError("no storage")
		} else if err := wrapper.Dao.DeleteTopicMap(wrapper.Ctx, loc); err != nil {
			return BuildApiErrorFromStorageError(err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// saveTopicMapHandler stores a loaded topic map
func saveTopicMapHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	tm, errMap := loadedTopicMap(wrapper, r, "locator")
	if errMap != nil {
		return errMap
	} else if wrapper.Dao == nil {
		return NewServiceInternalServerError("no storage")
	} else if err := wrapper.Dao.SaveTopicMap(wrapper.Ctx, tm); err != nil {
		return BuildApiErrorFromStorageError(err)
	}

	json.NewEncoder(w).Encode(summarize(tm))
	return nil
}

// restoreTopicMapHandler loads a stored topic map into memory
func restoreTopicMapHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	loc, errLoc := locatorFromQuery(r, "locator")
	if errLoc != nil {
		return errLoc
	} else if wrapper.Dao == nil {
		return NewServiceInternalServerError("no storage")
	} else if wrapper.System.TopicMap(loc) != nil {
		return NewServiceConflictError("topic map already loaded: " + loc.Reference())
	}

	tm, errLoad := wrapper.Dao.LoadTopicMap(wrapper.Ctx, wrapper.System, loc)
	if errLoad != nil {
		return BuildApiErrorFromModelError(errLoad)
	}

	json.NewEncoder(w).Encode(summarize(tm))
	return nil
}
