package serving

import (
	"encoding/json"
	"net/http"

	"github.com/zefrenchwan/topicmaps.git/storage"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
)

// searchTopicsHandler returns topics of a topic map matching query parameters:
// name is an exact name value, type is the id of a type of the topic
func searchTopicsHandler(wrapper ServiceParameters, writer http.ResponseWriter, request *http.Request) error {
	defer request.Body.Close()

	tm, errMap := loadedTopicMap(wrapper, request, "map")
	if errMap != nil {
		return errMap
	}

	values := request.URL.Query()
	for k, v := range values {
		if len(v) != 1 {
			return NewServiceHttpClientError("invalid parameter " + k + ": expecting one value per key")
		}
	}

	var topicType *topicmaps.Topic
	if len(values.Get("type")) != 0 {
		if found, err := topicFromQuery(tm, request, "type"); err != nil {
			return err
		} else {
			topicType = found
		}
	}

	nameValue := values.Get("name")
	result := make([]storage.TopicDTO, 0)
	for _, topic := range tm.Topics() {
		if topicType != nil && !tm.IsInstanceOf(topic, topicType) {
			continue
		} else if len(nameValue) != 0 && !hasNameValue(topic, nameValue) {
			continue
		}

		result = append(result, storage.SerializeTopic(topic))
	}

	json.NewEncoder(writer).Encode(result)
	return nil
}

// hasNameValue returns true if a name of topic has exactly that value
func hasNameValue(topic *topicmaps.Topic, value string) bool {
	for _, name := range topic.Names() {
		if name.Value() == value {
			return true
		}
	}

	return false
}
