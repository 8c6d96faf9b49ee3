package serving_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/topicmaps.git/locators"
	"github.com/zefrenchwan/topicmaps.git/serving"
	"github.com/zefrenchwan/topicmaps.git/storage"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
	"go.uber.org/zap/zaptest"
)

const (
	testUser     = "admin"
	testPassword = "secret-password"
	testMap      = "http://example.org/maps/music"
)

// memoryStorage keeps users and topic maps contents in memory
type memoryStorage struct {
	passwords map[string]string
	secrets   map[string]string
	contents  map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		passwords: map[string]string{testUser: testPassword},
		secrets:   map[string]string{testUser: "admin-secret"},
		contents:  make(map[string][]byte),
	}
}

func (m *memoryStorage) CheckUser(ctx context.Context, login, password string) (bool, error) {
	expected, found := m.passwords[login]
	return found && expected == password, nil
}

func (m *memoryStorage) FindSecretForActiveUser(ctx context.Context, login string) (string, error) {
	if secret, found := m.secrets[login]; found {
		return secret, nil
	}

	return "", storage.ErrUnknownUser
}

func (m *memoryStorage) UpsertUser(ctx context.Context, creator, login, password string) error {
	m.passwords[login] = password
	m.secrets[login] = login + "-secret"
	return nil
}

func (m *memoryStorage) SaveTopicMap(ctx context.Context, tm *topicmaps.TopicMap) error {
	dto, err := storage.SerializeTopicMap(tm)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(dto)
	m.contents[tm.Locator().Reference()] = raw
	return err
}

func (m *memoryStorage) LoadTopicMap(ctx context.Context, system *topicmaps.TopicMapSystem, loc locators.Locator) (*topicmaps.TopicMap, error) {
	raw, found := m.contents[loc.Reference()]
	if !found {
		return nil, storage.ErrTopicMapNotFound
	}

	var dto storage.TopicMapDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}

	return storage.DeserializeTopicMap(system, &dto)
}

func (m *memoryStorage) ListTopicMaps(ctx context.Context, prefix string) ([]storage.TopicMapSummaryDTO, error) {
	result := make([]storage.TopicMapSummaryDTO, 0)
	for locator := range m.contents {
		result = append(result, storage.TopicMapSummaryDTO{Locator: locator})
	}

	return result, nil
}

func (m *memoryStorage) DeleteTopicMap(ctx context.Context, loc locators.Locator) error {
	if _, found := m.contents[loc.Reference()]; !found {
		return storage.ErrTopicMapNotFound
	}

	delete(m.contents, loc.Reference())
	return nil
}

// testServer runs the services on a new system
type testServer struct {
	t       *testing.T
	server  *httptest.Server
	system  *topicmaps.TopicMapSystem
	storage *memoryStorage
	token   string
}

func newTestServer(t *testing.T, features topicmaps.Features) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	system := topicmaps.NewTopicMapSystem(features, logger)
	store := newMemoryStorage()
	mux := serving.InitService(store, system, context.Background(), logger.Sugar())
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	result := &testServer{t: t, server: server, system: system, storage: store}
	response, body := result.call(http.MethodPost, "/token/", nil, serving.UserInformationInput{Username: testUser, Password: testPassword})
	require.Equal(t, http.StatusOK, response.StatusCode, string(body))
	var tokenResponse map[string]string
	require.NoError(t, json.Unmarshal(body, &tokenResponse))
	result.token = tokenResponse["token"]
	require.NotEmpty(t, result.token)
	return result
}

// call sends a request with the token, if any, and returns response and body
func (s *testServer) call(method, path string, query url.Values, payload any) (*http.Response, []byte) {
	s.t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(s.t, json.NewEncoder(&body).Encode(payload))
	}

	target := s.server.URL + path
	if len(query) != 0 {
		target = target + "?" + query.Encode()
	}

	request, err := http.NewRequest(method, target, &body)
	require.NoError(s.t, err)
	if len(s.token) != 0 {
		request.Header.Set("Authorization", "Bearer "+s.token)
	}

	response, err := s.server.Client().Do(request)
	require.NoError(s.t, err)
	defer response.Body.Close()

	var content bytes.Buffer
	_, err = content.ReadFrom(response.Body)
	require.NoError(s.t, err)
	return response, content.Bytes()
}

// createTopic creates a topic through the api and returns it
func (s *testServer) createTopic(input serving.TopicInput) storage.TopicDTO {
	s.t.Helper()
	response, body := s.call(http.MethodPost, "/topics/create/", url.Values{"map": {testMap}}, input)
	require.Equal(s.t, http.StatusCreated, response.StatusCode, string(body))
	var result storage.TopicDTO
	require.NoError(s.t, json.Unmarshal(body, &result))
	return result
}

// createMap creates the test topic map through the api
func (s *testServer) createMap() {
	s.t.Helper()
	response, body := s.call(http.MethodPost, "/topicmaps/create/", nil, serving.TopicMapInput{Locator: testMap})
	require.Equal(s.t, http.StatusCreated, response.StatusCode, string(body))
}

func TestStatus(t *testing.T) {
	server := newTestServer(t, topicmaps.NewDefaultFeatures())
	response, body := server.call(http.MethodGet, "/status/", nil, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var status serving.CheckStatusResponse
	require.NoError(t, json.Unmarshal(body, &status))
	assert.True(t, status.Active)
	assert.False(t, status.ReadOnly)

	response, _ = server.call(http.MethodPost, "/status/", nil, nil)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestAuthentication(t *testing.T) {
	server := newTestServer(t, topicmaps.NewDefaultFeatures())
	token := server.token

	server.token = ""
	response, _ := server.call(http.MethodGet, "/topicmaps/list/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	server.token = token + "x"
	response, _ = server.call(http.MethodGet, "/topicmaps/list/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	server.token = ""
	response, _ = server.call(http.MethodPost, "/token/", nil, serving.UserInformationInput{Username: testUser, Password: "wrong"})
	assert.Equal(t, http.StatusForbidden, response.StatusCode)

	server.token = token
	response, _ = server.call(http.MethodPost, "/user/upsert/", nil, serving.UserInformationInput{Username: "other", Password: "pwd"})
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
	assert.Equal(t, "pwd", server.storage.passwords["other"])
}

func TestTopicMapLifecycle(t *testing.T) {
	server := newTestServer(t, topicmaps.NewDefaultFeatures())
	server.createMap()

	// locator already bound
	response, _ := server.call(http.MethodPost, "/topicmaps/create/", nil, serving.TopicMapInput{Locator: testMap})
	assert.Equal(t, http.StatusConflict, response.StatusCode)
	response, _ = server.call(http.MethodPost, "/topicmaps/create/", nil, serving.TopicMapInput{Locator: "relative"})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)

	server.createTopic(serving.TopicInput{
		SubjectIdentifiers: []string{"http://example.org/puccini"},
		Names:              []string{"Giacomo Puccini"},
	})

	response, body := server.call(http.MethodGet, "/topicmaps/list/", nil, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	var list serving.TopicMapsListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, []string{testMap}, list.Loaded)
	assert.Empty(t, list.Stored)

	// save, drop from memory, then restore
	response, _ = server.call(http.MethodPut, "/topicmaps/save/", url.Values{"locator": {testMap}}, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	response, _ = server.call(http.MethodPut, "/topicmaps/restore/", url.Values{"locator": {testMap}}, nil)
	assert.Equal(t, http.StatusConflict, response.StatusCode)
	response, _ = server.call(http.MethodDelete, "/topicmaps/delete/", url.Values{"locator": {testMap}}, nil)
	require.Equal(t, http.StatusNoContent, response.StatusCode)
	assert.Nil(t, server.system.TopicMap(locators.MustLocator(testMap)))

	response, body = server.call(http.MethodPut, "/topicmaps/restore/", url.Values{"locator": {testMap}}, nil)
	require.Equal(t, http.StatusOK, response.StatusCode, string(body))
	tm := server.system.TopicMap(locators.MustLocator(testMap))
	require.NotNil(t, tm)
	puccini := tm.TopicBySubjectIdentifier(locators.MustLocator("http://example.org/puccini"))
	require.NotNil(t, puccini)
	assert.Len(t, puccini.Names(), 1)

	// delete stored content too
	response, _ = server.call(http.MethodDelete, "/topicmaps/delete/", url.Values{"locator": {testMap}, "stored": {"true"}}, nil)
	require.Equal(t, http.StatusNoContent, response.StatusCode)
	assert.Empty(t, server.storage.contents)
	response, _ = server.call(http.MethodPut, "/topicmaps/restore/", url.Values{"locator": {testMap}}, nil)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestExportImportAndMerge(t *testing.T) {
	server := newTestServer(t, topicmaps.NewDefaultFeatures())
	server.createMap()
	server.createTopic(serving.TopicInput{
		SubjectIdentifiers: []string{"http://example.org/tosca"},
		Names:              []string{"Tosca"},
	})

	response, body := server.call(http.MethodGet, "/topicmaps/export/", url.Values{"locator": {testMap}}, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	var dto storage.TopicMapDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.Equal(t, testMap, dto.Locator)

	// same content under another locator
	copyLocator := "http://example.org/maps/copy"
	dto.Locator = copyLocator
	response, body = server.call(http.MethodPost, "/topicmaps/import/", nil, dto)
	require.Equal(t, http.StatusCreated, response.StatusCode, string(body))
	response, _ = server.call(http.MethodPost, "/topicmaps/import/", nil, dto)
	assert.Equal(t, http.StatusConflict, response.StatusCode)

	copied := server.system.TopicMap(locators.MustLocator(copyLocator))
	require.NotNil(t, copied)
	tosca, err := copied.CreateTopicBySubjectIdentifier(locators.MustLocator("http://example.org/tosca"))
	require.NoError(t, err)
	_, err = tosca.CreateName("La Tosca")
	require.NoError(t, err)

	response, body = server.call(http.MethodPut, "/topicmaps/merge/", url.Values{"target": {testMap}, "source": {copyLocator}}, nil)
	require.Equal(t, http.StatusOK, response.StatusCode, string(body))
	var summary storage.TopicMapSummaryDTO
	require.NoError(t, json.Unmarshal(body, &summary))
	// tosca and the default name type
	assert.Equal(t, 2, summary.Topics)

	tm := server.system.TopicMap(locators.MustLocator(testMap))
	merged := tm.TopicBySubjectIdentifier(locators.MustLocator("http://example.org/tosca"))
	assert.Len(t, merged.Names(), 2)

	response, _ = server.call(http.MethodPut, "/topicmaps/merge/", url.Values{"target": {testMap}, "source": {"http://example.org/none"}}, nil)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestTopicsOperations(t *testing.T) {
	server := newTestServer(t, topicmaps.NewDefaultFeatures())
	server.createMap()
	composer := server.createTopic(serving.TopicInput{SubjectIdentifiers: []string{"http://example.org/composer"}})
	puccini := server.createTopic(serving.TopicInput{
		SubjectIdentifiers: []string{"http://example.org/puccini"},
		Types:              []string{composer.Id},
		Names:              []string{"Puccini"},
	})
	assert.Equal(t, []string{composer.Id}, puccini.Types)

	other := server.createTopic(serving.TopicInput{
		ItemIdentifiers: []string{"http://example.org/puccini-iid"},
		Names:           []string{"Giacomo Puccini"},
	})

	// load by id and by subject
	response, body := server.call(http.MethodGet, "/topics/load/", url.Values{"map": {testMap}, "id": {puccini.Id}}, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	var loaded storage.TopicDTO
	require.NoError(t, json.Unmarshal(body, &loaded))
	assert.Equal(t, puccini.Id, loaded.Id)
	response, body = server.call(http.MethodGet, "/topics/load/", url.Values{"map": {testMap}, "subject": {"http://example.org/puccini"}}, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.NoError(t, json.Unmarshal(body, &loaded))
	assert.Equal(t, puccini.Id, loaded.Id)

	// search by type and name
	response, body = server.call(http.MethodGet, "/topics/search/", url.Values{"map": {testMap}, "type": {composer.Id}}, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	var found []storage.TopicDTO
	require.NoError(t, json.Unmarshal(body, &found))
	require.Len(t, found, 1)
	assert.Equal(t, puccini.Id, found[0].Id)
	response, body = server.call(http.MethodGet, "/topics/search/", url.Values{"map": {testMap}, "name": {"Giacomo Puccini"}}, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.NoError(t, json.Unmarshal(body, &found))
	require.Len(t, found, 1)
	assert.Equal(t, other.Id, found[0].Id)

	// composer is used as a type
	response, _ = server.call(http.MethodDelete, "/topics/delete/", url.Values{"map": {testMap}, "id": {composer.Id}}, nil)
	assert.Equal(t, http.StatusConflict, response.StatusCode)

	response, body = server.call(http.MethodPut, "/topics/merge/", url.Values{"map": {testMap}, "keep": {puccini.Id}, "other": {other.Id}}, nil)
	require.Equal(t, http.StatusOK, response.StatusCode, string(body))
	var merged storage.TopicDTO
	require.NoError(t, json.Unmarshal(body, &merged))
	assert.Equal(t, puccini.Id, merged.Id)
	assert.Len(t, merged.Names, 2)
	assert.Contains(t, merged.ItemIdentifiers, "http://example.org/puccini-iid")

	response, _ = server.call(http.MethodGet, "/topics/load/", url.Values{"map": {testMap}, "id": {other.Id}}, nil)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)

	response, _ = server.call(http.MethodDelete, "/topics/delete/", url.Values{"map": {testMap}, "id": {puccini.Id}}, nil)
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
	response, _ = server.call(http.MethodDelete, "/topics/delete/", url.Values{"map": {testMap}, "id": {composer.Id}}, nil)
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
}

func TestFailedTopicCreationKeepsMapUnchanged(t *testing.T) {
	server := newTestServer(t, topicmaps.NewDefaultFeatures())
	server.createMap()

	tm := server.system.TopicMap(locators.MustLocator(testMap))
	require.NotNil(t, tm)
	associationType, err := tm.CreateTopic()
	require.NoError(t, err)
	association, err := tm.CreateAssociation(associationType)
	require.NoError(t, err)
	require.NoError(t, association.AddItemIdentifier(locators.MustLocator("http://example.org/used")))

	// topic is created from its subject identifier, then item identifier clashes with the association
	response, body := server.call(http.MethodPost, "/topics/create/", url.Values{"map": {testMap}}, serving.TopicInput{
		SubjectIdentifiers: []string{"http://example.org/new"},
		ItemIdentifiers:    []string{"http://example.org/used"},
	})

	assert.Equal(t, http.StatusConflict, response.StatusCode, string(body))
	assert.Len(t, tm.Topics(), 1)
	assert.Nil(t, tm.TopicBySubjectIdentifier(locators.MustLocator("http://example.org/new")))
}

func TestPanickingHandlerReleasesLock(t *testing.T) {
	parameters := serving.ServiceParameters{
		System: topicmaps.NewTopicMapSystem(topicmaps.NewDefaultFeatures(), nil),
		Lock:   new(sync.Mutex),
		Ctx:    context.Background(),
		Logger: zaptest.NewLogger(t).Sugar(),
	}

	mux := http.NewServeMux()
	serving.AddGetServiceHandlerToMux(mux, "/broken/", func(wrapper serving.ServiceParameters, w http.ResponseWriter, r *http.Request) error {
		panic("broken handler")
	}, parameters)
	serving.AddGetServiceHandlerToMux(mux, "/working/", func(wrapper serving.ServiceParameters, w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}, parameters)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	// server recovers the panic and drops the connection
	if response, err := server.Client().Get(server.URL + "/broken/"); err == nil {
		response.Body.Close()
	}

	response, err := server.Client().Get(server.URL + "/working/")
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
}

func TestReadOnlyServer(t *testing.T) {
	server := newTestServer(t, topicmaps.Features{ReadOnly: true})
	server.createMap()

	response, _ := server.call(http.MethodPost, "/topics/create/", url.Values{"map": {testMap}}, serving.TopicInput{})
	assert.Equal(t, http.StatusUnprocessableEntity, response.StatusCode)
	response, _ = server.call(http.MethodDelete, "/topicmaps/delete/", url.Values{"locator": {testMap}}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, response.StatusCode)
}
