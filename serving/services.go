package serving

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/zefrenchwan/topicmaps.git/locators"
	"github.com/zefrenchwan/topicmaps.git/storage"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
	"go.uber.org/zap"
)

// RequestContextKey is key type for context keys when using specific info (such as current user)
type RequestContextKey string

// Storage defines the persistence operations the services need.
// storage.Dao implements it
type Storage interface {
	CheckUser(ctx context.Context, login, password string) (bool, error)
	FindSecretForActiveUser(ctx context.Context, login string) (string, error)
	UpsertUser(ctx context.Context, creator, login, password string) error
	SaveTopicMap(ctx context.Context, tm *topicmaps.TopicMap) error
	LoadTopicMap(ctx context.Context, system *topicmaps.TopicMapSystem, loc locators.Locator) (*topicmaps.TopicMap, error)
	ListTopicMaps(ctx context.Context, prefix string) ([]storage.TopicMapSummaryDTO, error)
	DeleteTopicMap(ctx context.Context, loc locators.Locator) error
}

// InitService returns a new valid servemux to launch
func InitService(dao Storage, system *topicmaps.TopicMapSystem, initialContext context.Context, logger *zap.SugaredLogger) *http.ServeMux {
	mux := http.NewServeMux()

	parameters := ServiceParameters{
		Dao:    dao,
		System: system,
		Lock:   new(sync.Mutex),
		Ctx:    initialContext,
		Logger: logger,
	}

	// ADMIN PART
	AddGetServiceHandlerToMux(mux, "/status/", checkStatusHandler, parameters)
	AddPostServiceHandlerToMux(mux, "/token/", checkUserAndGenerateTokenHandler, parameters)
	AddAuthenticatedPostServiceHandlerToMux(mux, "/user/upsert/", upsertUserHandler, parameters)
	// TOPIC MAPS OPERATIONS
	AddAuthenticatedPostServiceHandlerToMux(mux, "/topicmaps/create/", createTopicMapHandler, parameters)
	AddAuthenticatedGetServiceHandlerToMux(mux, "/topicmaps/list/", listTopicMapsHandler, parameters)
	AddAuthenticatedGetServiceHandlerToMux(mux, "/topicmaps/export/", exportTopicMapHandler, parameters)
	AddAuthenticatedPostServiceHandlerToMux(mux, "/topicmaps/import/", importTopicMapHandler, parameters)
	AddAuthenticatedPutServiceHandlerToMux(mux, "/topicmaps/merge/", mergeTopicMapsHandler, parameters)
	AddAuthenticatedDeleteServiceHandlerToMux(mux, "/topicmaps/delete/", deleteTopicMapHandler, parameters)
	AddAuthenticatedPutServiceHandlerToMux(mux, "/topicmaps/save/", saveTopicMapHandler, parameters)
	AddAuthenticatedPutServiceHandlerToMux(mux, "/topicmaps/restore/", restoreTopicMapHandler, parameters)
	// TOPICS OPERATIONS
	AddAuthenticatedPostServiceHandlerToMux(mux, "/topics/create/", createTopicHandler, parameters)
	AddAuthenticatedPutServiceHandlerToMux(mux, "/topics/merge/", mergeTopicsHandler, parameters)
	AddAuthenticatedDeleteServiceHandlerToMux(mux, "/topics/delete/", deleteTopicHandler, parameters)
	AddAuthenticatedGetServiceHandlerToMux(mux, "/topics/load/", loadTopicHandler, parameters)
	AddAuthenticatedGetServiceHandlerToMux(mux, "/topics/search/", searchTopicsHandler, parameters)
	// mux is complete, all handlers are set
	return mux
}

// AddGetServiceHandlerToMux adds an handler to to the current mux for a GET
func AddGetServiceHandlerToMux(mux *http.ServeMux, urlPattern string, handler ServiceHandler, parameters ServiceParameters) {
	AddServiceHandlerToMux(mux, "GET", urlPattern, false, handler, parameters)
}

// AddPostServiceHandlerToMux adds an handler to to the current mux for a POST
func AddPostServiceHandlerToMux(mux *http.ServeMux, urlPattern string, handler ServiceHandler, parameters ServiceParameters) {
	AddServiceHandlerToMux(mux, "POST", urlPattern, false, handler, parameters)
}

// AddAuthenticatedGetServiceHandlerToMux adds an handler to to the current mux for a GET
func AddAuthenticatedGetServiceHandlerToMux(mux *http.ServeMux, urlPattern string, handler ServiceHandler, parameters ServiceParameters) {
	AddServiceHandlerToMux(mux, "GET", urlPattern, true, handler, parameters)
}

// AddAuthenticatedPostServiceHandlerToMux adds an handler to to the current mux for a POST
func AddAuthenticatedPostServiceHandlerToMux(mux *http.ServeMux, urlPattern string, handler ServiceHandler, parameters ServiceParameters) {
	AddServiceHandlerToMux(mux, "POST", urlPattern, true, handler, parameters)
}

// AddAuthenticatedDeleteServiceHandlerToMux adds an handler to the current mux for a DELETE
func AddAuthenticatedDeleteServiceHandlerToMux(mux *http.ServeMux, urlPattern string, handler ServiceHandler, parameters ServiceParameters) {
	AddServiceHandlerToMux(mux, "DELETE", urlPattern, true, handler, parameters)
}

// AddAuthenticatedPutServiceHandlerToMux adds an handler to the current mux for a PUT
func AddAuthenticatedPutServiceHandlerToMux(mux *http.ServeMux, urlPattern string, handler ServiceHandler, parameters ServiceParameters) {
	AddServiceHandlerToMux(mux, "PUT", urlPattern, true, handler, parameters)
}

// AddServiceHandlerToMux adds an handler to current mux.
// Handlers run one at a time: the topic map system is not safe for concurrent use
func AddServiceHandlerToMux(mux *http.ServeMux, method string, urlPattern string, testAuth bool, handler ServiceHandler, parameters ServiceParameters) {
	handlerFunction := func(w http.ResponseWriter, r *http.Request) {
		if !strings.EqualFold(r.Method, method) {
			http.Error(w, "Expecting "+method, http.StatusBadRequest)
			return
		}

		current := parameters
		current.Ctx = r.Context()

		// test if user is valid
		if testAuth {
			if login, auth, err := validateAuthentication(current, r); err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			} else if !auth {
				http.Error(w, "should authenticate", http.StatusUnauthorized)
				return
			} else {
				current.Ctx = context.WithValue(current.Ctx, RequestContextKey("user"), login)
			}
		}

		errHandler := func() error {
			current.Lock.Lock()
			defer current.Lock.Unlock()
			return handler(current, w, r)
		}()

		if errHandler != nil {
			current.Logger.Errorw("request failed", "method", method, "url", r.URL.String(), "error", errHandler.Error())
			switch customError, ok := errHandler.(ServiceHttpError); ok {
			case true:
				http.Error(w, customError.Error(), customError.HttpCode())
			default:
				http.Error(w, "Internal error: "+errHandler.Error(), http.StatusInternalServerError)
			}
		}
	}

	// register url matching
	mux.HandleFunc(urlPattern, handlerFunction)
	// deal with /value/ <=> /value
	size := len(urlPattern)
	if strings.HasSuffix(urlPattern, "/") {
		mux.HandleFunc(urlPattern[0:size-1], handlerFunction)
	} else {
		mux.HandleFunc(urlPattern+"/", handlerFunction)
	}
}

// ServiceParameters contains all parameters to use for a service
type ServiceParameters struct {
	// Dao to store topic maps and users
	Dao Storage
	// System holds the loaded topic maps
	System *topicmaps.TopicMapSystem
	// Lock serializes access to System
	Lock *sync.Mutex
	// Ctx is the request context
	Ctx    context.Context
	Logger *zap.SugaredLogger
}

// ServiceHandler adds more parameters than usual handler function
type ServiceHandler func(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error

// CurrentUser returns the current user if any, and a boolean to explicit if found
func (sp ServiceParameters) CurrentUser() (string, bool) {
	switch userValue := sp.Ctx.Value(RequestContextKey("user")); userValue {
	case nil:
		return "", false
	default:
		return userValue.(string), true
	}
}
