package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/logging"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
)

// DefaultBasePath is where the glossary routes mount unless overridden.
const DefaultBasePath = "/glossary-magic"

// GlossaryAPI registers the glossary endpoints.
type GlossaryAPI struct {
	basePath string
	service  glossary.Service
	logger   interfaces.Logger
}

// APIOption mutates the GlossaryAPI configuration.
type APIOption func(*GlossaryAPI)

// NewGlossaryAPI constructs a GlossaryAPI instance.
func NewGlossaryAPI(service glossary.Service, opts ...APIOption) *GlossaryAPI {
	api := &GlossaryAPI{
		basePath: DefaultBasePath,
		service:  service,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path.
func WithBasePath(path string) APIOption {
	return func(api *GlossaryAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithLogger attaches a request logger.
func WithLogger(logger interfaces.Logger) APIOption {
	return func(api *GlossaryAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the glossary endpoints to the provided mux.
func (api *GlossaryAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: glossary api is nil")
	}

	base := joinPath(api.basePath, "")
	mux.HandleFunc("GET "+joinPath(base, "get-glossary-words"), api.handleGetWords)
	mux.HandleFunc("POST "+joinPath(base, "link-glossary-words"), api.handleLinkWords)
	mux.HandleFunc("POST "+joinPath(base, "connect-glossary-words"), api.handleConnectWords)
	mux.HandleFunc("POST "+joinPath(base, "connect-used-words"), api.handleConnectUsedWords)
	mux.HandleFunc("POST "+joinPath(base, "disconnect-glossary-words"), api.handleDisconnectWords)
	return nil
}

type linkWordsRequest struct {
	Article string            `json:"article"`
	Fields  map[string]string `json:"fields,omitempty"`
	Save    bool              `json:"save,omitempty"`
}

type connectWordsRequest struct {
	Article        string   `json:"article"`
	AllWords       []string `json:"allWords"`
	WordsToConnect []string `json:"wordsToConnect"`
}

type connectUsedWordsRequest struct {
	Article string            `json:"article"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type articleRequest struct {
	Article string `json:"article"`
}

func (api *GlossaryAPI) handleGetWords(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	articleID, err := parseUUID(r.URL.Query().Get("article"))
	if err != nil {
		badRequest(w, "Article ID is required")
		return
	}

	words, err := api.service.Vocabulary(r.Context(), articleID)
	if err != nil {
		api.fail(w, r, err, "An error occurred while fetching glossary words")
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (api *GlossaryAPI) handleLinkWords(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	var req linkWordsRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	articleID, err := parseUUID(req.Article)
	if err != nil {
		badRequest(w, "Article ID is required")
		return
	}

	result, err := api.service.Link(r.Context(), glossary.LinkRequest{
		ArticleID: articleID,
		Fields:    req.Fields,
		Save:      req.Save,
	})
	if err != nil {
		api.fail(w, r, err, "An error occurred while linking glossary words")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (api *GlossaryAPI) handleConnectWords(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	var req connectWordsRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	articleID, err := parseUUID(req.Article)
	if err != nil {
		badRequest(w, "Article ID is required")
		return
	}
	if len(req.AllWords) == 0 {
		badRequest(w, "All words are required")
		return
	}
	if len(req.WordsToConnect) == 0 {
		badRequest(w, "Words to connect are required")
		return
	}
	all, err := parseUUIDs(req.AllWords)
	if err != nil {
		badRequest(w, "invalid word id")
		return
	}
	connect, err := parseUUIDs(req.WordsToConnect)
	if err != nil {
		badRequest(w, "invalid word id")
		return
	}

	result, err := api.service.SyncRelations(r.Context(), glossary.SyncRequest{
		ArticleID:      articleID,
		AllTermIDs:     all,
		ConnectTermIDs: connect,
	})
	if err != nil {
		api.fail(w, r, err, "An error occurred while connecting glossary words")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Glossary words connected successfully!", Result: result})
}

func (api *GlossaryAPI) handleConnectUsedWords(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	var req connectUsedWordsRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	articleID, err := parseUUID(req.Article)
	if err != nil {
		badRequest(w, "Article ID is required")
		return
	}

	result, err := api.service.Connect(r.Context(), glossary.ConnectRequest{
		ArticleID: articleID,
		Fields:    req.Fields,
	})
	if err != nil {
		api.fail(w, r, err, "An error occurred while connecting glossary words")
		return
	}
	message := "Glossary words connected successfully!"
	if result.Skipped {
		message = "No glossary words are linked in this article"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message, Result: result})
}

func (api *GlossaryAPI) handleDisconnectWords(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	var req articleRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	articleID, err := parseUUID(req.Article)
	if err != nil {
		badRequest(w, "Article ID is required")
		return
	}

	result, err := api.service.DisconnectAll(r.Context(), articleID)
	if err != nil {
		api.fail(w, r, err, "An error occurred while disconnect glossary words")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Glossary words disconnected successfully!", Result: result})
}

func (api *GlossaryAPI) available(w http.ResponseWriter) bool {
	if api == nil || api.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return false
	}
	return true
}

func (api *GlossaryAPI) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, payload := mapError(err, fallback)
	if status >= http.StatusInternalServerError {
		logging.WithPath(api.logger.WithContext(r.Context()), r.URL.Path).Error("glossary.http.request_failed", "error", err)
	}
	writeJSON(w, status, payload)
}
