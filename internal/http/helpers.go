package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/linker"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

// mapError translates service errors into a status and payload. Unexpected
// failures carry fallback, never the underlying error text.
func mapError(err error, fallback string) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	switch {
	case errors.Is(err, glossary.ErrArticleIDRequired):
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "Article ID is required"}
	case errors.Is(err, glossary.ErrAllTermsRequired):
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "All words are required"}
	case errors.Is(err, glossary.ErrConnectTermsRequired):
		return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "Words to connect are required"}
	case errors.Is(err, glossary.ErrCategoryNotFound):
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: "Article category not found"}
	case errors.Is(err, glossary.ErrActionInProgress):
		return http.StatusConflict, errorResponse{Error: "conflict", Message: err.Error()}
	}

	var notFound *glossary.NotFoundError
	if errors.As(err, &notFound) {
		message := notFound.Error()
		if notFound.Resource == "article" {
			message = "Article not found"
		}
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: message}
	}

	var invalidTerm *linker.InvalidTermError
	if errors.As(err, &invalidTerm) {
		return http.StatusUnprocessableEntity, errorResponse{Error: "invalid_term", Message: invalidTerm.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: fallback}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := parseUUID(value)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
