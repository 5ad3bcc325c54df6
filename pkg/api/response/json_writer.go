package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dskvich/ottaga/pkg/domain"
	"github.com/dskvich/ottaga/pkg/logger"
)

type JSONResponseWriter struct{}

type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func (j *JSONResponseWriter) WriteSuccessResponse(w http.ResponseWriter, statusCode int, data any) {
	j.write(w, statusCode, Envelope{Success: true, Data: data})
}

func (j *JSONResponseWriter) WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	j.write(w, statusCode, Envelope{Success: false, Message: message})
}

// WriteError maps domain errors to status codes. Unknown errors are reported
// without detail.
func (j *JSONResponseWriter) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		j.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		j.WriteErrorResponse(w, http.StatusForbidden, "You do not have access to this chat.")
	case errors.Is(err, domain.ErrNotFound):
		j.WriteErrorResponse(w, http.StatusNotFound, "Chat not found.")
	case errors.Is(err, domain.ErrChatCreation):
		slog.ErrorContext(r.Context(), "request failed", logger.Err(err))
		j.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create chat.")
	default:
		slog.ErrorContext(r.Context(), "request failed", logger.Err(err))
		j.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func (j *JSONResponseWriter) write(w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding response", logger.Err(err))
	}
}
