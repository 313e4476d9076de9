// Package respond writes JSON responses and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Status maps err to the HTTP status it is reported with.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as an ErrorBody. Internal errors are logged and their message is not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	body := ErrorBody{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Error handling request", "path", r.URL.Path, "error", err)
	} else {
		body.Message = apperr.Message(err)
	}

	JSON(w, status, body)
}

// Fail writes a plain status with message, for failures raised by the transport itself.
func Fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, status, ErrorBody{
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	})
}

// Decode reads a JSON body into dst and validates its struct tags.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperr.Validation("invalid field '%s': %s", verrs[0].Field(), verrs[0].Tag())
		}

		return apperr.Validation("invalid request body")
	}

	return nil
}

// IDParam parses the numeric URL parameter name.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s", name)
	}

	return id, nil
}
