package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitlab.com/codearena-2025.net/internal/static/errs"
)

type ErrorMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// StatusOf maps a domain error to the HTTP status the boundary should
// answer with.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrQuestionNotFound), errors.Is(err, errs.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAdmissionLimit):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
