package apperrors

import (
	"errors"
	"net/http"
)

// Failure kinds returned by the service layer. Handlers translate them to
// HTTP statuses with WriteHTTP; services wrap them with context via %w.
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateRequest = errors.New("request already exists")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrStorage          = errors.New("storage error")
)

func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func WriteHTTP(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusCode(err))
}
