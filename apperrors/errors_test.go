package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusCode(ErrValidation))
	assert.Equal(t, http.StatusConflict, StatusCode(ErrDuplicateRequest))
	assert.Equal(t, http.StatusConflict, StatusCode(ErrInvalidState))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(ErrUnauthenticated))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(ErrStorage))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(fmt.Errorf("anything else")))
}

func TestStatusCodeSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: request between these users", ErrDuplicateRequest)
	assert.Equal(t, http.StatusConflict, StatusCode(wrapped))
}
