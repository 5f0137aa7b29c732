package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByCode(t *testing.T) {
	err := NotFound("book abc123 not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, ErrNotFound.HTTPStatus())
	assert.Equal(t, 409, ErrAlreadyExists.HTTPStatus())
	assert.Equal(t, 409, ErrConflict.HTTPStatus())
	assert.Equal(t, 401, ErrInvalidCredentials.HTTPStatus())
	assert.Equal(t, 401, ErrTokenExpired.HTTPStatus())
	assert.Equal(t, 400, ErrValidation.HTTPStatus())
	assert.Equal(t, 502, ErrUpstream.HTTPStatus())
	assert.Equal(t, 500, ErrInternal.HTTPStatus())
	assert.Equal(t, 500, Code("BOGUS").HTTPStatus())
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Upstream("catalog unavailable").WithCause(cause)

	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "catalog unavailable: dial tcp: connection refused", err.Error())

	// the original sentinel-style error is untouched
	assert.Equal(t, "catalog unavailable", Upstream("catalog unavailable").Error())
}

func TestValidationWithDetails(t *testing.T) {
	err := ValidationWithDetails("validation failed", map[string]string{"email": "is required"})
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, map[string]string{"email": "is required"}, err.Details)
}
