package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("config not found")))
	assert.Equal(t, KindBadRequest, KindOf(BadRequest("bad input")))
	assert.Equal(t, KindConflict, KindOf(Conflict("version clash")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("no token")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("no scope")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := NotFound("client with ID %s not found", "cl-1")
	outer := fmt.Errorf("loading client: %w", inner)
	assert.Equal(t, KindNotFound, KindOf(outer))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "client with ID cl-1 not found", MessageOf(NotFound("client with ID %s not found", "cl-1")))
	// Plain errors never leak their text to clients.
	assert.Equal(t, "internal server error", MessageOf(errors.New("pq: connection refused")))
}

func TestWrap(t *testing.T) {
	cause := errors.New("file is corrupt")
	err := Wrap(cause, KindBadRequest, "failed to read the uploaded file")

	assert.Equal(t, KindBadRequest, KindOf(err))
	assert.Equal(t, "failed to read the uploaded file", MessageOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "file is corrupt")
}
