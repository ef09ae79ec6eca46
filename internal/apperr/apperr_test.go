package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	err := New(ErrNotFound, "product not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, ErrNotFound, Kind(err))
	assert.Equal(t, ErrNotFound, Kind(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, ErrUpstream, Kind(errors.New("connection reset")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "email already registered", Message(New(ErrConflict, "email already registered")))
	assert.Equal(t, "database error", Message(errors.New("socket closed")))
	assert.Equal(t, "database error", Message(New(ErrUpstream, "gridfs: broken pipe")))
}
