package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(ErrShotNotFound))
	assert.True(t, IsNotFoundError(ErrVersionNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("fetching row: %w", ErrVersionNotFound)))

	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(errors.New("other")))
	assert.False(t, IsNotFoundError(ErrPrimaryVersion))
}

func TestEntityNotFoundErrorsWrapGeneric(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ErrShotNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrVersionNotFound, ErrNotFound)
	assert.NotErrorIs(t, ErrShotNotFound, ErrVersionNotFound)
}
