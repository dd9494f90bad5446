package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinesphere/cinesphere-server/internal/store"
)

func TestError_Error(t *testing.T) {
	err := &store.Error{Code: http.StatusNotFound, Message: "not found"}
	assert.Equal(t, "not found", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := store.ErrNotFound.WithCause(cause)

	assert.Equal(t, "resource not found: disk I/O error", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestError_IsMatchesCode(t *testing.T) {
	custom := store.ErrAlreadyExists.WithMessage("username taken")
	wrapped := fmt.Errorf("create user: %w", custom)

	assert.ErrorIs(t, wrapped, store.ErrAlreadyExists)
	assert.NotErrorIs(t, wrapped, store.ErrNotFound)
	assert.Equal(t, http.StatusConflict, custom.HTTPCode())
}
