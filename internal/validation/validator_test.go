package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesphere/cinesphere-server/internal/errors"
	"github.com/cinesphere/cinesphere-server/internal/validation"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email,omitempty" validate:"max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

type addRequest struct {
	MovieID int64  `json:"movie_id" validate:"gt=0"`
	Title   string `json:"title" validate:"required"`
	Status  string `json:"status,omitempty" validate:"watchstatus"`
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()

	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %T", err)
	assert.Equal(t, errors.CodeValidation, domainErr.Code)

	fields, ok := domainErr.Details.(map[string]string)
	require.True(t, ok, "details should be a field map")
	return fields
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(registerRequest{Username: "ana", Password: "secreto123"}))
	assert.NoError(t, v.Validate(registerRequest{Username: "ana", Email: "a@x.com", Password: "pw1"}))
	assert.NoError(t, v.Validate(registerRequest{Username: "ana_maria", Password: "x"}))
	assert.NoError(t, v.Validate(addRequest{MovieID: 603, Title: "The Matrix"}))
	assert.NoError(t, v.Validate(addRequest{MovieID: 603, Title: "The Matrix", Status: "WATCHED"}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing username",
			req:       registerRequest{Password: "secreto123"},
			wantField: "username",
			wantMsg:   "is required",
		},
		{
			name:      "missing password",
			req:       registerRequest{Username: "ana"},
			wantField: "password",
			wantMsg:   "is required",
		},
		{
			name:      "username too long",
			req:       registerRequest{Username: strings.Repeat("a", 65), Password: "pw1"},
			wantField: "username",
			wantMsg:   "must not exceed 64",
		},
		{
			name:      "movie id zero",
			req:       addRequest{Title: "The Matrix"},
			wantField: "movie_id",
			wantMsg:   "greater than 0",
		},
		{
			name:      "unknown status",
			req:       addRequest{MovieID: 603, Title: "The Matrix", Status: "LATER"},
			wantField: "status",
			wantMsg:   "PENDING WATCHING WATCHED ABANDONED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			fields := details(t, err)
			assert.Contains(t, fields[tt.wantField], tt.wantMsg)
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(addRequest{})
	require.Error(t, err)

	fields := details(t, err)
	assert.Contains(t, fields, "movie_id")
	assert.Contains(t, fields, "title")
	assert.NotContains(t, fields, "MovieID")
}
