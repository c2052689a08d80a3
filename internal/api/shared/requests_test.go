package shared

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeJSON(t *testing.T) {
	type taskPayload struct {
		Title    string `json:"title"`
		Priority string `json:"priority"`
	}

	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid json",
			requestBody: `{"title": "Ship release notes", "priority": "high"}`,
			wantErr:     false,
		},
		{
			name:        "malformed json",
			requestBody: `{"title": "Ship release notes",}`,
			wantErr:     true,
			errContains: "invalid character",
		},
		{
			name:        "empty body",
			requestBody: "",
			wantErr:     true,
			errContains: "EOF",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(
				http.MethodPost,
				"/api/tasks",
				bytes.NewBufferString(tc.requestBody),
			)

			var payload taskPayload
			err := DecodeJSON(req, &payload)

			if tc.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "Ship release notes", payload.Title)
				assert.Equal(t, "high", payload.Priority)
			}
		})
	}
}

type failingBody struct{}

func (failingBody) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", failingBody{})

	var payload struct{}
	err := DecodeJSON(req, &payload)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

var errEmptyTitle = errors.New("title must not be empty")

// selfValidatingPayload carries its own Validate method, which
// ValidateRequest must prefer over struct tags.
type selfValidatingPayload struct {
	Title string `validate:"omitempty"`
}

func (p *selfValidatingPayload) Validate() error {
	if p.Title == "" {
		return errEmptyTitle
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	type taggedPayload struct {
		Title    string `validate:"required"`
		Priority string `validate:"required,oneof=low medium high"`
	}

	t.Run("type with its own Validate method", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(&selfValidatingPayload{Title: "Ship release notes"}))

		err := ValidateRequest(&selfValidatingPayload{})
		assert.ErrorIs(t, err, errEmptyTitle)
	})

	t.Run("tagged struct falls back to struct tags", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(taggedPayload{Title: "Ship release notes", Priority: "high"}))

		err := ValidateRequest(taggedPayload{Priority: "urgent"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Title")
		assert.Contains(t, err.Error(), "Priority")
	})

	t.Run("untagged struct passes", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(struct{ Note string }{"no tags"}))
	})
}
