package apis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gists/abc123", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Write([]byte(`{"files":{
			"README.md":{"filename":"README.md","content":"hello"},
			"config.yaml":{"filename":"config.yaml","content":"debug: true\n"}
		}}`))
	}))
	defer server.Close()

	content, err := NewGistClient(server.URL, "secret").FetchConfig(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "debug: true\n", content)
}

func TestFetchConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, body: `{}`, wantErr: ErrUnexpectedStatus},
		{name: "no files", status: http.StatusOK, body: `{"files":{}}`, wantErr: ErrNoGistFiles},
		{
			name:    "no config.yaml",
			status:  http.StatusOK,
			body:    `{"files":{"a.yaml":{"filename":"a.yaml","content":"x"}}}`,
			wantErr: ErrConfigFileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewGistClient(server.URL, "").FetchConfig(context.Background(), "abc123")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
