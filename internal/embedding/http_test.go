package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPEmbedder_Embed(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[0.1, 0.2], [0.3, 0.4]]`))
	}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL, Model: "all-MiniLM-L6-v2", Token: "secret"}, nil)
	require.NoError(t, err)

	out, err := e.Embed(context.Background(), []string{"job", "candidate"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.InDelta(t, 0.3, out[1][0], 1e-6)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, []any{"job", "candidate"}, gotBody["inputs"])
	assert.Equal(t, "all-MiniLM-L6-v2", gotBody["model"])
	assert.Equal(t, "all-MiniLM-L6-v2", e.Model())
}

func TestHTTPEmbedder_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL}, nil)
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), []string{"x"})
	require.Error(t, err)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.StatusCode)
	assert.Equal(t, ProviderHTTP, svcErr.Provider)
}

func TestHTTPEmbedder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[0.1, 0.2]]`))
	}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL}, nil)
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 embeddings")
}

func TestHTTPEmbedder_EmptyInputSkipsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	}))
	defer srv.Close()

	e, err := NewHTTPEmbedder(HTTPConfig{Endpoint: srv.URL}, nil)
	require.NoError(t, err)

	out, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, srv.URL, e.Model())
}

func TestNewHTTPEmbedder_RequiresEndpoint(t *testing.T) {
	_, err := NewHTTPEmbedder(HTTPConfig{}, nil)
	assert.Error(t, err)
}

func TestParseVectors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    [][]float32
		wantErr bool
	}{
		{name: "bare array", body: `[[1, 2], [3, 4]]`, want: [][]float32{{1, 2}, {3, 4}}},
		{name: "embeddings field", body: `{"embeddings": [[1, 2]]}`, want: [][]float32{{1, 2}}},
		{name: "openai style", body: `{"data": [{"embedding": [5, 6]}, {"embedding": [7, 8]}]}`, want: [][]float32{{5, 6}, {7, 8}}},
		{name: "invalid json", body: `{nope`, wantErr: true},
		{name: "no embeddings", body: `{"result": 1}`, wantErr: true},
		{name: "non-numeric", body: `[["a"]]`, wantErr: true},
		{name: "not nested", body: `[1, 2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVectors([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
