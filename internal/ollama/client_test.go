package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListModels(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsModelNames", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/tags", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"models":[{"name":"llama3"},{"name":"mistral"}]}`)
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		names, err := client.ListModels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"llama3", "mistral"}, names)
	})

	t.Run("EmptyRegistry", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"models":[]}`)
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		names, err := client.ListModels(context.Background())
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("ServerError", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "internal failure", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		_, err := client.ListModels(context.Background())
		require.Error(t, err)

		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		url := srv.URL
		srv.Close()

		client := NewClient(WithBaseURL(url))
		_, err := client.ListModels(context.Background())
		require.Error(t, err)

		_, ok := AsAPIError(err)
		assert.False(t, ok)
	})
}

func TestClient_Generate(t *testing.T) {
	t.Parallel()

	t.Run("SendsNonStreamingRequest", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/generate", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "llama3", body["model"])
			assert.Equal(t, "tell me a joke", body["prompt"])
			assert.Equal(t, false, body["stream"])

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"response":"Why did the gopher cross the road?"}`)
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		out, err := client.Generate(context.Background(), "llama3", "tell me a joke")
		require.NoError(t, err)
		assert.Equal(t, "Why did the gopher cross the road?", out)
	})

	t.Run("ServerError", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model exploded", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		_, err := client.Generate(context.Background(), "llama3", "hello")
		require.Error(t, err)

		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), "500")
	})

	t.Run("MissingResponseField", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"done":true}`)
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		out, err := client.Generate(context.Background(), "llama3", "hello")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

type fakeDoer struct {
	requests  []*http.Request
	responses []*http.Response
	err       error
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_WithHTTPClient(t *testing.T) {
	t.Parallel()

	doer := &fakeDoer{
		responses: []*http.Response{
			jsonResponse(http.StatusOK, `{"models":[{"name":"llama3"}]}`),
		},
	}

	client := NewClient(WithBaseURL("http://example.invalid"), WithHTTPClient(doer))
	names, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3"}, names)

	require.Len(t, doer.requests, 1)
	assert.Equal(t, "http://example.invalid/api/tags", doer.requests[0].URL.String())
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	t.Run("WithBody", func(t *testing.T) {
		t.Parallel()
		err := NewAPIError(404, "model not found")
		assert.Equal(t, "ollama: API error: status 404: model not found", err.Error())
	})

	t.Run("WithoutBody", func(t *testing.T) {
		t.Parallel()
		err := NewAPIError(502, "")
		assert.Equal(t, "ollama: API error: status 502", err.Error())
	})

	t.Run("AsAPIErrorRejectsOtherErrors", func(t *testing.T) {
		t.Parallel()
		_, ok := AsAPIError(fmt.Errorf("plain error"))
		assert.False(t, ok)
	})
}
