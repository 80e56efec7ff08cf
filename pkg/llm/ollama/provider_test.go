package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travel-concierge-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SendsPromptAndReturnsContent(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   got.Model,
			Message: ollamaMessage{Role: "assistant", Content: `{"location":"Miami"}`},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "phi3:mini", time.Second)
	out, err := p.Generate(context.Background(), "plan my trip", llm.WithJSONOutput())

	require.NoError(t, err)
	assert.Equal(t, `{"location":"Miami"}`, out)
	assert.Equal(t, "phi3:mini", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "plan my trip", got.Messages[0].Content)
}

func TestGenerate_TransportFailuresAreUnavailable(t *testing.T) {
	t.Run("non 2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewOllamaProvider(srv.URL, "phi3:mini", time.Second).Generate(context.Background(), "hi")
		require.Error(t, err)
		assert.True(t, errors.Is(err, llm.ErrUnavailable))
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		_, err := NewOllamaProvider(srv.URL, "phi3:mini", 20*time.Millisecond).Generate(context.Background(), "hi")
		require.Error(t, err)
		assert.True(t, errors.Is(err, llm.ErrUnavailable))
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewOllamaProvider(url, "phi3:mini", time.Second).Generate(context.Background(), "hi")
		require.Error(t, err)
		assert.True(t, errors.Is(err, llm.ErrUnavailable))
	})
}
