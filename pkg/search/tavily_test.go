package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tavilyServer(t *testing.T, status int, hits int) (*httptest.Server, *tavilyRequest) {
	t.Helper()
	var got tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string][]map[string]string{"results": {}}
		for i := 0; i < hits; i++ {
			resp["results"] = append(resp["results"], map[string]string{
				"title":   "Hit " + string(rune('A'+i)),
				"url":     "https://example.com/" + string(rune('a'+i)),
				"content": "snippet",
			})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestTavilyClient_Search(t *testing.T) {
	srv, got := tavilyServer(t, http.StatusOK, 4)
	c := NewTavilyClient("key", srv.URL, time.Second, 0)

	results, err := c.Search(context.Background(), "museums in Lisbon", 3)
	require.NoError(t, err)

	assert.Equal(t, "key", got.APIKey)
	assert.Equal(t, "museums in Lisbon", got.Query)
	assert.Equal(t, 3, got.MaxResults)
	require.Len(t, results, 3)
	assert.Equal(t, Result{Title: "Hit A", URL: "https://example.com/a", Snippet: "snippet"}, results[0])
}

func TestTavilyClient_NoKeyIsEmpty(t *testing.T) {
	c := NewTavilyClient("", "http://127.0.0.1:1", time.Second, 0)
	results, err := c.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTavilyClient_Non2xxIsError(t *testing.T) {
	srv, _ := tavilyServer(t, http.StatusUnauthorized, 0)
	c := NewTavilyClient("bad", srv.URL, time.Second, 5)

	_, err := c.Search(context.Background(), "anything", 5)
	assert.ErrorContains(t, err, "status 401")
}

type countingProvider struct {
	calls int32
}

func (p *countingProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	atomic.AddInt32(&p.calls, 1)
	return []Result{{Title: query}}, nil
}

func TestCachedProvider_FallsThroughWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	next := &countingProvider{}
	c := NewCachedProvider(next, rdb, time.Minute)

	for i := 0; i < 2; i++ {
		results, err := c.Search(context.Background(), "Paris", 3)
		require.NoError(t, err)
		assert.Equal(t, []Result{{Title: "Paris"}}, results)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&next.calls))
}

func TestCacheKey_IgnoresCaseAndSpacing(t *testing.T) {
	assert.Equal(t, cacheKey("Paris ", 3), cacheKey("paris", 3))
	assert.NotEqual(t, cacheKey("paris", 3), cacheKey("paris", 4))
}
