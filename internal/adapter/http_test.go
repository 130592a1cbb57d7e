package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryPolicy{
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
	MaxElapsedTime:  time.Second,
}

func TestRealHTTPClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Bulbasaur"}`))
	}))
	defer server.Close()

	client := NewHTTPClientWithRetry(time.Second, fastRetry)

	var result struct {
		Name string `json:"name"`
	}
	err := client.Get(context.Background(), server.URL, map[string]string{"X-Api-Key": "key"}, &result)
	require.NoError(t, err)
	assert.Equal(t, "Bulbasaur", result.Name)
}

func TestRealHTTPClient_GetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewHTTPClientWithRetry(time.Second, fastRetry)

	var result struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.Get(context.Background(), server.URL, nil, &result))
	assert.True(t, result.OK)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRealHTTPClient_GetPermanentError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClientWithRetry(time.Second, fastRetry)

	var result map[string]interface{}
	err := client.Get(context.Background(), server.URL, nil, &result)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRealHTTPClient_GetInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewHTTPClientWithRetry(time.Second, fastRetry)

	var result map[string]interface{}
	err := client.Get(context.Background(), server.URL, nil, &result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}
