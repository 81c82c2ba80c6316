package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_MapsMessageToQuestion(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"hi","model":"m1"}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, 5*time.Second)
	temp := 0.7
	raw, err := c.Chat(context.Background(), ChatRequest{
		Message:     "Hello",
		SessionID:   "s1",
		UserID:      "u1",
		Temperature: &temp,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/chat", gotPath)
	assert.Equal(t, "Hello", gotBody["question"])
	assert.Equal(t, 0.7, gotBody["temperature"])
	_, hasMax := gotBody["max_tokens"]
	assert.False(t, hasMax)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "hi", decoded["answer"])
}

func TestChat_UpstreamErrorRelayed(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"Failed to process request. Please try again later."}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, 5*time.Second)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "Hello"})
	require.Error(t, err)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	assert.Equal(t, "Failed to process request. Please try again later.", ue.Message)
}

func TestChat_TransportFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // refuse connections

	c := NewClient(upstream.URL, time.Second)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "Hello"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStatusAndTools_Paths(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"status":"healthy","version":"1.0.0"}`))
		case "/api/tools":
			_, _ = w.Write([]byte(`{"tools":[],"count":0}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, 5*time.Second)

	raw, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"healthy","version":"1.0.0"}`, string(raw))

	raw, err = c.Tools(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"tools":[],"count":0}`, string(raw))
}

func TestUpstreamMessage_Fallback(t *testing.T) {
	assert.Equal(t, "agent returned status 500", upstreamMessage([]byte("not json"), 500))
	assert.Equal(t, "boom", upstreamMessage([]byte(`{"error":"boom"}`), 500))
	assert.Equal(t, "why", upstreamMessage([]byte(`{"error":"boom","details":"why"}`), 400))
}
