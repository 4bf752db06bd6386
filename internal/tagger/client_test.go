package tagger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/courtdocs/internal/common"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		URL:        url,
		Model:      "ukrainian-iu-ud-2.10-220711",
		Timeout:    time.Second,
		MaxRetries: 2,
	}, nil)
}

func TestClient_Process(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "ukrainian-iu-ud-2.10-220711", r.FormValue("model"))
		for _, field := range []string{"tokenizer", "tagger", "parser"} {
			_, ok := r.MultipartForm.Value[field]
			assert.True(t, ok, field)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"model":  "ukrainian-iu-ud-2.10-220711",
			"result": sampleBody(),
		})
	}))
	defer server.Close()

	tg := New(newTestClient(server.URL), nil)
	sentences, err := tg.Tag(context.Background(), "ОСОБА_1 звернувся до суду. Суд вирішив.")
	require.NoError(t, err)
	assert.Len(t, sentences, 2)
}

func TestClient_ServerErrorIsServiceError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Process(context.Background(), "текст")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrService)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_MissingResultIsFormatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"x"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Process(context.Background(), "текст")
	assert.ErrorIs(t, err, common.ErrFormat)
}

func TestClient_DeadlineIsServiceUnavailable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(Config{URL: server.URL, Model: "m", Timeout: 20 * time.Millisecond, MaxRetries: 1}, nil)
	_, err := c.Process(context.Background(), "текст")
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
}
