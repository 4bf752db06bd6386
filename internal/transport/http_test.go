package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(tries uint) RetryPolicy {
	return RetryPolicy{MaxTries: tries, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestSendJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Хто суддя?", body["question"])
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	raw, status, err := SendJSON(context.Background(), server.Client(), server.URL, map[string]string{"question": "Хто суддя?"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestSendMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "ukrainian", r.FormValue("model"))
		assert.Equal(t, "", r.FormValue("tagger"))
		f, hdr, err := r.FormFile("data")
		require.NoError(t, err)
		defer f.Close()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "doc.txt", hdr.Filename)
		assert.Equal(t, "Текст", string(content))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, _, err := SendMultipart(context.Background(), server.Client(), server.URL,
		map[string]string{"model": "ukrainian", "tagger": ""},
		FilePart{Field: "data", Filename: "doc.txt", Content: []byte("Текст")}, nil)
	require.NoError(t, err)
}

func TestSend_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad"))
	}))
	defer server.Close()

	raw, status, err := SendJSON(context.Background(), server.Client(), server.URL, struct{}{}, nil, nil)
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Permanent())
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "bad", string(raw))
}

func TestRetry_RecoversFromTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("done"))
	}))
	defer server.Close()

	out, err := Retry(context.Background(), fastPolicy(5), "test", nil, func(ctx context.Context) (string, error) {
		raw, _, err := SendJSON(ctx, server.Client(), server.URL, struct{}{}, nil, nil)
		return string(raw), err
	})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetry_StopsOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := Retry(context.Background(), fastPolicy(5), "test", nil, func(ctx context.Context) ([]byte, error) {
		raw, _, err := SendJSON(ctx, server.Client(), server.URL, struct{}{}, nil, nil)
		return raw, err
	})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetry_AttemptTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	policy := fastPolicy(2)
	policy.AttemptTimeout = 20 * time.Millisecond
	_, err := Retry(context.Background(), policy, "test", nil, func(ctx context.Context) ([]byte, error) {
		raw, _, err := SendJSON(ctx, server.Client(), server.URL, struct{}{}, nil, nil)
		return raw, err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
