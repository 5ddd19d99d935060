package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON(t *testing.T) {
	t.Run("decodes a successful answer and sends headers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			json.NewEncoder(w).Encode(map[string]string{"echo": in["q"]})
		}))
		defer srv.Close()

		var out map[string]string
		err := NewClient(time.Second).PostJSON(context.Background(), srv.URL,
			map[string]string{"Authorization": "Bearer k"}, map[string]string{"q": "hi"}, &out)

		require.NoError(t, err)
		assert.Equal(t, "hi", out["echo"])
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		var out struct{ OK bool }
		client := NewClient(time.Second).WithRetries(2, time.Millisecond)
		require.NoError(t, client.PostJSON(context.Background(), srv.URL, nil, struct{}{}, &out))
		assert.True(t, out.OK)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(time.Second).WithRetries(1, time.Millisecond)
		err := client.PostJSON(context.Background(), srv.URL, nil, struct{}{}, nil)

		assert.True(t, errors.Is(err, ErrStatus))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("stops on context deadline", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := NewClient(time.Second).WithRetries(3, time.Millisecond).PostJSON(ctx, srv.URL, nil, struct{}{}, nil)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestClient_PostJSON_RetryPolicy(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{"unauthorized is not retried", http.StatusUnauthorized, 1},
		{"bad request is not retried", http.StatusBadRequest, 1},
		{"not found is not retried", http.StatusNotFound, 1},
		{"too many requests is retried", http.StatusTooManyRequests, 3},
		{"request timeout is retried", http.StatusRequestTimeout, 3},
		{"service unavailable is retried", http.StatusServiceUnavailable, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewClient(time.Second).WithRetries(2, time.Millisecond)
			err := client.PostJSON(context.Background(), srv.URL, nil, struct{}{}, nil)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStatus))
			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.Code)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}
