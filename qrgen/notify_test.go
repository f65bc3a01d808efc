package qrgen

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierSendsPayload(t *testing.T) {
	var calls atomic.Int64
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, testLogger())
	payload := &Notification{
		ID:         "rec-1",
		Target:     "https://example.com",
		OutputPath: "/tmp/qr.png",
		Bytes:      1234,
		Level:      "low",
		CreatedAt:  1700000000,
	}

	require.NoError(t, n.Send(payload))
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, "rec-1", got.ID)
	assert.Equal(t, "https://example.com", got.Target)

	// Duplicate record IDs are dropped.
	require.NoError(t, n.Send(payload))
	assert.Equal(t, int64(1), calls.Load())
}

func TestNotifierNoURLIsNoop(t *testing.T) {
	n := NewNotifier("", testLogger())
	assert.NoError(t, n.Send(&Notification{ID: "rec-1"}))
}

func TestNotifierNon2xxIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL, testLogger())
	assert.NoError(t, n.Send(&Notification{ID: "rec-1"}))
}

func TestNotifierUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := NewNotifier(srv.URL, testLogger())
	assert.Error(t, n.Send(&Notification{ID: "rec-1"}))
}
