package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Notify(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier("widget-token")

	err := n.Notify(context.Background(), srv.URL, "client-1", "Test Client", true)
	require.NoError(t, err)
	assert.Equal(t, "client-1", got.ClientID)
	assert.Equal(t, "Test Client", got.ClientName)
	assert.True(t, got.Disabled)
	assert.Equal(t, "widget-token", got.AuthToken)
	assert.NotEmpty(t, got.Timestamp)
}

func TestNotifier_Notify_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewNotifier("widget-token")

	err := n.Notify(context.Background(), srv.URL, "client-1", "Test Client", false)
	require.Error(t, err)
}
