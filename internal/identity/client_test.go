package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DisableEnable(t *testing.T) {
	var gotDisabled []bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/accounts/uid-123", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req UpdateAccountRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotDisabled = append(gotDisabled, req.Disabled)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")

	require.NoError(t, client.Disable(context.Background(), "uid-123"))
	require.NoError(t, client.Enable(context.Background(), "uid-123"))
	assert.Equal(t, []bool{true, false}, gotDisabled)
}

func TestClient_Disable_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")

	err := client.Disable(context.Background(), "missing")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestClient_GetAndDelete(t *testing.T) {
	deleted := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/uid-123", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(Account{Ref: "uid-123", Disabled: true})
		case http.MethodDelete:
			deleted = true
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")

	acc, err := client.Get(context.Background(), "uid-123")
	require.NoError(t, err)
	assert.True(t, acc.Disabled)

	require.NoError(t, client.Delete(context.Background(), "uid-123"))
	assert.True(t, deleted)
}

func TestClient_GetByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "client@example.com", r.URL.Query().Get("email"))
		_ = json.NewEncoder(w).Encode(Account{Ref: "uid-123", Email: "client@example.com"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")

	acc, err := client.GetByEmail(context.Background(), "client@example.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", acc.Ref)
	assert.False(t, acc.Disabled)
}
