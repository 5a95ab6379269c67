package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppSender_Send(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewWhatsAppSender(srv.URL, "+962790000000", "123456")

	err := sender.Send(context.Background(), "Новое бронирование на 2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "+962790000000", gotQuery["phone"][0])
	assert.Equal(t, "123456", gotQuery["apikey"][0])
	assert.Equal(t, "Новое бронирование на 2024-06-01", gotQuery["text"][0])
}

func TestWhatsAppSender_Send_RelayDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sender := NewWhatsAppSender(srv.URL, "+962790000000", "123456")

	err := sender.Send(context.Background(), "test")
	require.Error(t, err)
}
