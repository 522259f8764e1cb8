package otp

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

func TestWebhookSenderSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSender("gw", srv.URL, "secret", "Your code is %s", time.Second)

	require.NoError(t, s.Send(context.Background(), "+15551234567", "123456"))
	assert.Equal(t, "+15551234567", got["to"])
	assert.Equal(t, "Your code is 123456", got["message"])
}

func TestWebhookSenderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewWebhookSender("gw", srv.URL, "", "code %s", time.Second)
	assert.Error(t, s.Send(context.Background(), "+15551234567", "123456"))
}
