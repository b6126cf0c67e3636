package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"sms-42"}`))
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL, "tok", "Rendetalje").SendMessage(context.Background(), SendMessageInput{
		PhoneNumber: "22 33 44 55",
		Message:     "Hej Lars",
	})

	require.NoError(t, err)
	assert.Equal(t, "sms-42", id)
	assert.Equal(t, "Rendetalje", got.Sender)
	assert.Equal(t, []string{"+4522334455"}, got.Recipients)
	assert.Equal(t, "Hej Lars", got.Message)
}

func TestSendMessage_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok", "x").SendMessage(context.Background(), SendMessageInput{PhoneNumber: "22334455", Message: "m"})

	assert.Error(t, err)
}

func TestSendMessage_NotConfigured(t *testing.T) {
	_, err := NewClient("", "", "").SendMessage(context.Background(), SendMessageInput{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNormalizeDanishNumber(t *testing.T) {
	assert.Equal(t, "+4522334455", NormalizeDanishNumber("22334455"))
	assert.Equal(t, "+4522334455", NormalizeDanishNumber("+45 22 33 44 55"))
	assert.Equal(t, "+4522334455", NormalizeDanishNumber("0045 22334455"))
	assert.Equal(t, "+46701234567", NormalizeDanishNumber("+46701234567"))
}
