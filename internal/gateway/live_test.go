package gateway

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

func TestLiveCreateSession(t *testing.T) {
	var got createSessionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/sessions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(createSessionResponse{SessionID: "sess_live_1"})
	}))
	defer srv.Close()

	c := NewLiveClient(srv.URL, "sandbox", "https://shop.example/return", 5*time.Second, time.Minute)
	sess, err := c.CreateSession(context.Background(), "o1", 499.5,
		Customer{Name: "Asha", Email: "a@x.com", Phone: "9876543210"})
	require.NoError(t, err)

	assert.Equal(t, "sess_live_1", sess.ID)
	assert.Equal(t, "o1", got.OrderID)
	assert.Equal(t, 499.5, got.Amount)
	assert.Equal(t, "sandbox", got.Environment)
	assert.Equal(t, "https://shop.example/return", got.ReturnURL)
}

func TestLiveCreateSessionBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewLiveClient(srv.URL, "sandbox", "", 5*time.Second, time.Minute)
	_, err := c.CreateSession(context.Background(), "o1", 100, Customer{})
	assert.ErrorIs(t, err, ErrSessionCreate)
}

func TestLiveCreateSessionUnreachable(t *testing.T) {
	c := NewLiveClient("http://127.0.0.1:1", "sandbox", "", 100*time.Millisecond, time.Minute)
	_, err := c.CreateSession(context.Background(), "o1", 100, Customer{})
	assert.ErrorIs(t, err, ErrSessionCreate)
}

func TestLiveWebhookResolution(t *testing.T) {
	c := NewLiveClient("http://gateway.invalid", "sandbox", "", time.Second, time.Minute)
	rec := &outcomeRecorder{}

	require.NoError(t, c.StartCheckout(context.Background(), "sess_1", "o1", rec.onSuccess, rec.onFailure))
	require.NoError(t, c.ResolveSuccess("sess_1", "pay_live_1"))

	successes, _ := rec.snapshot()
	require.Len(t, successes, 1)
	assert.Equal(t, "pay_live_1", successes[0].PaymentID)

	// повтор webhook-а по той же сессии
	assert.ErrorIs(t, c.ResolveSuccess("sess_1", "pay_live_1"), ErrUnknownSession)
}
