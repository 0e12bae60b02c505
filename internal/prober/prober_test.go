package prober

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedAlwaysOperational(t *testing.T) {
	p := &Prober{Simulated: true}

	conn := p.CheckConnectivity(context.Background())
	assert.True(t, conn.Online)

	gs := p.CheckGatewayStatus(context.Background())
	assert.Equal(t, StatusOperational, gs.Status)
	assert.True(t, gs.IsSimulated)
}

func TestCheckConnectivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := &Prober{Client: srv.Client(), ProbeURL: srv.URL}
	assert.True(t, p.CheckConnectivity(context.Background()).Online)

	p = &Prober{Client: &http.Client{Timeout: 100 * time.Millisecond}, ProbeURL: "http://127.0.0.1:1"}
	assert.False(t, p.CheckConnectivity(context.Background()).Online)
}

func TestCheckGatewayStatus(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/status", r.URL.Path)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	p := &Prober{Client: srv.Client(), GatewayAddress: srv.URL}

	gs := p.CheckGatewayStatus(context.Background())
	assert.Equal(t, StatusOperational, gs.Status)
	assert.False(t, gs.IsSimulated)

	status = http.StatusServiceUnavailable
	gs = p.CheckGatewayStatus(context.Background())
	assert.Equal(t, StatusDegraded, gs.Status)

	p.GatewayAddress = "http://127.0.0.1:1"
	p.Client = &http.Client{Timeout: 100 * time.Millisecond}
	gs = p.CheckGatewayStatus(context.Background())
	assert.Equal(t, StatusError, gs.Status)
}
