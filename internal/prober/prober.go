package prober

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	StatusOperational = "operational"
	StatusDegraded    = "degraded"
	StatusError       = "error"
)

type Connectivity struct {
	Online bool `json:"online"`
}

type GatewayStatus struct {
	Status      string `json:"status"`
	IsSimulated bool   `json:"is_simulated"`
}

// Prober — преддверная проверка перед платёжным флоу: сеть и статус шлюза.
// Это боковой канал, не часть платёжного пути. В режиме симуляции всегда
// отвечает operational, чтобы демо не блокировалось.
type Prober struct {
	Client         *http.Client
	ProbeURL       string
	GatewayAddress string
	Simulated      bool
}

func (p *Prober) CheckConnectivity(ctx context.Context) Connectivity {
	if p.Simulated {
		return Connectivity{Online: true}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.ProbeURL, nil)
	if err != nil {
		return Connectivity{Online: false}
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return Connectivity{Online: false}
	}
	resp.Body.Close()
	return Connectivity{Online: true}
}

func (p *Prober) CheckGatewayStatus(ctx context.Context) GatewayStatus {
	if p.Simulated {
		return GatewayStatus{Status: StatusOperational, IsSimulated: true}
	}
	url := fmt.Sprintf("%s/v1/status", p.GatewayAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return GatewayStatus{Status: StatusError}
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return GatewayStatus{Status: StatusError}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GatewayStatus{Status: StatusDegraded}
	}
	return GatewayStatus{Status: StatusOperational}
}

type Handler struct {
	prober *Prober
}

func NewHandler(p *Prober) *Handler {
	return &Handler{prober: p}
}

func (h *Handler) Connectivity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.prober.CheckConnectivity(r.Context()))
}

func (h *Handler) Gateway(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.prober.CheckGatewayStatus(r.Context()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
