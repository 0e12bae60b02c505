package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/antonminaichev/storefront-orders/internal/gateway"
	"github.com/antonminaichev/storefront-orders/internal/middleware"
	"github.com/antonminaichev/storefront-orders/internal/storage"
	"github.com/antonminaichev/storefront-orders/internal/types/order"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc      *Service
	resolver gateway.Resolver
	sim      *gateway.SimulatedClient // nil вне режима симуляции
}

func NewHandler(svc *Service, resolver gateway.Resolver, sim *gateway.SimulatedClient) *Handler {
	return &Handler{svc: svc, resolver: resolver, sim: sim}
}

type checkoutRequest struct {
	Items         []order.LineItem    `json:"items"`
	Shipping      order.Address       `json:"shipping"`
	PaymentMethod order.PaymentMethod `json:"payment_method"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ownerID := middleware.OwnerIDFromContext(r.Context())
	email := middleware.EmailFromContext(r.Context())

	o, err := h.svc.SubmitOrder(r.Context(), ownerID, email, req.Items, req.Shipping, req.PaymentMethod)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerIDFromContext(r.Context())
	orders, err := h.svc.ListOrders(r.Context(), ownerID)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerIDFromContext(r.Context())
	o, err := h.svc.GetOrder(r.Context(), chi.URLParam(r, "id"), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) PayCashOnDelivery(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.PayWithCashOnDelivery(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type paymentSessionRequest struct {
	Amount float64          `json:"amount"`
	Payer  gateway.Customer `json:"payer"`
}

func (h *Handler) CreatePaymentSession(w http.ResponseWriter, r *http.Request) {
	var req paymentSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess, err := h.svc.InitiateGatewayPayment(r.Context(), chi.URLParam(r, "id"), req.Amount, req.Payer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	o, err := h.svc.CancelOrder(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status         order.OrderStatus `json:"status"`
	TrackingNumber string            `json:"tracking_number"`
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	o, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.TrackingNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type gatewaySuccessRequest struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

// GatewaySuccess — webhook шлюза об успешной оплате.
func (h *Handler) GatewaySuccess(w http.ResponseWriter, r *http.Request) {
	var req gatewaySuccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := h.resolver.ResolveSuccess(req.SessionID, req.PaymentID)
	if errors.Is(err, gateway.ErrUnknownSession) {
		// сессия не зарегистрирована (рестарт процесса или повтор webhook-а) —
		// применяем исход напрямую, идемпотентность на стороне оркестратора
		err = h.svc.OnGatewaySuccess(r.Context(), req.OrderID, req.PaymentID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type gatewayFailureRequest struct {
	SessionID    string `json:"session_id"`
	OrderID      string `json:"order_id"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// GatewayFailure — webhook шлюза о неуспешном исходе checkout.
func (h *Handler) GatewayFailure(w http.ResponseWriter, r *http.Request) {
	var req gatewayFailureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	err := h.resolver.ResolveFailure(req.SessionID, req.ErrorCode, req.ErrorMessage)
	if errors.Is(err, gateway.ErrUnknownSession) {
		err = h.svc.OnGatewayFailure(r.Context(), req.OrderID, req.ErrorCode, req.ErrorMessage)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type simulateRequest struct {
	Outcome gateway.Outcome `json:"outcome"`
}

// SimulateOutcome доводит симулированную сессию до выбранного исхода:
// success | failure | cancelled. Только в режиме симуляции.
func (h *Handler) SimulateOutcome(w http.ResponseWriter, r *http.Request) {
	if h.sim == nil {
		http.Error(w, "simulation mode disabled", http.StatusNotFound)
		return
	}
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := h.sim.Resolve(chi.URLParam(r, "session"), req.Outcome); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case IsValidation(err):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrGateway):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
