package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// LiveClient ходит в реальный платёжный шлюз по HTTP.
// Исход checkout приходит webhook-ом и доводится через Resolver.
type LiveClient struct {
	Client          *http.Client
	GatewayAddress  string
	Environment     string // sandbox | production
	ReturnURL       string
	CheckoutTimeout time.Duration

	book *sessionBook
}

func NewLiveClient(address, environment, returnURL string, apiTimeout, checkoutTimeout time.Duration) *LiveClient {
	return &LiveClient{
		Client:          &http.Client{Timeout: apiTimeout},
		GatewayAddress:  address,
		Environment:     environment,
		ReturnURL:       returnURL,
		CheckoutTimeout: checkoutTimeout,
		book:            newSessionBook(),
	}
}

type createSessionRequest struct {
	OrderID       string  `json:"order_id"`
	Amount        float64 `json:"amount"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	CustomerPhone string  `json:"customer_phone"`
	ReturnURL     string  `json:"return_url"`
	Environment   string  `json:"environment"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

func (c *LiveClient) CreateSession(ctx context.Context, orderID string, amount float64, customer Customer) (*Session, error) {
	body, err := json.Marshal(createSessionRequest{
		OrderID:       orderID,
		Amount:        amount,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		ReturnURL:     c.ReturnURL,
		Environment:   c.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal session request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/sessions", c.GatewayAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSessionCreate, resp.StatusCode)
	}

	var sr createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrSessionCreate, err)
	}
	if sr.SessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", ErrSessionCreate)
	}
	return &Session{ID: sr.SessionID, OrderID: orderID, Amount: amount}, nil
}

// StartCheckout регистрирует callbacks до прихода webhook-а.
// Сессия без исхода в течение CheckoutTimeout развязывается сторожевым
// таймером с кодом таймаута; заказ при этом остаётся pending.
func (c *LiveClient) StartCheckout(ctx context.Context, sessionID, orderID string, onSuccess func(SuccessResult), onFailure func(FailureResult)) error {
	c.book.add(sessionID, orderID, onSuccess, onFailure, c.CheckoutTimeout, CodeSimulationTimeout)
	return nil
}

func (c *LiveClient) ResolveSuccess(sessionID, paymentID string) error {
	return c.book.resolveSuccess(sessionID, paymentID)
}

func (c *LiveClient) ResolveFailure(sessionID, code, message string) error {
	return c.book.resolveFailure(sessionID, code, message)
}
