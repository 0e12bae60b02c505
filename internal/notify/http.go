package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPNotifier шлёт уведомление во внешний почтовый сервис.
// Любая ошибка транспорта превращается в Result, не в error.
type HTTPNotifier struct {
	Client          *http.Client
	NotifierAddress string
}

type sendRequest struct {
	To      string  `json:"to"`
	Payload Payload `json:"payload"`
}

type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (n *HTTPNotifier) Send(ctx context.Context, kind Kind, toEmail string, p Payload) Result {
	body, err := json.Marshal(sendRequest{To: toEmail, Payload: p})
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("marshal payload: %v", err)}
	}

	url := fmt.Sprintf("%s/api/notify/%s", n.NotifierAddress, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("do request: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Success: false, Message: fmt.Sprintf("unexpected status: %d", resp.StatusCode)}
	}

	var sr sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("decode body: %v", err)}
	}
	return Result{Success: sr.Success, Message: sr.Message}
}
