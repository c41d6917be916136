package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"backend/internal/domain"
)

// Client talks to the payment provider's HTTP API. All methods share it so
// timeout and idempotency handling live in one place.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// post sends a JSON body and decodes the JSON answer. idemKey, when present,
// is forwarded as Idempotency-Key so provider-side retries dedupe.
func (c *Client) post(ctx context.Context, path, idemKey string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.InternalError{Msg: "payment payload marshal", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return domain.InternalError{Msg: "payment request build", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.ProviderError{Provider: "payment", Msg: "falha ao contatar o provedor", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.ProviderError{Provider: "payment", Msg: "resposta ilegível", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var perr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &perr)
		msg := perr.Error
		if msg == "" {
			msg = perr.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("provider status %d", resp.StatusCode)
		}
		return domain.ProviderError{Provider: "payment", Msg: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.ProviderError{Provider: "payment", Msg: "resposta inesperada", Err: err}
	}
	return nil
}
