package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RESTGateway talks to the payment processor's HTTP API. Requests carry a
// bounded timeout via the shared http.Client; retries are the caller's
// decision and are safe because every call is idempotency-keyed.
type RESTGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRESTGateway(baseURL, apiKey string) *RESTGateway {
	return &RESTGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *RESTGateway) CreateHold(ctx context.Context, req HoldRequest) (string, error) {
	body := map[string]any{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"capture":         false,
		"idempotency_key": req.IdempotencyKey,
		"metadata":        req.Metadata,
	}
	resp, err := g.post(ctx, "/v1/intents", body)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (g *RESTGateway) UpdateHoldAmount(ctx context.Context, intentID string, amount float64, idempotencyKey string) error {
	body := map[string]any{
		"amount":          amount,
		"idempotency_key": idempotencyKey,
	}
	_, err := g.post(ctx, fmt.Sprintf("/v1/intents/%s", intentID), body)
	return err
}

func (g *RESTGateway) CaptureHold(ctx context.Context, intentID string, amount *float64, idempotencyKey string) (string, error) {
	body := map[string]any{
		"idempotency_key": idempotencyKey,
	}
	if amount != nil {
		body["amount_to_capture"] = *amount
	}
	resp, err := g.post(ctx, fmt.Sprintf("/v1/intents/%s/capture", intentID), body)
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (g *RESTGateway) CancelHold(ctx context.Context, intentID string, idempotencyKey string) error {
	body := map[string]any{
		"idempotency_key": idempotencyKey,
	}
	_, err := g.post(ctx, fmt.Sprintf("/v1/intents/%s/cancel", intentID), body)
	return err
}

func (g *RESTGateway) CreateCharge(ctx context.Context, req ChargeRequest) (string, error) {
	body := map[string]any{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"capture":         true,
		"payment_method":  req.PaymentMethodRef,
		"idempotency_key": req.IdempotencyKey,
		"metadata":        req.Metadata,
	}
	resp, err := g.post(ctx, "/v1/intents", body)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (g *RESTGateway) Refund(ctx context.Context, intentID string, amount *float64, idempotencyKey string) (string, error) {
	body := map[string]any{
		"intent_id":       intentID,
		"idempotency_key": idempotencyKey,
	}
	if amount != nil {
		body["amount"] = *amount
	}
	resp, err := g.post(ctx, "/v1/refunds", body)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

type intentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (g *RESTGateway) post(ctx context.Context, path string, body map[string]any) (*intentResponse, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gateway: marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("gateway: request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway: http: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("gateway: api status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed intentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("gateway: decode: %w", err)
	}
	return &parsed, nil
}
