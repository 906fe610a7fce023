// Package gateway abstracts the external payment processor. The
// reconciliation engine only ever talks to this interface; the REST client
// and the in-memory fake both implement it.
package gateway

import "context"

// HoldRequest reserves funds without capturing them.
type HoldRequest struct {
	Amount         float64
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

// ChargeRequest captures funds immediately against a stored payment method.
type ChargeRequest struct {
	Amount           float64
	Currency         string
	PaymentMethodRef string
	IdempotencyKey   string
	Metadata         map[string]string
}

// PaymentGateway is the minimum processor surface the reconciler needs.
// Every mutating call carries an idempotency key so a retried reconciliation
// after a partial failure cannot double-charge or double-refund.
type PaymentGateway interface {
	// CreateHold reserves Amount and returns the gateway intent id.
	CreateHold(ctx context.Context, req HoldRequest) (string, error)

	// UpdateHoldAmount re-sizes an open hold. Gateways may reject
	// increases; callers fall back to a fresh hold.
	UpdateHoldAmount(ctx context.Context, intentID string, amount float64, idempotencyKey string) error

	// CaptureHold settles an open hold. A nil amount captures the full
	// hold; a partial capture releases the remainder implicitly.
	CaptureHold(ctx context.Context, intentID string, amount *float64, idempotencyKey string) (string, error)

	// CancelHold releases an open hold in full.
	CancelHold(ctx context.Context, intentID string, idempotencyKey string) error

	// CreateCharge captures funds immediately and returns the intent id.
	CreateCharge(ctx context.Context, req ChargeRequest) (string, error)

	// Refund returns funds from a captured intent. A nil amount refunds in
	// full. Returns the gateway refund id.
	Refund(ctx context.Context, intentID string, amount *float64, idempotencyKey string) (string, error)
}
