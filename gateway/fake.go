package gateway

import (
	"context"
	"fmt"
	"sync"
)

// Fake is a dev/demo gateway that keeps intents in memory. It is selected
// automatically when no gateway credentials are configured and doubles as
// the test gateway: every call is recorded and repeated idempotency keys
// replay their original result instead of acting twice.
//
// Never enable in production; main only wires it when PAYMENT_GATEWAY_URL
// is unset.
type Fake struct {
	mu      sync.Mutex
	seq     int
	intents map[string]*fakeIntent
	seen    map[string]string

	// Calls records every mutating call in order.
	Calls []Call

	// RejectHoldIncrease makes UpdateHoldAmount fail when the new amount
	// exceeds the current hold, mimicking processors that disallow upward
	// re-authorization.
	RejectHoldIncrease bool

	// FailOp, when set to an operation name ("CreateHold", "Refund", ...),
	// makes that operation return an error.
	FailOp string
}

// Call is one recorded gateway invocation.
type Call struct {
	Op             string
	IntentID       string
	Amount         *float64
	IdempotencyKey string
}

type fakeIntent struct {
	amount   float64
	captured float64
	refunded float64
	status   string // capturable, captured, canceled
}

func NewFake() *Fake {
	return &Fake{
		intents: make(map[string]*fakeIntent),
		seen:    make(map[string]string),
	}
}

func (f *Fake) record(op, intentID string, amount *float64, key string) {
	f.Calls = append(f.Calls, Call{Op: op, IntentID: intentID, Amount: amount, IdempotencyKey: key})
}

func (f *Fake) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s_%06d", prefix, f.seq)
}

func (f *Fake) CreateHold(ctx context.Context, req HoldRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateHold", "", &req.Amount, req.IdempotencyKey)
	if f.FailOp == "CreateHold" {
		return "", fmt.Errorf("gateway: fake CreateHold failure")
	}
	if id, ok := f.seen[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		return id, nil
	}
	id := f.nextID("hold")
	f.intents[id] = &fakeIntent{amount: req.Amount, status: "capturable"}
	if req.IdempotencyKey != "" {
		f.seen[req.IdempotencyKey] = id
	}
	return id, nil
}

func (f *Fake) UpdateHoldAmount(ctx context.Context, intentID string, amount float64, idempotencyKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateHoldAmount", intentID, &amount, idempotencyKey)
	if f.FailOp == "UpdateHoldAmount" {
		return fmt.Errorf("gateway: fake UpdateHoldAmount failure")
	}
	in, ok := f.intents[intentID]
	if !ok || in.status != "capturable" {
		return fmt.Errorf("gateway: intent %s not an open hold", intentID)
	}
	if f.RejectHoldIncrease && amount > in.amount {
		return fmt.Errorf("gateway: hold increase rejected")
	}
	in.amount = amount
	return nil
}

func (f *Fake) CaptureHold(ctx context.Context, intentID string, amount *float64, idempotencyKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CaptureHold", intentID, amount, idempotencyKey)
	if f.FailOp == "CaptureHold" {
		return "", fmt.Errorf("gateway: fake CaptureHold failure")
	}
	in, ok := f.intents[intentID]
	if !ok {
		return "", fmt.Errorf("gateway: unknown intent %s", intentID)
	}
	if in.status == "captured" {
		return in.status, nil
	}
	if in.status != "capturable" {
		return "", fmt.Errorf("gateway: intent %s not capturable", intentID)
	}
	toCapture := in.amount
	if amount != nil {
		if *amount > in.amount {
			return "", fmt.Errorf("gateway: capture exceeds hold")
		}
		toCapture = *amount
	}
	// Partial capture releases the remainder implicitly.
	in.captured = toCapture
	in.status = "captured"
	return in.status, nil
}

func (f *Fake) CancelHold(ctx context.Context, intentID string, idempotencyKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CancelHold", intentID, nil, idempotencyKey)
	if f.FailOp == "CancelHold" {
		return fmt.Errorf("gateway: fake CancelHold failure")
	}
	in, ok := f.intents[intentID]
	if !ok {
		return fmt.Errorf("gateway: unknown intent %s", intentID)
	}
	if in.status == "canceled" {
		return nil
	}
	if in.status != "capturable" {
		return fmt.Errorf("gateway: intent %s not cancelable", intentID)
	}
	in.status = "canceled"
	return nil
}

func (f *Fake) CreateCharge(ctx context.Context, req ChargeRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCharge", "", &req.Amount, req.IdempotencyKey)
	if f.FailOp == "CreateCharge" {
		return "", fmt.Errorf("gateway: fake CreateCharge failure")
	}
	if id, ok := f.seen[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		return id, nil
	}
	id := f.nextID("charge")
	f.intents[id] = &fakeIntent{amount: req.Amount, captured: req.Amount, status: "captured"}
	if req.IdempotencyKey != "" {
		f.seen[req.IdempotencyKey] = id
	}
	return id, nil
}

func (f *Fake) Refund(ctx context.Context, intentID string, amount *float64, idempotencyKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Refund", intentID, amount, idempotencyKey)
	if f.FailOp == "Refund" {
		return "", fmt.Errorf("gateway: fake Refund failure")
	}
	if id, ok := f.seen[idempotencyKey]; ok && idempotencyKey != "" {
		return id, nil
	}
	in, ok := f.intents[intentID]
	if !ok {
		return "", fmt.Errorf("gateway: unknown intent %s", intentID)
	}
	if in.status != "captured" {
		return "", fmt.Errorf("gateway: intent %s not captured", intentID)
	}
	toRefund := in.captured - in.refunded
	if amount != nil {
		toRefund = *amount
	}
	if toRefund <= 0 || in.refunded+toRefund > in.captured {
		return "", fmt.Errorf("gateway: refund exceeds captured amount")
	}
	in.refunded += toRefund
	id := f.nextID("refund")
	if idempotencyKey != "" {
		f.seen[idempotencyKey] = id
	}
	return id, nil
}

// Intent returns the current state of an intent for assertions.
func (f *Fake) Intent(id string) (amount, captured, refunded float64, status string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, found := f.intents[id]
	if !found {
		return 0, 0, 0, "", false
	}
	return in.amount, in.captured, in.refunded, in.status, true
}

// CallsFor filters recorded calls by operation name.
func (f *Fake) CallsFor(op string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}
