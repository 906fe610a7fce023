package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"cleanpro-backend/gateway"
	"cleanpro-backend/models"
	"cleanpro-backend/store"

	"github.com/google/uuid"
)

// Settlement outcome statuses. A failed settlement never blocks the
// business-state change that triggered it; the ledger is reconciled
// out-of-band by re-running the operation (idempotency keys make the retry
// safe).
const (
	SettlementSettled  = "settled"
	SettlementNoAction = "no_action"
	SettlementFailed   = "failed"
)

// SettlementResult reports what the reconciler did for one appointment.
type SettlementResult struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func settled(detail string) *SettlementResult {
	return &SettlementResult{Status: SettlementSettled, Detail: detail}
}

func noAction(detail string) *SettlementResult {
	return &SettlementResult{Status: SettlementNoAction, Detail: detail}
}

func settlementFailed(err error) *SettlementResult {
	return &SettlementResult{Status: SettlementFailed, Detail: err.Error()}
}

// Reconciler keeps the gateway-side hold/charge and the PaymentRecord ledger
// in step with appointment price and cancellation changes. All decisions key
// off the most recent PaymentRecord, so work for a single appointment is
// serialized through a per-appointment mutex.
type Reconciler struct {
	payments store.PaymentRecordStore
	gw       gateway.PaymentGateway
	currency string
	locks    sync.Map // uuid.UUID → *sync.Mutex
}

func NewReconciler(payments store.PaymentRecordStore, gw gateway.PaymentGateway) *Reconciler {
	return &Reconciler{payments: payments, gw: gw, currency: "usd"}
}

func (r *Reconciler) lock(appointmentID uuid.UUID) func() {
	v, _ := r.locks.LoadOrStore(appointmentID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// idempotencyKey derives the gateway key from (appointment, operation,
// amount) so a retried reconciliation replays instead of acting twice.
func idempotencyKey(appointmentID uuid.UUID, operation string, amount float64) string {
	return fmt.Sprintf("%s:%s:%.2f", appointmentID, operation, amount)
}

// ReconcilePrice adjusts the live hold or captured charge after an
// appointment's price moved from previous to next. The appointment row is
// already committed when this runs; gateway failures are reported in the
// result, never propagated.
func (r *Reconciler) ReconcilePrice(ctx context.Context, appt *models.Appointment, previous, next float64) *SettlementResult {
	delta := round2(next - previous)
	if delta == 0 {
		return noAction("price unchanged")
	}

	unlock := r.lock(appt.ID)
	defer unlock()

	latest, err := r.payments.Latest(ctx, appt.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Nothing reserved or captured yet; the delta needs no
			// gateway action and is noted for the books only.
			log.Printf("reconcile %s: price moved %.2f -> %.2f with no payment intent, noted",
				appt.ID, previous, next)
			return noAction("no payment record; delta noted")
		}
		log.Printf("reconcile %s: ledger read failed: %v", appt.ID, err)
		return settlementFailed(err)
	}

	switch latest.Status {
	case models.PaymentStatusCapturable, models.PaymentStatusReserved:
		return r.resizeHold(ctx, appt, latest, next, delta)
	case models.PaymentStatusCaptured, models.PaymentStatusRefunded:
		// A refund row carries the charge's intent id, so the captured
		// branch serves both.
		return r.adjustCharge(ctx, appt, delta)
	default:
		return noAction("latest payment record is terminal")
	}
}

func (r *Reconciler) resizeHold(ctx context.Context, appt *models.Appointment, hold *models.PaymentRecord, next, delta float64) *SettlementResult {
	if delta < 0 {
		key := idempotencyKey(appt.ID, "hold_decrease", next)
		if err := r.gw.UpdateHoldAmount(ctx, hold.GatewayIntentID, next, key); err != nil {
			log.Printf("reconcile %s: hold decrease failed: %v", appt.ID, err)
			return settlementFailed(err)
		}
		hold.Amount = next
		if err := r.payments.Update(ctx, hold); err != nil {
			log.Printf("reconcile %s: ledger update after hold decrease failed: %v", appt.ID, err)
			return settlementFailed(err)
		}
		return settled(fmt.Sprintf("hold decreased to %.2f", next))
	}

	key := idempotencyKey(appt.ID, "hold_increase", next)
	if err := r.gw.UpdateHoldAmount(ctx, hold.GatewayIntentID, next, key); err == nil {
		hold.Amount = next
		if err := r.payments.Update(ctx, hold); err != nil {
			log.Printf("reconcile %s: ledger update after hold increase failed: %v", appt.ID, err)
			return settlementFailed(err)
		}
		return settled(fmt.Sprintf("hold increased to %.2f", next))
	}

	// The processor refused to grow the hold: release it and reserve the
	// full new price with a fresh intent. Cancelling first keeps the
	// single-live-hold invariant.
	cancelKey := idempotencyKey(appt.ID, "hold_replace_cancel", hold.Amount)
	if err := r.gw.CancelHold(ctx, hold.GatewayIntentID, cancelKey); err != nil {
		log.Printf("reconcile %s: cancel of undersized hold failed: %v", appt.ID, err)
		return settlementFailed(err)
	}
	hold.Status = models.PaymentStatusCanceled
	if err := r.payments.Update(ctx, hold); err != nil {
		log.Printf("reconcile %s: ledger update after hold cancel failed: %v", appt.ID, err)
		return settlementFailed(err)
	}

	createKey := idempotencyKey(appt.ID, "hold_recreate", next)
	intentID, err := r.gw.CreateHold(ctx, gateway.HoldRequest{
		Amount:         next,
		Currency:       r.currency,
		IdempotencyKey: createKey,
		Metadata:       map[string]string{"appointment_id": appt.ID.String()},
	})
	if err != nil {
		log.Printf("reconcile %s: replacement hold failed: %v", appt.ID, err)
		return settlementFailed(err)
	}
	record := &models.PaymentRecord{
		AppointmentID:   appt.ID,
		GatewayIntentID: intentID,
		Amount:          next,
		Status:          models.PaymentStatusCapturable,
		Currency:        r.currency,
		Description:     "replacement hold after price increase",
		IdempotencyKey:  createKey,
	}
	if err := r.payments.Create(ctx, record); err != nil {
		log.Printf("reconcile %s: ledger insert for replacement hold failed: %v", appt.ID, err)
		return settlementFailed(err)
	}
	return settled(fmt.Sprintf("hold replaced at %.2f", next))
}

func (r *Reconciler) adjustCharge(ctx context.Context, appt *models.Appointment, delta float64) *SettlementResult {
	if delta < 0 {
		return r.refundAcross(ctx, appt, round2(-delta), "refund", "partial refund after price decrease")
	}

	// Never re-charge the full new price; the client owes only the delta.
	key := idempotencyKey(appt.ID, "charge", delta)
	intentID, err := r.gw.CreateCharge(ctx, gateway.ChargeRequest{
		Amount:           delta,
		Currency:         r.currency,
		PaymentMethodRef: appt.PaymentMethod,
		IdempotencyKey:   key,
		Metadata:         map[string]string{"appointment_id": appt.ID.String()},
	})
	if err != nil {
		log.Printf("reconcile %s: delta charge of %.2f failed: %v", appt.ID, delta, err)
		return settlementFailed(err)
	}
	record := &models.PaymentRecord{
		AppointmentID:   appt.ID,
		GatewayIntentID: intentID,
		Amount:          delta,
		Status:          models.PaymentStatusCaptured,
		Currency:        r.currency,
		Description:     "additional charge after price increase",
		IdempotencyKey:  key,
	}
	if err := r.payments.Create(ctx, record); err != nil {
		log.Printf("reconcile %s: ledger insert for delta charge failed: %v", appt.ID, err)
		return settlementFailed(err)
	}
	return settled(fmt.Sprintf("charged %.2f", delta))
}

// SettleCancellation resolves the appointment's open hold or captured charge
// against the cancellation fee. With an open hold, capturing only the fee
// releases the remainder implicitly; with a captured charge, everything
// above the fee is refunded.
func (r *Reconciler) SettleCancellation(ctx context.Context, appt *models.Appointment, fee float64) *SettlementResult {
	unlock := r.lock(appt.ID)
	defer unlock()

	latest, err := r.payments.Latest(ctx, appt.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return noAction("no payment record")
		}
		log.Printf("settle %s: ledger read failed: %v", appt.ID, err)
		return settlementFailed(err)
	}

	if latest.Live() {
		if fee > 0 {
			key := idempotencyKey(appt.ID, "cancel_capture", fee)
			if _, err := r.gw.CaptureHold(ctx, latest.GatewayIntentID, &fee, key); err != nil {
				log.Printf("settle %s: fee capture of %.2f failed: %v", appt.ID, fee, err)
				return settlementFailed(err)
			}
			latest.Amount = fee
			latest.Status = models.PaymentStatusCaptured
			latest.Description = "cancellation fee captured from hold"
			if err := r.payments.Update(ctx, latest); err != nil {
				log.Printf("settle %s: ledger update after fee capture failed: %v", appt.ID, err)
				return settlementFailed(err)
			}
			return settled(fmt.Sprintf("captured %.2f fee, remainder released", fee))
		}

		key := idempotencyKey(appt.ID, "cancel_release", latest.Amount)
		if err := r.gw.CancelHold(ctx, latest.GatewayIntentID, key); err != nil {
			log.Printf("settle %s: hold release failed: %v", appt.ID, err)
			return settlementFailed(err)
		}
		latest.Status = models.PaymentStatusCanceled
		if err := r.payments.Update(ctx, latest); err != nil {
			log.Printf("settle %s: ledger update after hold release failed: %v", appt.ID, err)
			return settlementFailed(err)
		}
		return settled("hold released in full")
	}

	if latest.Status == models.PaymentStatusCaptured || latest.Status == models.PaymentStatusRefunded {
		captured, err := r.netCaptured(ctx, appt.ID)
		if err != nil {
			log.Printf("settle %s: ledger sum failed: %v", appt.ID, err)
			return settlementFailed(err)
		}
		refund := round2(captured - fee)
		if refund <= 0 {
			return noAction("captured amount does not exceed fee")
		}
		return r.refundAcross(ctx, appt, refund, "cancel_refund", "cancellation refund")
	}

	return noAction("latest payment record is terminal")
}

// refundAcross distributes a refund over the appointment's captured intents,
// newest first, never asking any intent for more than its remaining captured
// balance. Delta charges split captures across intents, and the processor
// rejects a refund that exceeds what its own intent captured.
func (r *Reconciler) refundAcross(ctx context.Context, appt *models.Appointment, total float64, operation, description string) *SettlementResult {
	balances, err := r.capturedBalances(ctx, appt.ID)
	if err != nil {
		log.Printf("reconcile %s: ledger read for refund failed: %v", appt.ID, err)
		return settlementFailed(err)
	}

	outstanding := total
	for i := len(balances) - 1; i >= 0 && outstanding > 0; i-- {
		portion := round2(min(outstanding, balances[i].balance))
		key := idempotencyKey(appt.ID, operation+":"+balances[i].intentID, portion)
		refundID, err := r.gw.Refund(ctx, balances[i].intentID, &portion, key)
		if err != nil {
			log.Printf("reconcile %s: refund of %.2f against %s failed: %v",
				appt.ID, portion, balances[i].intentID, err)
			return settlementFailed(err)
		}
		record := &models.PaymentRecord{
			AppointmentID:   appt.ID,
			GatewayIntentID: balances[i].intentID,
			Amount:          -portion,
			Status:          models.PaymentStatusRefunded,
			Currency:        r.currency,
			Description:     fmt.Sprintf("%s %s", description, refundID),
			IdempotencyKey:  key,
		}
		if err := r.payments.Create(ctx, record); err != nil {
			log.Printf("reconcile %s: ledger insert for refund failed: %v", appt.ID, err)
			return settlementFailed(err)
		}
		outstanding = round2(outstanding - portion)
	}
	if outstanding > 0 {
		err := fmt.Errorf("captured balance exhausted with %.2f left to refund", outstanding)
		log.Printf("reconcile %s: %v", appt.ID, err)
		return settlementFailed(err)
	}
	return settled(fmt.Sprintf("refunded %.2f", total))
}

// intentBalance is one intent's captured money net of its refunds.
type intentBalance struct {
	intentID string
	balance  float64
}

// capturedBalances folds the ledger into per-intent remaining balances, in
// capture order. Refund rows carry the charge's intent id, so grouping by
// intent id nets them out.
func (r *Reconciler) capturedBalances(ctx context.Context, appointmentID uuid.UUID) ([]intentBalance, error) {
	records, err := r.payments.ListForAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	sums := map[string]float64{}
	var order []string
	for i := range records {
		switch records[i].Status {
		case models.PaymentStatusCaptured, models.PaymentStatusRefunded:
			id := records[i].GatewayIntentID
			if _, seen := sums[id]; !seen {
				order = append(order, id)
			}
			sums[id] += records[i].Amount
		}
	}
	out := make([]intentBalance, 0, len(order))
	for _, id := range order {
		if balance := round2(sums[id]); balance > 0 {
			out = append(out, intentBalance{intentID: id, balance: balance})
		}
	}
	return out, nil
}

// netCaptured sums the captured and refunded ledger lines, which is the
// money currently held by the business for this appointment.
func (r *Reconciler) netCaptured(ctx context.Context, appointmentID uuid.UUID) (float64, error) {
	records, err := r.payments.ListForAppointment(ctx, appointmentID)
	if err != nil {
		return 0, err
	}
	var net float64
	for i := range records {
		switch records[i].Status {
		case models.PaymentStatusCaptured, models.PaymentStatusRefunded:
			net += records[i].Amount
		}
	}
	return round2(net), nil
}
