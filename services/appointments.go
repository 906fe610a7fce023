package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cleanpro-backend/models"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/google/uuid"
)

// Mutation scopes for updates and cancellations.
const (
	ScopeOccurrence = "occurrence"
	ScopeSeries     = "series"
)

// DefaultCancellationFeePercent applies when no explicit fee amount is given.
const DefaultCancellationFeePercent = 20.0

// AppointmentService owns the appointment lifecycle: status transitions,
// scheduling, assignment, series edits and the hand-offs to pricing,
// conflict detection, recurrence expansion and payment reconciliation.
type AppointmentService struct {
	stores     *store.Stores
	pricing    *PricingService
	conflicts  *ConflictDetector
	expander   *RecurrenceExpander
	reconciler *Reconciler
	notifier   Notifier

	horizonDays      int
	cancelFeePercent float64
	now              func() time.Time
}

func NewAppointmentService(stores *store.Stores, pricing *PricingService, conflicts *ConflictDetector, expander *RecurrenceExpander, reconciler *Reconciler, notifier Notifier, horizonDays int, cancelFeePercent float64) *AppointmentService {
	if horizonDays <= 0 {
		horizonDays = 42
	}
	if cancelFeePercent <= 0 {
		cancelFeePercent = DefaultCancellationFeePercent
	}
	return &AppointmentService{
		stores:           stores,
		pricing:          pricing,
		conflicts:        conflicts,
		expander:         expander,
		reconciler:       reconciler,
		notifier:         notifier,
		horizonDays:      horizonDays,
		cancelFeePercent: cancelFeePercent,
		now:              time.Now,
	}
}

// CreateAppointmentInput is the intake for a new appointment or series.
type CreateAppointmentInput struct {
	ClientID            uuid.UUID
	ScheduledDate       time.Time
	ScheduledTime       string
	DurationHours       *float64
	PrimaryWorkerID     *uuid.UUID
	WorkerIDs           []uuid.UUID
	ServiceType         string
	SquareFeet          int
	BasementSquareFeet  int
	Bedrooms            int
	Bathrooms           int
	ExtraServices       []string
	Address             string
	SpecialInstructions string
	FinalPrice          *float64
	PaymentMethod       string
	ServiceFrequency    string
	OverrideConflicts   bool
	ActorID             uuid.UUID
}

// UpdateAppointmentInput patches an appointment; nil fields are untouched.
type UpdateAppointmentInput struct {
	ScheduledDate       *time.Time
	ScheduledTime       *string
	DurationHours       *float64
	PrimaryWorkerID     *uuid.UUID
	WorkerIDs           *[]uuid.UUID
	Address             *string
	SpecialInstructions *string
	FinalPrice          *float64
	PaymentMethod       *string
	Status              *string
}

// UpdateResult reports what an update touched, including any payment
// settlements that ran because a price changed. A failed settlement does
// not fail the update.
type UpdateResult struct {
	Updated     []models.Appointment    `json:"updated"`
	Settlements []AppointmentSettlement `json:"settlements,omitempty"`
}

type AppointmentSettlement struct {
	AppointmentID uuid.UUID         `json:"appointmentId"`
	Result        *SettlementResult `json:"result"`
}

// CancellationOptions controls fee computation and client notice.
type CancellationOptions struct {
	ApplyFee  bool
	FeeAmount *float64
	Notify    bool
}

// CancelResult reports the cancelled occurrences, the fee charged on the
// requested appointment and per-appointment settlement outcomes.
type CancelResult struct {
	Cancelled   []models.Appointment    `json:"cancelled"`
	Fee         float64                 `json:"fee"`
	Settlements []AppointmentSettlement `json:"settlements,omitempty"`
}

// Get returns the appointment with its display status derived (past-dated,
// non-cancelled reads as COMPLETED; the persisted value is untouched).
func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	appt, err := s.stores.Appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
		}
		return nil, err
	}
	appt.Status = models.DeriveDisplayStatus(appt, s.now())
	return appt, nil
}

// List returns appointments matching the filter, display status derived.
func (s *AppointmentService) List(ctx context.Context, f store.AppointmentFilter) ([]models.Appointment, error) {
	appts, err := s.stores.Appointments.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range appts {
		appts[i].Status = models.DeriveDisplayStatus(&appts[i], now)
	}
	return appts, nil
}

// CheckConflicts exposes the detector to the caller layer.
func (s *AppointmentService) CheckConflicts(ctx context.Context, date time.Time, timeOfDay string, workerIDs []uuid.UUID, excludeID *uuid.UUID) (*ConflictReport, error) {
	return s.conflicts.Check(ctx, date, timeOfDay, workerIDs, excludeID)
}

// Create validates references and conflicts, derives a price when none is
// supplied, persists the appointment and pre-materializes the series.
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error) {
	if err := s.validateCreate(ctx, &in); err != nil {
		return nil, err
	}

	workers := assignedSet(in.PrimaryWorkerID, in.WorkerIDs)
	report, err := s.conflicts.Check(ctx, in.ScheduledDate, in.ScheduledTime, workers, nil)
	if err != nil {
		return nil, err
	}
	if report.HasBlocking() && !in.OverrideConflicts {
		return nil, &ConflictError{Report: report}
	}

	price := in.FinalPrice
	duration := in.DurationHours
	if price == nil {
		quote, err := s.pricing.Quote(ctx, QuoteInput{
			ServiceType:        in.ServiceType,
			SquareFeet:         in.SquareFeet,
			BasementSquareFeet: in.BasementSquareFeet,
			Bedrooms:           in.Bedrooms,
			Bathrooms:          in.Bathrooms,
			ExtraServices:      in.ExtraServices,
		})
		if err != nil {
			return nil, err
		}
		price = &quote.Price
		if duration == nil && quote.DurationHours > 0 {
			duration = &quote.DurationHours
		}
	}

	appt := &models.Appointment{
		ID:                  uuid.New(),
		BookingReference:    bookingReference(in.ScheduledDate),
		ClientID:            in.ClientID,
		ScheduledDate:       utils.BeginningOfDay(in.ScheduledDate),
		ScheduledTime:       in.ScheduledTime,
		DurationHours:       duration,
		PrimaryWorkerID:     in.PrimaryWorkerID,
		ServiceType:         in.ServiceType,
		SquareFeet:          in.SquareFeet,
		BasementSquareFeet:  in.BasementSquareFeet,
		Bedrooms:            in.Bedrooms,
		Bathrooms:           in.Bathrooms,
		ExtraServices:       extrasJSONB(in.ExtraServices),
		Address:             in.Address,
		SpecialInstructions: in.SpecialInstructions,
		FinalPrice:          price,
		PaymentMethod:       in.PaymentMethod,
		ServiceFrequency:    in.ServiceFrequency,
		OccurrenceNumber:    1,
		Status:              models.StatusPending,
	}

	if err := s.stores.Appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	if len(in.WorkerIDs) > 0 {
		if err := s.stores.Assignments.Set(ctx, appt.ID, in.WorkerIDs); err != nil {
			return nil, err
		}
		for _, workerID := range in.WorkerIDs {
			appt.Workers = append(appt.Workers, models.AppointmentWorker{
				AppointmentID: appt.ID,
				WorkerID:      workerID,
			})
		}
	}

	if report.HasBlocking() && in.OverrideConflicts {
		s.writeAudit(ctx, appt.ID, in.ActorID, "create", nil, snapshot(appt), report)
	}

	if appt.ServiceFrequency != models.FrequencyOneTime {
		if _, err := s.expander.Expand(ctx, appt, s.horizonDays); err != nil {
			// The anchor is committed; missing occurrences are filled
			// by the next sweep.
			log.Printf("appointment %s: series expansion failed: %v", appt.ID, err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.AppointmentScheduled(ctx, appt); err != nil {
			log.Printf("appointment %s: booking notice failed: %v", appt.ID, err)
		}
	}

	return appt, nil
}

// Update applies a patch to one occurrence or, with scope=series, to every
// occurrence dated on or after the edited one. A date shift computed from the
// edited occurrence lands uniformly on all later ones; sibling occurrences of
// the same series never count as booking conflicts during the shift, since
// they move together.
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, in UpdateAppointmentInput, scope string, override bool, actorID uuid.UUID) (*UpdateResult, error) {
	if scope == "" {
		scope = ScopeOccurrence
	}
	if scope != ScopeOccurrence && scope != ScopeSeries {
		return nil, fmt.Errorf("%w: unknown scope %q", ErrValidation, scope)
	}
	if in.ScheduledTime != nil && !utils.ValidClockTime(*in.ScheduledTime) {
		return nil, fmt.Errorf("%w: scheduledTime must be HH:MM", ErrValidation)
	}
	if in.FinalPrice != nil && *in.FinalPrice < 0 {
		return nil, fmt.Errorf("%w: finalPrice must not be negative", ErrValidation)
	}

	edited, err := s.stores.Appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
		}
		return nil, err
	}
	if edited.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: cancelled appointments cannot be updated", ErrValidation)
	}
	if in.Status != nil {
		if err := validateTransition(edited.Status, *in.Status); err != nil {
			return nil, err
		}
	}
	if err := s.validateAssignmentPatch(ctx, in); err != nil {
		return nil, err
	}

	targets := []models.Appointment{*edited}
	seriesMembers := map[uuid.UUID]bool{}
	if scope == ScopeSeries && edited.RecurrenceID != nil {
		targets, err = s.stores.Appointments.FindSeriesFrom(ctx, *edited.RecurrenceID, edited.ScheduledDate)
		if err != nil {
			return nil, err
		}
		members, err := s.stores.Appointments.Find(ctx, store.AppointmentFilter{RecurrenceID: edited.RecurrenceID})
		if err != nil {
			return nil, err
		}
		for i := range members {
			seriesMembers[members[i].ID] = true
		}
	}

	var dateShiftDays int
	if in.ScheduledDate != nil {
		dateShiftDays = utils.DaysBetween(edited.ScheduledDate, *in.ScheduledDate)
	}

	// Validate every occurrence before touching any: conflict or
	// validation errors block the whole mutation unless overridden.
	type plannedChange struct {
		appt     models.Appointment
		newDate  time.Time
		report   *ConflictReport
		prevCopy models.Appointment
	}
	var plan []plannedChange
	for i := range targets {
		target := targets[i]
		if target.Status == models.StatusCancelled {
			continue
		}
		newDate := target.ScheduledDate
		if in.ScheduledDate != nil {
			newDate = utils.BeginningOfDay(target.ScheduledDate).AddDate(0, 0, dateShiftDays)
		}
		newTime := target.ScheduledTime
		if in.ScheduledTime != nil {
			newTime = *in.ScheduledTime
		}
		workers := target.WorkerIDs()
		if in.WorkerIDs != nil || in.PrimaryWorkerID != nil {
			primary := target.PrimaryWorkerID
			if in.PrimaryWorkerID != nil {
				primary = in.PrimaryWorkerID
			}
			set := joinWorkerIDs(target.Workers)
			if in.WorkerIDs != nil {
				set = *in.WorkerIDs
			}
			workers = assignedSet(primary, set)
		}

		report, err := s.conflicts.Check(ctx, newDate, newTime, workers, &target.ID)
		if err != nil {
			return nil, err
		}
		pruneSeriesConflicts(report, seriesMembers)
		if report.HasBlocking() && !override {
			return nil, &ConflictError{Report: report}
		}
		plan = append(plan, plannedChange{appt: target, newDate: newDate, report: report, prevCopy: target})
	}

	// A forward date shift is persisted latest-first so no occurrence lands
	// on a sibling's not-yet-moved date, which the unique index on
	// (recurrence_id, scheduled_date) would reject mid-series.
	order := make([]int, len(plan))
	for i := range order {
		order[i] = i
	}
	if dateShiftDays > 0 {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	result := &UpdateResult{}
	updated := make([]*models.Appointment, len(plan))
	for _, i := range order {
		target := plan[i].appt
		prevPrice := 0.0
		if target.FinalPrice != nil {
			prevPrice = *target.FinalPrice
		}

		applyPatch(&target, in, plan[i].newDate)

		if err := s.stores.Appointments.Update(ctx, &target); err != nil {
			log.Printf("appointment %s: series update failed: %v", target.ID, err)
			continue
		}
		if in.WorkerIDs != nil {
			if err := s.stores.Assignments.Set(ctx, target.ID, *in.WorkerIDs); err != nil {
				log.Printf("appointment %s: assignment update failed: %v", target.ID, err)
			}
		}

		if override && plan[i].report.HasBlocking() {
			s.writeAudit(ctx, target.ID, actorID, "update", snapshot(&plan[i].prevCopy), snapshot(&target), plan[i].report)
		}

		if in.FinalPrice != nil && *in.FinalPrice != prevPrice {
			settlement := s.reconciler.ReconcilePrice(ctx, &target, prevPrice, *in.FinalPrice)
			result.Settlements = append(result.Settlements, AppointmentSettlement{
				AppointmentID: target.ID,
				Result:        settlement,
			})
		}

		updated[i] = &target
	}
	for _, row := range updated {
		if row != nil {
			result.Updated = append(result.Updated, *row)
		}
	}

	// Keep the materialized horizon filled as the series moves.
	if edited.ServiceFrequency != models.FrequencyOneTime && len(result.Updated) > 0 {
		anchor := result.Updated[len(result.Updated)-1]
		if _, err := s.expander.Expand(ctx, &anchor, s.horizonDays); err != nil {
			log.Printf("appointment %s: post-update expansion failed: %v", anchor.ID, err)
		}
	}

	return result, nil
}

// Cancel moves the appointment (or its whole series) to CANCELLED, computes
// the cancellation fee and settles any open hold or captured charge. The
// status change is authoritative even when settlement fails; a failed
// settlement is reported for out-of-band retry.
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID, scope string, opts CancellationOptions, actorID uuid.UUID) (*CancelResult, error) {
	if scope == "" {
		scope = ScopeOccurrence
	}
	if scope != ScopeOccurrence && scope != ScopeSeries {
		return nil, fmt.Errorf("%w: unknown scope %q", ErrValidation, scope)
	}

	appt, err := s.stores.Appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
		}
		return nil, err
	}
	if appt.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: appointment already cancelled", ErrValidation)
	}

	fee := s.cancellationFee(appt, opts)

	targets := []models.Appointment{*appt}
	if scope == ScopeSeries && appt.RecurrenceID != nil {
		targets, err = s.stores.Appointments.Find(ctx, store.AppointmentFilter{RecurrenceID: appt.RecurrenceID})
		if err != nil {
			return nil, err
		}
	}

	result := &CancelResult{Fee: fee}
	for i := range targets {
		target := targets[i]
		if target.Status == models.StatusCancelled {
			continue
		}

		target.Status = models.StatusCancelled
		// The fee attaches to the appointment the caller cancelled;
		// sibling occurrences release their holds in full.
		targetFee := 0.0
		if target.ID == appt.ID {
			targetFee = fee
			target.CancellationFeeApplied = opts.ApplyFee
			if opts.ApplyFee {
				target.CancellationFeeAmount = &fee
			}
		}
		if err := s.stores.Appointments.Update(ctx, &target); err != nil {
			log.Printf("appointment %s: cancellation write failed: %v", target.ID, err)
			continue
		}

		settlement := s.reconciler.SettleCancellation(ctx, &target, targetFee)
		result.Settlements = append(result.Settlements, AppointmentSettlement{
			AppointmentID: target.ID,
			Result:        settlement,
		})
		result.Cancelled = append(result.Cancelled, target)
	}

	if opts.Notify && s.notifier != nil {
		if err := s.notifier.AppointmentCancelled(ctx, appt, fee); err != nil {
			log.Printf("appointment %s: cancellation notice failed: %v", appt.ID, err)
		}
	}

	return result, nil
}

// AssignWorkers replaces the worker set after role and conflict validation.
func (s *AppointmentService) AssignWorkers(ctx context.Context, id uuid.UUID, workerIDs []uuid.UUID, override bool, actorID uuid.UUID) (*models.Appointment, error) {
	appt, err := s.stores.Appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: appointment %s", ErrNotFound, id)
		}
		return nil, err
	}
	if appt.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: cancelled appointments cannot be reassigned", ErrValidation)
	}
	if err := s.requireRole(ctx, workerIDs, models.RoleWorker); err != nil {
		return nil, err
	}

	workers := assignedSet(appt.PrimaryWorkerID, workerIDs)
	report, err := s.conflicts.Check(ctx, appt.ScheduledDate, appt.ScheduledTime, workers, &appt.ID)
	if err != nil {
		return nil, err
	}
	if report.HasBlocking() && !override {
		return nil, &ConflictError{Report: report}
	}

	before := snapshot(appt)
	if err := s.stores.Assignments.Set(ctx, appt.ID, workerIDs); err != nil {
		return nil, err
	}
	appt.Workers = nil
	for _, workerID := range workerIDs {
		appt.Workers = append(appt.Workers, models.AppointmentWorker{AppointmentID: appt.ID, WorkerID: workerID})
	}

	if report.HasBlocking() && override {
		s.writeAudit(ctx, appt.ID, actorID, "assign_workers", before, snapshot(appt), report)
	}
	return appt, nil
}

// ExpandRecurrences runs the global sweep.
func (s *AppointmentService) ExpandRecurrences(ctx context.Context, horizonDays int) (int, error) {
	if horizonDays <= 0 {
		horizonDays = s.horizonDays
	}
	return s.expander.ExpandAll(ctx, horizonDays)
}

// Delete removes an appointment outright (admin surface).
func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.stores.Appointments.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: appointment %s", ErrNotFound, id)
	}
	return err
}

func (s *AppointmentService) validateCreate(ctx context.Context, in *CreateAppointmentInput) error {
	if in.ScheduledDate.IsZero() {
		return fmt.Errorf("%w: scheduledDate is required", ErrValidation)
	}
	if !utils.ValidClockTime(in.ScheduledTime) {
		return fmt.Errorf("%w: scheduledTime must be HH:MM", ErrValidation)
	}
	switch in.ServiceFrequency {
	case models.FrequencyOneTime, models.FrequencyWeekly, models.FrequencyBiweekly, models.FrequencyMonthly:
	case "":
		in.ServiceFrequency = models.FrequencyOneTime
	default:
		return fmt.Errorf("%w: unknown serviceFrequency %q", ErrValidation, in.ServiceFrequency)
	}
	if in.FinalPrice != nil && *in.FinalPrice < 0 {
		return fmt.Errorf("%w: finalPrice must not be negative", ErrValidation)
	}

	client, err := s.stores.Users.Get(ctx, in.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: client %s", ErrNotFound, in.ClientID)
		}
		return err
	}
	if client.Role != models.RoleClient {
		return fmt.Errorf("%w: user %s is not a client", ErrInvalidRole, in.ClientID)
	}

	return s.requireRole(ctx, assignedSet(in.PrimaryWorkerID, in.WorkerIDs), models.RoleWorker)
}

func (s *AppointmentService) validateAssignmentPatch(ctx context.Context, in UpdateAppointmentInput) error {
	var workers []uuid.UUID
	if in.PrimaryWorkerID != nil {
		workers = append(workers, *in.PrimaryWorkerID)
	}
	if in.WorkerIDs != nil {
		workers = append(workers, *in.WorkerIDs...)
	}
	return s.requireRole(ctx, workers, models.RoleWorker)
}

func (s *AppointmentService) requireRole(ctx context.Context, userIDs []uuid.UUID, role string) error {
	for _, userID := range userIDs {
		user, err := s.stores.Users.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return err
		}
		if user.Role != role {
			return fmt.Errorf("%w: user %s is not a %s", ErrInvalidRole, userID, role)
		}
	}
	return nil
}

// cancellationFee is always clamped into [0, finalPrice], even when the
// caller supplies an amount exceeding the price.
func (s *AppointmentService) cancellationFee(appt *models.Appointment, opts CancellationOptions) float64 {
	if !opts.ApplyFee {
		return 0
	}
	price := 0.0
	if appt.FinalPrice != nil {
		price = *appt.FinalPrice
	}
	fee := round2(price * s.cancelFeePercent / 100)
	if opts.FeeAmount != nil {
		fee = *opts.FeeAmount
	}
	if fee < 0 {
		fee = 0
	}
	if fee > price {
		fee = price
	}
	return round2(fee)
}

func (s *AppointmentService) writeAudit(ctx context.Context, appointmentID, actorID uuid.UUID, action string, before, after models.JSONB, report *ConflictReport) {
	audit := &models.OverrideAudit{
		AppointmentID: appointmentID,
		ActorID:       actorID,
		Action:        action,
		Before:        before,
		After:         after,
		Conflicts:     report.Snapshot(),
	}
	if err := s.stores.Audits.Create(ctx, audit); err != nil {
		log.Printf("appointment %s: audit write failed: %v", appointmentID, err)
	}
}

// validateTransition enforces the forward-only status machine; CANCELLED is
// reachable only through Cancel.
func validateTransition(from, to string) error {
	if from == to {
		return nil
	}
	allowed := map[string][]string{
		models.StatusPending:    {models.StatusConfirmed, models.StatusInProgress, models.StatusCompleted},
		models.StatusConfirmed:  {models.StatusInProgress, models.StatusCompleted},
		models.StatusInProgress: {models.StatusCompleted},
	}
	for _, next := range allowed[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot move status from %s to %s", ErrValidation, from, to)
}

func applyPatch(target *models.Appointment, in UpdateAppointmentInput, newDate time.Time) {
	target.ScheduledDate = utils.BeginningOfDay(newDate)
	if in.ScheduledTime != nil {
		target.ScheduledTime = *in.ScheduledTime
	}
	if in.DurationHours != nil {
		target.DurationHours = in.DurationHours
	}
	if in.PrimaryWorkerID != nil {
		target.PrimaryWorkerID = in.PrimaryWorkerID
	}
	if in.Address != nil {
		target.Address = *in.Address
	}
	if in.SpecialInstructions != nil {
		target.SpecialInstructions = *in.SpecialInstructions
	}
	if in.FinalPrice != nil {
		price := *in.FinalPrice
		target.FinalPrice = &price
	}
	if in.PaymentMethod != nil {
		target.PaymentMethod = *in.PaymentMethod
	}
	if in.Status != nil {
		target.Status = *in.Status
	}
}

func assignedSet(primary *uuid.UUID, workerIDs []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	if primary != nil {
		seen[*primary] = true
		out = append(out, *primary)
	}
	for _, id := range workerIDs {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// pruneSeriesConflicts drops booking conflicts raised by the series' own
// occurrences. A uniform shift moves them together, so a sibling sitting on a
// target's new date is about to vacate it.
func pruneSeriesConflicts(report *ConflictReport, members map[uuid.UUID]bool) {
	if len(members) == 0 || len(report.BookingConflicts) == 0 {
		return
	}
	kept := report.BookingConflicts[:0]
	for _, c := range report.BookingConflicts {
		if !members[c.AppointmentID] {
			kept = append(kept, c)
		}
	}
	report.BookingConflicts = kept
}

func joinWorkerIDs(rows []models.AppointmentWorker) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.WorkerID)
	}
	return out
}

func bookingReference(date time.Time) string {
	return "CLN-" + date.Format("20060102") + "-" + utils.GenerateRandomString(6)
}

// snapshot captures the audit-relevant fields of an appointment.
func snapshot(appt *models.Appointment) models.JSONB {
	out := models.JSONB{
		"scheduledDate": appt.ScheduledDate.Format("2006-01-02"),
		"scheduledTime": appt.ScheduledTime,
		"status":        appt.Status,
	}
	if appt.FinalPrice != nil {
		out["finalPrice"] = *appt.FinalPrice
	}
	if appt.PrimaryWorkerID != nil {
		out["primaryWorkerId"] = appt.PrimaryWorkerID.String()
	}
	workers := appt.WorkerIDs()
	if len(workers) > 0 {
		list := make([]interface{}, len(workers))
		for i, id := range workers {
			list[i] = id.String()
		}
		out["workerIds"] = list
	}
	return out
}

func extrasJSONB(extras []string) models.JSONB {
	out := models.JSONB{}
	var list []interface{}
	for _, extra := range extras {
		list = append(list, extra)
	}
	if list != nil {
		out["selected"] = list
	}
	return out
}
