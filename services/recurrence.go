package services

import (
	"context"
	"errors"
	"log"
	"time"

	"cleanpro-backend/models"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/google/uuid"
)

// RecurrenceExpander materializes future occurrences of a repeating
// appointment up to a horizon. Expansion is idempotent: an occurrence that
// already exists for (recurrenceId, date) is skipped, so the sweep can be
// re-run at any time and will only fill gaps.
type RecurrenceExpander struct {
	appointments store.AppointmentStore
	assignments  store.WorkerAssignmentStore
	conflicts    *ConflictDetector
	now          func() time.Time
}

func NewRecurrenceExpander(appointments store.AppointmentStore, assignments store.WorkerAssignmentStore, conflicts *ConflictDetector) *RecurrenceExpander {
	return &RecurrenceExpander{
		appointments: appointments,
		assignments:  assignments,
		conflicts:    conflicts,
		now:          time.Now,
	}
}

// Expand generates missing occurrences of the anchor's series dated within
// today+horizonDays and returns how many were created. Conflicting dates are
// skipped without stopping the loop; so are per-occurrence persistence
// failures, which the next run fills in.
func (e *RecurrenceExpander) Expand(ctx context.Context, anchor *models.Appointment, horizonDays int) (int, error) {
	delta := models.FrequencyDayDelta(anchor.ServiceFrequency)
	if delta == 0 || anchor.Status == models.StatusCancelled {
		return 0, nil
	}

	if anchor.RecurrenceID == nil {
		recurrenceID := uuid.New()
		anchor.RecurrenceID = &recurrenceID
		if anchor.OccurrenceNumber == 0 {
			anchor.OccurrenceNumber = 1
		}
		if err := e.appointments.Update(ctx, anchor); err != nil {
			return 0, err
		}
	}

	horizon := utils.BeginningOfDay(e.now()).AddDate(0, 0, horizonDays)
	anchorDate := utils.BeginningOfDay(anchor.ScheduledDate)
	workers := anchor.WorkerIDs()

	created := 0
	for n := 1; ; n++ {
		candidate := anchorDate.AddDate(0, 0, n*delta)
		if candidate.After(horizon) {
			break
		}

		exists, err := e.appointments.ExistsOccurrence(ctx, *anchor.RecurrenceID, candidate)
		if err != nil {
			log.Printf("recurrence %s: existence check for %s failed: %v",
				anchor.RecurrenceID, candidate.Format("2006-01-02"), err)
			continue
		}
		if exists {
			continue
		}

		report, err := e.conflicts.Check(ctx, candidate, anchor.ScheduledTime, workers, nil)
		if err != nil {
			log.Printf("recurrence %s: conflict check for %s failed: %v",
				anchor.RecurrenceID, candidate.Format("2006-01-02"), err)
			continue
		}
		if report.HasBlocking() {
			log.Printf("recurrence %s: skipping %s, workers unavailable",
				anchor.RecurrenceID, candidate.Format("2006-01-02"))
			continue
		}

		occurrence := cloneOccurrence(anchor, candidate, anchor.OccurrenceNumber+n)
		if err := e.appointments.Create(ctx, occurrence); err != nil {
			if errors.Is(err, store.ErrDuplicateOccurrence) {
				// Lost a race with a concurrent expansion; the row
				// exists, which is all we wanted.
				continue
			}
			log.Printf("recurrence %s: create for %s failed: %v",
				anchor.RecurrenceID, candidate.Format("2006-01-02"), err)
			continue
		}

		if joinWorkers := assignmentIDs(anchor); len(joinWorkers) > 0 {
			if err := e.assignments.Set(ctx, occurrence.ID, joinWorkers); err != nil {
				log.Printf("recurrence %s: assignment copy for %s failed: %v",
					anchor.RecurrenceID, candidate.Format("2006-01-02"), err)
			}
		}
		created++
	}
	return created, nil
}

// ExpandAll sweeps every active series, expanding from its latest
// occurrence. Cancellation is honored between appointments, never
// mid-appointment; partially swept runs are safe to resume because
// expansion is idempotent.
func (e *RecurrenceExpander) ExpandAll(ctx context.Context, horizonDays int) (int, error) {
	anchors, err := e.appointments.ActiveSeriesAnchors(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for i := range anchors {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		created, err := e.Expand(ctx, &anchors[i], horizonDays)
		if err != nil {
			log.Printf("recurrence sweep: series %s failed: %v", anchors[i].RecurrenceID, err)
			continue
		}
		total += created
	}
	return total, nil
}

// cloneOccurrence copies everything non-temporal from the anchor.
func cloneOccurrence(anchor *models.Appointment, date time.Time, occurrenceNumber int) *models.Appointment {
	return &models.Appointment{
		ID:                  uuid.New(),
		BookingReference:    bookingReference(date),
		ClientID:            anchor.ClientID,
		ScheduledDate:       date,
		ScheduledTime:       anchor.ScheduledTime,
		DurationHours:       anchor.DurationHours,
		PrimaryWorkerID:     anchor.PrimaryWorkerID,
		ServiceType:         anchor.ServiceType,
		SquareFeet:          anchor.SquareFeet,
		BasementSquareFeet:  anchor.BasementSquareFeet,
		Bedrooms:            anchor.Bedrooms,
		Bathrooms:           anchor.Bathrooms,
		ExtraServices:       anchor.ExtraServices,
		Address:             anchor.Address,
		SpecialInstructions: anchor.SpecialInstructions,
		FinalPrice:          anchor.FinalPrice,
		PaymentMethod:       anchor.PaymentMethod,
		RecurrenceID:        anchor.RecurrenceID,
		ServiceFrequency:    anchor.ServiceFrequency,
		OccurrenceNumber:    occurrenceNumber,
		Status:              models.StatusPending,
	}
}

// assignmentIDs returns the join-row worker ids of the anchor (the primary
// assignment is carried on the cloned row itself).
func assignmentIDs(anchor *models.Appointment) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(anchor.Workers))
	for _, w := range anchor.Workers {
		out = append(out, w.WorkerID)
	}
	return out
}
