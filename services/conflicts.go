package services

import (
	"context"
	"errors"
	"time"

	"cleanpro-backend/models"
	"cleanpro-backend/store"

	"github.com/google/uuid"
)

// BookingConflict reports another appointment already holding one of the
// requested workers at the same date and time.
type BookingConflict struct {
	AppointmentID uuid.UUID   `json:"appointmentId"`
	WorkerIDs     []uuid.UUID `json:"workerIds"`
}

// LeaveConflict reports approved time off covering the requested date.
type LeaveConflict struct {
	WorkerID      uuid.UUID `json:"workerId"`
	TimeOffID     uuid.UUID `json:"timeOffId"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
}

// AvailabilityWarning flags an appointment falling outside a worker's
// declared weekday window. Advisory only: it never blocks the mutation.
type AvailabilityWarning struct {
	WorkerID uuid.UUID `json:"workerId"`
	Weekday  int       `json:"weekday"`
	Reason   string    `json:"reason"`
}

type ConflictReport struct {
	BookingConflicts     []BookingConflict     `json:"bookingConflicts"`
	LeaveConflicts       []LeaveConflict       `json:"leaveConflicts"`
	AvailabilityWarnings []AvailabilityWarning `json:"availabilityWarnings"`
}

// HasBlocking reports whether the mutation must be rejected unless
// overridden. Availability warnings are soft and excluded.
func (r *ConflictReport) HasBlocking() bool {
	return len(r.BookingConflicts) > 0 || len(r.LeaveConflicts) > 0
}

// Snapshot renders the report for an audit row.
func (r *ConflictReport) Snapshot() models.JSONB {
	out := models.JSONB{}
	if len(r.BookingConflicts) > 0 {
		var rows []interface{}
		for _, c := range r.BookingConflicts {
			workers := make([]string, len(c.WorkerIDs))
			for i, w := range c.WorkerIDs {
				workers[i] = w.String()
			}
			rows = append(rows, map[string]interface{}{
				"appointmentId": c.AppointmentID.String(),
				"workerIds":     workers,
			})
		}
		out["bookingConflicts"] = rows
	}
	if len(r.LeaveConflicts) > 0 {
		var rows []interface{}
		for _, c := range r.LeaveConflicts {
			rows = append(rows, map[string]interface{}{
				"workerId":  c.WorkerID.String(),
				"timeOffId": c.TimeOffID.String(),
				"startDate": c.StartDate,
				"endDate":   c.EndDate,
			})
		}
		out["leaveConflicts"] = rows
	}
	return out
}

// ConflictDetector answers "can these workers take this slot".
type ConflictDetector struct {
	appointments store.AppointmentStore
	timeOff      store.TimeOffStore
	availability store.AvailabilityStore
}

func NewConflictDetector(appointments store.AppointmentStore, timeOff store.TimeOffStore, availability store.AvailabilityStore) *ConflictDetector {
	return &ConflictDetector{
		appointments: appointments,
		timeOff:      timeOff,
		availability: availability,
	}
}

// Check reports booking and leave conflicts for the requested workers at
// (date, timeOfDay), ignoring excludeID (the appointment being edited).
func (d *ConflictDetector) Check(ctx context.Context, date time.Time, timeOfDay string, workerIDs []uuid.UUID, excludeID *uuid.UUID) (*ConflictReport, error) {
	report := &ConflictReport{}
	if len(workerIDs) == 0 {
		return report, nil
	}

	requested := map[uuid.UUID]bool{}
	for _, id := range workerIDs {
		requested[id] = true
	}

	others, err := d.appointments.FindByDateTime(ctx, date, timeOfDay, excludeID)
	if err != nil {
		return nil, err
	}
	for i := range others {
		var overlap []uuid.UUID
		for _, workerID := range others[i].WorkerIDs() {
			if requested[workerID] {
				overlap = append(overlap, workerID)
			}
		}
		if len(overlap) > 0 {
			report.BookingConflicts = append(report.BookingConflicts, BookingConflict{
				AppointmentID: others[i].ID,
				WorkerIDs:     overlap,
			})
		}
	}

	leaves, err := d.timeOff.FindApprovedCovering(ctx, workerIDs, date)
	if err != nil {
		return nil, err
	}
	for _, leave := range leaves {
		report.LeaveConflicts = append(report.LeaveConflicts, LeaveConflict{
			WorkerID:  leave.WorkerID,
			TimeOffID: leave.ID,
			StartDate: leave.StartDate.Format("2006-01-02"),
			EndDate:   leave.EndDate.Format("2006-01-02"),
		})
	}

	weekday := int(date.Weekday())
	for _, workerID := range workerIDs {
		window, err := d.availability.GetForWeekday(ctx, workerID, weekday)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue // no declared window, nothing to warn about
			}
			return nil, err
		}
		if !window.IsAvailable {
			report.AvailabilityWarnings = append(report.AvailabilityWarnings, AvailabilityWarning{
				WorkerID: workerID,
				Weekday:  weekday,
				Reason:   "worker marked unavailable on this weekday",
			})
			continue
		}
		if outsideWindow(timeOfDay, window.StartTime, window.EndTime) {
			report.AvailabilityWarnings = append(report.AvailabilityWarnings, AvailabilityWarning{
				WorkerID: workerID,
				Weekday:  weekday,
				Reason:   "time falls outside declared working window",
			})
		}
	}

	return report, nil
}

func outsideWindow(timeOfDay, start, end string) bool {
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return false
	}
	from, err := time.Parse("15:04", start)
	if err != nil {
		return false
	}
	to, err := time.Parse("15:04", end)
	if err != nil {
		return false
	}
	return t.Before(from) || !t.Before(to)
}
