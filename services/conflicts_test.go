package services

import (
	"context"
	"testing"
	"time"

	"cleanpro-backend/models"
	"cleanpro-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckDetectsDoubleBooking(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	detector := NewConflictDetector(stores.Appointments, stores.TimeOff, stores.Availability)

	worker := uuid.New()
	day := date(2024, 3, 4)
	existing := &models.Appointment{
		ClientID:        uuid.New(),
		ScheduledDate:   day,
		ScheduledTime:   "10:00",
		PrimaryWorkerID: &worker,
		Status:          models.StatusConfirmed,
	}
	require.NoError(t, appts.Create(context.Background(), existing))

	report, err := detector.Check(context.Background(), day, "10:00", []uuid.UUID{worker}, nil)
	require.NoError(t, err)
	require.True(t, report.HasBlocking())
	require.Len(t, report.BookingConflicts, 1)
	assert.Equal(t, existing.ID, report.BookingConflicts[0].AppointmentID)
	assert.Equal(t, []uuid.UUID{worker}, report.BookingConflicts[0].WorkerIDs)
}

func TestCheckDifferentTimeIsNotAConflict(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	detector := NewConflictDetector(stores.Appointments, stores.TimeOff, stores.Availability)

	worker := uuid.New()
	day := date(2024, 3, 4)
	require.NoError(t, appts.Create(context.Background(), &models.Appointment{
		ClientID:        uuid.New(),
		ScheduledDate:   day,
		ScheduledTime:   "10:00",
		PrimaryWorkerID: &worker,
	}))

	report, err := detector.Check(context.Background(), day, "14:00", []uuid.UUID{worker}, nil)
	require.NoError(t, err)
	assert.False(t, report.HasBlocking())
}

func TestCheckExcludesTheEditedAppointment(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	detector := NewConflictDetector(stores.Appointments, stores.TimeOff, stores.Availability)

	worker := uuid.New()
	day := date(2024, 3, 4)
	edited := &models.Appointment{
		ClientID:        uuid.New(),
		ScheduledDate:   day,
		ScheduledTime:   "10:00",
		PrimaryWorkerID: &worker,
	}
	require.NoError(t, appts.Create(context.Background(), edited))

	report, err := detector.Check(context.Background(), day, "10:00", []uuid.UUID{worker}, &edited.ID)
	require.NoError(t, err)
	assert.False(t, report.HasBlocking(), "an appointment must not conflict with itself")
}

func TestCheckDetectsApprovedLeave(t *testing.T) {
	stores, _, _, _ := newTestStores()
	detector := NewConflictDetector(stores.Appointments, stores.TimeOff, stores.Availability)

	worker := uuid.New()
	require.NoError(t, stores.TimeOff.Create(context.Background(), &models.TimeOffRequest{
		WorkerID:  worker,
		StartDate: date(2024, 3, 1),
		EndDate:   date(2024, 3, 10),
		Status:    models.TimeOffApproved,
	}))
	// A pending request for the same window must not block.
	require.NoError(t, stores.TimeOff.Create(context.Background(), &models.TimeOffRequest{
		WorkerID:  worker,
		StartDate: date(2024, 3, 15),
		EndDate:   date(2024, 3, 20),
		Status:    models.TimeOffPending,
	}))

	inside, err := detector.Check(context.Background(), date(2024, 3, 10), "09:00", []uuid.UUID{worker}, nil)
	require.NoError(t, err)
	require.Len(t, inside.LeaveConflicts, 1, "end date is inclusive")
	assert.True(t, inside.HasBlocking())

	pendingWindow, err := detector.Check(context.Background(), date(2024, 3, 16), "09:00", []uuid.UUID{worker}, nil)
	require.NoError(t, err)
	assert.False(t, pendingWindow.HasBlocking())
}

func TestCheckAvailabilityWarningsAreSoft(t *testing.T) {
	stores, _, _, _ := newTestStores()
	detector := NewConflictDetector(stores.Appointments, stores.TimeOff, stores.Availability)

	worker := uuid.New()
	day := date(2024, 3, 4) // a Monday
	require.NoError(t, stores.Availability.Upsert(context.Background(), &models.WorkerAvailability{
		WorkerID:    worker,
		Weekday:     int(day.Weekday()),
		StartTime:   "09:00",
		EndTime:     "17:00",
		IsAvailable: true,
	}))

	report, err := detector.Check(context.Background(), day, "18:00", []uuid.UUID{worker}, nil)
	require.NoError(t, err)
	require.Len(t, report.AvailabilityWarnings, 1)
	assert.False(t, report.HasBlocking(), "availability is advisory, never blocking")

	inWindow, err := detector.Check(context.Background(), day, "10:00", []uuid.UUID{worker}, nil)
	require.NoError(t, err)
	assert.Empty(t, inWindow.AvailabilityWarnings)
}

func TestCheckNoDeclaredWindowMeansNoWarning(t *testing.T) {
	stores, _, _, _ := newTestStores()
	detector := NewConflictDetector(stores.Appointments, stores.TimeOff, stores.Availability)

	report, err := detector.Check(context.Background(), date(2024, 3, 4), "10:00", []uuid.UUID{uuid.New()}, nil)
	require.NoError(t, err)
	assert.Empty(t, report.AvailabilityWarnings)
	assert.False(t, report.HasBlocking())
}

func TestCheckCancelledAppointmentsDoNotBlock(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	detector := NewConflictDetector(stores.Appointments, stores.TimeOff, stores.Availability)

	worker := uuid.New()
	day := utils.BeginningOfDay(date(2024, 3, 4))
	require.NoError(t, appts.Create(context.Background(), &models.Appointment{
		ClientID:        uuid.New(),
		ScheduledDate:   day,
		ScheduledTime:   "10:00",
		PrimaryWorkerID: &worker,
		Status:          models.StatusCancelled,
	}))

	report, err := detector.Check(context.Background(), day, "10:00", []uuid.UUID{worker}, nil)
	require.NoError(t, err)
	assert.False(t, report.HasBlocking())
}
