package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDeriveDisplayStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	past := &Appointment{ScheduledDate: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), Status: StatusPending}
	assert.Equal(t, StatusCompleted, DeriveDisplayStatus(past, now))

	today := &Appointment{ScheduledDate: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), Status: StatusConfirmed}
	assert.Equal(t, StatusConfirmed, DeriveDisplayStatus(today, now))

	future := &Appointment{ScheduledDate: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), Status: StatusPending}
	assert.Equal(t, StatusPending, DeriveDisplayStatus(future, now))

	// Cancellation is terminal even for past dates.
	cancelled := &Appointment{ScheduledDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Status: StatusCancelled}
	assert.Equal(t, StatusCancelled, DeriveDisplayStatus(cancelled, now))
}

func TestFrequencyDayDelta(t *testing.T) {
	assert.Equal(t, 7, FrequencyDayDelta(FrequencyWeekly))
	assert.Equal(t, 14, FrequencyDayDelta(FrequencyBiweekly))
	assert.Equal(t, 30, FrequencyDayDelta(FrequencyMonthly))
	assert.Equal(t, 0, FrequencyDayDelta(FrequencyOneTime))
	assert.Equal(t, 0, FrequencyDayDelta("SOMETHING_ELSE"))
}

func TestWorkerIDsDeduplicatesPrimary(t *testing.T) {
	primary := uuid.New()
	other := uuid.New()
	appt := &Appointment{
		PrimaryWorkerID: &primary,
		Workers: []AppointmentWorker{
			{WorkerID: primary},
			{WorkerID: other},
		},
	}
	assert.Equal(t, []uuid.UUID{primary, other}, appt.WorkerIDs())
}
