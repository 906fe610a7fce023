package services

import (
	"context"
	"testing"
	"time"

	"cleanpro-backend/models"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpander(stores *store.Stores, now time.Time) *RecurrenceExpander {
	detector := NewConflictDetector(stores.Appointments, stores.TimeOff, stores.Availability)
	expander := NewRecurrenceExpander(stores.Appointments, stores.Assignments, detector)
	expander.now = func() time.Time { return now }
	return expander
}

func weeklyAnchor(appts *memAppointments, day time.Time, worker uuid.UUID) *models.Appointment {
	anchor := &models.Appointment{
		ClientID:         uuid.New(),
		ScheduledDate:    day,
		ScheduledTime:    "09:00",
		PrimaryWorkerID:  &worker,
		ServiceFrequency: models.FrequencyWeekly,
		FinalPrice:       ptrF(120),
		Status:           models.StatusConfirmed,
	}
	if err := appts.Create(context.Background(), anchor); err != nil {
		panic(err)
	}
	return anchor
}

func TestExpandWeeklySeries(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	anchorDay := date(2024, 1, 1)
	expander := newTestExpander(stores, anchorDay)

	worker := uuid.New()
	anchor := weeklyAnchor(appts, anchorDay, worker)

	created, err := expander.Expand(context.Background(), anchor, 21)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	require.NotNil(t, anchor.RecurrenceID, "anchor is stamped with a series id")

	series, err := appts.FindSeriesFrom(context.Background(), *anchor.RecurrenceID, anchorDay)
	require.NoError(t, err)
	require.Len(t, series, 4)

	for i, want := range []struct {
		day time.Time
		occ int
	}{
		{date(2024, 1, 1), 1},
		{date(2024, 1, 8), 2},
		{date(2024, 1, 15), 3},
		{date(2024, 1, 22), 4},
	} {
		assert.True(t, utils.SameDay(series[i].ScheduledDate, want.day),
			"occurrence %d on wrong date: %s", i, series[i].ScheduledDate)
		assert.Equal(t, want.occ, series[i].OccurrenceNumber)
		assert.Equal(t, models.FrequencyWeekly, series[i].ServiceFrequency)
	}

	// Clones carry the commercial fields but start over as PENDING.
	assert.Equal(t, models.StatusPending, series[1].Status)
	assert.Equal(t, 120.0, *series[1].FinalPrice)
	assert.Equal(t, worker, *series[1].PrimaryWorkerID)
}

func TestExpandIsIdempotent(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	anchorDay := date(2024, 1, 1)
	expander := newTestExpander(stores, anchorDay)
	anchor := weeklyAnchor(appts, anchorDay, uuid.New())

	first, err := expander.Expand(context.Background(), anchor, 21)
	require.NoError(t, err)
	require.Equal(t, 3, first)

	second, err := expander.Expand(context.Background(), anchor, 21)
	require.NoError(t, err)
	assert.Zero(t, second, "a re-run must only fill gaps")
}

func TestExpandSkipsConflictingDatesAndContinues(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	anchorDay := date(2024, 1, 1)
	expander := newTestExpander(stores, anchorDay)

	worker := uuid.New()
	anchor := weeklyAnchor(appts, anchorDay, worker)

	// Approved leave covering only the first candidate date.
	require.NoError(t, stores.TimeOff.Create(context.Background(), &models.TimeOffRequest{
		WorkerID:  worker,
		StartDate: date(2024, 1, 8),
		EndDate:   date(2024, 1, 8),
		Status:    models.TimeOffApproved,
	}))

	created, err := expander.Expand(context.Background(), anchor, 21)
	require.NoError(t, err)
	assert.Equal(t, 2, created, "the blocked date is skipped, later ones still materialize")

	exists, err := appts.ExistsOccurrence(context.Background(), *anchor.RecurrenceID, date(2024, 1, 8))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExpandFrequencyDeltas(t *testing.T) {
	for _, tc := range []struct {
		frequency string
		wantDates []time.Time
	}{
		{models.FrequencyBiweekly, []time.Time{date(2024, 1, 15), date(2024, 1, 29)}},
		{models.FrequencyMonthly, []time.Time{date(2024, 1, 31)}},
	} {
		t.Run(tc.frequency, func(t *testing.T) {
			stores, appts, _, _ := newTestStores()
			anchorDay := date(2024, 1, 1)
			expander := newTestExpander(stores, anchorDay)

			anchor := &models.Appointment{
				ClientID:         uuid.New(),
				ScheduledDate:    anchorDay,
				ScheduledTime:    "09:00",
				ServiceFrequency: tc.frequency,
				Status:           models.StatusConfirmed,
			}
			require.NoError(t, appts.Create(context.Background(), anchor))

			created, err := expander.Expand(context.Background(), anchor, 30)
			require.NoError(t, err)
			require.Equal(t, len(tc.wantDates), created)

			series, err := appts.FindSeriesFrom(context.Background(), *anchor.RecurrenceID, anchorDay.AddDate(0, 0, 1))
			require.NoError(t, err)
			require.Len(t, series, len(tc.wantDates))
			for i, want := range tc.wantDates {
				assert.True(t, utils.SameDay(series[i].ScheduledDate, want),
					"occurrence %d: got %s", i, series[i].ScheduledDate)
			}
		})
	}
}

func TestExpandOneTimeAndCancelledDoNothing(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	expander := newTestExpander(stores, date(2024, 1, 1))

	oneTime := &models.Appointment{
		ClientID:         uuid.New(),
		ScheduledDate:    date(2024, 1, 1),
		ScheduledTime:    "09:00",
		ServiceFrequency: models.FrequencyOneTime,
	}
	require.NoError(t, appts.Create(context.Background(), oneTime))

	created, err := expander.Expand(context.Background(), oneTime, 30)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Nil(t, oneTime.RecurrenceID)

	cancelled := &models.Appointment{
		ClientID:         uuid.New(),
		ScheduledDate:    date(2024, 1, 1),
		ScheduledTime:    "09:00",
		ServiceFrequency: models.FrequencyWeekly,
		Status:           models.StatusCancelled,
	}
	require.NoError(t, appts.Create(context.Background(), cancelled))

	created, err = expander.Expand(context.Background(), cancelled, 30)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestExpandAllSweepsEveryActiveSeries(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	anchorDay := date(2024, 1, 1)
	expander := newTestExpander(stores, anchorDay)

	weeklyAnchor(appts, anchorDay, uuid.New())
	weeklyAnchor(appts, anchorDay, uuid.New())

	// Seed the series ids via individual expansion with a zero horizon.
	anchors, err := appts.Find(context.Background(), store.AppointmentFilter{})
	require.NoError(t, err)
	for i := range anchors {
		_, err := expander.Expand(context.Background(), &anchors[i], 0)
		require.NoError(t, err)
	}

	total, err := expander.ExpandAll(context.Background(), 14)
	require.NoError(t, err)
	assert.Equal(t, 4, total, "two series, two occurrences each")
}

func TestExpandAllHonorsContextCancellation(t *testing.T) {
	stores, appts, _, _ := newTestStores()
	anchorDay := date(2024, 1, 1)
	expander := newTestExpander(stores, anchorDay)
	anchor := weeklyAnchor(appts, anchorDay, uuid.New())
	_, err := expander.Expand(context.Background(), anchor, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = expander.ExpandAll(ctx, 21)
	assert.ErrorIs(t, err, context.Canceled)
}
