package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service frequencies for an appointment series.
const (
	FrequencyOneTime  = "ONE_TIME"
	FrequencyWeekly   = "WEEKLY"
	FrequencyBiweekly = "BIWEEKLY"
	FrequencyMonthly  = "MONTHLY"
)

// Appointment statuses. CANCELLED is terminal; COMPLETED is also derived at
// read time for past-dated appointments (see DeriveDisplayStatus).
const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	// Human-facing reference, e.g. CLN-20240101-X7K2P9.
	BookingReference string `gorm:"size:30;uniqueIndex" json:"bookingReference"`

	// Scheduling. ScheduledDate carries the calendar date only; the local
	// time-of-day lives in ScheduledTime ("15:04").
	ScheduledDate time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_recurrence_date,priority:2" json:"scheduledDate"`
	ScheduledTime string    `gorm:"size:10;not null" json:"scheduledTime"`
	DurationHours *float64  `json:"durationHours"`

	// Assignment
	PrimaryWorkerID *uuid.UUID `gorm:"type:uuid;index" json:"primaryWorkerId"`

	// Service parameters, kept on the row so occurrences can be cloned and
	// prices re-quoted without a separate intake record.
	ServiceType         string `gorm:"size:30;not null;default:'STANDARD'" json:"serviceType"`
	SquareFeet          int    `json:"squareFeet"`
	BasementSquareFeet  int    `json:"basementSquareFeet"`
	Bedrooms            int    `json:"bedrooms"`
	Bathrooms           int    `json:"bathrooms"`
	ExtraServices       JSONB  `gorm:"type:jsonb;default:'{}'" json:"extraServices"`
	Address             string `json:"address"`
	SpecialInstructions string `gorm:"type:text" json:"specialInstructions"`

	// Commercial
	FinalPrice             *float64 `gorm:"type:decimal(10,2)" json:"finalPrice"`
	PaymentMethod          string   `gorm:"size:30" json:"paymentMethod"`
	CancellationFeeApplied bool     `gorm:"default:false" json:"cancellationFeeApplied"`
	CancellationFeeAmount  *float64 `gorm:"type:decimal(10,2)" json:"cancellationFeeAmount"`

	// Recurrence. RecurrenceID groups a series; the unique index on
	// (recurrence_id, scheduled_date) is what makes expansion idempotent
	// under concurrent runs.
	RecurrenceID     *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_recurrence_date,priority:1" json:"recurrenceId"`
	ServiceFrequency string     `gorm:"size:20;not null;default:'ONE_TIME'" json:"serviceFrequency"`
	OccurrenceNumber int        `gorm:"default:1" json:"occurrenceNumber"`

	Status string `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	Workers []AppointmentWorker `gorm:"foreignKey:AppointmentID" json:"workers,omitempty"`

	gorm.Model `json:"-"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// AppointmentWorker is the assignment join row between an appointment and a
// worker. The full assigned set is these rows plus PrimaryWorkerID.
type AppointmentWorker struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_appointment_worker,priority:1" json:"appointmentId"`
	WorkerID      uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_appointment_worker,priority:2" json:"workerId"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (w *AppointmentWorker) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}

// WorkerIDs returns the full assigned worker set, primary included,
// deduplicated.
func (a *Appointment) WorkerIDs() []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	if a.PrimaryWorkerID != nil {
		seen[*a.PrimaryWorkerID] = true
		ids = append(ids, *a.PrimaryWorkerID)
	}
	for _, w := range a.Workers {
		if !seen[w.WorkerID] {
			seen[w.WorkerID] = true
			ids = append(ids, w.WorkerID)
		}
	}
	return ids
}

// DeriveDisplayStatus is the single place the "past appointments read as
// completed" rule lives. It never mutates the persisted status: a PENDING
// appointment dated yesterday displays as COMPLETED but stays PENDING in the
// store.
func DeriveDisplayStatus(a *Appointment, now time.Time) string {
	if a.Status == StatusCancelled {
		return StatusCancelled
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d := a.ScheduledDate
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return StatusCompleted
	}
	return a.Status
}

// FrequencyDayDelta maps a service frequency to its expansion step in days.
// MONTHLY uses a fixed 30-day step, not calendar months; conflict and
// idempotency checks depend on this exact delta, so it must not be "fixed"
// without migrating existing series.
func FrequencyDayDelta(frequency string) int {
	switch frequency {
	case FrequencyWeekly:
		return 7
	case FrequencyBiweekly:
		return 14
	case FrequencyMonthly:
		return 30
	default:
		return 0
	}
}
