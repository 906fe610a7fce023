// Package store holds the typed repositories the scheduling core reads and
// writes through. Every query the services need is an explicit method here;
// the gorm implementations live alongside and translate driver errors into
// the package sentinels.
package store

import (
	"context"
	"errors"
	"time"

	"cleanpro-backend/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateOccurrence is returned when an insert hits the
	// (recurrence_id, scheduled_date) unique index. The expander treats it
	// as "already materialized".
	ErrDuplicateOccurrence = errors.New("store: occurrence already exists")
)

// AppointmentFilter narrows Find. Nil fields are ignored.
type AppointmentFilter struct {
	ClientID     *uuid.UUID
	WorkerID     *uuid.UUID
	Status       *string
	DateFrom     *time.Time
	DateTo       *time.Time
	RecurrenceID *uuid.UUID
}

type AppointmentStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	Find(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	Create(ctx context.Context, a *models.Appointment) error
	Update(ctx context.Context, a *models.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByDateTime returns non-cancelled appointments on the given date
	// and time-of-day, excluding excludeID when set.
	FindByDateTime(ctx context.Context, date time.Time, timeOfDay string, excludeID *uuid.UUID) ([]models.Appointment, error)

	// FindSeriesFrom returns the occurrences of a series dated on or after
	// from, ordered by ascending scheduled date.
	FindSeriesFrom(ctx context.Context, recurrenceID uuid.UUID, from time.Time) ([]models.Appointment, error)

	// ExistsOccurrence reports whether (recurrenceID, date) is already
	// materialized.
	ExistsOccurrence(ctx context.Context, recurrenceID uuid.UUID, date time.Time) (bool, error)

	// ActiveSeriesAnchors returns, for every non-cancelled recurring
	// series, its latest occurrence (the sweep expands from these).
	ActiveSeriesAnchors(ctx context.Context) ([]models.Appointment, error)
}

type WorkerAssignmentStore interface {
	Find(ctx context.Context, appointmentID uuid.UUID) ([]models.AppointmentWorker, error)
	// Set replaces the assignment join rows for an appointment.
	Set(ctx context.Context, appointmentID uuid.UUID, workerIDs []uuid.UUID) error
}

type TimeOffStore interface {
	Create(ctx context.Context, t *models.TimeOffRequest) error
	Get(ctx context.Context, id uuid.UUID) (*models.TimeOffRequest, error)
	Update(ctx context.Context, t *models.TimeOffRequest) error
	FindByWorker(ctx context.Context, workerID uuid.UUID) ([]models.TimeOffRequest, error)
	// FindApprovedCovering returns approved requests for any of the given
	// workers whose inclusive window contains date.
	FindApprovedCovering(ctx context.Context, workerIDs []uuid.UUID, date time.Time) ([]models.TimeOffRequest, error)
}

type AvailabilityStore interface {
	Upsert(ctx context.Context, a *models.WorkerAvailability) error
	FindByWorker(ctx context.Context, workerID uuid.UUID) ([]models.WorkerAvailability, error)
	// GetForWeekday returns ErrNotFound when the worker has no declared
	// window for that weekday.
	GetForWeekday(ctx context.Context, workerID uuid.UUID, weekday int) (*models.WorkerAvailability, error)
}

type PricingRuleStore interface {
	Create(ctx context.Context, r *models.PricingRule) error
	Get(ctx context.Context, id uuid.UUID) (*models.PricingRule, error)
	Update(ctx context.Context, r *models.PricingRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	Find(ctx context.Context) ([]models.PricingRule, error)
	// ActiveOrdered returns active rules sorted by display order.
	ActiveOrdered(ctx context.Context) ([]models.PricingRule, error)
}

type PaymentRecordStore interface {
	Create(ctx context.Context, p *models.PaymentRecord) error
	Update(ctx context.Context, p *models.PaymentRecord) error
	// Latest returns the most recent record for the appointment, or
	// ErrNotFound when the ledger is empty.
	Latest(ctx context.Context, appointmentID uuid.UUID) (*models.PaymentRecord, error)
	ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]models.PaymentRecord, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIdentifier(ctx context.Context, emailOrPhone string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByRole(ctx context.Context, role string) ([]models.User, error)
}

type AuditStore interface {
	Create(ctx context.Context, a *models.OverrideAudit) error
	ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]models.OverrideAudit, error)
}

// Stores bundles every repository for constructor injection.
type Stores struct {
	Appointments AppointmentStore
	Assignments  WorkerAssignmentStore
	TimeOff      TimeOffStore
	Availability AvailabilityStore
	PricingRules PricingRuleStore
	Payments     PaymentRecordStore
	Users        UserStore
	Audits       AuditStore
}
