package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"cleanpro-backend/models"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/google/uuid"
)

// In-memory store implementations so the services can be exercised without a
// database. They mirror the gorm stores' contracts, sentinels included.

type memAppointments struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Appointment
}

func newMemAppointments() *memAppointments {
	return &memAppointments{rows: make(map[uuid.UUID]models.Appointment)}
}

func (m *memAppointments) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := row
	return &out, nil
}

func (m *memAppointments) Find(ctx context.Context, f store.AppointmentFilter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, row := range m.rows {
		if f.ClientID != nil && row.ClientID != *f.ClientID {
			continue
		}
		if f.Status != nil && row.Status != *f.Status {
			continue
		}
		if f.RecurrenceID != nil && (row.RecurrenceID == nil || *row.RecurrenceID != *f.RecurrenceID) {
			continue
		}
		if f.DateFrom != nil && utils.BeginningOfDay(row.ScheduledDate).Before(utils.BeginningOfDay(*f.DateFrom)) {
			continue
		}
		if f.DateTo != nil && utils.BeginningOfDay(row.ScheduledDate).After(utils.BeginningOfDay(*f.DateTo)) {
			continue
		}
		if f.WorkerID != nil {
			assigned := false
			for _, id := range row.WorkerIDs() {
				if id == *f.WorkerID {
					assigned = true
					break
				}
			}
			if !assigned {
				continue
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledDate.Before(out[j].ScheduledDate)
	})
	return out, nil
}

func (m *memAppointments) Create(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.RecurrenceID != nil {
		for _, row := range m.rows {
			if row.RecurrenceID != nil && *row.RecurrenceID == *a.RecurrenceID &&
				utils.SameDay(row.ScheduledDate, a.ScheduledDate) {
				return store.ErrDuplicateOccurrence
			}
		}
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memAppointments) Update(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[a.ID]; !ok {
		return store.ErrNotFound
	}
	if a.RecurrenceID != nil {
		for id, row := range m.rows {
			if id == a.ID {
				continue
			}
			if row.RecurrenceID != nil && *row.RecurrenceID == *a.RecurrenceID &&
				utils.SameDay(row.ScheduledDate, a.ScheduledDate) {
				return store.ErrDuplicateOccurrence
			}
		}
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memAppointments) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memAppointments) FindByDateTime(ctx context.Context, date time.Time, timeOfDay string, excludeID *uuid.UUID) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, row := range m.rows {
		if excludeID != nil && row.ID == *excludeID {
			continue
		}
		if row.Status == models.StatusCancelled {
			continue
		}
		if utils.SameDay(row.ScheduledDate, date) && row.ScheduledTime == timeOfDay {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memAppointments) FindSeriesFrom(ctx context.Context, recurrenceID uuid.UUID, from time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, row := range m.rows {
		if row.RecurrenceID == nil || *row.RecurrenceID != recurrenceID {
			continue
		}
		if utils.BeginningOfDay(row.ScheduledDate).Before(utils.BeginningOfDay(from)) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledDate.Before(out[j].ScheduledDate)
	})
	return out, nil
}

func (m *memAppointments) ExistsOccurrence(ctx context.Context, recurrenceID uuid.UUID, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.RecurrenceID != nil && *row.RecurrenceID == recurrenceID &&
			utils.SameDay(row.ScheduledDate, date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAppointments) ActiveSeriesAnchors(ctx context.Context) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	latest := map[uuid.UUID]models.Appointment{}
	for _, row := range m.rows {
		if row.RecurrenceID == nil || row.Status == models.StatusCancelled {
			continue
		}
		cur, ok := latest[*row.RecurrenceID]
		if !ok || row.ScheduledDate.After(cur.ScheduledDate) {
			latest[*row.RecurrenceID] = row
		}
	}
	var out []models.Appointment
	for _, row := range latest {
		out = append(out, row)
	}
	return out, nil
}

type memAssignments struct {
	mu   sync.Mutex
	rows map[uuid.UUID][]uuid.UUID
}

func newMemAssignments() *memAssignments {
	return &memAssignments{rows: make(map[uuid.UUID][]uuid.UUID)}
}

func (m *memAssignments) Find(ctx context.Context, appointmentID uuid.UUID) ([]models.AppointmentWorker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AppointmentWorker
	for _, workerID := range m.rows[appointmentID] {
		out = append(out, models.AppointmentWorker{AppointmentID: appointmentID, WorkerID: workerID})
	}
	return out, nil
}

func (m *memAssignments) Set(ctx context.Context, appointmentID uuid.UUID, workerIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[appointmentID] = append([]uuid.UUID(nil), workerIDs...)
	return nil
}

type memTimeOff struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.TimeOffRequest
}

func newMemTimeOff() *memTimeOff {
	return &memTimeOff{rows: make(map[uuid.UUID]models.TimeOffRequest)}
}

func (m *memTimeOff) Create(ctx context.Context, t *models.TimeOffRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.rows[t.ID] = *t
	return nil
}

func (m *memTimeOff) Get(ctx context.Context, id uuid.UUID) (*models.TimeOffRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := row
	return &out, nil
}

func (m *memTimeOff) Update(ctx context.Context, t *models.TimeOffRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[t.ID]; !ok {
		return store.ErrNotFound
	}
	m.rows[t.ID] = *t
	return nil
}

func (m *memTimeOff) FindByWorker(ctx context.Context, workerID uuid.UUID) ([]models.TimeOffRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TimeOffRequest
	for _, row := range m.rows {
		if row.WorkerID == workerID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memTimeOff) FindApprovedCovering(ctx context.Context, workerIDs []uuid.UUID, date time.Time) ([]models.TimeOffRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[uuid.UUID]bool{}
	for _, id := range workerIDs {
		wanted[id] = true
	}
	var out []models.TimeOffRequest
	for _, row := range m.rows {
		if row.Status != models.TimeOffApproved || !wanted[row.WorkerID] {
			continue
		}
		if row.Covers(date) {
			out = append(out, row)
		}
	}
	return out, nil
}

type memAvailability struct {
	mu   sync.Mutex
	rows map[uuid.UUID]map[int]models.WorkerAvailability
}

func newMemAvailability() *memAvailability {
	return &memAvailability{rows: make(map[uuid.UUID]map[int]models.WorkerAvailability)}
}

func (m *memAvailability) Upsert(ctx context.Context, a *models.WorkerAvailability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if m.rows[a.WorkerID] == nil {
		m.rows[a.WorkerID] = make(map[int]models.WorkerAvailability)
	}
	m.rows[a.WorkerID][a.Weekday] = *a
	return nil
}

func (m *memAvailability) FindByWorker(ctx context.Context, workerID uuid.UUID) ([]models.WorkerAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WorkerAvailability
	for _, row := range m.rows[workerID] {
		out = append(out, row)
	}
	return out, nil
}

func (m *memAvailability) GetForWeekday(ctx context.Context, workerID uuid.UUID, weekday int) (*models.WorkerAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[workerID][weekday]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := row
	return &out, nil
}

type memPricingRules struct {
	mu   sync.Mutex
	rows []models.PricingRule
}

func newMemPricingRules(rules ...models.PricingRule) *memPricingRules {
	m := &memPricingRules{}
	for i := range rules {
		if rules[i].ID == uuid.Nil {
			rules[i].ID = uuid.New()
		}
		m.rows = append(m.rows, rules[i])
	}
	return m
}

func (m *memPricingRules) Create(ctx context.Context, r *models.PricingRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memPricingRules) Get(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			out := m.rows[i]
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memPricingRules) Update(ctx context.Context, r *models.PricingRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == r.ID {
			m.rows[i] = *r
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memPricingRules) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memPricingRules) Find(ctx context.Context) ([]models.PricingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.PricingRule(nil), m.rows...), nil
}

func (m *memPricingRules) ActiveOrdered(ctx context.Context) ([]models.PricingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PricingRule
	for _, row := range m.rows {
		if row.IsActive {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

type memPayments struct {
	mu   sync.Mutex
	seq  int
	rows []models.PaymentRecord
}

func newMemPayments() *memPayments {
	return &memPayments{}
}

func (m *memPayments) Create(ctx context.Context, p *models.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.seq++
	// Strictly increasing timestamps so Latest is deterministic.
	p.CreatedAt = time.Unix(int64(m.seq), 0)
	m.rows = append(m.rows, *p)
	return nil
}

func (m *memPayments) Update(ctx context.Context, p *models.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == p.ID {
			created := m.rows[i].CreatedAt
			m.rows[i] = *p
			m.rows[i].CreatedAt = created
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memPayments) Latest(ctx context.Context, appointmentID uuid.UUID) (*models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.PaymentRecord
	for i := range m.rows {
		if m.rows[i].AppointmentID != appointmentID {
			continue
		}
		if latest == nil || m.rows[i].CreatedAt.After(latest.CreatedAt) {
			latest = &m.rows[i]
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (m *memPayments) ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PaymentRecord
	for _, row := range m.rows {
		if row.AppointmentID == appointmentID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type memUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.User
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{rows: make(map[uuid.UUID]models.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		m.rows[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := row
	return &out, nil
}

func (m *memUsers) GetByIdentifier(ctx context.Context, emailOrPhone string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Email == emailOrPhone || row.Phone == emailOrPhone {
			out := row
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) Update(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[u.ID]; !ok {
		return store.ErrNotFound
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memUsers) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, row := range m.rows {
		if row.Role == role {
			out = append(out, row)
		}
	}
	return out, nil
}

type memAudits struct {
	mu   sync.Mutex
	rows []models.OverrideAudit
}

func newMemAudits() *memAudits {
	return &memAudits{}
}

func (m *memAudits) Create(ctx context.Context, a *models.OverrideAudit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.rows = append(m.rows, *a)
	return nil
}

func (m *memAudits) ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]models.OverrideAudit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OverrideAudit
	for _, row := range m.rows {
		if row.AppointmentID == appointmentID {
			out = append(out, row)
		}
	}
	return out, nil
}

// noopNotifier records calls without sending anything.
type noopNotifier struct {
	scheduled int
	cancelled int
	lastFee   float64
}

func (n *noopNotifier) AppointmentScheduled(ctx context.Context, appt *models.Appointment) error {
	n.scheduled++
	return nil
}

func (n *noopNotifier) AppointmentCancelled(ctx context.Context, appt *models.Appointment, fee float64) error {
	n.cancelled++
	n.lastFee = fee
	return nil
}

func newTestStores() (*store.Stores, *memAppointments, *memPayments, *memAudits) {
	appts := newMemAppointments()
	payments := newMemPayments()
	audits := newMemAudits()
	return &store.Stores{
		Appointments: appts,
		Assignments:  newMemAssignments(),
		TimeOff:      newMemTimeOff(),
		Availability: newMemAvailability(),
		PricingRules: newMemPricingRules(),
		Payments:     payments,
		Users:        newMemUsers(),
		Audits:       audits,
	}, appts, payments, audits
}
