package store

import (
	"context"
	"errors"
	"time"

	"cleanpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormAppointments struct {
	db *gorm.DB
}

func (s *gormAppointments) Get(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var a models.Appointment
	err := s.db.WithContext(ctx).Preload("Workers").First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *gormAppointments) Find(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := s.db.WithContext(ctx).Preload("Workers").Model(&models.Appointment{})

	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("scheduled_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("scheduled_date <= ?", *f.DateTo)
	}
	if f.RecurrenceID != nil {
		q = q.Where("recurrence_id = ?", *f.RecurrenceID)
	}
	if f.WorkerID != nil {
		q = q.Where(
			"primary_worker_id = ? OR id IN (SELECT appointment_id FROM appointment_workers WHERE worker_id = ?)",
			*f.WorkerID, *f.WorkerID,
		)
	}

	var out []models.Appointment
	if err := q.Order("scheduled_date ASC, scheduled_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormAppointments) Create(ctx context.Context, a *models.Appointment) error {
	err := s.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOccurrence
	}
	return err
}

func (s *gormAppointments) Update(ctx context.Context, a *models.Appointment) error {
	err := s.db.WithContext(ctx).Omit("Workers").Save(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOccurrence
	}
	return err
}

func (s *gormAppointments) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormAppointments) FindByDateTime(ctx context.Context, date time.Time, timeOfDay string, excludeID *uuid.UUID) ([]models.Appointment, error) {
	q := s.db.WithContext(ctx).Preload("Workers").
		Where("scheduled_date = ? AND scheduled_time = ? AND status <> ?", date, timeOfDay, models.StatusCancelled)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var out []models.Appointment
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormAppointments) FindSeriesFrom(ctx context.Context, recurrenceID uuid.UUID, from time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	err := s.db.WithContext(ctx).Preload("Workers").
		Where("recurrence_id = ? AND scheduled_date >= ?", recurrenceID, from).
		Order("scheduled_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormAppointments) ExistsOccurrence(ctx context.Context, recurrenceID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("recurrence_id = ? AND scheduled_date = ?", recurrenceID, date).
		Count(&count).Error
	return count > 0, err
}

func (s *gormAppointments) ActiveSeriesAnchors(ctx context.Context) ([]models.Appointment, error) {
	// Latest occurrence per series; the sweep expands forward from these.
	var out []models.Appointment
	err := s.db.WithContext(ctx).Raw(`
		SELECT * FROM appointments a
		WHERE a.recurrence_id IS NOT NULL
		  AND a.service_frequency <> ?
		  AND a.status <> ?
		  AND a.deleted_at IS NULL
		  AND a.scheduled_date = (
		      SELECT MAX(b.scheduled_date) FROM appointments b
		      WHERE b.recurrence_id = a.recurrence_id
		        AND b.status <> ?
		        AND b.deleted_at IS NULL
		  )
	`, models.FrequencyOneTime, models.StatusCancelled, models.StatusCancelled).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	// Raw scan skips preloads; fetch assignments per anchor.
	for i := range out {
		var workers []models.AppointmentWorker
		if err := s.db.WithContext(ctx).Where("appointment_id = ?", out[i].ID).Find(&workers).Error; err != nil {
			return nil, err
		}
		out[i].Workers = workers
	}
	return out, nil
}

type gormAssignments struct {
	db *gorm.DB
}

func (s *gormAssignments) Find(ctx context.Context, appointmentID uuid.UUID) ([]models.AppointmentWorker, error) {
	var out []models.AppointmentWorker
	err := s.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormAssignments) Set(ctx context.Context, appointmentID uuid.UUID, workerIDs []uuid.UUID) error {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("appointment_id = ?", appointmentID).Delete(&models.AppointmentWorker{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	for _, workerID := range workerIDs {
		row := models.AppointmentWorker{AppointmentID: appointmentID, WorkerID: workerID}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}
