package store

import (
	"context"
	"errors"
	"time"

	"cleanpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormUsers struct {
	db *gorm.DB
}

func (s *gormUsers) Create(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *gormUsers) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *gormUsers) GetByIdentifier(ctx context.Context, emailOrPhone string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR phone = ?", emailOrPhone, emailOrPhone).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *gormUsers) Update(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *gormUsers) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormUsers) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	var out []models.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

type gormTimeOff struct {
	db *gorm.DB
}

func (s *gormTimeOff) Create(ctx context.Context, t *models.TimeOffRequest) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *gormTimeOff) Get(ctx context.Context, id uuid.UUID) (*models.TimeOffRequest, error) {
	var t models.TimeOffRequest
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *gormTimeOff) Update(ctx context.Context, t *models.TimeOffRequest) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *gormTimeOff) FindByWorker(ctx context.Context, workerID uuid.UUID) ([]models.TimeOffRequest, error) {
	var out []models.TimeOffRequest
	err := s.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("start_date DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormTimeOff) FindApprovedCovering(ctx context.Context, workerIDs []uuid.UUID, date time.Time) ([]models.TimeOffRequest, error) {
	if len(workerIDs) == 0 {
		return nil, nil
	}
	var out []models.TimeOffRequest
	err := s.db.WithContext(ctx).
		Where("worker_id IN ? AND status = ? AND start_date <= ? AND end_date >= ?",
			workerIDs, models.TimeOffApproved, date, date).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

type gormAvailability struct {
	db *gorm.DB
}

func (s *gormAvailability) Upsert(ctx context.Context, a *models.WorkerAvailability) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "worker_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "is_available"}),
		}).
		Create(a).Error
}

func (s *gormAvailability) FindByWorker(ctx context.Context, workerID uuid.UUID) ([]models.WorkerAvailability, error) {
	var out []models.WorkerAvailability
	err := s.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("weekday ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormAvailability) GetForWeekday(ctx context.Context, workerID uuid.UUID, weekday int) (*models.WorkerAvailability, error) {
	var a models.WorkerAvailability
	err := s.db.WithContext(ctx).
		Where("worker_id = ? AND weekday = ?", workerID, weekday).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
