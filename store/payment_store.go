package store

import (
	"context"
	"errors"

	"cleanpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormPayments struct {
	db *gorm.DB
}

func (s *gormPayments) Create(ctx context.Context, p *models.PaymentRecord) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *gormPayments) Update(ctx context.Context, p *models.PaymentRecord) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *gormPayments) Latest(ctx context.Context, appointmentID uuid.UUID) (*models.PaymentRecord, error) {
	var p models.PaymentRecord
	err := s.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *gormPayments) ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]models.PaymentRecord, error) {
	var out []models.PaymentRecord
	err := s.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

type gormAudits struct {
	db *gorm.DB
}

func (s *gormAudits) Create(ctx context.Context, a *models.OverrideAudit) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *gormAudits) ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]models.OverrideAudit, error) {
	var out []models.OverrideAudit
	err := s.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
