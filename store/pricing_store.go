package store

import (
	"context"
	"errors"

	"cleanpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormPricingRules struct {
	db *gorm.DB
}

func (s *gormPricingRules) Create(ctx context.Context, r *models.PricingRule) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *gormPricingRules) Get(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	var r models.PricingRule
	err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *gormPricingRules) Update(ctx context.Context, r *models.PricingRule) error {
	return s.db.WithContext(ctx).Save(r).Error
}

func (s *gormPricingRules) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.PricingRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormPricingRules) Find(ctx context.Context) ([]models.PricingRule, error) {
	var out []models.PricingRule
	err := s.db.WithContext(ctx).Order("display_order ASC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormPricingRules) ActiveOrdered(ctx context.Context) ([]models.PricingRule, error) {
	var out []models.PricingRule
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
