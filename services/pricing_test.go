package services

import (
	"context"
	"testing"

	"cleanpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }
func ptrS(v string) *string   { return &v }

func standardRules() []models.PricingRule {
	return []models.PricingRule{
		{RuleType: models.RuleBasePrice, Name: "Base", PriceAmount: 50, TimeAmount: 1, IsActive: true, DisplayOrder: 1},
		{RuleType: models.RuleSqftRate, RatePerUnit: 0.05, TimePerUnit: 0.001, IsActive: true, DisplayOrder: 2},
		{RuleType: models.RuleBedroomRate, RatePerUnit: 10, TimePerUnit: 0.25, IsActive: true, DisplayOrder: 3},
		{RuleType: models.RuleBathroomRate, RatePerUnit: 15, TimePerUnit: 0.5, IsActive: true, DisplayOrder: 4},
		{RuleType: models.RuleExtraService, Name: "Inside Fridge", PriceAmount: 25, TimeAmount: 0.5, IsActive: true, DisplayOrder: 5},
	}
}

func TestQuoteStandardHouse(t *testing.T) {
	svc := NewPricingService(newMemPricingRules(standardRules()...))

	quote, err := svc.Quote(context.Background(), QuoteInput{
		ServiceType: "STANDARD",
		SquareFeet:  1200,
		Bedrooms:    3,
		Bathrooms:   2,
	})
	require.NoError(t, err)

	// 50 base + 1200*0.05 + 3*10 + 2*15
	assert.Equal(t, 170.0, quote.Price)
	assert.Len(t, quote.Breakdown, 4)

	// 1 + 1.2 + 0.75 + 1.0 = 3.95, rounded up to the next half hour
	assert.Equal(t, 4.0, quote.DurationHours)
}

func TestQuoteBasementCountsTowardSquareFootage(t *testing.T) {
	svc := NewPricingService(newMemPricingRules(
		models.PricingRule{RuleType: models.RuleSqftRate, RatePerUnit: 0.05, IsActive: true},
	))

	quote, err := svc.Quote(context.Background(), QuoteInput{
		SquareFeet:         1000,
		BasementSquareFeet: 400,
	})
	require.NoError(t, err)
	assert.Equal(t, 70.0, quote.Price)
}

func TestQuoteExtraServicesOnlyWhenSelected(t *testing.T) {
	svc := NewPricingService(newMemPricingRules(standardRules()...))

	without, err := svc.Quote(context.Background(), QuoteInput{ServiceType: "STANDARD"})
	require.NoError(t, err)

	with, err := svc.Quote(context.Background(), QuoteInput{
		ServiceType:   "STANDARD",
		ExtraServices: []string{"Inside Fridge"},
	})
	require.NoError(t, err)

	assert.Equal(t, without.Price+25, with.Price)
}

func TestQuoteClampsRuleContribution(t *testing.T) {
	svc := NewPricingService(newMemPricingRules(
		models.PricingRule{
			RuleType:      models.RuleSqftRate,
			RatePerUnit:   0.05,
			PriceRangeMin: ptrF(40),
			PriceRangeMax: ptrF(100),
			IsActive:      true,
		},
	))

	small, err := svc.Quote(context.Background(), QuoteInput{SquareFeet: 100})
	require.NoError(t, err)
	assert.Equal(t, 40.0, small.Price, "contribution should be raised to the floor")

	large, err := svc.Quote(context.Background(), QuoteInput{SquareFeet: 10000})
	require.NoError(t, err)
	assert.Equal(t, 100.0, large.Price, "contribution should be capped at the ceiling")
}

func TestQuoteServiceTypeScoping(t *testing.T) {
	svc := NewPricingService(newMemPricingRules(
		models.PricingRule{RuleType: models.RuleBasePrice, PriceAmount: 50, IsActive: true},
		models.PricingRule{RuleType: models.RuleBasePrice, PriceAmount: 80, ServiceType: ptrS("DEEP"), IsActive: true},
	))

	standard, err := svc.Quote(context.Background(), QuoteInput{ServiceType: "STANDARD"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, standard.Price)

	deep, err := svc.Quote(context.Background(), QuoteInput{ServiceType: "DEEP"})
	require.NoError(t, err)
	assert.Equal(t, 130.0, deep.Price, "unscoped and DEEP-scoped rules both apply")
}

func TestQuoteTimeEstimateFallback(t *testing.T) {
	svc := NewPricingService(newMemPricingRules(
		models.PricingRule{RuleType: models.RuleBasePrice, PriceAmount: 50, IsActive: true},
		models.PricingRule{RuleType: models.RuleTimeEstimate, TimeAmount: 2.25, IsActive: true},
	))

	quote, err := svc.Quote(context.Background(), QuoteInput{ServiceType: "STANDARD"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, quote.Price)
	assert.Equal(t, 2.5, quote.DurationHours, "fallback hours apply when no rule contributed time")
}

func TestQuoteIgnoresInactiveRules(t *testing.T) {
	svc := NewPricingService(newMemPricingRules(
		models.PricingRule{RuleType: models.RuleBasePrice, PriceAmount: 50, IsActive: true},
		models.PricingRule{RuleType: models.RuleBasePrice, PriceAmount: 999, IsActive: false},
	))

	quote, err := svc.Quote(context.Background(), QuoteInput{})
	require.NoError(t, err)
	assert.Equal(t, 50.0, quote.Price)
}
