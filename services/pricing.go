package services

import (
	"context"
	"math"

	"cleanpro-backend/models"
	"cleanpro-backend/store"
)

// QuoteInput carries the service parameters a price is derived from.
type QuoteInput struct {
	ServiceType        string   `json:"serviceType"`
	SquareFeet         int      `json:"squareFeet"`
	BasementSquareFeet int      `json:"basementSquareFeet"`
	Bedrooms           int      `json:"bedrooms"`
	Bathrooms          int      `json:"bathrooms"`
	ExtraServices      []string `json:"extraServices"`
}

// QuoteLine is one rule's contribution to the quote.
type QuoteLine struct {
	RuleType string  `json:"ruleType"`
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Hours    float64 `json:"hours"`
}

type Quote struct {
	Price         float64     `json:"price"`
	DurationHours float64     `json:"durationHours"`
	Breakdown     []QuoteLine `json:"breakdown"`
}

// PricingService computes a price and estimated duration from the ordered
// active pricing rules. Pure derivation: no writes, and a rule that does not
// apply simply contributes zero.
type PricingService struct {
	rules store.PricingRuleStore
}

func NewPricingService(rules store.PricingRuleStore) *PricingService {
	return &PricingService{rules: rules}
}

func (s *PricingService) Quote(ctx context.Context, in QuoteInput) (*Quote, error) {
	rules, err := s.rules.ActiveOrdered(ctx)
	if err != nil {
		return nil, err
	}

	selected := map[string]bool{}
	for _, extra := range in.ExtraServices {
		selected[extra] = true
	}

	quote := &Quote{}
	var totalPrice, totalHours, fallbackHours float64

	for i := range rules {
		rule := &rules[i]
		if !rule.AppliesTo(in.ServiceType) {
			continue
		}

		var amount, hours float64
		switch rule.RuleType {
		case models.RuleBasePrice:
			amount = rule.PriceAmount
			hours = rule.TimeAmount
		case models.RuleSqftRate:
			units := float64(in.SquareFeet + in.BasementSquareFeet)
			amount = units * rule.RatePerUnit
			hours = units * rule.TimePerUnit
		case models.RuleBedroomRate:
			units := float64(in.Bedrooms)
			amount = units * rule.RatePerUnit
			hours = units * rule.TimePerUnit
		case models.RuleBathroomRate:
			units := float64(in.Bathrooms)
			amount = units * rule.RatePerUnit
			hours = units * rule.TimePerUnit
		case models.RuleExtraService:
			if !selected[rule.Name] {
				continue
			}
			amount = rule.PriceAmount
			hours = rule.TimeAmount
		case models.RuleTimeEstimate:
			// Fallback duration, used only when no other rule
			// contributed time.
			if rule.TimeAmount > fallbackHours {
				fallbackHours = rule.TimeAmount
			}
			continue
		default:
			continue
		}

		amount = clampContribution(amount, rule.PriceRangeMin, rule.PriceRangeMax)

		if amount == 0 && hours == 0 {
			continue
		}

		label := rule.Name
		if label == "" {
			label = rule.RuleType
		}
		quote.Breakdown = append(quote.Breakdown, QuoteLine{
			RuleType: rule.RuleType,
			Label:    label,
			Amount:   round2(amount),
			Hours:    hours,
		})
		totalPrice += amount
		totalHours += hours
	}

	if totalHours == 0 {
		totalHours = fallbackHours
	}

	quote.Price = round2(totalPrice)
	quote.DurationHours = roundUpHalfHour(totalHours)
	return quote, nil
}

func clampContribution(amount float64, min, max *float64) float64 {
	if min != nil && amount < *min {
		amount = *min
	}
	if max != nil && amount > *max {
		amount = *max
	}
	return amount
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundUpHalfHour rounds a duration up to the nearest half hour.
func roundUpHalfHour(hours float64) float64 {
	return math.Ceil(hours*2) / 2
}
