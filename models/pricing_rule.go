package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pricing rule types. BASE_PRICE and EXTRA_SERVICE contribute flat amounts;
// the *_RATE types contribute unitCount × RatePerUnit; TIME_ESTIMATE is a
// fallback duration used only when no other rule contributed time.
const (
	RuleBasePrice    = "BASE_PRICE"
	RuleSqftRate     = "SQFT_RATE"
	RuleBedroomRate  = "BEDROOM_RATE"
	RuleBathroomRate = "BATHROOM_RATE"
	RuleExtraService = "EXTRA_SERVICE"
	RuleTimeEstimate = "TIME_ESTIMATE"
)

// PricingRule drives the quote calculator. Rules are owned by the pricing
// configuration surface and read-only to the scheduling core.
type PricingRule struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RuleType string    `gorm:"size:20;not null;index" json:"ruleType"`

	// Name identifies EXTRA_SERVICE rules; quote input selects extras by
	// this name.
	Name string `gorm:"size:60" json:"name"`

	// ServiceType scopes a rule; nil applies to all service types.
	ServiceType *string `gorm:"size:30;index" json:"serviceType"`

	PriceAmount float64 `gorm:"type:decimal(10,2);default:0" json:"priceAmount"`
	RatePerUnit float64 `gorm:"type:decimal(10,4);default:0" json:"ratePerUnit"`

	// Time contributions, in hours.
	TimeAmount  float64 `gorm:"default:0" json:"timeAmount"`
	TimePerUnit float64 `gorm:"default:0" json:"timePerUnit"`

	// Optional clamp applied to this rule's price contribution.
	PriceRangeMin *float64 `gorm:"type:decimal(10,2)" json:"priceRangeMin"`
	PriceRangeMax *float64 `gorm:"type:decimal(10,2)" json:"priceRangeMax"`

	IsActive     bool `gorm:"default:true;index" json:"isActive"`
	DisplayOrder int  `gorm:"default:0" json:"displayOrder"`

	gorm.Model `json:"-"`
}

func (r *PricingRule) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// AppliesTo reports whether the rule is in scope for the given service type.
func (r *PricingRule) AppliesTo(serviceType string) bool {
	return r.ServiceType == nil || *r.ServiceType == serviceType
}
