package controllers

import (
	"errors"
	"net/http"

	"cleanpro-backend/models"
	"cleanpro-backend/services"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// PricingRuleController manages the rule table the quote calculator reads.
type PricingRuleController struct {
	rules   store.PricingRuleStore
	pricing *services.PricingService
}

func NewPricingRuleController(rules store.PricingRuleStore, pricing *services.PricingService) *PricingRuleController {
	return &PricingRuleController{rules: rules, pricing: pricing}
}

// CreatePricingRuleInput defines the expected JSON structure for a new rule
type CreatePricingRuleInput struct {
	RuleType      string   `json:"ruleType" binding:"required"`
	Name          string   `json:"name"`
	ServiceType   *string  `json:"serviceType"`
	PriceAmount   float64  `json:"priceAmount"`
	RatePerUnit   float64  `json:"ratePerUnit"`
	TimeAmount    float64  `json:"timeAmount"`
	TimePerUnit   float64  `json:"timePerUnit"`
	PriceRangeMin *float64 `json:"priceRangeMin"`
	PriceRangeMax *float64 `json:"priceRangeMax"`
	DisplayOrder  int      `json:"displayOrder"`
}

// UpdatePricingRuleInput patches a rule; nil fields are untouched
type UpdatePricingRuleInput struct {
	Name          *string  `json:"name"`
	ServiceType   *string  `json:"serviceType"`
	PriceAmount   *float64 `json:"priceAmount"`
	RatePerUnit   *float64 `json:"ratePerUnit"`
	TimeAmount    *float64 `json:"timeAmount"`
	TimePerUnit   *float64 `json:"timePerUnit"`
	PriceRangeMin *float64 `json:"priceRangeMin"`
	PriceRangeMax *float64 `json:"priceRangeMax"`
	IsActive      *bool    `json:"isActive"`
	DisplayOrder  *int     `json:"displayOrder"`
}

func validRuleType(t string) bool {
	switch t {
	case models.RuleBasePrice, models.RuleSqftRate, models.RuleBedroomRate,
		models.RuleBathroomRate, models.RuleExtraService, models.RuleTimeEstimate:
		return true
	}
	return false
}

func (pc *PricingRuleController) CreateRule(c *gin.Context) {
	var input CreatePricingRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !validRuleType(input.RuleType) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown rule type")
		return
	}
	if input.RuleType == models.RuleExtraService && input.Name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Extra service rules require a name")
		return
	}
	if input.PriceRangeMin != nil && input.PriceRangeMax != nil && *input.PriceRangeMax < *input.PriceRangeMin {
		utils.RespondWithError(c, http.StatusBadRequest, "priceRangeMax must not be below priceRangeMin")
		return
	}

	rule := models.PricingRule{
		RuleType:      input.RuleType,
		Name:          input.Name,
		ServiceType:   input.ServiceType,
		PriceAmount:   input.PriceAmount,
		RatePerUnit:   input.RatePerUnit,
		TimeAmount:    input.TimeAmount,
		TimePerUnit:   input.TimePerUnit,
		PriceRangeMin: input.PriceRangeMin,
		PriceRangeMax: input.PriceRangeMax,
		IsActive:      true,
		DisplayOrder:  input.DisplayOrder,
	}
	if err := pc.rules.Create(c.Request.Context(), &rule); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create pricing rule")
		return
	}

	c.JSON(http.StatusCreated, rule)
}

func (pc *PricingRuleController) GetRules(c *gin.Context) {
	rules, err := pc.rules.Find(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve pricing rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (pc *PricingRuleController) GetRule(c *gin.Context) {
	ruleID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	rule, err := pc.rules.Get(c.Request.Context(), ruleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pricing rule not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (pc *PricingRuleController) UpdateRule(c *gin.Context) {
	ruleID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input UpdatePricingRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	rule, err := pc.rules.Get(c.Request.Context(), ruleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pricing rule not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		rule.Name = *input.Name
	}
	if input.ServiceType != nil {
		rule.ServiceType = input.ServiceType
	}
	if input.PriceAmount != nil {
		rule.PriceAmount = *input.PriceAmount
	}
	if input.RatePerUnit != nil {
		rule.RatePerUnit = *input.RatePerUnit
	}
	if input.TimeAmount != nil {
		rule.TimeAmount = *input.TimeAmount
	}
	if input.TimePerUnit != nil {
		rule.TimePerUnit = *input.TimePerUnit
	}
	if input.PriceRangeMin != nil {
		rule.PriceRangeMin = input.PriceRangeMin
	}
	if input.PriceRangeMax != nil {
		rule.PriceRangeMax = input.PriceRangeMax
	}
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}
	if input.DisplayOrder != nil {
		rule.DisplayOrder = *input.DisplayOrder
	}
	if rule.PriceRangeMin != nil && rule.PriceRangeMax != nil && *rule.PriceRangeMax < *rule.PriceRangeMin {
		utils.RespondWithError(c, http.StatusBadRequest, "priceRangeMax must not be below priceRangeMin")
		return
	}

	if err := pc.rules.Update(c.Request.Context(), rule); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update pricing rule")
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (pc *PricingRuleController) DeleteRule(c *gin.Context) {
	ruleID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := pc.rules.Delete(c.Request.Context(), ruleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Pricing rule not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete pricing rule")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pricing rule deleted successfully"})
}

// Quote prices a prospective job without creating anything.
func (pc *PricingRuleController) Quote(c *gin.Context) {
	var input services.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	quote, err := pc.pricing.Quote(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute quote")
		return
	}

	c.JSON(http.StatusOK, quote)
}
