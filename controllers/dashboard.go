package controllers

import (
	"net/http"
	"time"

	"cleanpro-backend/models"
	"cleanpro-backend/services"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// DashboardController aggregates the operational overview: today's schedule,
// the upcoming week and revenue booked over a window.
type DashboardController struct {
	svc *services.AppointmentService
}

func NewDashboardController(svc *services.AppointmentService) *DashboardController {
	return &DashboardController{svc: svc}
}

func (dc *DashboardController) GetDashboard(c *gin.Context) {
	now := time.Now()
	today := utils.BeginningOfDay(now)
	weekEnd := today.AddDate(0, 0, 7)
	monthStart := today.AddDate(0, 0, -30)

	todays, err := dc.svc.List(c.Request.Context(), store.AppointmentFilter{
		DateFrom: &today,
		DateTo:   &today,
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load today's schedule")
		return
	}

	upcoming, err := dc.svc.List(c.Request.Context(), store.AppointmentFilter{
		DateFrom: &today,
		DateTo:   &weekEnd,
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load upcoming schedule")
		return
	}

	recent, err := dc.svc.List(c.Request.Context(), store.AppointmentFilter{
		DateFrom: &monthStart,
		DateTo:   &today,
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load recent appointments")
		return
	}

	statusCounts := map[string]int{}
	for i := range upcoming {
		statusCounts[upcoming[i].Status]++
	}

	// Revenue counts completed jobs at their final price; cancellation fees
	// are reported separately.
	var revenue, cancellationFees float64
	completed := 0
	for i := range recent {
		a := &recent[i]
		switch a.Status {
		case models.StatusCompleted:
			if a.FinalPrice != nil {
				revenue += *a.FinalPrice
			}
			completed++
		case models.StatusCancelled:
			if a.CancellationFeeAmount != nil {
				cancellationFees += *a.CancellationFeeAmount
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"today": gin.H{
			"count":        len(todays),
			"appointments": todays,
		},
		"week": gin.H{
			"count":        len(upcoming),
			"statusCounts": statusCounts,
		},
		"last30Days": gin.H{
			"completedJobs":    completed,
			"revenue":          revenue,
			"cancellationFees": cancellationFees,
		},
	})
}
