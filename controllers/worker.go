package controllers

import (
	"errors"
	"net/http"

	"cleanpro-backend/models"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// WorkerController manages the cleaning crew: the roster itself, declared
// weekly availability windows and time-off requests.
type WorkerController struct {
	users        store.UserStore
	availability store.AvailabilityStore
	timeOff      store.TimeOffStore
}

func NewWorkerController(users store.UserStore, availability store.AvailabilityStore, timeOff store.TimeOffStore) *WorkerController {
	return &WorkerController{users: users, availability: availability, timeOff: timeOff}
}

func (wc *WorkerController) GetWorkers(c *gin.Context) {
	workers, err := wc.users.FindByRole(c.Request.Context(), models.RoleWorker)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve workers")
		return
	}
	c.JSON(http.StatusOK, workers)
}

func (wc *WorkerController) GetWorker(c *gin.Context) {
	workerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	worker, err := wc.users.Get(c.Request.Context(), workerID)
	if err != nil || worker.Role != models.RoleWorker {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		utils.RespondWithError(c, http.StatusNotFound, "Worker not found")
		return
	}

	c.JSON(http.StatusOK, worker)
}

// AvailabilityInput declares one weekday window.
type AvailabilityInput struct {
	Weekday     *int   `json:"weekday" binding:"required"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable *bool  `json:"isAvailable"`
}

// SetAvailability upserts a worker's window for one weekday.
func (wc *WorkerController) SetAvailability(c *gin.Context) {
	workerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if *input.Weekday < 0 || *input.Weekday > 6 {
		utils.RespondWithError(c, http.StatusBadRequest, "Weekday must be 0 (Sunday) through 6 (Saturday)")
		return
	}
	if input.StartTime != "" && !utils.ValidClockTime(input.StartTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "startTime must be HH:MM")
		return
	}
	if input.EndTime != "" && !utils.ValidClockTime(input.EndTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "endTime must be HH:MM")
		return
	}

	worker, err := wc.users.Get(c.Request.Context(), workerID)
	if err != nil || worker.Role != models.RoleWorker {
		utils.RespondWithError(c, http.StatusNotFound, "Worker not found")
		return
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}
	window := models.WorkerAvailability{
		WorkerID:    workerID,
		Weekday:     *input.Weekday,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		IsAvailable: available,
	}
	if err := wc.availability.Upsert(c.Request.Context(), &window); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save availability")
		return
	}

	c.JSON(http.StatusOK, window)
}

func (wc *WorkerController) GetAvailability(c *gin.Context) {
	workerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	windows, err := wc.availability.FindByWorker(c.Request.Context(), workerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve availability")
		return
	}
	c.JSON(http.StatusOK, windows)
}

// TimeOffInput submits a leave request; dates are "2006-01-02", inclusive.
type TimeOffInput struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason"`
}

func (wc *WorkerController) RequestTimeOff(c *gin.Context) {
	workerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input TimeOffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	start, err := utils.ParseDate(input.StartDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	end, err := utils.ParseDate(input.EndDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		utils.RespondWithError(c, http.StatusBadRequest, "endDate must not precede startDate")
		return
	}

	worker, err := wc.users.Get(c.Request.Context(), workerID)
	if err != nil || worker.Role != models.RoleWorker {
		utils.RespondWithError(c, http.StatusNotFound, "Worker not found")
		return
	}

	request := models.TimeOffRequest{
		WorkerID:  workerID,
		StartDate: start,
		EndDate:   end,
		Status:    models.TimeOffPending,
		Reason:    input.Reason,
	}
	if err := wc.timeOff.Create(c.Request.Context(), &request); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to submit time off request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (wc *WorkerController) GetTimeOff(c *gin.Context) {
	workerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	requests, err := wc.timeOff.FindByWorker(c.Request.Context(), workerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve time off requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ReviewTimeOffInput approves or rejects a pending request.
type ReviewTimeOffInput struct {
	Status string `json:"status" binding:"required"` // APPROVED or REJECTED
}

func (wc *WorkerController) ReviewTimeOff(c *gin.Context) {
	requestID, ok := paramUUID(c, "requestId")
	if !ok {
		return
	}

	var input ReviewTimeOffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Status != models.TimeOffApproved && input.Status != models.TimeOffRejected {
		utils.RespondWithError(c, http.StatusBadRequest, "Status must be APPROVED or REJECTED")
		return
	}

	request, err := wc.timeOff.Get(c.Request.Context(), requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Time off request not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if request.Status != models.TimeOffPending {
		utils.RespondWithError(c, http.StatusBadRequest, "Request has already been reviewed")
		return
	}

	request.Status = input.Status
	if err := wc.timeOff.Update(c.Request.Context(), request); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update time off request")
		return
	}

	c.JSON(http.StatusOK, request)
}
