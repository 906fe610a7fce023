package controllers

import (
	"net/http"

	"cleanpro-backend/services"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AppointmentController is the HTTP surface over the appointment lifecycle.
// All business rules live in the service; this layer parses, maps errors and
// shapes responses.
type AppointmentController struct {
	svc      *services.AppointmentService
	payments store.PaymentRecordStore
	audits   store.AuditStore
}

func NewAppointmentController(svc *services.AppointmentService, payments store.PaymentRecordStore, audits store.AuditStore) *AppointmentController {
	return &AppointmentController{svc: svc, payments: payments, audits: audits}
}

// CreateAppointmentInput defines the expected JSON structure for booking
type CreateAppointmentInput struct {
	ClientID            uuid.UUID   `json:"clientId" binding:"required"`
	ScheduledDate       string      `json:"scheduledDate" binding:"required"` // YYYY-MM-DD
	ScheduledTime       string      `json:"scheduledTime" binding:"required"` // HH:MM
	DurationHours       *float64    `json:"durationHours"`
	PrimaryWorkerID     *uuid.UUID  `json:"primaryWorkerId"`
	WorkerIDs           []uuid.UUID `json:"workerIds"`
	ServiceType         string      `json:"serviceType"`
	SquareFeet          int         `json:"squareFeet"`
	BasementSquareFeet  int         `json:"basementSquareFeet"`
	Bedrooms            int         `json:"bedrooms"`
	Bathrooms           int         `json:"bathrooms"`
	ExtraServices       []string    `json:"extraServices"`
	Address             string      `json:"address"`
	SpecialInstructions string      `json:"specialInstructions"`
	FinalPrice          *float64    `json:"finalPrice"`
	PaymentMethod       string      `json:"paymentMethod"`
	ServiceFrequency    string      `json:"serviceFrequency"`
	OverrideConflicts   bool        `json:"overrideConflicts"`
}

// UpdateAppointmentInput patches an appointment; nil fields are untouched
type UpdateAppointmentInput struct {
	ScheduledDate       *string      `json:"scheduledDate"`
	ScheduledTime       *string      `json:"scheduledTime"`
	DurationHours       *float64     `json:"durationHours"`
	PrimaryWorkerID     *uuid.UUID   `json:"primaryWorkerId"`
	WorkerIDs           *[]uuid.UUID `json:"workerIds"`
	Address             *string      `json:"address"`
	SpecialInstructions *string      `json:"specialInstructions"`
	FinalPrice          *float64     `json:"finalPrice"`
	PaymentMethod       *string      `json:"paymentMethod"`
	Status              *string      `json:"status"`
	Scope               string       `json:"scope"` // occurrence (default) or series
	OverrideConflicts   bool         `json:"overrideConflicts"`
}

type CancelAppointmentInput struct {
	Scope     string   `json:"scope"`
	ApplyFee  bool     `json:"applyFee"`
	FeeAmount *float64 `json:"feeAmount"`
	Notify    bool     `json:"notify"`
}

type AssignWorkersInput struct {
	WorkerIDs         []uuid.UUID `json:"workerIds" binding:"required"`
	OverrideConflicts bool        `json:"overrideConflicts"`
}

type CheckConflictsInput struct {
	ScheduledDate string      `json:"scheduledDate" binding:"required"`
	ScheduledTime string      `json:"scheduledTime" binding:"required"`
	WorkerIDs     []uuid.UUID `json:"workerIds"`
	ExcludeID     *uuid.UUID  `json:"excludeId"`
}

func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	actorID, ok := actorUUID(c)
	if !ok {
		return
	}

	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	date, err := utils.ParseDate(input.ScheduledDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "scheduledDate must be YYYY-MM-DD")
		return
	}

	appt, err := ac.svc.Create(c.Request.Context(), services.CreateAppointmentInput{
		ClientID:            input.ClientID,
		ScheduledDate:       date,
		ScheduledTime:       input.ScheduledTime,
		DurationHours:       input.DurationHours,
		PrimaryWorkerID:     input.PrimaryWorkerID,
		WorkerIDs:           input.WorkerIDs,
		ServiceType:         input.ServiceType,
		SquareFeet:          input.SquareFeet,
		BasementSquareFeet:  input.BasementSquareFeet,
		Bedrooms:            input.Bedrooms,
		Bathrooms:           input.Bathrooms,
		ExtraServices:       input.ExtraServices,
		Address:             input.Address,
		SpecialInstructions: input.SpecialInstructions,
		FinalPrice:          input.FinalPrice,
		PaymentMethod:       input.PaymentMethod,
		ServiceFrequency:    input.ServiceFrequency,
		OverrideConflicts:   input.OverrideConflicts,
		ActorID:             actorID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appt)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	apptID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	appt, err := ac.svc.Get(c.Request.Context(), apptID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	filter, ok := parseAppointmentFilter(c)
	if !ok {
		return
	}

	appts, err := ac.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	apptID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorUUID(c)
	if !ok {
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	patch := services.UpdateAppointmentInput{
		ScheduledTime:       input.ScheduledTime,
		DurationHours:       input.DurationHours,
		PrimaryWorkerID:     input.PrimaryWorkerID,
		WorkerIDs:           input.WorkerIDs,
		Address:             input.Address,
		SpecialInstructions: input.SpecialInstructions,
		FinalPrice:          input.FinalPrice,
		PaymentMethod:       input.PaymentMethod,
		Status:              input.Status,
	}
	if input.ScheduledDate != nil {
		date, err := utils.ParseDate(*input.ScheduledDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "scheduledDate must be YYYY-MM-DD")
			return
		}
		patch.ScheduledDate = &date
	}

	result, err := ac.svc.Update(c.Request.Context(), apptID, patch, input.Scope, input.OverrideConflicts, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *AppointmentController) CancelAppointment(c *gin.Context) {
	apptID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorUUID(c)
	if !ok {
		return
	}

	var input CancelAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := ac.svc.Cancel(c.Request.Context(), apptID, input.Scope, services.CancellationOptions{
		ApplyFee:  input.ApplyFee,
		FeeAmount: input.FeeAmount,
		Notify:    input.Notify,
	}, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *AppointmentController) AssignWorkers(c *gin.Context) {
	apptID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorUUID(c)
	if !ok {
		return
	}

	var input AssignWorkersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	appt, err := ac.svc.AssignWorkers(c.Request.Context(), apptID, input.WorkerIDs, input.OverrideConflicts, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	apptID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := ac.svc.Delete(c.Request.Context(), apptID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

// CheckConflicts runs the detector without mutating anything, so a booking
// UI can warn before submission.
func (ac *AppointmentController) CheckConflicts(c *gin.Context) {
	var input CheckConflictsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	date, err := utils.ParseDate(input.ScheduledDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "scheduledDate must be YYYY-MM-DD")
		return
	}
	if !utils.ValidClockTime(input.ScheduledTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "scheduledTime must be HH:MM")
		return
	}

	report, err := ac.svc.CheckConflicts(c.Request.Context(), date, input.ScheduledTime, input.WorkerIDs, input.ExcludeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetPayments returns the full payment ledger for an appointment.
func (ac *AppointmentController) GetPayments(c *gin.Context) {
	apptID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	records, err := ac.payments.ListForAppointment(c.Request.Context(), apptID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payment records")
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetAudits returns the override audit trail for an appointment.
func (ac *AppointmentController) GetAudits(c *gin.Context) {
	apptID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	audits, err := ac.audits.ListForAppointment(c.Request.Context(), apptID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve audit records")
		return
	}
	c.JSON(http.StatusOK, audits)
}

// ExpandRecurrences triggers the materialization sweep on demand; the cron
// job runs the same path nightly.
func (ac *AppointmentController) ExpandRecurrences(c *gin.Context) {
	var input struct {
		HorizonDays int `json:"horizonDays"`
	}
	// Body is optional; an empty one uses the configured horizon.
	_ = c.ShouldBindJSON(&input)

	created, err := ac.svc.ExpandRecurrences(c.Request.Context(), input.HorizonDays)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created})
}

func parseAppointmentFilter(c *gin.Context) (store.AppointmentFilter, bool) {
	var filter store.AppointmentFilter

	if v := c.Query("clientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid clientId format")
			return filter, false
		}
		filter.ClientID = &id
	}
	if v := c.Query("workerId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid workerId format")
			return filter, false
		}
		filter.WorkerID = &id
	}
	if v := c.Query("recurrenceId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid recurrenceId format")
			return filter, false
		}
		filter.RecurrenceID = &id
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("from"); v != "" {
		date, err := utils.ParseDate(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return filter, false
		}
		filter.DateFrom = &date
	}
	if v := c.Query("to"); v != "" {
		date, err := utils.ParseDate(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return filter, false
		}
		filter.DateTo = &date
	}
	return filter, true
}
