package controllers

import (
	"errors"
	"net/http"

	"cleanpro-backend/services"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// paramUUID parses a :id style path parameter.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// actorUUID returns the authenticated user's id from the token claims.
func actorUUID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID in token")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service error kinds onto HTTP statuses. Conflict
// responses carry the full report so the caller can show what is blocking
// and decide whether to override.
func respondServiceError(c *gin.Context, err error) {
	if ce, ok := services.AsConflict(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Scheduling conflict",
			"conflicts": ce.Report,
		})
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
