package controllers

import (
	"errors"
	"net/http"

	"cleanpro-backend/models"
	"cleanpro-backend/store"
	"cleanpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// ClientController manages the client roster (households being served).
type ClientController struct {
	users store.UserStore
}

func NewClientController(users store.UserStore) *ClientController {
	return &ClientController{users: users}
}

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"isActive"`
}

func (cc *ClientController) CreateClient(c *gin.Context) {
	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if phone or email already belongs to someone
	if _, err := cc.users.GetByIdentifier(c.Request.Context(), input.Email); err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Client with this email already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if _, err := cc.users.GetByIdentifier(c.Request.Context(), input.Phone); err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Client with this phone number already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	client := models.User{
		Name:     input.Name,
		Phone:    input.Phone,
		Email:    input.Email,
		Password: input.Password, // Hashed in BeforeCreate hook
		Role:     models.RoleClient,
		IsActive: true,
	}

	if err := cc.users.Create(c.Request.Context(), &client); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (cc *ClientController) GetClients(c *gin.Context) {
	clients, err := cc.users.FindByRole(c.Request.Context(), models.RoleClient)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (cc *ClientController) GetClient(c *gin.Context) {
	clientID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	client, err := cc.users.Get(c.Request.Context(), clientID)
	if err != nil || client.Role != models.RoleClient {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	c.JSON(http.StatusOK, client)
}

func (cc *ClientController) UpdateClient(c *gin.Context) {
	clientID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	client, err := cc.users.Get(c.Request.Context(), clientID)
	if err != nil || client.Role != models.RoleClient {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		client.Phone = *input.Phone
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := cc.users.Update(c.Request.Context(), client); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

func (cc *ClientController) DeleteClient(c *gin.Context) {
	clientID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := cc.users.Delete(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
