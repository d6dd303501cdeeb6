package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/http/response"
	"github.com/clientdesk/clientdesk-backend/internal/services"
)

type ClientHandler struct {
	clientService services.ClientService
}

func NewClientHandler(clientService services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List returns all of the caller's clients, or a single client when an id
// query parameter is present.
func (ch *ClientHandler) List(c *gin.Context) {
	if raw := c.Query("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, errors.New("invalid client id"))
			return
		}
		client, err := ch.clientService.Get(c.Request.Context(), id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"client": client})
		return
	}
	clients, err := ch.clientService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"clients": clients})
}

func (ch *ClientHandler) Create(c *gin.Context) {
	var req struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		Email        string `json:"email"`
		Address      string `json:"address"`
		Organization string `json:"organization"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
		return
	}
	client := types.Client{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		Organization: req.Organization,
	}
	created, err := ch.clientService.Create(c.Request.Context(), &client)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"client": created})
}

func (ch *ClientHandler) Update(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
		services.ClientUpdate
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.ID == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing client id"))
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, errors.New("invalid client id"))
		return
	}
	updated, err := ch.clientService.Update(c.Request.Context(), id, req.ClientUpdate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"client": updated})
}

func (ch *ClientHandler) Delete(c *gin.Context) {
	raw := c.Query("id")
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing client id"))
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, errors.New("invalid client id"))
		return
	}
	if err := ch.clientService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
