package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clientdesk/clientdesk-backend/internal/http/response"
	"github.com/clientdesk/clientdesk-backend/internal/services"
)

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (ah *ActivityHandler) List(c *gin.Context) {
	rows, err := ah.activityService.ListRecent(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": rows})
}
