package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientdesk/clientdesk-backend/internal/http/response"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/apierr"
)

func respondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		response.RespondError(c, ae.Status, err)
		return
	}
	response.RespondError(c, http.StatusInternalServerError, err)
}
