package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clientdesk/clientdesk-backend/internal/http/response"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
	"github.com/clientdesk/clientdesk-backend/internal/services"
)

type AutofillHandler struct {
	log             *logger.Logger
	autofillService services.AutofillService
}

func NewAutofillHandler(log *logger.Logger, autofillService services.AutofillService) *AutofillHandler {
	return &AutofillHandler{
		log:             log.With("handler", "AutofillHandler"),
		autofillService: autofillService,
	}
}

func (ah *AutofillHandler) Autofill(c *gin.Context) {
	var req struct {
		DocID string `json:"doc_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.DocID == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing doc_id"))
		return
	}
	docID, err := uuid.Parse(req.DocID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, errors.New("invalid doc_id"))
		return
	}
	doc, err := ah.autofillService.Autofill(c.Request.Context(), docID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	body := gin.H{"document": doc}
	if doc.AutofilledURL != "" {
		body["signed_url"] = doc.AutofilledURL
	}
	response.RespondOK(c, body)
}
