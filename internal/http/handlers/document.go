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

const maxUploadMemory = 32 << 20

type DocumentHandler struct {
	log             *logger.Logger
	documentService services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		log:             log.With("handler", "DocumentHandler"),
		documentService: documentService,
	}
}

func (dh *DocumentHandler) List(c *gin.Context) {
	raw := c.Query("client_id")
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing client_id"))
		return
	}
	clientID, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, errors.New("invalid client_id"))
		return
	}
	docs, err := dh.documentService.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"documents": docs})
}

func (dh *DocumentHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
		return
	}
	raw := c.PostForm("client_id")
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing client_id"))
		return
	}
	clientID, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, errors.New("invalid client_id"))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, errors.New("missing file"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()

	doc, err := dh.documentService.Upload(c.Request.Context(), clientID, fh.Filename, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}
