package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientdesk/clientdesk-backend/internal/http/response"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
	"github.com/clientdesk/clientdesk-backend/internal/services"
)

type IngestHandler struct {
	log           *logger.Logger
	ingestService services.IngestService
}

func NewIngestHandler(log *logger.Logger, ingestService services.IngestService) *IngestHandler {
	return &IngestHandler{
		log:           log.With("handler", "IngestHandler"),
		ingestService: ingestService,
	}
}

func (ih *IngestHandler) Ingest(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
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
	content, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, err)
		return
	}

	client, doc, err := ih.ingestService.Ingest(c.Request.Context(), fh.Filename, content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"client":   client,
		"document": doc,
	})
}
