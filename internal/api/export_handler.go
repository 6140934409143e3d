package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sheet-sync-api/internal/models"
	"github.com/sheet-sync-api/internal/service"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/exports?resource=alunos&format=csv
func (h *ExportHandler) StreamExport(c *gin.Context) {
	resource := c.Query("resource")
	if !models.ValidCollections[resource] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "resource must be one of: alunos, turmas, matriculas, usuarios",
		})
		return
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "ndjson" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: json, ndjson, csv"})
		return
	}

	if err := h.services.Export.StreamCollection(c.Request.Context(), c.Writer, resource, format); err != nil {
		h.log.Error().Err(err).Str("resource", resource).Str("format", format).Msg("Export failed")
		// Headers may already be written; abort the stream.
		c.Abort()
	}
}
