package api

import (
	"net/http"
	"strconv"

	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
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

// StreamExport handles GET /v1/articles/export?format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.Query("format")
	if format == "" {
		format = "ndjson" // Default to NDJSON for streaming
	}
	if format != "ndjson" && format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, models.ErrorResult(badRequest("format must be one of: ndjson, json, csv")))
		return
	}

	count, err := h.services.Export.GetCount(ctx)
	if err != nil {
		c.JSON(httpStatus(err), models.ErrorResult(err))
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(count))

	h.log.Info().
		Str("format", format).
		Int("count", count).
		Msg("Starting streaming export")

	if err := h.services.Export.StreamArticles(ctx, c.Writer, format); err != nil {
		h.log.Error().Err(err).Str("format", format).Msg("Export failed")
		// Can't return error JSON after streaming has started
		return
	}
}
