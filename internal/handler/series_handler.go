package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/oracles-wisper/wisper-backend-go/internal/models"
	"github.com/oracles-wisper/wisper-backend-go/internal/service"
	"github.com/oracles-wisper/wisper-backend-go/pkg/response"
)

// SeriesHandler handles HTTP requests for calibrated time series.
type SeriesHandler struct {
	service *service.ProductService
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(service *service.ProductService) *SeriesHandler {
	return &SeriesHandler{service: service}
}

// GetSeries handles GET /api/v1/flights/:date/series.
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	var filter models.SeriesFilter
	// Everything by default, valid-only on request.
	filter.MaxQC = int(models.QCInvalid)
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	page, err := h.service.GetSeries(c.Param("date"), filter)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, page)
}
