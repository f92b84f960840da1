package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oracles-wisper/wisper-backend-go/internal/service"
	"github.com/oracles-wisper/wisper-backend-go/pkg/response"
)

// Level3Handler handles HTTP requests for curtains and profiles.
type Level3Handler struct {
	service *service.ProductService
}

// NewLevel3Handler creates a new level-3 handler.
func NewLevel3Handler(service *service.ProductService) *Level3Handler {
	return &Level3Handler{service: service}
}

// GetCurtain handles GET /api/v1/curtains/:year.
func (h *Level3Handler) GetCurtain(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.BadRequest(c, "year must be an integer", err)
		return
	}

	cells, err := h.service.GetCurtain(year)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"year":  year,
		"data":  cells,
		"count": len(cells),
	})
}

// GetProfiles handles GET /api/v1/flights/:date/profiles.
func (h *Level3Handler) GetProfiles(c *gin.Context) {
	date := c.Param("date")
	profiles, err := h.service.GetProfiles(date)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"flightDate": date,
		"data":       profiles,
		"count":      len(profiles),
	})
}
