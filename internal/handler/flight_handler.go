// Package handler maps HTTP requests onto the services.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oracles-wisper/wisper-backend-go/internal/service"
	"github.com/oracles-wisper/wisper-backend-go/pkg/response"
)

// FlightHandler handles HTTP requests for the flight registry.
type FlightHandler struct {
	service *service.ProductService
}

// NewFlightHandler creates a new flight handler.
func NewFlightHandler(service *service.ProductService) *FlightHandler {
	return &FlightHandler{service: service}
}

// ListFlights handles GET /api/v1/flights?year=2017.
func (h *FlightHandler) ListFlights(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		var err error
		year, err = strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "year must be an integer", err)
			return
		}
	}

	flights, err := h.service.ListFlights(year)
	if err != nil {
		response.BadRequest(c, "failed to list flights", err)
		return
	}

	response.Success(c, gin.H{
		"data":  flights,
		"count": len(flights),
	})
}
