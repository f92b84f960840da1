// Package api wires the handlers into the gin router.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oracles-wisper/wisper-backend-go/internal/config"
	"github.com/oracles-wisper/wisper-backend-go/internal/handler"
	"github.com/oracles-wisper/wisper-backend-go/internal/middleware"
)

// Handlers bundles everything the router serves.
type Handlers struct {
	Flights *handler.FlightHandler
	Series  *handler.SeriesHandler
	Level3  *handler.Level3Handler
	Runs    *handler.RunHandler
}

// SetupRouter builds the HTTP routes. Read endpoints are open; the
// run-trigger endpoints require a bearer token.
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(100, time.Minute))

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "WISPER backend is running",
		})
	})

	api := r.Group("/api/v1")
	{
		flights := api.Group("/flights")
		{
			flights.GET("", h.Flights.ListFlights)
			flights.GET("/:date/series", h.Series.GetSeries)
			flights.GET("/:date/profiles", h.Level3.GetProfiles)
		}

		api.GET("/curtains/:year", h.Level3.GetCurtain)

		runs := api.Group("/runs")
		runs.Use(middleware.Auth(cfg.JWTSecret))
		{
			runs.POST("/calibrate", h.Runs.Calibrate)
			runs.POST("/level3", h.Runs.Level3)
		}
	}

	return r
}
