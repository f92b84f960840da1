package handler

import (
	"net/http"
	"sync"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"github.com/oracles-wisper/wisper-backend-go/internal/service"
	"github.com/oracles-wisper/wisper-backend-go/pkg/response"
)

// RunHandler triggers processing runs over the API. Runs are serialized:
// a second trigger while one is in flight gets a 409.
type RunHandler struct {
	calibration *service.CalibrationService
	level3      *service.Level3Service

	mu      sync.Mutex
	running bool
}

// NewRunHandler creates a new run handler.
func NewRunHandler(cal *service.CalibrationService, l3 *service.Level3Service) *RunHandler {
	return &RunHandler{calibration: cal, level3: l3}
}

// CalibrateRequest selects flights for a calibration run. Empty means
// every good-data flight.
type CalibrateRequest struct {
	Dates []string `json:"dates"`
}

// Level3Request selects IOP years for a level-3 run. Empty means all
// three deployments.
type Level3Request struct {
	Years []int `json:"years"`
}

// Calibrate handles POST /api/v1/runs/calibrate.
func (h *RunHandler) Calibrate(c *gin.Context) {
	var req CalibrateRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	h.run(c, "calibrate", func() error {
		return h.calibration.Run(req.Dates)
	})
}

// Level3 handles POST /api/v1/runs/level3.
func (h *RunHandler) Level3(c *gin.Context) {
	var req Level3Request
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	h.run(c, "level3", func() error {
		return h.level3.Run(req.Years)
	})
}

func (h *RunHandler) run(c *gin.Context, name string, fn func() error) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		response.Error(c, http.StatusConflict, "a run is already in progress", nil)
		return
	}
	h.running = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	log.WithFields(log.Fields{
		"run":     name,
		"subject": c.GetString("subject"),
	}).Info("run triggered")

	if err := fn(); err != nil {
		response.InternalError(c, name+" run failed", err)
		return
	}
	response.Success(c, gin.H{"run": name})
}
