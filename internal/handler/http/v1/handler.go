package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/bus_tracking_system/internal/broadcast"
	"github.com/shenikar/bus_tracking_system/internal/config"
	"github.com/shenikar/bus_tracking_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	trackerService service.TrackerService
	hub            *broadcast.Hub
	logger         *logrus.Logger
	cfg            *config.Config
}

func NewHandler(trackerService service.TrackerService, hub *broadcast.Hub, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		trackerService: trackerService,
		hub:            hub,
		logger:         logger,
		cfg:            cfg,
	}
}

// @Summary Submit an agent position report
// @Description Store the latest position of a reporting agent and broadcast it to all connected observers.
// @Tags Locations
// @Accept json
// @Produce json
// @Param report body UpdateLocationRequest true "Position report"
// @Success 200 {object} LocationResponse
// @Failure 400 {object} ValidationErrorResponse "Malformed body or validation failure"
// @Router /locations [post]
func (h *Handler) updateLocation(c *gin.Context) {
	var input UpdateLocationRequest
	log := h.logger.WithField("method", "updateLocation")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.trackerService.SubmitLocation(c.Request.Context(), DTOToSubmitInput(input))
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			log.WithError(err).WithField("code", validationErr.Code).Warn("Report validation failed")
			c.JSON(http.StatusBadRequest, ValidationErrorResponse{Code: validationErr.Code, Error: validationErr.Message})
			return
		}
		log.WithError(err).Error("Failed to submit location in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToLocationResponse(record))
}

// @Summary List current agent locations
// @Description Get the latest known location of every currently tracked agent. No side effects.
// @Tags Locations
// @Produce json
// @Success 200 {array} LocationResponse
// @Router /locations [get]
func (h *Handler) listLocations(c *gin.Context) {
	records := h.trackerService.ListLocations(c.Request.Context())
	c.JSON(http.StatusOK, ModelsToLocationResponses(records))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
