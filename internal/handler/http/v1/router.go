package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты отчётов о позиции и снапшота
	locations := api.Group("/locations")
	{
		locations.POST("", h.updateLocation)
		locations.GET("", h.listLocations)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}

// RegisterWS регистрирует push-канал наблюдателей вне версионированной группы
func (h *Handler) RegisterWS(router *gin.Engine) {
	router.GET("/ws", h.serveWS)
}
