package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shenikar/bus_tracking_system/internal/broadcast"
)

// Открытая политика источников повторяет исходный сервер: наблюдатели
// подключаются с любых хостов.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// @Summary Subscribe to live location events
// @Description Upgrade to a websocket session. The server sends exactly one initialLocations message, then locationUpdate and busRemoved events. No client messages are expected.
// @Tags Locations
// @Success 101 "Switching Protocols"
// @Router /ws [get]
func (h *Handler) serveWS(c *gin.Context) {
	log := h.logger.WithField("method", "serveWS")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade сам пишет ответ с ошибкой клиенту.
		log.WithError(err).Warn("Failed to upgrade websocket connection")
		return
	}

	session := broadcast.NewSession(h.hub, conn, h.cfg.WSSendBuffer, h.logger)
	h.hub.Register(session)

	go session.WritePump()
	go session.ReadPump()
}
