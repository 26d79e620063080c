package handler

import (
	"context"

	"github.com/dkl25/admin-api/internal/realtime"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type LiveHandler struct {
	hub      *realtime.Hub
	commands realtime.CommandHandler
}

func NewLiveHandler(hub *realtime.Hub, commands realtime.CommandHandler) *LiveHandler {
	return &LiveHandler{
		hub:      hub,
		commands: commands,
	}
}

// RequireUpgrade rejects plain HTTP requests to the socket endpoint.
func (h *LiveHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Notulen serves GET /ws/notulen?token=&notulen_id=. The user was put in
// Locals by the token middleware before the upgrade.
func (h *LiveHandler) Notulen() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, _ := conn.Locals("user").(models.User)
		h.hub.Serve(context.Background(), conn, user, conn.Query("notulen_id"), h.commands)
	})
}
