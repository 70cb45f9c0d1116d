package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
)

func (r *Router) registerUserRoutes(api fiber.Router, h *handler.UserHandler, authRequired fiber.Handler, requirePerm permFunc) {
	users := api.Group("/users", authRequired)
	users.Post("/", requirePerm(authorize.ResourceUser, authorize.ActionCreate), h.Create)
	users.Get("/", requirePerm(authorize.ResourceUser, authorize.ActionList), h.List)
	users.Get("/:id", requirePerm(authorize.ResourceUser, authorize.ActionRead), h.Get)
}
