package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
)

func (r *Router) registerMemberRoutes(api fiber.Router, h *handler.MemberHandler, authRequired fiber.Handler, requirePerm permFunc) {
	members := api.Group("/members", authRequired)
	members.Post("/", requirePerm(authorize.ResourceMember, authorize.ActionCreate), h.Create)
	members.Get("/", requirePerm(authorize.ResourceMember, authorize.ActionList), h.List)

	m := members.Group("/:id")
	m.Get("/", requirePerm(authorize.ResourceMember, authorize.ActionRead), h.Get)
	m.Patch("/", requirePerm(authorize.ResourceMember, authorize.ActionUpdate), h.Update)
}
