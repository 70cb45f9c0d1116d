package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
)

func (r *Router) registerStaffRoutes(api fiber.Router, h *handler.StaffHandler, authRequired fiber.Handler, requirePerm permFunc) {
	staff := api.Group("/staff", authRequired)
	staff.Post("/", requirePerm(authorize.ResourceStaff, authorize.ActionCreate), h.Create)
	staff.Get("/", requirePerm(authorize.ResourceStaff, authorize.ActionList), h.List)

	s := staff.Group("/:id")
	s.Get("/", requirePerm(authorize.ResourceStaff, authorize.ActionRead), h.Get)
	s.Patch("/", requirePerm(authorize.ResourceStaff, authorize.ActionUpdate), h.Update)
	s.Delete("/", requirePerm(authorize.ResourceStaff, authorize.ActionDelete), h.Delete)
}
