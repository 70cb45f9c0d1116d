package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
)

func (r *Router) registerReceiptRoutes(api fiber.Router, h *handler.ReceiptHandler, authRequired fiber.Handler, requirePerm permFunc) {
	receipts := api.Group("/receipts", authRequired)
	receipts.Post("/", requirePerm(authorize.ResourceReceipt, authorize.ActionCreate), h.Create)
	receipts.Get("/", requirePerm(authorize.ResourceReceipt, authorize.ActionList), h.List)
	receipts.Get("/:id", requirePerm(authorize.ResourceReceipt, authorize.ActionRead), h.Get)
	receipts.Patch("/:id/cancel", requirePerm(authorize.ResourceReceipt, authorize.ActionUpdate), h.Cancel)
}
