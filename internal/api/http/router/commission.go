package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/api/http/handler"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
)

func (r *Router) registerCommissionRoutes(api fiber.Router, h *handler.CommissionHandler, authRequired fiber.Handler, requirePerm permFunc) {
	sc := api.Group("/sales-commissions", authRequired)

	sc.Post("/calculate", requirePerm(authorize.ResourceCommission, authorize.ActionCreate), h.Calculate)
	sc.Get("/calculate", requirePerm(authorize.ResourceCommission, authorize.ActionRead), h.CheckEligibility)

	sc.Post("/finalize", requirePerm(authorize.ResourceCommission, authorize.ActionApprove), h.Finalize)
	sc.Get("/finalize", requirePerm(authorize.ResourceCommission, authorize.ActionRead), h.PreviewFinalize)

	sc.Get("/monthly-report", requirePerm(authorize.ResourceReport, authorize.ActionRead), h.MonthlyReport)
	sc.Post("/recalculate", requirePerm(authorize.ResourceCommission, authorize.ActionExecute), h.Recalculate)
}

func (r *Router) registerSettlementRoutes(api fiber.Router, h *handler.SettlementHandler, authRequired fiber.Handler, requirePerm permFunc) {
	settle := api.Group("/commissions/settle", authRequired)
	settle.Patch("/", requirePerm(authorize.ResourceSettlement, authorize.ActionUpdate), h.Settle)
	settle.Get("/", requirePerm(authorize.ResourceSettlement, authorize.ActionRead), h.Status)
}
