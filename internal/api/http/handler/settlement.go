package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/settlement"
)

type SettlementHandler struct {
	svc settlement.Service
}

func NewSettlementHandler(svc settlement.Service) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

// PATCH /api/v1/commissions/settle
func (h *SettlementHandler) Settle(c fiber.Ctx) error {
	var body settlement.SettleRequest
	if msg, valid := bindJSON(c, &body); !valid {
		return badRequest(c, msg)
	}

	res, err := h.svc.Settle(c.Context(), body)
	if err != nil {
		return mapSettlementError(c, err)
	}
	return ok(c, res)
}

// GET /api/v1/commissions/settle?month=
func (h *SettlementHandler) Status(c fiber.Ctx) error {
	res, err := h.svc.Status(c.Context(), c.Query("month"))
	if err != nil {
		return mapSettlementError(c, err)
	}
	return ok(c, res)
}

func mapSettlementError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, settlement.ErrCoachNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, settlement.ErrMonthRequired),
		errors.Is(err, commission.ErrInvalidMonth):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}
