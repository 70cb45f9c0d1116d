package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
)

type CommissionHandler struct {
	svc commission.Service
}

func NewCommissionHandler(svc commission.Service) *CommissionHandler {
	return &CommissionHandler{svc: svc}
}

// POST /api/v1/sales-commissions/calculate
func (h *CommissionHandler) Calculate(c fiber.Ctx) error {
	var body struct {
		ReceiptID uint `json:"receiptId" validate:"required"`
	}
	if msg, valid := bindJSON(c, &body); !valid {
		return badRequest(c, msg)
	}

	res, err := h.svc.Calculate(c.Context(), body.ReceiptID)
	if err != nil {
		return mapCommissionError(c, err)
	}
	return ok(c, res)
}

// GET /api/v1/sales-commissions/calculate?receiptId=
func (h *CommissionHandler) CheckEligibility(c fiber.Ctx) error {
	id, valid := queryID(c, "receiptId")
	if !valid || id == nil {
		return badRequest(c, "receiptId is required")
	}

	res, err := h.svc.CheckEligibility(c.Context(), *id)
	if err != nil {
		return mapCommissionError(c, err)
	}
	return ok(c, res)
}

// POST /api/v1/sales-commissions/finalize
func (h *CommissionHandler) Finalize(c fiber.Ctx) error {
	var body struct {
		Month string `json:"month"`
	}
	// An empty body finalizes the current month.
	if len(c.Body()) > 0 {
		if msg, valid := bindJSON(c, &body); !valid {
			return badRequest(c, msg)
		}
	}

	res, err := h.svc.Finalize(c.Context(), body.Month)
	if err != nil {
		return mapCommissionError(c, err)
	}
	return ok(c, res)
}

// GET /api/v1/sales-commissions/finalize?month=
func (h *CommissionHandler) PreviewFinalize(c fiber.Ctx) error {
	res, err := h.svc.PreviewFinalize(c.Context(), c.Query("month"))
	if err != nil {
		return mapCommissionError(c, err)
	}
	return ok(c, res)
}

// GET /api/v1/sales-commissions/monthly-report?staffId=&month=
func (h *CommissionHandler) MonthlyReport(c fiber.Ctx) error {
	staffID, valid := queryID(c, "staffId")
	if !valid {
		return badRequest(c, "invalid staffId")
	}
	month := c.Query("month")

	if staffID == nil {
		res, err := h.svc.AllStaffReport(c.Context(), month)
		if err != nil {
			return mapCommissionError(c, err)
		}
		return ok(c, res)
	}

	res, err := h.svc.StaffReport(c.Context(), *staffID, month)
	if err != nil {
		return mapCommissionError(c, err)
	}
	return ok(c, res)
}

// POST /api/v1/sales-commissions/recalculate
func (h *CommissionHandler) Recalculate(c fiber.Ctx) error {
	res, err := h.svc.Recalculate(c.Context())
	if err != nil {
		return mapCommissionError(c, err)
	}
	return ok(c, res)
}

func mapCommissionError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, commission.ErrReceiptNotFound),
		errors.Is(err, commission.ErrStaffNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, commission.ErrInvalidMonth):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}
