package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/service/commission"
	"github.com/Alijeyrad/gymdesk_backend/internal/service/receipt"
)

type ReceiptHandler struct {
	svc receipt.Service
}

func NewReceiptHandler(svc receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{svc: svc}
}

// POST /api/v1/receipts
//
// The renewal bonus is calculated after the response is sent; a failure
// there never fails the receipt.
func (h *ReceiptHandler) Create(c fiber.Ctx) error {
	var body receipt.CreateRequest
	if msg, valid := bindJSON(c, &body); !valid {
		return badRequest(c, msg)
	}

	r, err := h.svc.Create(c.Context(), body)
	if err != nil {
		return mapReceiptError(c, err)
	}
	return created(c, r)
}

// GET /api/v1/receipts?type=&staffName=&month=&memberId=&includeCancelled=&page=&perPage=
func (h *ReceiptHandler) List(c fiber.Ctx) error {
	var q struct {
		Type             string `query:"type"`
		StaffName        string `query:"staffName"`
		Month            string `query:"month"`
		IncludeCancelled bool   `query:"includeCancelled"`
		Page             int    `query:"page"`
		PerPage          int    `query:"perPage"`
	}
	_ = c.Bind().Query(&q)

	memberID, valid := queryID(c, "memberId")
	if !valid {
		return badRequest(c, "invalid memberId")
	}

	res, err := h.svc.List(c.Context(), receipt.ListRequest{
		Type:             q.Type,
		StaffName:        q.StaffName,
		Month:            q.Month,
		MemberID:         memberID,
		IncludeCancelled: q.IncludeCancelled,
		Page:             q.Page,
		PerPage:          q.PerPage,
	})
	if err != nil {
		return mapReceiptError(c, err)
	}
	return ok(c, res)
}

// GET /api/v1/receipts/:id
func (h *ReceiptHandler) Get(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid receipt id")
	}

	r, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapReceiptError(c, err)
	}
	return ok(c, r)
}

// PATCH /api/v1/receipts/:id/cancel
func (h *ReceiptHandler) Cancel(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid receipt id")
	}
	var body struct {
		Reason string `json:"reason" validate:"required,max=500"`
	}
	if msg, valid := bindJSON(c, &body); !valid {
		return badRequest(c, msg)
	}

	r, err := h.svc.Cancel(c.Context(), id, body.Reason)
	if err != nil {
		return mapReceiptError(c, err)
	}
	return ok(c, r)
}

func mapReceiptError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, receipt.ErrReceiptNotFound),
		errors.Is(err, receipt.ErrMemberNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, receipt.ErrAlreadyCancelled):
		return conflict(c, err.Error())
	case errors.Is(err, receipt.ErrInvalidAmount),
		errors.Is(err, receipt.ErrInvalidRenewalType),
		errors.Is(err, receipt.ErrRenewalTypeMismatch),
		errors.Is(err, receipt.ErrReasonRequired),
		errors.Is(err, commission.ErrInvalidMonth):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}
