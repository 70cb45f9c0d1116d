package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/service/staff"
)

type StaffHandler struct {
	svc staff.Service
}

func NewStaffHandler(svc staff.Service) *StaffHandler {
	return &StaffHandler{svc: svc}
}

// POST /api/v1/staff
func (h *StaffHandler) Create(c fiber.Ctx) error {
	var body staff.CreateRequest
	if msg, valid := bindJSON(c, &body); !valid {
		return badRequest(c, msg)
	}

	s, err := h.svc.Create(c.Context(), body)
	if err != nil {
		return mapStaffError(c, err)
	}
	return created(c, s)
}

// GET /api/v1/staff?active=&position=
func (h *StaffHandler) List(c fiber.Ctx) error {
	active, valid := queryBool(c, "active")
	if !valid {
		return badRequest(c, "active must be true or false")
	}

	list, err := h.svc.List(c.Context(), staff.ListRequest{
		Active:   active,
		Position: c.Query("position"),
	})
	if err != nil {
		return mapStaffError(c, err)
	}
	return ok(c, fiber.Map{"staff": list})
}

// GET /api/v1/staff/:id
func (h *StaffHandler) Get(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid staff id")
	}

	s, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapStaffError(c, err)
	}
	return ok(c, s)
}

// PATCH /api/v1/staff/:id
func (h *StaffHandler) Update(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid staff id")
	}
	var body staff.UpdateRequest
	if msg, valid := bindJSON(c, &body); !valid {
		return badRequest(c, msg)
	}

	s, err := h.svc.Update(c.Context(), id, body)
	if err != nil {
		return mapStaffError(c, err)
	}
	return ok(c, s)
}

// DELETE /api/v1/staff/:id deactivates; commissions keep their staff row.
func (h *StaffHandler) Delete(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid staff id")
	}

	if err := h.svc.Deactivate(c.Context(), id); err != nil {
		return mapStaffError(c, err)
	}
	return noContent(c)
}

func mapStaffError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, staff.ErrStaffNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, staff.ErrInvalidPhone),
		errors.Is(err, staff.ErrNameRequired):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}
