package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/gymdesk_backend/internal/service/member"
)

type MemberHandler struct {
	svc member.Service
}

func NewMemberHandler(svc member.Service) *MemberHandler {
	return &MemberHandler{svc: svc}
}

// POST /api/v1/members
func (h *MemberHandler) Create(c fiber.Ctx) error {
	var body member.CreateRequest
	if msg, valid := bindJSON(c, &body); !valid {
		return badRequest(c, msg)
	}

	m, err := h.svc.Create(c.Context(), body)
	if err != nil {
		return mapMemberError(c, err)
	}
	return created(c, m)
}

// GET /api/v1/members?search=&active=&page=&perPage=
func (h *MemberHandler) List(c fiber.Ctx) error {
	var q struct {
		Search  string `query:"search"`
		Page    int    `query:"page"`
		PerPage int    `query:"perPage"`
	}
	_ = c.Bind().Query(&q)

	active, valid := queryBool(c, "active")
	if !valid {
		return badRequest(c, "active must be true or false")
	}

	res, err := h.svc.List(c.Context(), member.ListRequest{
		Search:  q.Search,
		Active:  active,
		Page:    q.Page,
		PerPage: q.PerPage,
	})
	if err != nil {
		return mapMemberError(c, err)
	}
	return ok(c, res)
}

// GET /api/v1/members/:id
func (h *MemberHandler) Get(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid member id")
	}

	m, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapMemberError(c, err)
	}
	return ok(c, m)
}

// PATCH /api/v1/members/:id
func (h *MemberHandler) Update(c fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return badRequest(c, "invalid member id")
	}
	var body member.UpdateRequest
	if msg, valid := bindJSON(c, &body); !valid {
		return badRequest(c, msg)
	}

	m, err := h.svc.Update(c.Context(), id, body)
	if err != nil {
		return mapMemberError(c, err)
	}
	return ok(c, m)
}

func mapMemberError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, member.ErrMemberNotFound),
		errors.Is(err, member.ErrCoachNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, member.ErrPhoneAlreadyExists):
		return conflict(c, err.Error())
	case errors.Is(err, member.ErrInvalidPhone),
		errors.Is(err, member.ErrInvalidDates),
		errors.Is(err, member.ErrNegativeCounter):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}
