package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/gymdesk_backend/internal/service/user"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// POST /api/v1/users
func (h *UserHandler) Create(c fiber.Ctx) error {
	var body user.CreateRequest
	if msg, valid := bindJSON(c, &body); !valid {
		return badRequest(c, msg)
	}

	res, err := h.svc.Create(c.Context(), body)
	if err != nil {
		return mapUserError(c, err)
	}
	return created(c, res)
}

// GET /api/v1/users
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.svc.List(c.Context())
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, fiber.Map{"users": users})
}

// GET /api/v1/users/:id
func (h *UserHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	u, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, u)
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, user.ErrStaffNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, user.ErrUsernameTaken),
		errors.Is(err, user.ErrStaffAlreadyLinked):
		return conflict(c, err.Error())
	case errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, user.ErrInvalidUsername):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}
