package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
	"github.com/Alijeyrad/gymdesk_backend/pkg/util/password"
)

const minPasswordLength = 8

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	// Password is generated when empty and returned once.
	Password string `json:"password,omitempty"`
	Role     string `json:"role" validate:"required"`
	StaffID  *uint  `json:"staffId,omitempty"`
}

type CreateResult struct {
	User              *schema.User `json:"user"`
	GeneratedPassword string       `json:"generatedPassword,omitempty"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*schema.User, error)
	List(ctx context.Context) ([]schema.User, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type userService struct {
	db            *gorm.DB
	hasher        *password.Hasher
	authz         authorize.IAuthorization
	defaultPwdLen int
}

func New(db *gorm.DB, cfg *config.Config, authz authorize.IAuthorization) Service {
	n := cfg.Authentication.DefaultPasswordLength
	if n < minPasswordLength {
		n = 12
	}
	return &userService{
		db:            db,
		hasher:        password.NewHasher(password.FromCentralConfig(cfg.Password)),
		authz:         authz,
		defaultPwdLen: n,
	}
}

func (s *userService) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if len(username) < 3 || len(username) > 64 {
		return nil, ErrInvalidUsername
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if _, _, ok := authorize.RoleForUserRole(role); !ok {
		return nil, ErrInvalidRole
	}

	res := &CreateResult{}
	plain := req.Password
	if plain == "" {
		gen, err := password.Generate(s.defaultPwdLen)
		if err != nil {
			return nil, fmt.Errorf("generate password: %w", err)
		}
		plain = gen
		res.GeneratedPassword = gen
	}
	if len(plain) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &schema.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("create user: %w", err)
		}

		if req.StaffID != nil {
			var st schema.Staff
			err := tx.First(&st, *req.StaffID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStaffNotFound
			}
			if err != nil {
				return fmt.Errorf("get staff: %w", err)
			}
			if st.UserID != nil {
				return ErrStaffAlreadyLinked
			}
			if err := tx.Model(&st).Update("user_id", u.ID).Error; err != nil {
				return fmt.Errorf("link staff: %w", err)
			}
		}

		// Last, so a casbin failure rolls the user back.
		if s.authz != nil {
			if err := authorize.AssignUserRole(ctx, s.authz, u.ID.String(), role); err != nil {
				return fmt.Errorf("assign role: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user created", "user_id", u.ID, "username", u.Username, "role", role)
	res.User = u
	return res, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*schema.User, error) {
	var u schema.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (s *userService) List(ctx context.Context) ([]schema.User, error) {
	out := []schema.User{}
	if err := s.db.WithContext(ctx).Order("username").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}
