package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Alijeyrad/gymdesk_backend/config"
	"github.com/Alijeyrad/gymdesk_backend/internal/schema"
	"github.com/Alijeyrad/gymdesk_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/gymdesk_backend/pkg/paseto"
	"github.com/Alijeyrad/gymdesk_backend/pkg/util/password"
)

const (
	defaultMaxLoginAttempts = 5
	defaultLockout          = 15 * time.Minute
)

// redisKeySession returns the Redis key for a session.
func redisKeySession(sessionID string) string { return "session:" + sessionID }

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds until access token expires
}

type Me struct {
	User  *schema.User     `json:"user"`
	Roles []authorize.Role `json:"roles"`
	Staff *schema.Staff    `json:"staff,omitempty"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*Me, error)
	// SessionActive reports whether the session behind a token is still live.
	SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	db          *gorm.DB
	rdb         redis.UniversalClient
	paseto      *pasetotoken.Manager
	authz       authorize.IAuthorization
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

func New(
	db *gorm.DB,
	rdb redis.UniversalClient,
	paseto *pasetotoken.Manager,
	authz authorize.IAuthorization,
	cfg *config.Config,
) Service {
	s := &authService{
		db:          db,
		rdb:         rdb,
		paseto:      paseto,
		authz:       authz,
		maxAttempts: cfg.Authentication.MaxLoginAttempts,
		lockout:     time.Duration(cfg.Authentication.LockoutMinutes) * time.Minute,
		now:         time.Now,
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultMaxLoginAttempts
	}
	if s.lockout <= 0 {
		s.lockout = defaultLockout
	}
	return s
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthTokens, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var u schema.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	now := s.now()
	if u.LockedUntil != nil && now.Before(*u.LockedUntil) {
		return nil, ErrAccountLocked
	}

	if err := password.Verify(u.PasswordHash, req.Password); err != nil {
		s.recordFailedLogin(ctx, &u)
		return nil, ErrInvalidCredentials
	}

	// Reset failure counters
	if err := s.db.WithContext(ctx).Model(&u).Updates(map[string]any{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}).Error; err != nil {
		slog.WarnContext(ctx, "failed to reset login counters", "user_id", u.ID, "error", err)
	}

	return s.createSession(ctx, &u)
}

// ---------------------------------------------------------------------------
// RefreshTokens
// ---------------------------------------------------------------------------

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.paseto.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != pasetotoken.TokenTypeRefresh || claims.SessionID == nil {
		return nil, ErrInvalidToken
	}

	sessionKey := redisKeySession(claims.SessionID.String())

	if err := s.rdb.Get(ctx, sessionKey).Err(); err == redis.Nil {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	// A user disabled after login must not be able to keep refreshing.
	var u schema.User
	if err := s.db.WithContext(ctx).Where("id = ?", claims.UserID).First(&u).Error; err != nil {
		return nil, ErrInvalidToken
	}
	if !u.IsActive {
		_ = s.rdb.Del(ctx, sessionKey).Err()
		return nil, ErrAccountDisabled
	}

	if err := s.rdb.Expire(ctx, sessionKey, s.paseto.RefreshTTL()).Err(); err != nil {
		slog.WarnContext(ctx, "failed to extend session", "session_id", claims.SessionID, "error", err)
	}

	// Refresh token stays the same until logout.
	accessToken, err := s.paseto.IssueAccess(pasetotoken.Subject{
		UserID:    u.ID,
		Username:  u.Username,
		SessionID: claims.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
	}, nil
}

// ---------------------------------------------------------------------------
// Logout / session
// ---------------------------------------------------------------------------

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.rdb.Del(ctx, redisKeySession(sessionID.String())).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		slog.DebugContext(ctx, "logout: session already expired", "session_id", sessionID)
	}
	return nil
}

func (s *authService) SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := s.rdb.Exists(ctx, redisKeySession(sessionID.String())).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists session: %w", err)
	}
	return n > 0, nil
}

// ---------------------------------------------------------------------------
// Me
// ---------------------------------------------------------------------------

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*Me, error) {
	var u schema.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	me := &Me{User: &u, Roles: []authorize.Role{}}

	var st schema.Staff
	err = s.db.WithContext(ctx).Where("user_id = ?", u.ID).First(&st).Error
	switch {
	case err == nil:
		me.Staff = &st
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("get linked staff: %w", err)
	}

	if s.authz != nil {
		for _, d := range []authorize.Domain{authorize.DomainSys, authorize.DomainGym} {
			roles, err := s.authz.GetRolesForUserInDomain(ctx, authorize.GroupSubject(u.ID.String()), d)
			if err != nil {
				return nil, fmt.Errorf("get roles: %w", err)
			}
			me.Roles = append(me.Roles, roles...)
		}
	}
	return me, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *authService) createSession(ctx context.Context, u *schema.User) (*AuthTokens, error) {
	sessionID := uuid.Must(uuid.NewV7())

	if err := s.rdb.Set(ctx, redisKeySession(sessionID.String()), u.ID.String(), s.paseto.RefreshTTL()).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	sub := pasetotoken.Subject{UserID: u.ID, Username: u.Username, SessionID: &sessionID}
	access, err := s.paseto.IssueAccess(sub)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.paseto.IssueRefresh(sub)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", u.ID, "session_id", sessionID)
	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
	}, nil
}

func (s *authService) recordFailedLogin(ctx context.Context, u *schema.User) {
	attempts := u.FailedLoginAttempts + 1
	updates := map[string]any{"failed_login_attempts": attempts}
	if attempts >= s.maxAttempts {
		updates["locked_until"] = s.now().Add(s.lockout)
		updates["failed_login_attempts"] = 0
		slog.WarnContext(ctx, "account locked after failed logins", "user_id", u.ID)
	}
	if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		slog.WarnContext(ctx, "failed to record login failure", "user_id", u.ID, "error", err)
	}
}
