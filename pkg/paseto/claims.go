package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Subject identifies who a token is issued to.
type Subject struct {
	UserID    uuid.UUID
	Username  string
	SessionID *uuid.UUID
}

// Claims is the app-facing token payload. It satisfies reqctx.AuthClaims.
type Claims struct {
	Type TokenType

	UserID    uuid.UUID
	Username  string
	SessionID *uuid.UUID

	Issuer    string
	Audience  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string // jti
}

func (c *Claims) GetUserID() uuid.UUID     { return c.UserID }
func (c *Claims) GetUsername() string      { return c.Username }
func (c *Claims) GetSessionID() *uuid.UUID { return c.SessionID }
func (c *Claims) GetTokenType() string     { return string(c.Type) }
func (c *Claims) IsExpired() bool          { return time.Now().After(c.ExpiresAt) }
