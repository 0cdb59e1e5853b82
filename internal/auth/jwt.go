// Package auth issues session tokens and verifies third-party identity tokens.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/KartikVerma96/paregrose/internal/domain"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
	"github.com/KartikVerma96/paregrose/pkg/middleware"
)

const issuer = "paregrose"

// Claims are the session token claims.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager signs and validates HS256 session tokens.
type SessionManager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, expiry time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Expiry is the lifetime of newly issued tokens.
func (m *SessionManager) Expiry() time.Duration {
	return m.expiry
}

// Issue returns a signed token and its expiry time.
func (m *SessionManager) Issue(userID, email, role string) (string, time.Time, error) {
	now := m.now().UTC()
	expires := now.Add(m.expiry)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

// Validate parses tokenString and returns its claims.
func (m *SessionManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid session token claims")
	}
	return claims, nil
}

// TokenValidator adapts Validate for the HTTP auth middleware.
func (m *SessionManager) TokenValidator() middleware.TokenValidator {
	return func(_ context.Context, token string) (*middleware.Claims, error) {
		c, err := m.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: c.UserID, Email: c.Email, Role: c.Role}, nil
	}
}

// UserGetter loads a user by id.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// CurrentUserValidator wraps validate so a session only holds while its user
// exists and is active. The role and email claims are replaced with the
// stored values.
func CurrentUserValidator(validate middleware.TokenValidator, users UserGetter) middleware.TokenValidator {
	return func(ctx context.Context, token string) (*middleware.Claims, error) {
		claims, err := validate(ctx, token)
		if err != nil {
			return nil, err
		}
		u, err := users.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, fmt.Errorf("load session user: %w", err)
		}
		if !u.IsActive {
			return nil, apperrors.Unauthorized("account is deactivated")
		}
		return &middleware.Claims{UserID: u.ID, Email: u.Email, Role: string(u.Role)}, nil
	}
}
