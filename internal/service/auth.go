package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/KartikVerma96/paregrose/internal/auth"
	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/event"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

type googleVerifier interface {
	Verify(ctx context.Context, idToken string) (*auth.GoogleIdentity, error)
}

type cartMerger interface {
	Merge(ctx context.Context, guestOwner, userID string) (*domain.Cart, error)
}

var errBadCredentials = apperrors.Unauthorized("invalid email or password")

// AuthService signs users in with credentials or Google and issues session
// tokens. A guest cart is merged into the user's cart on every sign-in.
type AuthService struct {
	users      repository.UserRepository
	sessions   *auth.SessionManager
	google     googleVerifier
	carts      cartMerger
	events     *event.Emitter
	logger     *slog.Logger
	bcryptCost int
}

func NewAuthService(
	users repository.UserRepository,
	sessions *auth.SessionManager,
	google googleVerifier,
	carts cartMerger,
	events *event.Emitter,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		google:     google,
		carts:      carts,
		events:     events,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register creates a customer account. guestOwner may be empty.
func (s *AuthService) Register(ctx context.Context, in domain.RegisterInput, guestOwner string) (*domain.AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}
	hashed := string(hash)

	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: &hashed,
		AuthProvider: domain.ProviderCredentials,
		Role:         domain.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.events.UserRegistered(ctx, u)

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", u.ID),
		slog.String("provider", u.AuthProvider),
	)
	return s.signIn(ctx, u, guestOwner)
}

func (s *AuthService) Login(ctx context.Context, in domain.LoginInput, guestOwner string) (*domain.AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !u.HasPassword() {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errBadCredentials
	}
	return s.signIn(ctx, u, guestOwner)
}

// Google verifies a Google ID token and signs in the matching user. An
// existing account with the same email is linked; otherwise a customer is
// created.
func (s *AuthService) Google(ctx context.Context, in domain.GoogleLoginInput, guestOwner string) (*domain.AuthResult, error) {
	if s.google == nil {
		return nil, apperrors.InvalidInput("google sign-in is not configured")
	}
	id, err := s.google.Verify(ctx, in.IDToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidIDToken) {
			return nil, apperrors.Unauthorized("invalid google id token")
		}
		return nil, fmt.Errorf("verify google token: %w", err)
	}

	u, err := s.users.GetByProvider(ctx, domain.ProviderGoogle, id.Subject)
	if err == nil {
		return s.signIn(ctx, u, guestOwner)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get user by provider: %w", err)
	}

	u, err = s.users.GetByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if u.ProviderSubject == nil {
			u.ProviderSubject = &id.Subject
			if err := s.users.Update(ctx, u); err != nil {
				return nil, fmt.Errorf("link google account: %w", err)
			}
			s.logger.InfoContext(ctx, "google account linked", slog.String("user_id", u.ID))
		}
		return s.signIn(ctx, u, guestOwner)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("get user: %w", err)
	}

	name := strings.TrimSpace(id.Name)
	if name == "" {
		name, _, _ = strings.Cut(id.Email, "@")
	}
	now := time.Now().UTC()
	u = &domain.User{
		ID:              uuid.New().String(),
		Email:           strings.ToLower(id.Email),
		Name:            name,
		AuthProvider:    domain.ProviderGoogle,
		ProviderSubject: &id.Subject,
		Role:            domain.RoleCustomer,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.events.UserRegistered(ctx, u)

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", u.ID),
		slog.String("provider", u.AuthProvider),
	)
	return s.signIn(ctx, u, guestOwner)
}

func (s *AuthService) signIn(ctx context.Context, u *domain.User, guestOwner string) (*domain.AuthResult, error) {
	if !u.IsActive {
		return nil, apperrors.Forbidden("account is deactivated")
	}
	token, expiresAt, err := s.sessions.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("issue session: %w", err))
	}

	if guestOwner != "" && s.carts != nil {
		if _, err := s.carts.Merge(ctx, guestOwner, u.ID); err != nil {
			s.logger.WarnContext(ctx, "guest cart merge failed",
				slog.String("user_id", u.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return &domain.AuthResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in domain.UpdateProfileInput) (*domain.User, error) {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// ChangePassword is only available to accounts that have a password.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, in domain.ChangePasswordInput) error {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if !u.HasPassword() {
		return apperrors.InvalidInput("account signs in with google and has no password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.bcryptCost)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}
	if err := s.users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", u.ID))
	return nil
}
