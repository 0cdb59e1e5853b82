package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
	"github.com/KartikVerma96/paregrose/pkg/pagination"
)

// UserService is admin user management. The acting admin can never change
// their own role, deactivate or delete themselves.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) List(ctx context.Context, f repository.UserFilter) (pagination.Result[domain.User], error) {
	if f.Role != nil && !domain.Role(*f.Role).Valid() {
		return pagination.Result[domain.User]{}, apperrors.InvalidInput("unknown role: " + *f.Role)
	}
	params := pagination.New(f.Page, f.PerPage)
	f.Page, f.PerPage = params.Page, params.PerPage

	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return pagination.Result[domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	return pagination.NewResult(users, total, params), nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserService) ChangeRole(ctx context.Context, actorID, id string, in domain.ChangeRoleInput) (*domain.User, error) {
	if actorID == id {
		return nil, apperrors.Forbidden("you cannot change your own role")
	}
	role := domain.Role(in.Role)
	if !role.Valid() {
		return nil, apperrors.InvalidInput("unknown role: " + in.Role)
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := u.Role
	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}

	s.logger.InfoContext(ctx, "user role changed",
		slog.String("user_id", u.ID),
		slog.String("from", string(previous)),
		slog.String("to", string(role)),
		slog.String("actor_id", actorID),
	)
	return u, nil
}

func (s *UserService) SetActive(ctx context.Context, actorID, id string, active bool) (*domain.User, error) {
	if actorID == id && !active {
		return nil, apperrors.Forbidden("you cannot deactivate your own account")
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsActive = active
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}

	s.logger.InfoContext(ctx, "user status changed",
		slog.String("user_id", u.ID),
		slog.Bool("active", active),
		slog.String("actor_id", actorID),
	)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return apperrors.Forbidden("you cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.InfoContext(ctx, "user deleted",
		slog.String("user_id", id),
		slog.String("actor_id", actorID),
	)
	return nil
}
