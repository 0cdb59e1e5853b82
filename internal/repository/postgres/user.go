package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/KartikVerma96/paregrose/internal/domain"
	"github.com/KartikVerma96/paregrose/internal/repository"
	"github.com/KartikVerma96/paregrose/pkg/database"
	apperrors "github.com/KartikVerma96/paregrose/pkg/errors"
)

const userColumns = `id, email, name, phone, password_hash, auth_provider, provider_subject, role, is_active, created_at, updated_at`

// UserRepository implements repository.UserRepository. Emails are stored
// lower-cased.
type UserRepository struct {
	db database.DBTX
}

func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner, extra ...any) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	dest := []any{&u.ID, &u.Email, &u.Name, &u.Phone, &u.PasswordHash, &u.AuthProvider,
		&u.ProviderSubject, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, name, phone, password_hash, auth_provider, provider_subject, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.Email, u.Name, u.Phone, u.PasswordHash, u.AuthProvider, u.ProviderSubject,
		string(u.Role), u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, cond string, args ...any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.getOne(ctx, "id = $1", id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NotFound("user", id)
	}
	return u, err
}

// GetByEmail returns the bare ErrNotFound sentinel on a miss so callers can
// avoid leaking which emails are registered.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) GetByProvider(ctx context.Context, provider, subject string) (*domain.User, error) {
	return r.getOne(ctx, "auth_provider = $1 AND provider_subject = $2", provider, subject)
}

func (r *UserRepository) List(ctx context.Context, f repository.UserFilter) ([]domain.User, int, error) {
	var w whereBuilder
	if f.Search != nil {
		w.add(`(email ILIKE $%d ESCAPE '\' OR name ILIKE $%d ESCAPE '\')`, containsPattern(*f.Search))
	}
	if f.Role != nil {
		w.add("role = $%d", *f.Role)
	}
	limit, offset := limitOffset(f.Page, f.PerPage)
	n := w.next()

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM users
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`, userColumns, w.clause(), n, n+1)

	rows, err := r.db.Query(ctx, query, append(w.args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	total := 0
	for rows.Next() {
		u, err := scanUser(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

// Update writes profile, provider link, role and active flag.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	ct, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = $1, phone = $2, auth_provider = $3, provider_subject = $4, role = $5, is_active = $6, updated_at = $7
		WHERE id = $8`,
		u.Name, u.Phone, u.AuthProvider, u.ProviderSubject, string(u.Role), u.IsActive, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	ct, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}
