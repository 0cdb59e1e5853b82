package domain

import "time"

// Auth providers.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// User is a customer or back-office account.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	PasswordHash    *string   `json:"-"`
	AuthProvider    string    `json:"auth_provider"`
	ProviderSubject *string   `json:"-"`
	Role            Role      `json:"role"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasPassword reports whether the user can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" validate:"required"`
}

type UpdateProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// ChangeRoleInput is the admin payload for promoting or demoting a user.
type ChangeRoleInput struct {
	Role string `json:"role" validate:"required,oneof=customer staff manager admin"`
}

// SetActiveInput activates or deactivates a user.
type SetActiveInput struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// AuthResult is returned by every successful sign-in.
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
