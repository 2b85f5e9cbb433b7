// Package user defines dashboard users and authentication request types.
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/wadesk/wadesk/internal/domain"
)

// Roles a dashboard user can hold.
const (
	RoleAdmin = "ADMIN"
	RoleAgent = "AGENT"
)

// ValidRoles is the set of assignable roles.
var ValidRoles = map[string]bool{
	RoleAdmin: true,
	RoleAgent: true,
}

// User is a human dashboard operator belonging to one organization.
type User struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest creates a new organization together with its first user.
type RegisterRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organizationName"`
}

// Validate checks required fields and basic constraints.
func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	if strings.TrimSpace(r.OrganizationName) == "" {
		return fmt.Errorf("%w: organization name is required", domain.ErrValidation)
	}
	return nil
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (r LoginRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	return nil
}

// LoginResponse carries the access token and the authenticated user.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// TokenClaims is the payload of a wadesk access token.
type TokenClaims struct {
	UserID   string `json:"sub"`
	OrgID    string `json:"org"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IssuedAt int64  `json:"iat"`
	Expiry   int64  `json:"exp"`
	Audience string `json:"aud"`
	Issuer   string `json:"iss"`
}
