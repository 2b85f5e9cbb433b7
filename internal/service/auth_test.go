package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wadesk/wadesk/internal/config"
	"github.com/wadesk/wadesk/internal/domain"
	"github.com/wadesk/wadesk/internal/domain/user"
)

func newTestAuth(store *mockStore) *AuthService {
	return NewAuthService(store, &config.Auth{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  4, // min cost keeps tests fast
	})
}

func TestAuthRegisterCreatesOrgAndAdmin(t *testing.T) {
	store := &mockStore{}
	svc := newTestAuth(store)

	resp, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name:             "Ana",
		Email:            "ana@example.com",
		Password:         "supersecret",
		OrganizationName: "Acme Support",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.orgs) != 1 {
		t.Fatalf("expected 1 organization, got %d", len(store.orgs))
	}
	if resp.User.OrgID != store.orgs[0].ID {
		t.Errorf("user org = %q, want %q", resp.User.OrgID, store.orgs[0].ID)
	}
	if resp.User.Role != user.RoleAdmin {
		t.Errorf("role = %q, want ADMIN", resp.User.Role)
	}
	if resp.Token == "" {
		t.Error("expected access token")
	}
	if resp.User.PasswordHash == "supersecret" {
		t.Error("password stored in plain text")
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	svc := newTestAuth(&mockStore{})

	_, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name:             "Ana",
		Email:            "ana@example.com",
		Password:         "short",
		OrganizationName: "Acme",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestAuthLoginRoundTrip(t *testing.T) {
	store := &mockStore{}
	svc := newTestAuth(store)

	if _, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret", OrganizationName: "Acme",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.Login(context.Background(), user.LoginRequest{
		Email: "ana@example.com", Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("claims sub = %q, want %q", claims.UserID, resp.User.ID)
	}
	if claims.OrgID != resp.User.OrgID {
		t.Errorf("claims org = %q, want %q", claims.OrgID, resp.User.OrgID)
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	store := &mockStore{}
	svc := newTestAuth(store)

	if _, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret", OrganizationName: "Acme",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), user.LoginRequest{
		Email: "ana@example.com", Password: "wrongpassword",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAuthLoginUnknownEmail(t *testing.T) {
	svc := newTestAuth(&mockStore{})

	_, err := svc.Login(context.Background(), user.LoginRequest{
		Email: "nobody@example.com", Password: "whatever1",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized (no user-enumeration leak)", err)
	}
}

func TestAuthCreateUserInExistingOrg(t *testing.T) {
	store := &mockStore{}
	svc := newTestAuth(store)

	resp, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret", OrganizationName: "Acme",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.CreateUser(context.Background(), resp.User.OrgID, "Beto", "beto@example.com", "supersecret", user.RoleAgent)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.OrgID != resp.User.OrgID {
		t.Fatalf("OrgID = %q, want %q", u.OrgID, resp.User.OrgID)
	}
	if u.Role != user.RoleAgent {
		t.Fatalf("Role = %q, want AGENT", u.Role)
	}
	if len(store.orgs) != 1 {
		t.Fatalf("expected no new organization, got %d", len(store.orgs))
	}

	if _, err := svc.CreateUser(context.Background(), resp.User.OrgID, "X", "x@example.com", "supersecret", "SUPERUSER"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for invalid role", err)
	}
}

func TestAuthResetPassword(t *testing.T) {
	store := &mockStore{}
	svc := newTestAuth(store)

	if _, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret", OrganizationName: "Acme",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "ana@example.com", "evenmoresecret"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, err := svc.Login(context.Background(), user.LoginRequest{
		Email: "ana@example.com", Password: "supersecret",
	}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(context.Background(), user.LoginRequest{
		Email: "ana@example.com", Password: "evenmoresecret",
	}); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "nobody@example.com", "evenmoresecret"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	store := &mockStore{}
	svc := newTestAuth(store)

	resp, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret", OrganizationName: "Acme",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	parts := strings.Split(resp.Token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	if _, err := svc.ValidateToken(tampered); err == nil {
		t.Fatal("expected signature rejection")
	}

	if _, err := svc.ValidateToken("not.a.jwt"); err == nil {
		t.Fatal("expected malformed token rejection")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	store := &mockStore{}
	svc := NewAuthService(store, &config.Auth{
		JWTSecret:   "test-secret",
		TokenExpiry: -time.Minute,
		BcryptCost:  4,
	})

	resp, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "supersecret", OrganizationName: "Acme",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.ValidateToken(resp.Token); err == nil {
		t.Fatal("expected expiry rejection")
	}
}
