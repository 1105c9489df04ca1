package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

func newAuthSvc() (*AuthService, *stubUserRepo, *stubCompanyRepo) {
	users := newStubUserRepo()
	companies := newStubCompanyRepo()
	cvs := stubCVChecker{}
	return NewAuthService(users, companies, cvs, "secret", time.Hour, discardLogger), users, companies
}

func registerInput(email, role string) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     "Alice",
		Lastname: "Doe",
		Email:    email,
		Password: "pass1234",
		Role:     role,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newAuthSvc()

	user, err := svc.Register(context.Background(), registerInput(" Alice@Example.com ", domain.RoleEmployee))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleEmployee {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newAuthSvc()

	tests := map[string]func(*ports.RegisterInput){
		"name":     func(in *ports.RegisterInput) { in.Name = "" },
		"email":    func(in *ports.RegisterInput) { in.Email = "not-an-email" },
		"password": func(in *ports.RegisterInput) { in.Password = "short" },
		"role":     func(in *ports.RegisterInput) { in.Role = domain.RoleAdmin },
	}
	for field, mutate := range tests {
		in := registerInput("bob@example.com", domain.RoleEmployer)
		mutate(&in)

		_, err := svc.Register(context.Background(), in)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Field != field {
			t.Fatalf("%s: expected ValidationError on %s, got %v", field, field, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newAuthSvc()

	_, _ = svc.Register(context.Background(), registerInput("bob@example.com", domain.RoleEmployee))
	if _, err := svc.Register(context.Background(), registerInput("BOB@example.com", domain.RoleEmployer)); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _ := newAuthSvc()

	registered, err := svc.Register(context.Background(), registerInput("carol@example.com", domain.RoleEmployer))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleEmployer {
		t.Fatalf("expected role %s, got %v", domain.RoleEmployer, claims["role"])
	}
	if claims["user_id"] != registered.ID {
		t.Fatalf("expected user_id %s, got %v", registered.ID, claims["user_id"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _, _ := newAuthSvc()

	_, _ = svc.Register(context.Background(), registerInput("dave@example.com", domain.RoleEmployee))
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _, _ := newAuthSvc()

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_EnsureAdmin_Idempotent(t *testing.T) {
	svc, users, _ := newAuthSvc()

	for i := 0; i < 2; i++ {
		if err := svc.EnsureAdmin(context.Background(), "root@example.com", "changeme1"); err != nil {
			t.Fatalf("EnsureAdmin #%d failed: %v", i+1, err)
		}
	}
	if len(users.users) != 1 {
		t.Fatalf("expected exactly one admin, got %d users", len(users.users))
	}

	_, user, err := svc.Login(context.Background(), "root@example.com", "changeme1")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", user.Role)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, _, companies := newAuthSvc()

	boss, err := svc.Register(context.Background(), registerInput("boss@example.com", domain.RoleEmployer))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	companies.seed("company-1", boss.ID, "")

	profile, err := svc.Me(context.Background(), domain.Caller{UserID: boss.ID, Role: boss.Role})
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if profile.CompanyID != "company-1" {
		t.Fatalf("expected company-1, got %q", profile.CompanyID)
	}
	if profile.HasCV {
		t.Fatalf("employer must not report a CV")
	}
}
