package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration, login and the caller's profile view.
type AuthService struct {
	repo      ports.UserRepository
	companies ports.CompanyRepository
	cvs       CVChecker
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	companies ports.CompanyRepository,
	cvs CVChecker,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		companies: companies,
		cvs:       cvs,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates an employee or employer account. Admins are only seeded
// through EnsureAdmin.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	switch {
	case strings.TrimSpace(in.Name) == "":
		return nil, domain.NewValidationError("name", domain.ReasonRequired)
	case strings.TrimSpace(in.Lastname) == "":
		return nil, domain.NewValidationError("lastname", domain.ReasonRequired)
	case email == "":
		return nil, domain.NewValidationError("email", domain.ReasonRequired)
	case !strings.Contains(email, "@"):
		return nil, domain.NewValidationError("email", domain.ReasonInvalid)
	case len(in.Password) < minPasswordLength:
		return nil, domain.NewValidationError("password", domain.ReasonOutOfRange)
	case in.Role != domain.RoleEmployee && in.Role != domain.RoleEmployer:
		return nil, domain.NewValidationError("role", domain.ReasonInvalid)
	}

	user, err := s.createUser(ctx, &domain.User{
		Name:     strings.TrimSpace(in.Name),
		Lastname: strings.TrimSpace(in.Lastname),
		Email:    email,
		Role:     in.Role,
		CityID:   in.CityID,
		Phone:    in.Phone,
		Address:  in.Address,
	}, in.Password)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.PasswordHash = string(hash)
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Login checks the credentials and issues a signed token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// EnsureAdmin creates the operator account when no user holds the email yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.log.Warn().Str("email", email).Str("role", existing.Role).Msg("admin email belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	user, err := s.createUser(ctx, &domain.User{
		Name:     "Admin",
		Lastname: "Admin",
		Email:    email,
		Role:     domain.RoleAdmin,
	}, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("admin account seeded")
	return nil
}

// Me returns the caller's account with whether a CV is on file and, for
// employers, the company they own.
func (s *AuthService) Me(ctx context.Context, caller domain.Caller) (*ports.Profile, error) {
	user, err := s.repo.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}

	profile := &ports.Profile{User: user}
	switch user.Role {
	case domain.RoleEmployee:
		if profile.HasCV, err = s.cvs.HasCV(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("me: %w", err)
		}
	case domain.RoleEmployer:
		company, err := s.companies.FindByUserID(ctx, user.ID)
		if err == nil {
			profile.CompanyID = company.ID
		} else if !errors.Is(err, domain.ErrCompanyNotFound) {
			return nil, fmt.Errorf("me: %w", err)
		}
	}
	return profile, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
