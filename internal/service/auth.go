// Package service — AuthService handles registration, login and JWT
// issuance/verification.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmarins/onboarding-api/internal/domain"
	"github.com/tmarins/onboarding-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

const bcryptCost = 12

// AuthService orchestrates authentication flows.
type AuthService struct {
	store     port.IdentityStore
	jwtSecret []byte
	accessTTL time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store port.IdentityStore, jwtSecret string, accessTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
		logger:    logger,
	}
}

// ============================================================
// Register — POST /auth/register
// ============================================================

func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.RegisterResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	if name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if email == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "email is required"}
	}
	if req.Password == "" {
		return nil, &domain.ErrValidation{Field: "password", Message: "password is required"}
	}

	role := domain.RoleCustomer
	if req.Role != "" {
		if !domain.ValidRole(req.Role) {
			return nil, &domain.ErrValidation{Field: "role", Message: "invalid role"}
		}
		role = domain.Role(req.Role)
	}

	// Explicit duplicate check for a clean error; the store's unique index
	// on email catches the race and maps to the same conflict kind.
	existing, err := s.store.GetIdentityByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing identity: %w", err)
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "an account with this email already exists"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	identity := &domain.Identity{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateIdentity(ctx, identity); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", identity.ID),
		zap.String("role", string(identity.Role)),
	)

	return &domain.RegisterResponse{
		Msg:    "User registered successfully",
		UserID: identity.ID,
	}, nil
}

// ============================================================
// Login — POST /auth/login
// ============================================================

func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email := normalizeEmail(req.Email)
	span.SetAttributes(attribute.String("email", email))

	identity, err := s.store.GetIdentityByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	if identity == nil {
		// Identical error shape for unknown email and wrong password.
		return nil, &domain.ErrInvalidCredentials{}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login: failed password attempt",
			zap.String("user_id", identity.ID),
		)
		return nil, &domain.ErrInvalidCredentials{}
	}

	token, err := s.IssueToken(identity.ID, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", identity.ID))

	return &domain.LoginResponse{
		Token: token,
		User:  identity.Summary(),
	}, nil
}

// normalizeEmail trims whitespace and lower-cases; lookups and the unique
// index both operate on this form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
