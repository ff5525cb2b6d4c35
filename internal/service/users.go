package service

import (
	"context"
	"fmt"

	"github.com/tmarins/onboarding-api/internal/domain"
	"github.com/tmarins/onboarding-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var userTracer = otel.Tracer("service/users")

// UserService covers the admin-only user management operations.
type UserService struct {
	store  port.IdentityStore
	policy *domain.Policy
	logger *zap.Logger
}

// NewUserService creates a new user management service.
func NewUserService(store port.IdentityStore, policy *domain.Policy, logger *zap.Logger) *UserService {
	return &UserService{store: store, policy: policy, logger: logger}
}

// ============================================================
// ListUsers — GET /customers/admin/users
// ============================================================

// ListUsers returns every registered identity. Password hashes are excluded
// from serialization at the type level.
func (s *UserService) ListUsers(ctx context.Context, caller domain.AuthUser) ([]domain.Identity, error) {
	ctx, span := userTracer.Start(ctx, "UserService.ListUsers")
	defer span.End()

	if !s.policy.Allows(domain.OpListUsers, caller.Role) {
		return nil, &domain.ErrForbidden{Action: "list users"}
	}

	users, err := s.store.ListIdentities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return users, nil
}

// ============================================================
// SetUserRole — PATCH /customers/admin/users/{id}/role
// ============================================================

func (s *UserService) SetUserRole(ctx context.Context, caller domain.AuthUser, userID, role string) (*domain.Identity, error) {
	ctx, span := userTracer.Start(ctx, "UserService.SetUserRole")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("role", role),
	)

	if !s.policy.Allows(domain.OpSetUserRole, caller.Role) {
		return nil, &domain.ErrForbidden{Action: "update user role"}
	}
	if !domain.ValidRole(role) {
		return nil, &domain.ErrValidation{Field: "role", Message: "invalid role"}
	}

	updated, err := s.store.UpdateIdentityRole(ctx, userID, domain.Role(role))
	if err != nil {
		return nil, err
	}

	s.logger.Info("user role updated",
		zap.String("user_id", userID),
		zap.String("role", role),
		zap.String("admin_id", caller.ID),
	)
	return updated, nil
}
