package service_test

import (
	"context"
	"testing"

	"github.com/tmarins/onboarding-api/internal/domain"
	"github.com/tmarins/onboarding-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(store *fakeIdentityStore) *service.UserService {
	return service.NewUserService(store, domain.NewPolicy(false), zap.NewNop())
}

func TestListUsers_AdminOnly(t *testing.T) {
	store := newFakeIdentityStore()
	svc := newUserService(store)

	require.NoError(t, store.CreateIdentity(context.Background(), &domain.Identity{
		ID: "u-1", Name: "Maria", Email: "maria@example.com", Role: domain.RoleCustomer,
	}))

	users, err := svc.ListUsers(context.Background(), adminCaller)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	for _, caller := range []domain.AuthUser{employeeCaller, customerCaller} {
		_, err := svc.ListUsers(context.Background(), caller)
		var forbidden *domain.ErrForbidden
		require.ErrorAs(t, err, &forbidden, "role %s", caller.Role)
	}
}

func TestSetUserRole_PromotesCustomer(t *testing.T) {
	store := newFakeIdentityStore()
	svc := newUserService(store)

	require.NoError(t, store.CreateIdentity(context.Background(), &domain.Identity{
		ID: "u-1", Name: "Maria", Email: "maria@example.com", Role: domain.RoleCustomer,
	}))

	updated, err := svc.SetUserRole(context.Background(), adminCaller, "u-1", "employee")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, updated.Role)

	stored, err := store.GetIdentityByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, stored.Role)
}

func TestSetUserRole_InvalidRole(t *testing.T) {
	store := newFakeIdentityStore()
	svc := newUserService(store)

	require.NoError(t, store.CreateIdentity(context.Background(), &domain.Identity{
		ID: "u-1", Role: domain.RoleCustomer,
	}))

	_, err := svc.SetUserRole(context.Background(), adminCaller, "u-1", "root")
	var validation *domain.ErrValidation
	require.ErrorAs(t, err, &validation)

	stored, err := store.GetIdentityByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, stored.Role)
}

func TestSetUserRole_UnknownUser(t *testing.T) {
	svc := newUserService(newFakeIdentityStore())

	_, err := svc.SetUserRole(context.Background(), adminCaller, "ghost", "admin")
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestSetUserRole_NonAdminForbidden(t *testing.T) {
	store := newFakeIdentityStore()
	svc := newUserService(store)

	require.NoError(t, store.CreateIdentity(context.Background(), &domain.Identity{
		ID: "u-1", Role: domain.RoleCustomer,
	}))

	for _, caller := range []domain.AuthUser{employeeCaller, customerCaller} {
		_, err := svc.SetUserRole(context.Background(), caller, "u-1", "admin")
		var forbidden *domain.ErrForbidden
		require.ErrorAs(t, err, &forbidden, "role %s", caller.Role)
	}
}
