package service_test

import (
	"context"
	"testing"

	"github.com/tmarins/onboarding-api/internal/domain"
	"github.com/tmarins/onboarding-api/internal/infra/observability"
	"github.com/tmarins/onboarding-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCustomerService(records *fakeCustomerStore, identities *fakeIdentityStore) *service.CustomerService {
	return service.NewCustomerService(
		records,
		identities,
		domain.NewPolicy(false),
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

var (
	customerCaller = domain.AuthUser{ID: "cust-1", Role: domain.RoleCustomer}
	employeeCaller = domain.AuthUser{ID: "emp-1", Role: domain.RoleEmployee}
	adminCaller    = domain.AuthUser{ID: "adm-1", Role: domain.RoleAdmin}
)

func sampleInput() *domain.SubmitInput {
	return &domain.SubmitInput{
		BasicInfo: domain.BasicInfo{
			CompanyName:        "Empresa XPTO",
			RegistrationNumber: "12.345.678/0001-90",
			Email:              "contact@xpto.com",
		},
		OwnerDetails: domain.OwnerDetails{
			FullName:   "Maria Silva",
			NationalID: "123.456.789-00",
		},
		Declaration: true,
		Attachments: []string{"/uploads/1-contract.pdf"},
	}
}

func TestSubmit_CreatesPendingRecord(t *testing.T) {
	records := newFakeCustomerStore()
	svc := newCustomerService(records, newFakeIdentityStore())

	rec, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "cust-1", rec.OwnerID)
	assert.Equal(t, domain.StatusPending, rec.Status)
	assert.Equal(t, "Empresa XPTO", rec.BasicInfo.CompanyName)
	assert.Equal(t, []string{"/uploads/1-contract.pdf"}, rec.Attachments)
	assert.True(t, rec.Declaration)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestSubmit_ResubmitOverwritesFieldsAndAppendsAttachments(t *testing.T) {
	records := newFakeCustomerStore()
	svc := newCustomerService(records, newFakeIdentityStore())

	first, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	second := &domain.SubmitInput{
		BasicInfo:    domain.BasicInfo{CompanyName: "Empresa XPTO Ltda"},
		OwnerDetails: domain.OwnerDetails{FullName: "Maria S. Silva"},
		Declaration:  true,
		Attachments:  []string{"/uploads/2-license.pdf"},
	}
	updated, err := svc.Submit(context.Background(), customerCaller, second)
	require.NoError(t, err)

	// Same record, overwritten fields, attachments accumulated in order.
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "Empresa XPTO Ltda", updated.BasicInfo.CompanyName)
	assert.Equal(t, "Maria S. Silva", updated.OwnerDetails.FullName)
	assert.Equal(t,
		[]string{"/uploads/1-contract.pdf", "/uploads/2-license.pdf"},
		updated.Attachments,
	)
}

func TestSubmit_ResubmitWithoutAttachmentsKeepsExisting(t *testing.T) {
	records := newFakeCustomerStore()
	svc := newCustomerService(records, newFakeIdentityStore())

	_, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	in := sampleInput()
	in.Attachments = nil
	updated, err := svc.Submit(context.Background(), customerCaller, in)
	require.NoError(t, err)

	assert.Equal(t, []string{"/uploads/1-contract.pdf"}, updated.Attachments)
}

func TestSubmit_StaffRolesForbiddenByDefault(t *testing.T) {
	svc := newCustomerService(newFakeCustomerStore(), newFakeIdentityStore())

	for _, caller := range []domain.AuthUser{employeeCaller, adminCaller} {
		_, err := svc.Submit(context.Background(), caller, sampleInput())
		var forbidden *domain.ErrForbidden
		require.ErrorAs(t, err, &forbidden, "role %s", caller.Role)
	}
}

func TestSubmit_AnyRoleFlagOpensSubmission(t *testing.T) {
	svc := service.NewCustomerService(
		newFakeCustomerStore(),
		newFakeIdentityStore(),
		domain.NewPolicy(true),
		observability.NewMetrics(),
		zap.NewNop(),
	)

	rec, err := svc.Submit(context.Background(), employeeCaller, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", rec.OwnerID)
}

func TestListAll_JoinsOwnerSummaries(t *testing.T) {
	records := newFakeCustomerStore()
	identities := newFakeIdentityStore()
	svc := newCustomerService(records, identities)

	require.NoError(t, identities.CreateIdentity(context.Background(), &domain.Identity{
		ID: "cust-1", Name: "Maria Silva", Email: "maria@example.com", Role: domain.RoleCustomer,
	}))
	_, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	list, err := svc.ListAll(context.Background(), employeeCaller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Owner)
	assert.Equal(t, "Maria Silva", list[0].Owner.Name)
	assert.Equal(t, "maria@example.com", list[0].Owner.Email)
}

func TestListAll_OrphanRecordKeepsNilOwner(t *testing.T) {
	records := newFakeCustomerStore()
	svc := newCustomerService(records, newFakeIdentityStore())

	_, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	list, err := svc.ListAll(context.Background(), adminCaller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Owner)
}

func TestListAll_CustomerForbidden(t *testing.T) {
	svc := newCustomerService(newFakeCustomerStore(), newFakeIdentityStore())

	_, err := svc.ListAll(context.Background(), customerCaller)
	var forbidden *domain.ErrForbidden
	require.ErrorAs(t, err, &forbidden)
}

func TestGetOwn_ReturnsCallerRecord(t *testing.T) {
	records := newFakeCustomerStore()
	svc := newCustomerService(records, newFakeIdentityStore())

	created, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	rec, err := svc.GetOwn(context.Background(), customerCaller)
	require.NoError(t, err)
	assert.Equal(t, created.ID, rec.ID)
}

func TestGetOwn_NotFoundWhenNeverSubmitted(t *testing.T) {
	svc := newCustomerService(newFakeCustomerStore(), newFakeIdentityStore())

	_, err := svc.GetOwn(context.Background(), customerCaller)
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestSetStatus_ApprovesAndResolvesOwner(t *testing.T) {
	records := newFakeCustomerStore()
	identities := newFakeIdentityStore()
	svc := newCustomerService(records, identities)

	require.NoError(t, identities.CreateIdentity(context.Background(), &domain.Identity{
		ID: "cust-1", Name: "Maria Silva", Email: "maria@example.com", Role: domain.RoleCustomer,
	}))
	created, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), employeeCaller, created.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	require.NotNil(t, updated.Owner)
	assert.Equal(t, "Maria Silva", updated.Owner.Name)
}

func TestSetStatus_BackToPendingAllowed(t *testing.T) {
	records := newFakeCustomerStore()
	svc := newCustomerService(records, newFakeIdentityStore())

	created, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), adminCaller, created.ID, "rejected")
	require.NoError(t, err)

	updated, err := svc.SetStatus(context.Background(), adminCaller, created.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, updated.Status)
}

func TestSetStatus_InvalidValueLeavesRecordUntouched(t *testing.T) {
	records := newFakeCustomerStore()
	svc := newCustomerService(records, newFakeIdentityStore())

	created, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), adminCaller, created.ID, "archived")
	var validation *domain.ErrValidation
	require.ErrorAs(t, err, &validation)

	stored, err := records.GetRecordByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestSetStatus_UnknownRecord(t *testing.T) {
	svc := newCustomerService(newFakeCustomerStore(), newFakeIdentityStore())

	_, err := svc.SetStatus(context.Background(), adminCaller, "missing-id", "approved")
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestSetStatus_CustomerForbidden(t *testing.T) {
	records := newFakeCustomerStore()
	svc := newCustomerService(records, newFakeIdentityStore())

	created, err := svc.Submit(context.Background(), customerCaller, sampleInput())
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), customerCaller, created.ID, "approved")
	var forbidden *domain.ErrForbidden
	require.ErrorAs(t, err, &forbidden)

	stored, err := records.GetRecordByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}
