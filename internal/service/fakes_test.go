package service_test

import (
	"context"
	"sync"

	"github.com/tmarins/onboarding-api/internal/domain"
)

// --- In-memory fakes for the store ports ---

type fakeIdentityStore struct {
	mu         sync.Mutex
	identities map[string]*domain.Identity // keyed by id
	err        error                       // when set, every call fails with it
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{identities: map[string]*domain.Identity{}}
}

func (f *fakeIdentityStore) GetIdentityByID(_ context.Context, id string) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if identity, ok := f.identities[id]; ok {
		cp := *identity
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeIdentityStore) GetIdentityByEmail(_ context.Context, email string) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, identity := range f.identities {
		if identity.Email == email {
			cp := *identity
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeIdentityStore) CreateIdentity(_ context.Context, identity *domain.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *identity
	f.identities[identity.ID] = &cp
	return nil
}

func (f *fakeIdentityStore) ListIdentities(_ context.Context) ([]domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Identity, 0, len(f.identities))
	for _, identity := range f.identities {
		out = append(out, *identity)
	}
	return out, nil
}

func (f *fakeIdentityStore) UpdateIdentityRole(_ context.Context, id string, role domain.Role) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	identity, ok := f.identities[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	identity.Role = role
	cp := *identity
	return &cp, nil
}

type fakeCustomerStore struct {
	mu      sync.Mutex
	records map[string]*domain.CustomerRecord // keyed by id
	err     error
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{records: map[string]*domain.CustomerRecord{}}
}

func (f *fakeCustomerStore) GetRecordByID(_ context.Context, id string) (*domain.CustomerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if rec, ok := f.records[id]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCustomerStore) GetRecordByOwner(_ context.Context, ownerID string) (*domain.CustomerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, rec := range f.records {
		if rec.OwnerID == ownerID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerStore) CreateRecord(_ context.Context, rec *domain.CustomerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeCustomerStore) UpdateRecordContent(_ context.Context, id string, in *domain.SubmitInput, attachments []string) (*domain.CustomerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: id}
	}
	rec.BasicInfo = in.BasicInfo
	rec.OwnerDetails = in.OwnerDetails
	rec.Declaration = in.Declaration
	rec.Attachments = append([]string{}, attachments...)
	cp := *rec
	return &cp, nil
}

func (f *fakeCustomerStore) UpdateRecordStatus(_ context.Context, id string, status domain.Status) (*domain.CustomerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: id}
	}
	rec.Status = status
	cp := *rec
	return &cp, nil
}

func (f *fakeCustomerStore) ListRecords(_ context.Context) ([]domain.CustomerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.CustomerRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	return out, nil
}
