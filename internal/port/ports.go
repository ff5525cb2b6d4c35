// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"mime/multipart"

	"github.com/tmarins/onboarding-api/internal/domain"
)

// IdentityStore holds credential records. Lookups by email expect the
// normalized (trimmed, lower-cased) form.
type IdentityStore interface {
	GetIdentityByID(ctx context.Context, id string) (*domain.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error)
	CreateIdentity(ctx context.Context, identity *domain.Identity) error
	ListIdentities(ctx context.Context) ([]domain.Identity, error)
	UpdateIdentityRole(ctx context.Context, id string, role domain.Role) (*domain.Identity, error)
}

// CustomerStore holds customer records, one per owning identity.
type CustomerStore interface {
	GetRecordByID(ctx context.Context, id string) (*domain.CustomerRecord, error)
	GetRecordByOwner(ctx context.Context, ownerID string) (*domain.CustomerRecord, error)
	CreateRecord(ctx context.Context, rec *domain.CustomerRecord) error
	UpdateRecordContent(ctx context.Context, id string, in *domain.SubmitInput, attachments []string) (*domain.CustomerRecord, error)
	UpdateRecordStatus(ctx context.Context, id string, status domain.Status) (*domain.CustomerRecord, error)
	ListRecords(ctx context.Context) ([]domain.CustomerRecord, error)
}

// FileStore persists uploaded attachments and returns the reference each
// file will be served under.
type FileStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}
