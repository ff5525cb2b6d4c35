// Package service — CustomerService owns the customer-record lifecycle:
// submission upsert, staff listing, and review status changes.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tmarins/onboarding-api/internal/domain"
	"github.com/tmarins/onboarding-api/internal/infra/observability"
	"github.com/tmarins/onboarding-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var customerTracer = otel.Tracer("service/customer")

// CustomerService enforces who may touch customer records and the legal
// review transitions. All role gating goes through the shared policy table.
type CustomerService struct {
	records    port.CustomerStore
	identities port.IdentityStore
	policy     *domain.Policy
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewCustomerService creates a new customer lifecycle service.
func NewCustomerService(records port.CustomerStore, identities port.IdentityStore, policy *domain.Policy, metrics *observability.Metrics, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		records:    records,
		identities: identities,
		policy:     policy,
		metrics:    metrics,
		logger:     logger,
	}
}

// ============================================================
// Submit — POST /customers
// ============================================================

// Submit creates the caller's record on first submission and updates it on
// every later one: structured fields are overwritten wholesale, attachments
// are appended, never replaced. The find-then-write pair is not atomic
// against the same identity racing itself; the store is the arbiter for
// that duplicate.
func (s *CustomerService) Submit(ctx context.Context, caller domain.AuthUser, in *domain.SubmitInput) (*domain.CustomerRecord, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("owner.id", caller.ID))

	if !s.policy.Allows(domain.OpSubmitRecord, caller.Role) {
		return nil, &domain.ErrForbidden{Action: "submit customer record"}
	}

	existing, err := s.records.GetRecordByOwner(ctx, caller.ID)
	if err != nil {
		s.metrics.IncrExternalError("store/customers")
		return nil, fmt.Errorf("find record by owner: %w", err)
	}

	if existing == nil {
		rec := &domain.CustomerRecord{
			ID:           uuid.New().String(),
			OwnerID:      caller.ID,
			BasicInfo:    in.BasicInfo,
			OwnerDetails: in.OwnerDetails,
			Attachments:  in.Attachments,
			Declaration:  in.Declaration,
			Status:       domain.StatusPending,
			CreatedAt:    time.Now().UTC(),
		}
		if rec.Attachments == nil {
			rec.Attachments = []string{}
		}
		if err := s.records.CreateRecord(ctx, rec); err != nil {
			s.metrics.IncrExternalError("store/customers")
			return nil, fmt.Errorf("create record: %w", err)
		}

		s.metrics.IncrSubmission("created")
		s.logger.Info("customer record created",
			zap.String("record_id", rec.ID),
			zap.String("owner_id", caller.ID),
			zap.Int("attachments", len(rec.Attachments)),
		)
		return rec, nil
	}

	merged := append(append([]string{}, existing.Attachments...), in.Attachments...)
	updated, err := s.records.UpdateRecordContent(ctx, existing.ID, in, merged)
	if err != nil {
		s.metrics.IncrExternalError("store/customers")
		return nil, fmt.Errorf("update record: %w", err)
	}

	s.metrics.IncrSubmission("updated")
	s.logger.Info("customer record updated",
		zap.String("record_id", updated.ID),
		zap.String("owner_id", caller.ID),
		zap.Int("attachments", len(updated.Attachments)),
	)
	return updated, nil
}

// ============================================================
// ListAll — GET /customers
// ============================================================

// ListAll returns every record with its owner's name and email resolved.
// Records and identities are fetched concurrently and joined in memory.
func (s *CustomerService) ListAll(ctx context.Context, caller domain.AuthUser) ([]domain.CustomerRecord, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.ListAll")
	defer span.End()

	if !s.policy.Allows(domain.OpListRecords, caller.Role) {
		return nil, &domain.ErrForbidden{Action: "list customer records"}
	}

	var (
		records    []domain.CustomerRecord
		identities []domain.Identity
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.records.ListRecords(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		identities, err = s.identities.ListIdentities(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncrExternalError("store/customers")
		return nil, fmt.Errorf("list records: %w", err)
	}

	owners := make(map[string]domain.UserSummary, len(identities))
	for i := range identities {
		owners[identities[i].ID] = identities[i].Summary()
	}

	for i := range records {
		if owner, ok := owners[records[i].OwnerID]; ok {
			records[i].Owner = &owner
		}
	}
	return records, nil
}

// ============================================================
// GetOwn — GET /customers/me
// ============================================================

func (s *CustomerService) GetOwn(ctx context.Context, caller domain.AuthUser) (*domain.CustomerRecord, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.GetOwn")
	defer span.End()

	if !s.policy.Allows(domain.OpViewOwnRecord, caller.Role) {
		return nil, &domain.ErrForbidden{Action: "view own customer record"}
	}

	rec, err := s.records.GetRecordByOwner(ctx, caller.ID)
	if err != nil {
		s.metrics.IncrExternalError("store/customers")
		return nil, fmt.Errorf("find record by owner: %w", err)
	}
	if rec == nil {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: caller.ID}
	}
	return rec, nil
}

// ============================================================
// SetStatus — PATCH /customers/{id}/status
// ============================================================

// SetStatus moves a record to any member of the status enum, including back
// to pending. Values outside the enum are rejected before the store is
// touched, so a failed call never changes the persisted status.
func (s *CustomerService) SetStatus(ctx context.Context, caller domain.AuthUser, recordID, status string) (*domain.CustomerRecord, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.SetStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("record.id", recordID),
		attribute.String("status", status),
	)

	if !s.policy.Allows(domain.OpSetRecordStatus, caller.Role) {
		return nil, &domain.ErrForbidden{Action: "update customer status"}
	}
	if !domain.ValidStatus(status) {
		return nil, &domain.ErrValidation{Field: "status", Message: "invalid status"}
	}

	existing, err := s.records.GetRecordByID(ctx, recordID)
	if err != nil {
		s.metrics.IncrExternalError("store/customers")
		return nil, fmt.Errorf("get record: %w", err)
	}
	if existing == nil {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: recordID}
	}

	updated, err := s.records.UpdateRecordStatus(ctx, recordID, domain.Status(status))
	if err != nil {
		s.metrics.IncrExternalError("store/customers")
		return nil, fmt.Errorf("update status: %w", err)
	}

	if owner, err := s.identities.GetIdentityByID(ctx, updated.OwnerID); err == nil && owner != nil {
		summary := owner.Summary()
		updated.Owner = &summary
	}

	s.metrics.IncrStatusTransition(status)
	s.logger.Info("customer status updated",
		zap.String("record_id", recordID),
		zap.String("status", status),
		zap.String("reviewer_id", caller.ID),
	)
	return updated, nil
}
