package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/tmarins/onboarding-api/internal/domain"
)

// ============================================================
// IdentityStore implementation — credential records via PostgREST
// ============================================================

// identityRow maps the identities table columns to our domain.
type identityRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *identityRow) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		CreatedAt:    r.CreatedAt,
	}
}

func (c *Client) GetIdentityByID(ctx context.Context, id string) (*domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetIdentityByID")
	defer span.End()

	path := fmt.Sprintf("identities?id=eq.%s&limit=1", url.QueryEscape(id))
	row, err := c.getIdentity(ctx, path)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return row.toDomain(), nil
}

func (c *Client) GetIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetIdentityByEmail")
	defer span.End()

	path := fmt.Sprintf("identities?email=eq.%s&limit=1", url.QueryEscape(email))
	row, err := c.getIdentity(ctx, path)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil // not found is not an error for auth lookups
	}
	return row.toDomain(), nil
}

func (c *Client) CreateIdentity(ctx context.Context, identity *domain.Identity) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateIdentity")
	defer span.End()

	data := map[string]any{
		"id":            identity.ID,
		"name":          identity.Name,
		"email":         identity.Email,
		"password_hash": identity.PasswordHash,
		"role":          string(identity.Role),
		"created_at":    identity.CreatedAt.Format(time.RFC3339),
	}

	_, err := c.doPost(ctx, "identities", data)
	if err != nil {
		// The unique index on email is the second line of defense behind the
		// service's explicit duplicate check.
		if isConflict(err) {
			return &domain.ErrConflict{Message: "an account with this email already exists"}
		}
		return err
	}
	return nil
}

func (c *Client) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListIdentities")
	defer span.End()

	body, err := c.protectedGet(ctx, "identities?order=created_at.asc")
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.Identity{}, nil
	}

	var rows []identityRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode identities: %w", err)
	}

	out := make([]domain.Identity, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

func (c *Client) UpdateIdentityRole(ctx context.Context, id string, role domain.Role) (*domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateIdentityRole")
	defer span.End()

	// PostgREST patches zero rows silently for an unknown id; the re-fetch
	// below is what surfaces not-found.
	path := fmt.Sprintf("identities?id=eq.%s", url.QueryEscape(id))
	if err := c.doPatch(ctx, path, map[string]any{"role": string(role)}); err != nil {
		return nil, err
	}

	updated, err := c.GetIdentityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: id}
	}
	return updated, nil
}

func (c *Client) getIdentity(ctx context.Context, path string) (*identityRow, error) {
	body, err := c.protectedGet(ctx, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil
	}

	var rows []identityRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode identities: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
