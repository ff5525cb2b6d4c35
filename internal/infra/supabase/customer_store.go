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
// CustomerStore implementation — customer records via PostgREST
// ============================================================

// recordRow maps the customer_records table columns. basic_info and
// owner_details are jsonb columns and unmarshal straight into the domain
// structs.
type recordRow struct {
	ID           string              `json:"id"`
	OwnerID      string              `json:"owner_id"`
	BasicInfo    domain.BasicInfo    `json:"basic_info"`
	OwnerDetails domain.OwnerDetails `json:"owner_details"`
	Attachments  []string            `json:"attachments"`
	Declaration  bool                `json:"declaration"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

func (r *recordRow) toDomain() *domain.CustomerRecord {
	attachments := r.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &domain.CustomerRecord{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		BasicInfo:    r.BasicInfo,
		OwnerDetails: r.OwnerDetails,
		Attachments:  attachments,
		Declaration:  r.Declaration,
		Status:       domain.Status(r.Status),
		CreatedAt:    r.CreatedAt,
	}
}

func (c *Client) GetRecordByID(ctx context.Context, id string) (*domain.CustomerRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRecordByID")
	defer span.End()

	path := fmt.Sprintf("customer_records?id=eq.%s&limit=1", url.QueryEscape(id))
	return c.getRecord(ctx, path)
}

func (c *Client) GetRecordByOwner(ctx context.Context, ownerID string) (*domain.CustomerRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRecordByOwner")
	defer span.End()

	path := fmt.Sprintf("customer_records?owner_id=eq.%s&limit=1", url.QueryEscape(ownerID))
	return c.getRecord(ctx, path)
}

func (c *Client) CreateRecord(ctx context.Context, rec *domain.CustomerRecord) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateRecord")
	defer span.End()

	data := map[string]any{
		"id":            rec.ID,
		"owner_id":      rec.OwnerID,
		"basic_info":    rec.BasicInfo,
		"owner_details": rec.OwnerDetails,
		"attachments":   rec.Attachments,
		"declaration":   rec.Declaration,
		"status":        string(rec.Status),
		"created_at":    rec.CreatedAt.Format(time.RFC3339),
	}

	_, err := c.doPost(ctx, "customer_records", data)
	return err
}

// UpdateRecordContent overwrites the structured fields and replaces the
// attachment list with the already-merged sequence supplied by the service.
func (c *Client) UpdateRecordContent(ctx context.Context, id string, in *domain.SubmitInput, attachments []string) (*domain.CustomerRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateRecordContent")
	defer span.End()

	path := fmt.Sprintf("customer_records?id=eq.%s", url.QueryEscape(id))
	updates := map[string]any{
		"basic_info":    in.BasicInfo,
		"owner_details": in.OwnerDetails,
		"declaration":   in.Declaration,
		"attachments":   attachments,
	}
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, err
	}

	return c.refetchRecord(ctx, id)
}

func (c *Client) UpdateRecordStatus(ctx context.Context, id string, status domain.Status) (*domain.CustomerRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateRecordStatus")
	defer span.End()

	path := fmt.Sprintf("customer_records?id=eq.%s", url.QueryEscape(id))
	if err := c.doPatch(ctx, path, map[string]any{"status": string(status)}); err != nil {
		return nil, err
	}

	return c.refetchRecord(ctx, id)
}

func (c *Client) ListRecords(ctx context.Context) ([]domain.CustomerRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListRecords")
	defer span.End()

	body, err := c.protectedGet(ctx, "customer_records?order=created_at.asc")
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return []domain.CustomerRecord{}, nil
	}

	var rows []recordRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode customer_records: %w", err)
	}

	out := make([]domain.CustomerRecord, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

func (c *Client) getRecord(ctx context.Context, path string) (*domain.CustomerRecord, error) {
	body, err := c.protectedGet(ctx, path)
	if err != nil {
		return nil, err
	}
	if body == nil || string(body) == "[]" {
		return nil, nil
	}

	var rows []recordRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode customer_records: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toDomain(), nil
}

func (c *Client) refetchRecord(ctx context.Context, id string) (*domain.CustomerRecord, error) {
	rec, err := c.GetRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: id}
	}
	return rec, nil
}
