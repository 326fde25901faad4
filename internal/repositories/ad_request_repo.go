package repositories

import (
	"context"
	"fmt"

	"github.com/adconnect/backend/internal/models"
	"github.com/google/uuid"
)

type AdRequestRepo struct {
	db DBTX
}

func NewAdRequestRepo(db DBTX) *AdRequestRepo {
	return &AdRequestRepo{db: db}
}

const adRequestColumns = `a.id, a.campaign_id, a.influencer_id, a.messages, a.requirements,
	a.payment_amount, a.status, a.created_at, a.updated_at`

const adRequestJoin = `
	FROM ad_requests a
	JOIN campaigns c ON c.id = a.campaign_id
	JOIN users u ON u.id = a.influencer_id`

func scanAdRequest(row interface{ Scan(...any) error }, a *models.AdRequestWithCampaign) error {
	return row.Scan(&a.ID, &a.CampaignID, &a.InfluencerID, &a.Messages, &a.Requirements,
		&a.PaymentAmount, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&a.CampaignName, &a.SponsorID, &a.InfluencerUsername)
}

func (r *AdRequestRepo) Create(ctx context.Context, a *models.AdRequest) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO ad_requests (campaign_id, influencer_id, messages, requirements, payment_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.CampaignID, a.InfluencerID, a.Messages, a.Requirements, a.PaymentAmount, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *AdRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AdRequestWithCampaign, error) {
	var a models.AdRequestWithCampaign
	row := r.db.QueryRow(ctx, `
		SELECT `+adRequestColumns+`, c.name, c.sponsor_id, u.username`+adRequestJoin+`
		WHERE a.id = $1
	`, id)
	if err := scanAdRequest(row, &a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Update overwrites every mutable column, status included.
func (r *AdRequestRepo) Update(ctx context.Context, a *models.AdRequest) error {
	err := r.db.QueryRow(ctx, `
		UPDATE ad_requests SET campaign_id = $1, influencer_id = $2, messages = $3,
		       requirements = $4, payment_amount = $5, status = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`, a.CampaignID, a.InfluencerID, a.Messages, a.Requirements, a.PaymentAmount, a.Status, a.ID,
	).Scan(&a.UpdatedAt)
	return translate(err)
}

func (r *AdRequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ad_requests WHERE id = $1`, id)
	return requireAffected(tag, err)
}

func (r *AdRequestRepo) CountByCampaign(ctx context.Context, campaignID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM ad_requests WHERE campaign_id = $1`, campaignID).Scan(&n)
	return n, translate(err)
}

func (r *AdRequestRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM ad_requests`).Scan(&n)
	return n, translate(err)
}

type AdRequestFilter struct {
	CampaignID   *uuid.UUID
	InfluencerID *uuid.UUID
	SponsorID    *uuid.UUID // through campaigns
	Visibility   *string    // campaign visibility
	Status       *string
	Limit        int
	Offset       int
}

func (r *AdRequestRepo) List(ctx context.Context, f AdRequestFilter) ([]models.AdRequestWithCampaign, error) {
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CampaignID != nil {
		where = append(where, fmt.Sprintf("a.campaign_id = $%d", argIdx))
		args = append(args, *f.CampaignID)
		argIdx++
	}
	if f.InfluencerID != nil {
		where = append(where, fmt.Sprintf("a.influencer_id = $%d", argIdx))
		args = append(args, *f.InfluencerID)
		argIdx++
	}
	if f.SponsorID != nil {
		where = append(where, fmt.Sprintf("c.sponsor_id = $%d", argIdx))
		args = append(args, *f.SponsorID)
		argIdx++
	}
	if f.Visibility != nil {
		where = append(where, fmt.Sprintf("c.visibility = $%d", argIdx))
		args = append(args, *f.Visibility)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	query := `SELECT ` + adRequestColumns + `, c.name, c.sponsor_id, u.username` + adRequestJoin +
		whereClause(where) +
		fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, clampLimit(f.Limit), clampOffset(f.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var list []models.AdRequestWithCampaign
	for rows.Next() {
		var a models.AdRequestWithCampaign
		if err := scanAdRequest(rows, &a); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
