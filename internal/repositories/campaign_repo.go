package repositories

import (
	"context"
	"fmt"

	"github.com/adconnect/backend/internal/models"
	"github.com/google/uuid"
)

type CampaignRepo struct {
	db DBTX
}

func NewCampaignRepo(db DBTX) *CampaignRepo {
	return &CampaignRepo{db: db}
}

const campaignColumns = `id, sponsor_id, name, description, start_date, end_date,
	budget, visibility, goals, flagged, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }, c *models.Campaign) error {
	return row.Scan(&c.ID, &c.SponsorID, &c.Name, &c.Description, &c.StartDate, &c.EndDate,
		&c.Budget, &c.Visibility, &c.Goals, &c.Flagged, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO campaigns (sponsor_id, name, description, start_date, end_date, budget, visibility, goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, flagged, created_at, updated_at
	`, c.SponsorID, c.Name, c.Description, c.StartDate, c.EndDate,
		c.Budget, c.Visibility, c.Goals,
	).Scan(&c.ID, &c.Flagged, &c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	row := r.db.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	if err := scanCampaign(row, &c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	err := r.db.QueryRow(ctx, `
		UPDATE campaigns SET name = $1, description = $2, start_date = $3, end_date = $4,
		       budget = $5, visibility = $6, goals = $7, updated_at = now()
		WHERE id = $8
		RETURNING updated_at
	`, c.Name, c.Description, c.StartDate, c.EndDate,
		c.Budget, c.Visibility, c.Goals, c.ID).Scan(&c.UpdatedAt)
	return translate(err)
}

func (r *CampaignRepo) SetFlagged(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE campaigns SET flagged = true WHERE id = $1`, id)
	return requireAffected(tag, err)
}

func (r *CampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	return requireAffected(tag, err)
}

func (r *CampaignRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM campaigns`).Scan(&n)
	return n, translate(err)
}

type CampaignFilter struct {
	SponsorID  *uuid.UUID
	Visibility *string
	Flagged    *bool
	Limit      int
	Offset     int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.SponsorID != nil {
		where = append(where, fmt.Sprintf("sponsor_id = $%d", argIdx))
		args = append(args, *f.SponsorID)
		argIdx++
	}
	if f.Visibility != nil {
		where = append(where, fmt.Sprintf("visibility = $%d", argIdx))
		args = append(args, *f.Visibility)
		argIdx++
	}
	if f.Flagged != nil {
		where = append(where, fmt.Sprintf("flagged = $%d", argIdx))
		args = append(args, *f.Flagged)
		argIdx++
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns` + whereClause(where) +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, clampLimit(f.Limit), clampOffset(f.Offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
