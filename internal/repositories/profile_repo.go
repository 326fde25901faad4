package repositories

import (
	"context"

	"github.com/adconnect/backend/internal/models"
	"github.com/google/uuid"
)

type ProfileRepo struct {
	db DBTX
}

func NewProfileRepo(db DBTX) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetOrCreate returns the profile for userID, inserting an empty one first
// if none exists.
func (r *ProfileRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.InfluencerProfile, error) {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO influencer_profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return nil, translate(err)
	}
	return r.Get(ctx, userID)
}

func (r *ProfileRepo) Get(ctx context.Context, userID uuid.UUID) (*models.InfluencerProfile, error) {
	var p models.InfluencerProfile
	err := r.db.QueryRow(ctx, `
		SELECT user_id, category, niche, reach FROM influencer_profiles WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.Category, &p.Niche, &p.Reach)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *models.InfluencerProfile) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE influencer_profiles SET category = $1, niche = $2, reach = $3 WHERE user_id = $4
	`, p.Category, p.Niche, p.Reach, p.UserID)
	return requireAffected(tag, err)
}

// ListInfluencers returns every influencer account with its profile, if any.
func (r *ProfileRepo) ListInfluencers(ctx context.Context, limit, offset int) ([]models.InfluencerWithProfile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.username, u.email, u.role, u.flagged, u.created_at,
		       p.user_id, p.category, p.niche, p.reach
		FROM users u
		LEFT JOIN influencer_profiles p ON p.user_id = u.id
		WHERE u.role = $1
		ORDER BY u.username
		LIMIT $2 OFFSET $3
	`, models.RoleInfluencer, clampLimit(limit), clampOffset(offset))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var list []models.InfluencerWithProfile
	for rows.Next() {
		var (
			iw        models.InfluencerWithProfile
			profileID *uuid.UUID
			p         models.InfluencerProfile
		)
		if err := rows.Scan(&iw.ID, &iw.Username, &iw.Email, &iw.Role, &iw.Flagged, &iw.CreatedAt,
			&profileID, &p.Category, &p.Niche, &p.Reach); err != nil {
			return nil, err
		}
		if profileID != nil {
			p.UserID = *profileID
			iw.Profile = &p
		}
		list = append(list, iw)
	}
	return list, rows.Err()
}
