package services

import (
	"context"

	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
	SetFlagged(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, f repositories.UserFilter) ([]models.User, error)
}

type CampaignRepository interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	Update(ctx context.Context, c *models.Campaign) error
	SetFlagged(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error)
}

type AdRequestRepository interface {
	Create(ctx context.Context, a *models.AdRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdRequestWithCampaign, error)
	Update(ctx context.Context, a *models.AdRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCampaign(ctx context.Context, campaignID uuid.UUID) (int, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, f repositories.AdRequestFilter) ([]models.AdRequestWithCampaign, error)
}

type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.InfluencerProfile, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.InfluencerProfile, error)
	Update(ctx context.Context, p *models.InfluencerProfile) error
	ListInfluencers(ctx context.Context, limit, offset int) ([]models.InfluencerWithProfile, error)
}

type AuditRepository interface {
	Log(ctx context.Context, entry models.AuditLog) error
	GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]models.AuditLog, error)
}

// Repos groups repositories bound to one connection or transaction.
type Repos struct {
	Users      UserRepository
	Campaigns  CampaignRepository
	AdRequests AdRequestRepository
	Profiles   ProfileRepository
	Audit      AuditRepository
}

// Store hands out repositories. WithTx runs fn in a single transaction that
// commits only if fn returns nil.
type Store interface {
	Repos() Repos
	WithTx(ctx context.Context, fn func(r Repos) error) error
}

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Repos() Repos {
	return reposFor(s.pool)
}

func (s *PgStore) WithTx(ctx context.Context, fn func(r Repos) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(reposFor(tx))
	})
}

func reposFor(db repositories.DBTX) Repos {
	return Repos{
		Users:      repositories.NewUserRepo(db),
		Campaigns:  repositories.NewCampaignRepo(db),
		AdRequests: repositories.NewAdRequestRepo(db),
		Profiles:   repositories.NewProfileRepo(db),
		Audit:      repositories.NewAuditRepo(db),
	}
}
