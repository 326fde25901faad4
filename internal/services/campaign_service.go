package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/rbac"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/adconnect/backend/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const errDependentAdRequests = "dependent ad requests exist"

type CampaignInput struct {
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description" validate:"required"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	Budget      *float64  `json:"budget" validate:"required,gte=0"`
	Visibility  string    `json:"visibility" validate:"required,oneof=public private"`
	Goals       string    `json:"goals" validate:"required"`
}

func (in CampaignInput) apply(c *models.Campaign) {
	c.Name = in.Name
	c.Description = in.Description
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.Budget = *in.Budget
	c.Visibility = in.Visibility
	c.Goals = in.Goals
}

type SponsorDashboard struct {
	Campaigns  []models.Campaign              `json:"campaigns"`
	AdRequests []models.AdRequestWithCampaign `json:"ad_requests"`
	Flagged    bool                           `json:"flagged"`
}

type CampaignService struct {
	store Store
	log   *zap.Logger
}

func NewCampaignService(store Store, log *zap.Logger) *CampaignService {
	return &CampaignService{store: store, log: log}
}

func (s *CampaignService) Create(ctx context.Context, actor models.Actor, in CampaignInput) (*models.Campaign, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermCreateCampaign) {
		return nil, apperr.Forbidden("only sponsors can create campaigns")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	c := &models.Campaign{SponsorID: actor.UserID}
	in.apply(c)

	err := s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Campaigns.Create(ctx, c); err != nil {
			return fmt.Errorf("create campaign: %w", err)
		}
		return audit(ctx, r, actor, models.ActionCampaignCreated, models.EntityCampaign, c.ID,
			map[string]any{"name": c.Name, "budget": c.Budget})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("campaign created", zap.String("campaign_id", c.ID.String()), zap.String("sponsor_id", actor.UserID.String()))
	return c, nil
}

// GetByID hides private campaigns from everyone except the owner and admins.
func (s *CampaignService) GetByID(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.store.Repos().Campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "campaign")
	}
	if c.IsPublic() || actor.IsAdmin() || c.SponsorID == actor.UserID {
		return c, nil
	}
	return nil, apperr.NotFound("campaign")
}

func (s *CampaignService) List(ctx context.Context, actor models.Actor, f repositories.CampaignFilter) ([]models.Campaign, error) {
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleSponsor:
		f.SponsorID = &actor.UserID
	default:
		public := models.VisibilityPublic
		f.Visibility = &public
	}
	list, err := s.store.Repos().Campaigns.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return orEmpty(list), nil
}

func (s *CampaignService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in CampaignInput) (*models.Campaign, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var updated *models.Campaign
	err := s.store.WithTx(ctx, func(r Repos) error {
		c, err := r.Campaigns.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "campaign")
		}
		if !rbac.CanManage(actor, c.SponsorID, rbac.PermManageCampaign) {
			return apperr.Forbidden("you can only edit your own campaigns")
		}

		in.apply(c)
		if err := r.Campaigns.Update(ctx, c); err != nil {
			return notFound(err, "campaign")
		}
		updated = c
		return audit(ctx, r, actor, models.ActionCampaignUpdated, models.EntityCampaign, c.ID, nil)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete refuses while any ad request still references the campaign.
func (s *CampaignService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	return s.store.WithTx(ctx, func(r Repos) error {
		c, err := r.Campaigns.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "campaign")
		}
		if !rbac.CanManage(actor, c.SponsorID, rbac.PermManageCampaign) {
			return apperr.Forbidden("you can only delete your own campaigns")
		}

		n, err := r.AdRequests.CountByCampaign(ctx, id)
		if err != nil {
			return fmt.Errorf("count ad requests: %w", err)
		}
		if n > 0 {
			return apperr.Conflict(errDependentAdRequests)
		}

		if err := r.Campaigns.Delete(ctx, id); err != nil {
			// an ad request inserted after the count still trips the FK
			if errors.Is(err, repositories.ErrReferenced) {
				return apperr.Conflict(errDependentAdRequests)
			}
			return notFound(err, "campaign")
		}
		return audit(ctx, r, actor, models.ActionCampaignDeleted, models.EntityCampaign, id,
			map[string]any{"name": c.Name})
	})
}

func (s *CampaignService) SponsorDashboard(ctx context.Context, actor models.Actor) (*SponsorDashboard, error) {
	if actor.Role != models.RoleSponsor {
		return nil, apperr.Forbidden("sponsor dashboard requires the sponsor role")
	}
	r := s.store.Repos()

	me, err := r.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	campaigns, err := r.Campaigns.List(ctx, repositories.CampaignFilter{SponsorID: &actor.UserID, Limit: dashboardLimit})
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	adRequests, err := r.AdRequests.List(ctx, repositories.AdRequestFilter{SponsorID: &actor.UserID, Limit: dashboardLimit})
	if err != nil {
		return nil, fmt.Errorf("list ad requests: %w", err)
	}

	return &SponsorDashboard{
		Campaigns:  orEmpty(campaigns),
		AdRequests: orEmpty(adRequests),
		Flagged:    me.Flagged,
	}, nil
}

// orEmpty keeps JSON lists as [] instead of null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
