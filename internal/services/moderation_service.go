package services

import (
	"context"
	"fmt"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/events"
	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/rbac"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminStats struct {
	Users      int `json:"users"`
	Campaigns  int `json:"campaigns"`
	AdRequests int `json:"ad_requests"`
}

type AdminDashboard struct {
	Stats            AdminStats                     `json:"stats"`
	Users            []models.User                  `json:"users"`
	Campaigns        []models.Campaign              `json:"campaigns"`
	AdRequests       []models.AdRequestWithCampaign `json:"ad_requests"`
	FlaggedUsers     []models.User                  `json:"flagged_users"`
	FlaggedCampaigns []models.Campaign              `json:"flagged_campaigns"`
}

type ModerationService struct {
	store     Store
	publisher events.Publisher
	log       *zap.Logger
}

func NewModerationService(store Store, publisher events.Publisher, log *zap.Logger) *ModerationService {
	return &ModerationService{store: store, publisher: publisher, log: log}
}

// FlagUser marks a user as flagged. Flagging an already flagged user succeeds
// without writing anything.
func (s *ModerationService) FlagUser(ctx context.Context, actor models.Actor, userID uuid.UUID) (*models.User, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermModerate) {
		return nil, apperr.Forbidden("only admins can flag users")
	}

	var (
		box  outbox
		user *models.User
	)
	err := s.store.WithTx(ctx, func(r Repos) error {
		u, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return notFound(err, "user")
		}
		user = u
		if u.Flagged {
			return nil
		}

		if err := r.Users.SetFlagged(ctx, userID); err != nil {
			return notFound(err, "user")
		}
		u.Flagged = true
		if err := audit(ctx, r, actor, models.ActionUserFlagged, models.EntityUser, userID,
			map[string]any{"username": u.Username}); err != nil {
			return err
		}
		box.add(events.ChannelModeration, events.Event{
			Type:       events.EventUserFlagged,
			Recipients: recipients(userID),
			Payload:    map[string]any{"user_id": userID, "username": u.Username},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.publisher, s.log)

	s.log.Info("user flagged", zap.String("user_id", userID.String()), zap.String("admin_id", actor.UserID.String()))
	return user, nil
}

func (s *ModerationService) FlagCampaign(ctx context.Context, actor models.Actor, campaignID uuid.UUID) (*models.Campaign, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermModerate) {
		return nil, apperr.Forbidden("only admins can flag campaigns")
	}

	var (
		box      outbox
		campaign *models.Campaign
	)
	err := s.store.WithTx(ctx, func(r Repos) error {
		c, err := r.Campaigns.GetByID(ctx, campaignID)
		if err != nil {
			return notFound(err, "campaign")
		}
		campaign = c
		if c.Flagged {
			return nil
		}

		if err := r.Campaigns.SetFlagged(ctx, campaignID); err != nil {
			return notFound(err, "campaign")
		}
		c.Flagged = true
		if err := audit(ctx, r, actor, models.ActionCampaignFlagged, models.EntityCampaign, campaignID,
			map[string]any{"name": c.Name}); err != nil {
			return err
		}
		box.add(events.ChannelModeration, events.Event{
			Type:       events.EventCampaignFlagged,
			Recipients: recipients(c.SponsorID),
			Payload:    map[string]any{"campaign_id": campaignID, "name": c.Name},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.publisher, s.log)

	s.log.Info("campaign flagged", zap.String("campaign_id", campaignID.String()), zap.String("admin_id", actor.UserID.String()))
	return campaign, nil
}

func (s *ModerationService) Dashboard(ctx context.Context, actor models.Actor) (*AdminDashboard, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermViewAll) {
		return nil, apperr.Forbidden("admin dashboard requires the admin role")
	}
	r := s.store.Repos()

	var (
		d   AdminDashboard
		err error
	)
	if d.Stats.Users, err = r.Users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if d.Stats.Campaigns, err = r.Campaigns.Count(ctx); err != nil {
		return nil, fmt.Errorf("count campaigns: %w", err)
	}
	if d.Stats.AdRequests, err = r.AdRequests.Count(ctx); err != nil {
		return nil, fmt.Errorf("count ad requests: %w", err)
	}

	if d.Users, err = r.Users.List(ctx, repositories.UserFilter{ExcludeID: &actor.UserID, Limit: dashboardLimit}); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if d.Campaigns, err = r.Campaigns.List(ctx, repositories.CampaignFilter{Limit: dashboardLimit}); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	if d.AdRequests, err = r.AdRequests.List(ctx, repositories.AdRequestFilter{Limit: dashboardLimit}); err != nil {
		return nil, fmt.Errorf("list ad requests: %w", err)
	}

	flagged := true
	if d.FlaggedUsers, err = r.Users.List(ctx, repositories.UserFilter{Flagged: &flagged, Limit: dashboardLimit}); err != nil {
		return nil, fmt.Errorf("list flagged users: %w", err)
	}
	if d.FlaggedCampaigns, err = r.Campaigns.List(ctx, repositories.CampaignFilter{Flagged: &flagged, Limit: dashboardLimit}); err != nil {
		return nil, fmt.Errorf("list flagged campaigns: %w", err)
	}

	d.Users = orEmpty(d.Users)
	d.Campaigns = orEmpty(d.Campaigns)
	d.AdRequests = orEmpty(d.AdRequests)
	d.FlaggedUsers = orEmpty(d.FlaggedUsers)
	d.FlaggedCampaigns = orEmpty(d.FlaggedCampaigns)
	return &d, nil
}
