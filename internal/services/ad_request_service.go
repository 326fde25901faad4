package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/events"
	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/rbac"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/adconnect/backend/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdRequestInput struct {
	CampaignID    uuid.UUID `json:"campaign_id" validate:"required"`
	InfluencerID  uuid.UUID `json:"influencer_id" validate:"required"`
	Messages      string    `json:"messages" validate:"required"`
	Requirements  string    `json:"requirements" validate:"required,max=50"`
	PaymentAmount *float64  `json:"payment_amount" validate:"required,gte=0"`
}

// SponsorEditInput is an AdRequestInput plus the status the sponsor asks for.
// An empty status leaves it to the current one.
type SponsorEditInput struct {
	CampaignID    uuid.UUID `json:"campaign_id" validate:"required"`
	InfluencerID  uuid.UUID `json:"influencer_id" validate:"required"`
	Messages      string    `json:"messages" validate:"required"`
	Requirements  string    `json:"requirements" validate:"required,max=50"`
	PaymentAmount *float64  `json:"payment_amount" validate:"required,gte=0"`
	Status        string    `json:"status" validate:"omitempty,oneof=Pending Negotiating Accepted Rejected"`
}

type NegotiateInput struct {
	Messages      string   `json:"messages" validate:"required"`
	PaymentAmount *float64 `json:"payment_amount" validate:"required,gte=0"`
}

type InfluencerDashboard struct {
	AdRequests []models.AdRequestWithCampaign `json:"ad_requests"`
	Flagged    bool                           `json:"flagged"`
}

type AdRequestService struct {
	store     Store
	publisher events.Publisher
	log       *zap.Logger
}

func NewAdRequestService(store Store, publisher events.Publisher, log *zap.Logger) *AdRequestService {
	return &AdRequestService{store: store, publisher: publisher, log: log}
}

func (s *AdRequestService) Create(ctx context.Context, actor models.Actor, in AdRequestInput) (*models.AdRequest, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermCreateAdRequest) {
		return nil, apperr.Forbidden("only sponsors can create ad requests")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	a := &models.AdRequest{
		CampaignID:    in.CampaignID,
		InfluencerID:  in.InfluencerID,
		Messages:      in.Messages,
		Requirements:  in.Requirements,
		PaymentAmount: *in.PaymentAmount,
		Status:        models.AdRequestStatusPending,
	}

	var box outbox
	err := s.store.WithTx(ctx, func(r Repos) error {
		c, err := r.Campaigns.GetByID(ctx, in.CampaignID)
		if err != nil {
			return notFound(err, "campaign")
		}
		if c.SponsorID != actor.UserID {
			return apperr.Forbidden("you can only create ad requests for your own campaigns")
		}
		if err := requireInfluencer(ctx, r, in.InfluencerID); err != nil {
			return err
		}

		if err := r.AdRequests.Create(ctx, a); err != nil {
			return fmt.Errorf("create ad request: %w", err)
		}
		if err := audit(ctx, r, actor, models.ActionAdRequestCreated, models.EntityAdRequest, a.ID,
			map[string]any{"campaign_id": a.CampaignID, "influencer_id": a.InfluencerID}); err != nil {
			return err
		}

		box.add(events.ChannelAdRequest, events.Event{
			Type:       events.EventAdRequestCreated,
			Recipients: recipients(a.InfluencerID),
			Payload:    adRequestPayload(a, c.Name),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.publisher, s.log)

	s.log.Info("ad request created",
		zap.String("ad_request_id", a.ID.String()),
		zap.String("campaign_id", a.CampaignID.String()),
	)
	return a, nil
}

// GetByID is visible to the target influencer, the campaign owner and admins.
func (s *AdRequestService) GetByID(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.AdRequestWithCampaign, error) {
	a, err := s.store.Repos().AdRequests.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "ad request")
	}
	if actor.IsAdmin() || a.InfluencerID == actor.UserID || a.SponsorID == actor.UserID {
		return a, nil
	}
	return nil, apperr.Forbidden("you are not a party to this ad request")
}

func (s *AdRequestService) Accept(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.AdRequest, error) {
	return s.respond(ctx, actor, id, func(a *models.AdRequest) {
		a.Status = models.AdRequestStatusAccepted
	})
}

func (s *AdRequestService) Reject(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.AdRequest, error) {
	return s.respond(ctx, actor, id, func(a *models.AdRequest) {
		a.Status = models.AdRequestStatusRejected
	})
}

// Negotiate replaces the terms with the influencer's counter-offer.
func (s *AdRequestService) Negotiate(ctx context.Context, actor models.Actor, id uuid.UUID, in NegotiateInput) (*models.AdRequest, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.respond(ctx, actor, id, func(a *models.AdRequest) {
		a.Messages = in.Messages
		a.PaymentAmount = *in.PaymentAmount
		a.Status = models.AdRequestStatusNegotiating
	})
}

// respond applies an influencer decision. Only the influencer the request is
// addressed to may respond, and the new status is set whatever the current
// one is.
func (s *AdRequestService) respond(ctx context.Context, actor models.Actor, id uuid.UUID, mutate func(a *models.AdRequest)) (*models.AdRequest, error) {
	var (
		box     outbox
		updated *models.AdRequest
	)
	err := s.store.WithTx(ctx, func(r Repos) error {
		found, err := r.AdRequests.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "ad request")
		}
		if !rbac.HasPermission(actor.Role, rbac.PermRespondAdRequest) || found.InfluencerID != actor.UserID {
			return apperr.Forbidden("this ad request is not addressed to you")
		}

		a := found.AdRequest
		from := a.Status
		mutate(&a)
		if err := r.AdRequests.Update(ctx, &a); err != nil {
			return notFound(err, "ad request")
		}
		if err := audit(ctx, r, actor, models.ActionAdRequestStatus, models.EntityAdRequest, a.ID,
			map[string]any{"from": from, "to": a.Status}); err != nil {
			return err
		}

		payload := adRequestPayload(&a, found.CampaignName)
		payload["previous_status"] = from
		box.add(events.ChannelAdRequest, events.Event{
			Type:       events.EventAdRequestStatusChanged,
			Recipients: recipients(found.SponsorID, a.InfluencerID),
			Payload:    payload,
		})
		updated = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.publisher, s.log)
	return updated, nil
}

// SponsorEdit overwrites the request terms. The status follows
// models.ResolveSponsorStatus.
func (s *AdRequestService) SponsorEdit(ctx context.Context, actor models.Actor, id uuid.UUID, in SponsorEditInput) (*models.AdRequest, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var (
		box     outbox
		updated *models.AdRequest
	)
	err := s.store.WithTx(ctx, func(r Repos) error {
		found, err := r.AdRequests.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "ad request")
		}
		if !rbac.CanManage(actor, found.SponsorID, rbac.PermManageAdRequest) {
			return apperr.Forbidden("you can only edit ad requests on your own campaigns")
		}

		campaignName := found.CampaignName
		if in.CampaignID != found.CampaignID {
			c, err := r.Campaigns.GetByID(ctx, in.CampaignID)
			if err != nil {
				return notFound(err, "campaign")
			}
			if !rbac.CanManage(actor, c.SponsorID, rbac.PermManageAdRequest) {
				return apperr.Forbidden("you can only move ad requests to your own campaigns")
			}
			campaignName = c.Name
		}
		if in.InfluencerID != found.InfluencerID {
			if err := requireInfluencer(ctx, r, in.InfluencerID); err != nil {
				return err
			}
		}

		a := found.AdRequest
		from := a.Status
		a.CampaignID = in.CampaignID
		a.InfluencerID = in.InfluencerID
		a.Messages = in.Messages
		a.Requirements = in.Requirements
		a.PaymentAmount = *in.PaymentAmount
		a.Status = models.ResolveSponsorStatus(from, in.Status)

		if err := r.AdRequests.Update(ctx, &a); err != nil {
			return notFound(err, "ad request")
		}
		if err := audit(ctx, r, actor, models.ActionAdRequestUpdated, models.EntityAdRequest, a.ID,
			map[string]any{"from": from, "to": a.Status, "requested": in.Status}); err != nil {
			return err
		}

		evType := events.EventAdRequestUpdated
		payload := adRequestPayload(&a, campaignName)
		if a.Status != from {
			evType = events.EventAdRequestStatusChanged
			payload["previous_status"] = from
		}
		box.add(events.ChannelAdRequest, events.Event{
			Type:       evType,
			Recipients: recipients(found.SponsorID, found.InfluencerID, a.InfluencerID),
			Payload:    payload,
		})
		updated = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	box.flush(ctx, s.publisher, s.log)
	return updated, nil
}

func (s *AdRequestService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	var box outbox
	err := s.store.WithTx(ctx, func(r Repos) error {
		found, err := r.AdRequests.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "ad request")
		}
		if !rbac.CanManage(actor, found.SponsorID, rbac.PermManageAdRequest) {
			return apperr.Forbidden("you can only delete ad requests on your own campaigns")
		}

		if err := r.AdRequests.Delete(ctx, id); err != nil {
			return notFound(err, "ad request")
		}
		if err := audit(ctx, r, actor, models.ActionAdRequestDeleted, models.EntityAdRequest, id,
			map[string]any{"campaign_id": found.CampaignID, "status": found.Status}); err != nil {
			return err
		}

		box.add(events.ChannelAdRequest, events.Event{
			Type:       events.EventAdRequestDeleted,
			Recipients: recipients(found.InfluencerID),
			Payload:    map[string]any{"ad_request_id": id, "campaign_id": found.CampaignID},
		})
		return nil
	})
	if err != nil {
		return err
	}
	box.flush(ctx, s.publisher, s.log)
	return nil
}

// ListPublic returns ad requests attached to public campaigns.
func (s *AdRequestService) ListPublic(ctx context.Context, actor models.Actor, limit, offset int) ([]models.AdRequestWithCampaign, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermBrowsePublicAds) {
		return nil, apperr.Forbidden("only influencers can browse public ad requests")
	}
	public := models.VisibilityPublic
	list, err := s.store.Repos().AdRequests.List(ctx, repositories.AdRequestFilter{
		Visibility: &public,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list public ad requests: %w", err)
	}
	return orEmpty(list), nil
}

func (s *AdRequestService) InfluencerDashboard(ctx context.Context, actor models.Actor) (*InfluencerDashboard, error) {
	if actor.Role != models.RoleInfluencer {
		return nil, apperr.Forbidden("influencer dashboard requires the influencer role")
	}
	r := s.store.Repos()

	me, err := r.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	list, err := r.AdRequests.List(ctx, repositories.AdRequestFilter{InfluencerID: &actor.UserID, Limit: dashboardLimit})
	if err != nil {
		return nil, fmt.Errorf("list ad requests: %w", err)
	}
	return &InfluencerDashboard{AdRequests: orEmpty(list), Flagged: me.Flagged}, nil
}

func requireInfluencer(ctx context.Context, r Repos, id uuid.UUID) error {
	u, err := r.Users.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.Validation("influencer does not exist", map[string]string{"influencer_id": "unknown influencer"})
	}
	if err != nil {
		return fmt.Errorf("load influencer: %w", err)
	}
	if u.Role != models.RoleInfluencer {
		return apperr.Validation("user is not an influencer", map[string]string{"influencer_id": "not an influencer"})
	}
	return nil
}

func adRequestPayload(a *models.AdRequest, campaignName string) map[string]any {
	return map[string]any{
		"ad_request_id":  a.ID,
		"campaign_id":    a.CampaignID,
		"campaign_name":  campaignName,
		"influencer_id":  a.InfluencerID,
		"status":         a.Status,
		"payment_amount": a.PaymentAmount,
	}
}
