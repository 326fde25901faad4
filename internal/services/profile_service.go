package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/rbac"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/adconnect/backend/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileInput struct {
	Category string `json:"category" validate:"required,max=100"`
	Niche    string `json:"niche" validate:"required,max=100"`
	Reach    string `json:"reach" validate:"required,max=25"`
}

type ProfileService struct {
	store Store
	log   *zap.Logger
}

func NewProfileService(store Store, log *zap.Logger) *ProfileService {
	return &ProfileService{store: store, log: log}
}

// Get returns the acting influencer's profile, creating an empty one on
// first access.
func (s *ProfileService) Get(ctx context.Context, actor models.Actor) (*models.InfluencerProfile, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermEditProfile) {
		return nil, apperr.Forbidden("only influencers have a profile")
	}

	var p *models.InfluencerProfile
	err := s.store.WithTx(ctx, func(r Repos) error {
		var err error
		p, err = r.Profiles.GetOrCreate(ctx, actor.UserID)
		if err != nil {
			return notFound(err, "profile")
		}
		return nil
	})
	return p, err
}

func (s *ProfileService) Update(ctx context.Context, actor models.Actor, in ProfileInput) (*models.InfluencerProfile, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermEditProfile) {
		return nil, apperr.Forbidden("only influencers have a profile")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var p *models.InfluencerProfile
	err := s.store.WithTx(ctx, func(r Repos) error {
		var err error
		if p, err = r.Profiles.GetOrCreate(ctx, actor.UserID); err != nil {
			return notFound(err, "profile")
		}
		p.Category = &in.Category
		p.Niche = &in.Niche
		p.Reach = &in.Reach
		if err := r.Profiles.Update(ctx, p); err != nil {
			return notFound(err, "profile")
		}
		return audit(ctx, r, actor, models.ActionProfileUpdated, models.EntityProfile, actor.UserID, nil)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) ListInfluencers(ctx context.Context, actor models.Actor, limit, offset int) ([]models.InfluencerWithProfile, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermBrowseInfluencers) {
		return nil, apperr.Forbidden("you cannot browse influencers")
	}
	list, err := s.store.Repos().Profiles.ListInfluencers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list influencers: %w", err)
	}
	return orEmpty(list), nil
}

// GetInfluencer returns one influencer with its profile. Users of other roles
// are reported as not found.
func (s *ProfileService) GetInfluencer(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.InfluencerWithProfile, error) {
	if !rbac.HasPermission(actor.Role, rbac.PermBrowseInfluencers) {
		return nil, apperr.Forbidden("you cannot browse influencers")
	}
	r := s.store.Repos()

	u, err := r.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "influencer")
	}
	if u.Role != models.RoleInfluencer {
		return nil, apperr.NotFound("influencer")
	}

	out := &models.InfluencerWithProfile{User: *u}
	p, err := r.Profiles.Get(ctx, id)
	switch {
	case err == nil:
		out.Profile = p
	case errors.Is(err, repositories.ErrNotFound):
	default:
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return out, nil
}
