package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions
const (
	ActionUserRegistered   = "user_registered"
	ActionUserFlagged      = "user_flagged"
	ActionCampaignCreated  = "campaign_created"
	ActionCampaignUpdated  = "campaign_updated"
	ActionCampaignDeleted  = "campaign_deleted"
	ActionCampaignFlagged  = "campaign_flagged"
	ActionAdRequestCreated = "ad_request_created"
	ActionAdRequestUpdated = "ad_request_updated"
	ActionAdRequestDeleted = "ad_request_deleted"
	ActionAdRequestStatus  = "ad_request_status_changed"
	ActionProfileUpdated   = "influencer_profile_updated"
)

// Audit entity types
const (
	EntityUser      = "user"
	EntityCampaign  = "campaign"
	EntityAdRequest = "ad_request"
	EntityProfile   = "influencer_profile"
)

type AuditLog struct {
	ID          uuid.UUID  `json:"id"`
	ActorUserID *uuid.UUID `json:"actor_user_id,omitempty"`
	ActorRole   string     `json:"actor_role"`
	Action      string     `json:"action"`
	EntityType  string     `json:"entity_type"`
	EntityID    *uuid.UUID `json:"entity_id,omitempty"`
	Meta        any        `json:"meta,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
