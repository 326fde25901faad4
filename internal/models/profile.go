package models

import "github.com/google/uuid"

// InfluencerProfile extends an influencer account one-to-one.
type InfluencerProfile struct {
	UserID   uuid.UUID `json:"user_id"`
	Category *string   `json:"category,omitempty"`
	Niche    *string   `json:"niche,omitempty"`
	Reach    *string   `json:"reach,omitempty"`
}
