package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad request statuses
const (
	AdRequestStatusPending     = "Pending"
	AdRequestStatusNegotiating = "Negotiating"
	AdRequestStatusAccepted    = "Accepted"
	AdRequestStatusRejected    = "Rejected"
)

var AllAdRequestStatuses = []string{
	AdRequestStatusPending,
	AdRequestStatusNegotiating,
	AdRequestStatusAccepted,
	AdRequestStatusRejected,
}

func IsValidAdRequestStatus(s string) bool {
	for _, st := range AllAdRequestStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// ResolveSponsorStatus returns the status an ad request ends up in after a
// sponsor edit. Pending may move to Negotiating; Accepted and Rejected are
// forced from any state; every other request keeps the current status.
func ResolveSponsorStatus(current, requested string) string {
	switch {
	case current == AdRequestStatusPending && requested == AdRequestStatusNegotiating:
		return AdRequestStatusNegotiating
	case requested == AdRequestStatusAccepted:
		return AdRequestStatusAccepted
	case requested == AdRequestStatusRejected:
		return AdRequestStatusRejected
	default:
		return current
	}
}

type AdRequest struct {
	ID            uuid.UUID `json:"id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	InfluencerID  uuid.UUID `json:"influencer_id"`
	Messages      string    `json:"messages"`
	Requirements  string    `json:"requirements"`
	PaymentAmount float64   `json:"payment_amount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AdRequestWithCampaign embeds AdRequest and adds campaign and influencer
// info to avoid N+1 queries.
type AdRequestWithCampaign struct {
	AdRequest
	CampaignName       string    `json:"campaign_name"`
	SponsorID          uuid.UUID `json:"sponsor_id"`
	InfluencerUsername string    `json:"influencer_username"`
}
