package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign visibility
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Campaign struct {
	ID          uuid.UUID `json:"id"`
	SponsorID   uuid.UUID `json:"sponsor_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Budget      float64   `json:"budget"`
	Visibility  string    `json:"visibility"`
	Goals       string    `json:"goals"`
	Flagged     bool      `json:"flagged"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Campaign) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}
