package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is one of the closed set of account roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSponsor    Role = "sponsor"
	RoleInfluencer Role = "influencer"
)

var AllRoles = []Role{RoleAdmin, RoleSponsor, RoleInfluencer}

// ParseRole normalizes case and surrounding whitespace, so "Admin" and
// "admin" resolve to the same role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllRoles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Flagged      bool      `json:"flagged"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// InfluencerWithProfile joins an influencer account with its optional profile.
type InfluencerWithProfile struct {
	User
	Profile *InfluencerProfile `json:"profile,omitempty"`
}
