package rbac

import (
	"github.com/adconnect/backend/internal/models"
	"github.com/google/uuid"
)

type Permission string

// Permission constants
const (
	PermCreateCampaign    Permission = "create_campaign"
	PermManageCampaign    Permission = "manage_campaign"
	PermCreateAdRequest   Permission = "create_ad_request"
	PermManageAdRequest   Permission = "manage_ad_request"
	PermRespondAdRequest  Permission = "respond_ad_request"
	PermBrowseInfluencers Permission = "browse_influencers"
	PermBrowsePublicAds   Permission = "browse_public_ads"
	PermEditProfile       Permission = "edit_profile"
	PermModerate          Permission = "moderate"
	PermViewAll           Permission = "view_all"
)

// RolePermissions defines what each role can do. Ownership of the target
// record is checked separately by the services.
var RolePermissions = map[models.Role][]Permission{
	models.RoleAdmin: {
		PermManageCampaign, PermManageAdRequest, PermBrowseInfluencers,
		PermModerate, PermViewAll,
		// Admin CANNOT: create campaigns or respond on an influencer's behalf
	},
	models.RoleSponsor: {
		PermCreateCampaign, PermManageCampaign, PermCreateAdRequest,
		PermManageAdRequest, PermBrowseInfluencers,
	},
	models.RoleInfluencer: {
		PermRespondAdRequest, PermBrowsePublicAds, PermEditProfile,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role models.Role, permission Permission) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// CanManage reports whether actor may mutate a record owned by ownerID
// under permission: the owner holding it, or an admin.
func CanManage(actor models.Actor, ownerID uuid.UUID, permission Permission) bool {
	if !HasPermission(actor.Role, permission) {
		return false
	}
	return actor.IsAdmin() || actor.UserID == ownerID
}
