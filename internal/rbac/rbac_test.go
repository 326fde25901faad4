package rbac

import (
	"testing"

	"github.com/adconnect/backend/internal/models"
	"github.com/google/uuid"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role     models.Role
		perm     Permission
		expected bool
	}{
		{models.RoleSponsor, PermCreateCampaign, true},
		{models.RoleSponsor, PermRespondAdRequest, false},
		{models.RoleSponsor, PermModerate, false},
		{models.RoleInfluencer, PermRespondAdRequest, true},
		{models.RoleInfluencer, PermCreateAdRequest, false},
		{models.RoleInfluencer, PermEditProfile, true},
		{models.RoleAdmin, PermModerate, true},
		{models.RoleAdmin, PermCreateCampaign, false},
		{models.Role("Admin"), PermModerate, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.perm), func(t *testing.T) {
			if got := HasPermission(tt.role, tt.perm); got != tt.expected {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.expected)
			}
		})
	}
}

func TestCanManage(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	if !CanManage(models.Actor{UserID: owner, Role: models.RoleSponsor}, owner, PermManageCampaign) {
		t.Error("owner sponsor should manage own campaign")
	}
	if CanManage(models.Actor{UserID: other, Role: models.RoleSponsor}, owner, PermManageCampaign) {
		t.Error("other sponsor must not manage the campaign")
	}
	if !CanManage(models.Actor{UserID: other, Role: models.RoleAdmin}, owner, PermManageCampaign) {
		t.Error("admin should manage any campaign")
	}
	if CanManage(models.Actor{UserID: owner, Role: models.RoleInfluencer}, owner, PermManageCampaign) {
		t.Error("influencer lacks the permission even when ids match")
	}
}
