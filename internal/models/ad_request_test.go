package models

import "testing"

func TestResolveSponsorStatus(t *testing.T) {
	tests := []struct {
		current   string
		requested string
		expected  string
	}{
		{AdRequestStatusPending, AdRequestStatusNegotiating, AdRequestStatusNegotiating},
		{AdRequestStatusPending, AdRequestStatusAccepted, AdRequestStatusAccepted},
		{AdRequestStatusPending, AdRequestStatusRejected, AdRequestStatusRejected},
		{AdRequestStatusPending, AdRequestStatusPending, AdRequestStatusPending},
		{AdRequestStatusPending, "", AdRequestStatusPending},

		// Negotiating is only reachable from Pending on the sponsor path
		{AdRequestStatusAccepted, AdRequestStatusNegotiating, AdRequestStatusAccepted},
		{AdRequestStatusRejected, AdRequestStatusNegotiating, AdRequestStatusRejected},
		{AdRequestStatusNegotiating, AdRequestStatusNegotiating, AdRequestStatusNegotiating},

		// Forced outcomes regardless of current state
		{AdRequestStatusRejected, AdRequestStatusAccepted, AdRequestStatusAccepted},
		{AdRequestStatusAccepted, AdRequestStatusRejected, AdRequestStatusRejected},
		{AdRequestStatusNegotiating, AdRequestStatusAccepted, AdRequestStatusAccepted},

		// Pending is never re-entered
		{AdRequestStatusNegotiating, AdRequestStatusPending, AdRequestStatusNegotiating},
		{AdRequestStatusAccepted, AdRequestStatusPending, AdRequestStatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.requested, func(t *testing.T) {
			result := ResolveSponsorStatus(tt.current, tt.requested)
			if result != tt.expected {
				t.Errorf("ResolveSponsorStatus(%q, %q) = %q, want %q", tt.current, tt.requested, result, tt.expected)
			}
		})
	}
}

func TestResolveSponsorStatusStaysInSet(t *testing.T) {
	requested := append([]string{"", "bogus", "accepted"}, AllAdRequestStatuses...)
	for _, current := range AllAdRequestStatuses {
		for _, req := range requested {
			if got := ResolveSponsorStatus(current, req); !IsValidAdRequestStatus(got) {
				t.Errorf("ResolveSponsorStatus(%q, %q) = %q, not a valid status", current, req, got)
			}
		}
	}
}

func TestIsValidAdRequestStatus(t *testing.T) {
	for _, s := range AllAdRequestStatuses {
		if !IsValidAdRequestStatus(s) {
			t.Errorf("status %q should be valid", s)
		}
	}
	for _, s := range []string{"", "pending", "Cancelled", "ACCEPTED"} {
		if IsValidAdRequestStatus(s) {
			t.Errorf("status %q should be invalid", s)
		}
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		ok       bool
	}{
		{"admin", RoleAdmin, true},
		{"Admin", RoleAdmin, true},
		{" SPONSOR ", RoleSponsor, true},
		{"Influencer", RoleInfluencer, true},
		{"moderator", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, ok := ParseRole(tt.input)
			if role != tt.expected || ok != tt.ok {
				t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.input, role, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	if Role("Admin").Valid() {
		t.Error("non-normalized role should not be valid")
	}
	for _, r := range AllRoles {
		if !r.Valid() {
			t.Errorf("role %q should be valid", r)
		}
	}
}
