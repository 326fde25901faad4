package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/events"
	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workflow struct {
	*env
	sponsor    models.Actor
	influencer models.Actor
	campaign   *models.Campaign
	request    *models.AdRequest
}

func newWorkflow(t *testing.T) *workflow {
	t.Helper()
	e := newEnv(t)
	w := &workflow{env: e}
	w.sponsor = e.user(t, "acme", models.RoleSponsor)
	w.influencer = e.user(t, "ivy", models.RoleInfluencer)
	w.campaign = e.campaign(t, w.sponsor, models.VisibilityPublic)
	w.request = e.adRequest(t, w.sponsor, w.campaign.ID, w.influencer)
	return w
}

func (w *workflow) status(t *testing.T) string {
	t.Helper()
	a, err := w.store.Repos().AdRequests.GetByID(context.Background(), w.request.ID)
	require.NoError(t, err)
	return a.Status
}

func TestNegotiateThenAccept(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	assert.Equal(t, 1000.0, w.campaign.Budget)
	assert.Equal(t, models.AdRequestStatusPending, w.request.Status)
	assert.Equal(t, 200.0, w.request.PaymentAmount)

	a, err := w.adRequests.Negotiate(ctx, w.influencer, w.request.ID, services.NegotiateInput{
		Messages:      "three posts for 250",
		PaymentAmount: ptr(250.0),
	})
	require.NoError(t, err)
	assert.Equal(t, models.AdRequestStatusNegotiating, a.Status)
	assert.Equal(t, 250.0, a.PaymentAmount)
	assert.Equal(t, "three posts for 250", a.Messages)

	a, err = w.adRequests.Accept(ctx, w.influencer, w.request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdRequestStatusAccepted, a.Status)
	assert.Equal(t, 250.0, a.PaymentAmount)
	assert.Equal(t, models.AdRequestStatusAccepted, w.status(t))
}

func TestRespondRequiresTargetInfluencer(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	other := w.user(t, "jay", models.RoleInfluencer)
	admin := w.user(t, "root", models.RoleAdmin)

	for _, actor := range []models.Actor{other, w.sponsor, admin} {
		_, err := w.adRequests.Accept(ctx, actor, w.request.ID)
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
		_, err = w.adRequests.Reject(ctx, actor, w.request.ID)
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
		_, err = w.adRequests.Negotiate(ctx, actor, w.request.ID, services.NegotiateInput{Messages: "m", PaymentAmount: ptr(1.0)})
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
	}
	assert.Equal(t, models.AdRequestStatusPending, w.status(t))
}

func TestRespondIsUnconditional(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()

	_, err := w.adRequests.Reject(ctx, w.influencer, w.request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdRequestStatusRejected, w.status(t))

	_, err = w.adRequests.Accept(ctx, w.influencer, w.request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AdRequestStatusAccepted, w.status(t))

	_, err = w.adRequests.Negotiate(ctx, w.influencer, w.request.ID, services.NegotiateInput{Messages: "again", PaymentAmount: ptr(300.0)})
	require.NoError(t, err)
	assert.Equal(t, models.AdRequestStatusNegotiating, w.status(t))
}

func TestRespondMissingAdRequest(t *testing.T) {
	w := newWorkflow(t)
	_, err := w.adRequests.Accept(context.Background(), w.influencer, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestNegotiateValidation(t *testing.T) {
	w := newWorkflow(t)
	_, err := w.adRequests.Negotiate(context.Background(), w.influencer, w.request.ID, services.NegotiateInput{
		Messages:      "less",
		PaymentAmount: ptr(-5.0),
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, models.AdRequestStatusPending, w.status(t))
}

func TestStatusChangePublishesEvent(t *testing.T) {
	w := newWorkflow(t)
	_, err := w.adRequests.Accept(context.Background(), w.influencer, w.request.ID)
	require.NoError(t, err)

	w.events.mu.Lock()
	defer w.events.mu.Unlock()
	require.Len(t, w.events.events, 2)
	ev := w.events.events[1]
	assert.Equal(t, events.EventAdRequestStatusChanged, ev.Type)
	assert.ElementsMatch(t, []uuid.UUID{w.sponsor.UserID, w.influencer.UserID}, ev.Recipients)
	assert.Equal(t, models.AdRequestStatusPending, ev.Payload["previous_status"])
	assert.Equal(t, models.AdRequestStatusAccepted, ev.Payload["status"])
}

func TestFailedTransactionPublishesNothing(t *testing.T) {
	w := newWorkflow(t)
	w.store.FailAudit(assert.AnError)

	_, err := w.adRequests.Accept(context.Background(), w.influencer, w.request.ID)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{events.EventAdRequestCreated}, w.events.types())
	assert.Equal(t, models.AdRequestStatusPending, w.status(t))
}

func TestCreateAdRequestChecks(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	other := w.user(t, "globex", models.RoleSponsor)

	input := func(mutate func(in *services.AdRequestInput)) services.AdRequestInput {
		in := services.AdRequestInput{
			CampaignID:    w.campaign.ID,
			InfluencerID:  w.influencer.UserID,
			Messages:      "post",
			Requirements:  "tiktok",
			PaymentAmount: ptr(10.0),
		}
		if mutate != nil {
			mutate(&in)
		}
		return in
	}

	tests := []struct {
		name  string
		actor models.Actor
		in    services.AdRequestInput
		want  error
	}{
		{"other sponsor", other, input(nil), apperr.ErrAuthorization},
		{"influencer", w.influencer, input(nil), apperr.ErrAuthorization},
		{"missing campaign", w.sponsor, input(func(in *services.AdRequestInput) { in.CampaignID = uuid.New() }), apperr.ErrNotFound},
		{"unknown influencer", w.sponsor, input(func(in *services.AdRequestInput) { in.InfluencerID = uuid.New() }), apperr.ErrValidation},
		{"target not influencer", w.sponsor, input(func(in *services.AdRequestInput) { in.InfluencerID = other.UserID }), apperr.ErrValidation},
		{"negative payment", w.sponsor, input(func(in *services.AdRequestInput) { in.PaymentAmount = ptr(-1.0) }), apperr.ErrValidation},
		{"long requirements", w.sponsor, input(func(in *services.AdRequestInput) { in.Requirements = strings.Repeat("a", 51) }), apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.adRequests.Create(ctx, tt.actor, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	n, err := w.store.Repos().AdRequests.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSponsorEditStatusRule(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		requested string
		want      string
	}{
		{"pending to negotiating", models.AdRequestStatusPending, models.AdRequestStatusNegotiating, models.AdRequestStatusNegotiating},
		{"force accepted", models.AdRequestStatusRejected, models.AdRequestStatusAccepted, models.AdRequestStatusAccepted},
		{"force rejected", models.AdRequestStatusAccepted, models.AdRequestStatusRejected, models.AdRequestStatusRejected},
		{"negotiating ignored outside pending", models.AdRequestStatusAccepted, models.AdRequestStatusNegotiating, models.AdRequestStatusAccepted},
		{"pending request keeps status", models.AdRequestStatusNegotiating, models.AdRequestStatusPending, models.AdRequestStatusNegotiating},
		{"empty keeps status", models.AdRequestStatusPending, "", models.AdRequestStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkflow(t)
			ctx := context.Background()
			switch tt.from {
			case models.AdRequestStatusAccepted:
				_, err := w.adRequests.Accept(ctx, w.influencer, w.request.ID)
				require.NoError(t, err)
			case models.AdRequestStatusRejected:
				_, err := w.adRequests.Reject(ctx, w.influencer, w.request.ID)
				require.NoError(t, err)
			case models.AdRequestStatusNegotiating:
				_, err := w.adRequests.Negotiate(ctx, w.influencer, w.request.ID, services.NegotiateInput{Messages: "m", PaymentAmount: ptr(1.0)})
				require.NoError(t, err)
			}

			a, err := w.adRequests.SponsorEdit(ctx, w.sponsor, w.request.ID, services.SponsorEditInput{
				CampaignID:    w.campaign.ID,
				InfluencerID:  w.influencer.UserID,
				Messages:      "edited",
				Requirements:  "youtube",
				PaymentAmount: ptr(500.0),
				Status:        tt.requested,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Status)
			assert.Equal(t, 500.0, a.PaymentAmount)
			assert.Equal(t, "edited", a.Messages)
			assert.Equal(t, tt.want, w.status(t))
		})
	}
}

func TestSponsorEditOwnership(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	other := w.user(t, "globex", models.RoleSponsor)
	theirs := w.env.campaign(t, other, models.VisibilityPublic)

	edit := services.SponsorEditInput{
		CampaignID:    w.campaign.ID,
		InfluencerID:  w.influencer.UserID,
		Messages:      "edited",
		Requirements:  "youtube",
		PaymentAmount: ptr(1.0),
	}

	_, err := w.adRequests.SponsorEdit(ctx, other, w.request.ID, edit)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)
	_, err = w.adRequests.SponsorEdit(ctx, w.influencer, w.request.ID, edit)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	moved := edit
	moved.CampaignID = theirs.ID
	_, err = w.adRequests.SponsorEdit(ctx, w.sponsor, w.request.ID, moved)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	edit.Status = "Done"
	_, err = w.adRequests.SponsorEdit(ctx, w.sponsor, w.request.ID, edit)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	stored, err := w.store.Repos().AdRequests.GetByID(ctx, w.request.ID)
	require.NoError(t, err)
	assert.Equal(t, w.campaign.ID, stored.CampaignID)
	assert.Equal(t, "two posts", stored.Messages)
}

func TestDeleteAdRequest(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	other := w.user(t, "globex", models.RoleSponsor)

	require.ErrorIs(t, w.adRequests.Delete(ctx, other, w.request.ID), apperr.ErrAuthorization)
	require.ErrorIs(t, w.adRequests.Delete(ctx, w.influencer, w.request.ID), apperr.ErrAuthorization)
	require.NoError(t, w.adRequests.Delete(ctx, w.sponsor, w.request.ID))
	assert.ErrorIs(t, w.adRequests.Delete(ctx, w.sponsor, w.request.ID), apperr.ErrNotFound)

	// the campaign is free to go once its last ad request is gone
	require.NoError(t, w.campaigns.Delete(ctx, w.sponsor, w.campaign.ID))
}

func TestGetAdRequestParties(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	admin := w.user(t, "root", models.RoleAdmin)
	stranger := w.user(t, "jay", models.RoleInfluencer)

	for _, actor := range []models.Actor{w.sponsor, w.influencer, admin} {
		a, err := w.adRequests.GetByID(ctx, actor, w.request.ID)
		require.NoError(t, err)
		assert.Equal(t, "Launch", a.CampaignName)
	}
	_, err := w.adRequests.GetByID(ctx, stranger, w.request.ID)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)
}

func TestListPublicAdRequests(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	hidden := w.env.campaign(t, w.sponsor, models.VisibilityPrivate)
	w.adRequest(t, w.sponsor, hidden.ID, w.influencer)

	list, err := w.adRequests.ListPublic(ctx, w.influencer, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, w.request.ID, list[0].ID)

	_, err = w.adRequests.ListPublic(ctx, w.sponsor, 0, 0)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)
}

func TestListPublicAdRequestsNegativeOffset(t *testing.T) {
	w := newWorkflow(t)

	var list []models.AdRequestWithCampaign
	var err error
	require.NotPanics(t, func() {
		list, err = w.adRequests.ListPublic(context.Background(), w.influencer, 10, -1)
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, w.request.ID, list[0].ID)
}

func TestInfluencerDashboard(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	other := w.user(t, "jay", models.RoleInfluencer)
	w.adRequest(t, w.sponsor, w.campaign.ID, other)

	d, err := w.adRequests.InfluencerDashboard(ctx, w.influencer)
	require.NoError(t, err)
	require.Len(t, d.AdRequests, 1)
	assert.Equal(t, w.request.ID, d.AdRequests[0].ID)
	assert.False(t, d.Flagged)

	_, err = w.adRequests.InfluencerDashboard(ctx, w.sponsor)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)
}

func TestStatusAlwaysInClosedSet(t *testing.T) {
	w := newWorkflow(t)
	ctx := context.Background()
	for _, requested := range []string{"", "Pending", "Negotiating", "Accepted", "Rejected"} {
		_, _ = w.adRequests.SponsorEdit(ctx, w.sponsor, w.request.ID, services.SponsorEditInput{
			CampaignID:    w.campaign.ID,
			InfluencerID:  w.influencer.UserID,
			Messages:      "m",
			Requirements:  "r",
			PaymentAmount: ptr(1.0),
			Status:        requested,
		})
		_, _ = w.adRequests.Negotiate(ctx, w.influencer, w.request.ID, services.NegotiateInput{Messages: "n", PaymentAmount: ptr(2.0)})
		_, _ = w.adRequests.Reject(ctx, w.influencer, w.request.ID)
		assert.True(t, models.IsValidAdRequestStatus(w.status(t)))
	}
}
