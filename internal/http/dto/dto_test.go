package dto

import (
	"testing"
	"time"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignRequestToInput(t *testing.T) {
	budget := 1000.0
	in, err := CampaignRequest{
		Name:       " Launch ",
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-31T00:00:00Z",
		Budget:     &budget,
		Visibility: "Public",
	}.ToInput()
	require.NoError(t, err)
	assert.Equal(t, "Launch", in.Name)
	assert.Equal(t, "public", in.Visibility)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), in.StartDate)
	assert.Equal(t, 31, in.EndDate.Day())
}

func TestCampaignRequestBadDates(t *testing.T) {
	_, err := CampaignRequest{StartDate: "01/03/2026", EndDate: "soon"}.ToInput()
	require.ErrorIs(t, err, apperr.ErrValidation)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "start_date")
	assert.Contains(t, ae.Fields, "end_date")
}

func TestCampaignRequestEmptyDates(t *testing.T) {
	in, err := CampaignRequest{}.ToInput()
	require.NoError(t, err)
	assert.True(t, in.StartDate.IsZero())
}

func TestPaginationNormalize(t *testing.T) {
	assert.Equal(t, Pagination{Limit: 20}, Pagination{Limit: 0, Offset: -3}.Normalize())
	assert.Equal(t, Pagination{Limit: 20, Offset: 5}, Pagination{Limit: 500, Offset: 5}.Normalize())
	assert.Equal(t, Pagination{Limit: 7, Offset: 1}, Pagination{Limit: 7, Offset: 1}.Normalize())
}
