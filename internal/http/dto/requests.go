package dto

import (
	"strings"
	"time"

	"github.com/adconnect/backend/internal/apperr"
	"github.com/adconnect/backend/internal/services"
)

const dateLayout = "2006-01-02"

// CampaignRequest carries campaign dates as calendar days ("2026-03-01").
// Full RFC 3339 timestamps are accepted too.
type CampaignRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Budget      *float64 `json:"budget"`
	Visibility  string   `json:"visibility"`
	Goals       string   `json:"goals"`
}

func (r CampaignRequest) ToInput() (services.CampaignInput, error) {
	in := services.CampaignInput{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Budget:      r.Budget,
		Visibility:  strings.ToLower(strings.TrimSpace(r.Visibility)),
		Goals:       r.Goals,
	}

	fields := map[string]string{}
	var err error
	if in.StartDate, err = parseDate(r.StartDate); err != nil {
		fields["start_date"] = "must be a date like 2006-01-02"
	}
	if in.EndDate, err = parseDate(r.EndDate); err != nil {
		fields["end_date"] = "must be a date like 2006-01-02"
	}
	if len(fields) > 0 {
		return in, apperr.Validation("invalid campaign dates", fields)
	}
	return in, nil
}

// parseDate leaves empty input as the zero time so the required rule reports it.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

type Pagination struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize clamps values to what the repositories accept.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
