// Package seed loads demo accounts, campaigns and ad requests from a YAML
// fixture file.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/adconnect/backend/internal/auth"
	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/adconnect/backend/internal/services"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type Fixture struct {
	Users      []User      `yaml:"users"`
	Campaigns  []Campaign  `yaml:"campaigns"`
	AdRequests []AdRequest `yaml:"ad_requests"`
}

type User struct {
	Username string   `yaml:"username"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Role     string   `yaml:"role"`
	Flagged  bool     `yaml:"flagged"`
	Profile  *Profile `yaml:"profile,omitempty"`
}

type Profile struct {
	Category string `yaml:"category"`
	Niche    string `yaml:"niche"`
	Reach    string `yaml:"reach"`
}

type Campaign struct {
	Sponsor     string  `yaml:"sponsor"` // username
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	StartDate   string  `yaml:"start_date"`
	EndDate     string  `yaml:"end_date"`
	Budget      float64 `yaml:"budget"`
	Visibility  string  `yaml:"visibility"`
	Goals       string  `yaml:"goals"`
}

type AdRequest struct {
	Campaign      string  `yaml:"campaign"`   // campaign name
	Influencer    string  `yaml:"influencer"` // username
	Messages      string  `yaml:"messages"`
	Requirements  string  `yaml:"requirements"`
	PaymentAmount float64 `yaml:"payment_amount"`
	Status        string  `yaml:"status"`
}

// Result counts the rows created by Apply.
type Result struct {
	Users      int
	Campaigns  int
	AdRequests int
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a fixture. Unknown keys are rejected.
func Parse(data []byte) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := fx.check(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixture) check() error {
	users := map[string]models.Role{}
	for i, u := range fx.Users {
		role, ok := models.ParseRole(u.Role)
		if !ok {
			return fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
		if u.Username == "" || u.Email == "" || u.Password == "" {
			return fmt.Errorf("users[%d]: username, email and password are required", i)
		}
		if u.Profile != nil && role != models.RoleInfluencer {
			return fmt.Errorf("users[%d]: only influencers have a profile", i)
		}
		users[u.Username] = role
	}

	campaigns := map[string]bool{}
	for i, c := range fx.Campaigns {
		if users[c.Sponsor] != models.RoleSponsor {
			return fmt.Errorf("campaigns[%d]: %q is not a sponsor in this file", i, c.Sponsor)
		}
		if c.Visibility != models.VisibilityPublic && c.Visibility != models.VisibilityPrivate {
			return fmt.Errorf("campaigns[%d]: visibility must be public or private", i)
		}
		if c.Budget < 0 {
			return fmt.Errorf("campaigns[%d]: budget must not be negative", i)
		}
		start, err := time.Parse(dateLayout, c.StartDate)
		if err != nil {
			return fmt.Errorf("campaigns[%d]: start_date: %w", i, err)
		}
		end, err := time.Parse(dateLayout, c.EndDate)
		if err != nil {
			return fmt.Errorf("campaigns[%d]: end_date: %w", i, err)
		}
		if end.Before(start) {
			return fmt.Errorf("campaigns[%d]: end_date is before start_date", i)
		}
		campaigns[c.Name] = true
	}

	for i, a := range fx.AdRequests {
		if !campaigns[a.Campaign] {
			return fmt.Errorf("ad_requests[%d]: unknown campaign %q", i, a.Campaign)
		}
		if users[a.Influencer] != models.RoleInfluencer {
			return fmt.Errorf("ad_requests[%d]: %q is not an influencer in this file", i, a.Influencer)
		}
		if a.Status != "" && !models.IsValidAdRequestStatus(a.Status) {
			return fmt.Errorf("ad_requests[%d]: unknown status %q", i, a.Status)
		}
		if a.PaymentAmount < 0 {
			return fmt.Errorf("ad_requests[%d]: payment_amount must not be negative", i)
		}
	}
	return nil
}

// Apply writes the fixture in one transaction. Users that already exist
// (matched by email) are reused, and a campaign whose sponsor already owns
// one with the same name is skipped together with its ad requests.
func Apply(ctx context.Context, store services.Store, hasher auth.PasswordHasher, fx *Fixture, log *zap.Logger) (Result, error) {
	var res Result
	err := store.WithTx(ctx, func(r services.Repos) error {
		res = Result{}
		userIDs := map[string]*models.User{}

		for _, fu := range fx.Users {
			u, created, err := ensureUser(ctx, r, hasher, fu)
			if err != nil {
				return fmt.Errorf("seed user %s: %w", fu.Username, err)
			}
			if created {
				res.Users++
			}
			userIDs[fu.Username] = u
		}

		newCampaigns := map[string]*models.Campaign{}
		for _, fc := range fx.Campaigns {
			sponsor := userIDs[fc.Sponsor]
			exists, err := campaignExists(ctx, r, sponsor, fc.Name)
			if err != nil {
				return err
			}
			if exists {
				log.Info("campaign already seeded", zap.String("name", fc.Name))
				continue
			}

			start, _ := time.Parse(dateLayout, fc.StartDate)
			end, _ := time.Parse(dateLayout, fc.EndDate)
			c := &models.Campaign{
				SponsorID:   sponsor.ID,
				Name:        fc.Name,
				Description: fc.Description,
				StartDate:   start,
				EndDate:     end,
				Budget:      fc.Budget,
				Visibility:  fc.Visibility,
				Goals:       fc.Goals,
			}
			if err := r.Campaigns.Create(ctx, c); err != nil {
				return fmt.Errorf("seed campaign %s: %w", fc.Name, err)
			}
			newCampaigns[fc.Name] = c
			res.Campaigns++
		}

		for _, fa := range fx.AdRequests {
			c, ok := newCampaigns[fa.Campaign]
			if !ok {
				continue
			}
			status := fa.Status
			if status == "" {
				status = models.AdRequestStatusPending
			}
			a := &models.AdRequest{
				CampaignID:    c.ID,
				InfluencerID:  userIDs[fa.Influencer].ID,
				Messages:      fa.Messages,
				Requirements:  fa.Requirements,
				PaymentAmount: fa.PaymentAmount,
				Status:        status,
			}
			if err := r.AdRequests.Create(ctx, a); err != nil {
				return fmt.Errorf("seed ad request for %s: %w", fa.Campaign, err)
			}
			res.AdRequests++
		}
		return nil
	})
	return res, err
}

func ensureUser(ctx context.Context, r services.Repos, hasher auth.PasswordHasher, fu User) (*models.User, bool, error) {
	existing, err := r.Users.GetByEmail(ctx, fu.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, err
	}

	hash, err := hasher.Hash(fu.Password)
	if err != nil {
		return nil, false, err
	}
	role, _ := models.ParseRole(fu.Role)
	u := &models.User{Username: fu.Username, Email: fu.Email, PasswordHash: hash, Role: role}
	if err := r.Users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	if fu.Flagged {
		if err := r.Users.SetFlagged(ctx, u.ID); err != nil {
			return nil, false, err
		}
		u.Flagged = true
	}
	if fu.Profile != nil {
		p, err := r.Profiles.GetOrCreate(ctx, u.ID)
		if err != nil {
			return nil, false, err
		}
		p.Category, p.Niche, p.Reach = &fu.Profile.Category, &fu.Profile.Niche, &fu.Profile.Reach
		if err := r.Profiles.Update(ctx, p); err != nil {
			return nil, false, err
		}
	}
	return u, true, nil
}

func campaignExists(ctx context.Context, r services.Repos, sponsor *models.User, name string) (bool, error) {
	list, err := r.Campaigns.List(ctx, repositories.CampaignFilter{SponsorID: &sponsor.ID, Limit: 100})
	if err != nil {
		return false, fmt.Errorf("list campaigns: %w", err)
	}
	for _, c := range list {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}
