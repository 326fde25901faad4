// Package memstore is an in-memory services.Store. Transactions work on a
// copy of the data that replaces the original only when the callback
// succeeds, so rollback behaves as it does against Postgres. Foreign keys and
// unique constraints of the real schema are enforced and reported with the
// repositories sentinel errors.
package memstore

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adconnect/backend/internal/models"
	"github.com/adconnect/backend/internal/repositories"
	"github.com/adconnect/backend/internal/services"
	"github.com/google/uuid"
)

type state struct {
	seq        int64
	order      map[uuid.UUID]int64
	users      map[uuid.UUID]models.User
	campaigns  map[uuid.UUID]models.Campaign
	adRequests map[uuid.UUID]models.AdRequest
	profiles   map[uuid.UUID]models.InfluencerProfile
	audit      []models.AuditLog
}

func newState() *state {
	return &state{
		order:      map[uuid.UUID]int64{},
		users:      map[uuid.UUID]models.User{},
		campaigns:  map[uuid.UUID]models.Campaign{},
		adRequests: map[uuid.UUID]models.AdRequest{},
		profiles:   map[uuid.UUID]models.InfluencerProfile{},
	}
}

func (s *state) clone() *state {
	return &state{
		seq:        s.seq,
		order:      maps.Clone(s.order),
		users:      maps.Clone(s.users),
		campaigns:  maps.Clone(s.campaigns),
		adRequests: maps.Clone(s.adRequests),
		profiles:   maps.Clone(s.profiles),
		audit:      append([]models.AuditLog(nil), s.audit...),
	}
}

// insert registers a new row id so lists can return newest first.
func (s *state) insert(id uuid.UUID) {
	s.seq++
	s.order[id] = s.seq
}

type Store struct {
	txMu sync.Mutex // serializes transactions
	mu   sync.Mutex // guards st and auditErr
	st   *state

	auditErr error
}

var _ services.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: newState()}
}

// FailAudit makes every following audit write return err. Pass nil to reset.
func (s *Store) FailAudit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditErr = err
}

// AuditLogs returns the committed audit entries, oldest first.
func (s *Store) AuditLogs() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog(nil), s.st.audit...)
}

func (s *Store) Repos() services.Repos {
	return s.reposFor(func() (*state, func()) {
		s.mu.Lock()
		return s.st, s.mu.Unlock
	})
}

func (s *Store) WithTx(ctx context.Context, fn func(r services.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	work := s.st.clone()
	s.mu.Unlock()

	var txMu sync.Mutex
	err := fn(s.reposFor(func() (*state, func()) {
		txMu.Lock()
		return work, txMu.Unlock
	}))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

func (s *Store) reposFor(acquire func() (*state, func())) services.Repos {
	b := &binding{acquire: acquire, store: s}
	return services.Repos{
		Users:      &userRepo{b},
		Campaigns:  &campaignRepo{b},
		AdRequests: &adRequestRepo{b},
		Profiles:   &profileRepo{b},
		Audit:      &auditRepo{b},
	}
}

type binding struct {
	acquire func() (*state, func())
	store   *Store
}

func (b *binding) auditError() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return b.store.auditErr
}

func limitOffset[T any](list []T, limit, offset int) []T {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func newestFirst[T any](st *state, list []T, id func(T) uuid.UUID) {
	sort.Slice(list, func(i, j int) bool {
		return st.order[id(list[i])] > st.order[id(list[j])]
	})
}

func now() time.Time { return time.Now().UTC() }

// users

type userRepo struct{ *binding }

func (r *userRepo) Create(_ context.Context, u *models.User) error {
	st, release := r.acquire()
	defer release()

	for _, existing := range st.users {
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return repositories.ErrDuplicate
		}
	}
	u.ID = uuid.New()
	u.Flagged = false
	u.CreatedAt = now()
	st.users[u.ID] = *u
	st.insert(u.ID)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	st, release := r.acquire()
	defer release()

	u, ok := st.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	st, release := r.acquire()
	defer release()

	for _, u := range st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *userRepo) Exists(_ context.Context, username, email string) (bool, bool, error) {
	st, release := r.acquire()
	defer release()

	var usernameTaken, emailTaken bool
	for _, u := range st.users {
		usernameTaken = usernameTaken || u.Username == username
		emailTaken = emailTaken || strings.EqualFold(u.Email, email)
	}
	return usernameTaken, emailTaken, nil
}

func (r *userRepo) SetFlagged(_ context.Context, id uuid.UUID) error {
	st, release := r.acquire()
	defer release()

	u, ok := st.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Flagged = true
	st.users[id] = u
	return nil
}

func (r *userRepo) Count(context.Context) (int, error) {
	st, release := r.acquire()
	defer release()
	return len(st.users), nil
}

func (r *userRepo) List(_ context.Context, f repositories.UserFilter) ([]models.User, error) {
	st, release := r.acquire()
	defer release()

	var list []models.User
	for _, u := range st.users {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.Flagged != nil && u.Flagged != *f.Flagged {
			continue
		}
		if f.ExcludeID != nil && u.ID == *f.ExcludeID {
			continue
		}
		list = append(list, u)
	}
	newestFirst(st, list, func(u models.User) uuid.UUID { return u.ID })
	return limitOffset(list, f.Limit, f.Offset), nil
}

// campaigns

type campaignRepo struct{ *binding }

func (r *campaignRepo) Create(_ context.Context, c *models.Campaign) error {
	st, release := r.acquire()
	defer release()

	if _, ok := st.users[c.SponsorID]; !ok {
		return repositories.ErrReferenced
	}
	c.ID = uuid.New()
	c.Flagged = false
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	st.campaigns[c.ID] = *c
	st.insert(c.ID)
	return nil
}

func (r *campaignRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Campaign, error) {
	st, release := r.acquire()
	defer release()

	c, ok := st.campaigns[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *campaignRepo) Update(_ context.Context, c *models.Campaign) error {
	st, release := r.acquire()
	defer release()

	existing, ok := st.campaigns[c.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	existing.Name = c.Name
	existing.Description = c.Description
	existing.StartDate = c.StartDate
	existing.EndDate = c.EndDate
	existing.Budget = c.Budget
	existing.Visibility = c.Visibility
	existing.Goals = c.Goals
	existing.UpdatedAt = now()
	st.campaigns[c.ID] = existing
	c.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *campaignRepo) SetFlagged(_ context.Context, id uuid.UUID) error {
	st, release := r.acquire()
	defer release()

	c, ok := st.campaigns[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Flagged = true
	st.campaigns[id] = c
	return nil
}

func (r *campaignRepo) Delete(_ context.Context, id uuid.UUID) error {
	st, release := r.acquire()
	defer release()

	if _, ok := st.campaigns[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, a := range st.adRequests {
		if a.CampaignID == id {
			return repositories.ErrReferenced
		}
	}
	delete(st.campaigns, id)
	return nil
}

func (r *campaignRepo) Count(context.Context) (int, error) {
	st, release := r.acquire()
	defer release()
	return len(st.campaigns), nil
}

func (r *campaignRepo) List(_ context.Context, f repositories.CampaignFilter) ([]models.Campaign, error) {
	st, release := r.acquire()
	defer release()

	var list []models.Campaign
	for _, c := range st.campaigns {
		if f.SponsorID != nil && c.SponsorID != *f.SponsorID {
			continue
		}
		if f.Visibility != nil && c.Visibility != *f.Visibility {
			continue
		}
		if f.Flagged != nil && c.Flagged != *f.Flagged {
			continue
		}
		list = append(list, c)
	}
	newestFirst(st, list, func(c models.Campaign) uuid.UUID { return c.ID })
	return limitOffset(list, f.Limit, f.Offset), nil
}

// ad requests

type adRequestRepo struct{ *binding }

func (st *state) checkAdRequestRefs(a *models.AdRequest) error {
	if _, ok := st.campaigns[a.CampaignID]; !ok {
		return repositories.ErrReferenced
	}
	if _, ok := st.users[a.InfluencerID]; !ok {
		return repositories.ErrReferenced
	}
	return nil
}

func (st *state) joined(a models.AdRequest) models.AdRequestWithCampaign {
	c := st.campaigns[a.CampaignID]
	return models.AdRequestWithCampaign{
		AdRequest:          a,
		CampaignName:       c.Name,
		SponsorID:          c.SponsorID,
		InfluencerUsername: st.users[a.InfluencerID].Username,
	}
}

func (r *adRequestRepo) Create(_ context.Context, a *models.AdRequest) error {
	st, release := r.acquire()
	defer release()

	if err := st.checkAdRequestRefs(a); err != nil {
		return err
	}
	a.ID = uuid.New()
	a.CreatedAt = now()
	a.UpdatedAt = a.CreatedAt
	st.adRequests[a.ID] = *a
	st.insert(a.ID)
	return nil
}

func (r *adRequestRepo) GetByID(_ context.Context, id uuid.UUID) (*models.AdRequestWithCampaign, error) {
	st, release := r.acquire()
	defer release()

	a, ok := st.adRequests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	j := st.joined(a)
	return &j, nil
}

func (r *adRequestRepo) Update(_ context.Context, a *models.AdRequest) error {
	st, release := r.acquire()
	defer release()

	existing, ok := st.adRequests[a.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if err := st.checkAdRequestRefs(a); err != nil {
		return err
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = now()
	st.adRequests[a.ID] = *a
	return nil
}

func (r *adRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	st, release := r.acquire()
	defer release()

	if _, ok := st.adRequests[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(st.adRequests, id)
	return nil
}

func (r *adRequestRepo) CountByCampaign(_ context.Context, campaignID uuid.UUID) (int, error) {
	st, release := r.acquire()
	defer release()

	n := 0
	for _, a := range st.adRequests {
		if a.CampaignID == campaignID {
			n++
		}
	}
	return n, nil
}

func (r *adRequestRepo) Count(context.Context) (int, error) {
	st, release := r.acquire()
	defer release()
	return len(st.adRequests), nil
}

func (r *adRequestRepo) List(_ context.Context, f repositories.AdRequestFilter) ([]models.AdRequestWithCampaign, error) {
	st, release := r.acquire()
	defer release()

	var list []models.AdRequestWithCampaign
	for _, a := range st.adRequests {
		j := st.joined(a)
		c := st.campaigns[a.CampaignID]
		if f.CampaignID != nil && a.CampaignID != *f.CampaignID {
			continue
		}
		if f.InfluencerID != nil && a.InfluencerID != *f.InfluencerID {
			continue
		}
		if f.SponsorID != nil && c.SponsorID != *f.SponsorID {
			continue
		}
		if f.Visibility != nil && c.Visibility != *f.Visibility {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		list = append(list, j)
	}
	newestFirst(st, list, func(a models.AdRequestWithCampaign) uuid.UUID { return a.ID })
	return limitOffset(list, f.Limit, f.Offset), nil
}

// profiles

type profileRepo struct{ *binding }

func (r *profileRepo) GetOrCreate(_ context.Context, userID uuid.UUID) (*models.InfluencerProfile, error) {
	st, release := r.acquire()
	defer release()

	p, ok := st.profiles[userID]
	if !ok {
		if _, exists := st.users[userID]; !exists {
			return nil, repositories.ErrReferenced
		}
		p = models.InfluencerProfile{UserID: userID}
		st.profiles[userID] = p
	}
	return &p, nil
}

func (r *profileRepo) Get(_ context.Context, userID uuid.UUID) (*models.InfluencerProfile, error) {
	st, release := r.acquire()
	defer release()

	p, ok := st.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r *profileRepo) Update(_ context.Context, p *models.InfluencerProfile) error {
	st, release := r.acquire()
	defer release()

	if _, ok := st.profiles[p.UserID]; !ok {
		return repositories.ErrNotFound
	}
	st.profiles[p.UserID] = *p
	return nil
}

func (r *profileRepo) ListInfluencers(_ context.Context, limit, offset int) ([]models.InfluencerWithProfile, error) {
	st, release := r.acquire()
	defer release()

	var list []models.InfluencerWithProfile
	for _, u := range st.users {
		if u.Role != models.RoleInfluencer {
			continue
		}
		iw := models.InfluencerWithProfile{User: u}
		if p, ok := st.profiles[u.ID]; ok {
			iw.Profile = &p
		}
		list = append(list, iw)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return limitOffset(list, limit, offset), nil
}

// audit

type auditRepo struct{ *binding }

func (r *auditRepo) Log(_ context.Context, entry models.AuditLog) error {
	if err := r.auditError(); err != nil {
		return err
	}
	st, release := r.acquire()
	defer release()

	entry.ID = uuid.New()
	entry.CreatedAt = now()
	st.audit = append(st.audit, entry)
	return nil
}

func (r *auditRepo) GetByEntity(_ context.Context, entityType string, entityID uuid.UUID, limit, offset int) ([]models.AuditLog, error) {
	st, release := r.acquire()
	defer release()

	var list []models.AuditLog
	for i := len(st.audit) - 1; i >= 0; i-- {
		e := st.audit[i]
		if e.EntityType == entityType && e.EntityID != nil && *e.EntityID == entityID {
			list = append(list, e)
		}
	}
	return limitOffset(list, limit, offset), nil
}
