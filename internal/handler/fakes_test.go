package handler_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/repository"
)

// =====================
// Fake: users
// =====================

type memUsers struct {
	mu     sync.Mutex
	byID   map[int64]*model.User
	nextID int64
}

func newMemUsers(seed ...*model.User) *memUsers {
	s := &memUsers{byID: map[int64]*model.User{}, nextID: 100}
	for _, u := range seed {
		s.byID[u.ID] = u
	}
	return s
}

func (s *memUsers) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	user.ID = s.nextID
	cp := *user
	s.byID[user.ID] = &cp
	return nil
}

func (s *memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// =====================
// Fake: refresh tokens + Tx
// =====================

type memTokens struct {
	mu     sync.Mutex
	byHash map[string]*model.RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{byHash: map[string]*model.RefreshToken{}}
}

func (s *memTokens) Create(ctx context.Context, t *model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byHash[t.TokenHash]; ok {
		return repository.ErrDuplicate
	}
	cp := *t
	s.byHash[t.TokenHash] = &cp
	return nil
}

func (s *memTokens) FindByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byHash[hash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memTokens) RevokeIfActive(ctx context.Context, hash string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byHash[hash]
	if !ok || t.IsRevoked {
		return false, nil
	}
	t.IsRevoked = true
	t.RevokedAt = &now
	return true, nil
}

func (s *memTokens) RevokeAllByUserID(ctx context.Context, userID int64, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, t := range s.byHash {
		if t.UserID == userID && !t.IsRevoked {
			t.IsRevoked = true
			t.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (s *memTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for h, t := range s.byHash {
		if t.ExpiresAt.Before(now) {
			delete(s.byHash, h)
			n++
		}
	}
	return n, nil
}

func (s *memTokens) isRevoked(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byHash[hash]
	return ok && t.IsRevoked
}

type txRepos struct {
	users    repository.UserRepository
	tokens   repository.RefreshTokenRepository
	pricings repository.PricingRepository
}

func (r txRepos) Users() repository.UserRepository                 { return r.users }
func (r txRepos) RefreshTokens() repository.RefreshTokenRepository { return r.tokens }
func (r txRepos) Pricings() repository.PricingRepository           { return r.pricings }

type fakeTx struct {
	repos txRepos
}

func (tm fakeTx) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return fn(tm.repos)
}

// =====================
// Fake: 施設/コート/料金/レビュー
// =====================

type catalog struct {
	mu         sync.Mutex
	facilities map[int64]*model.Facility
	fields     map[int64]*model.Field
	reviews    map[int64][]model.Review
	nextID     int64
}

func newCatalog() *catalog {
	return &catalog{
		facilities: map[int64]*model.Facility{},
		fields:     map[int64]*model.Field{},
		reviews:    map[int64][]model.Review{},
		nextID:     1000,
	}
}

func (c *catalog) addFacility(f model.Facility) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.facilities[f.ID] = &f
}

func (c *catalog) addField(f model.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields[f.ID] = &f
}

type facilityRepo struct{ *catalog }

func (r facilityRepo) Create(ctx context.Context, f *model.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	f.ID = r.nextID
	cp := *f
	r.facilities[f.ID] = &cp
	return nil
}

func (r facilityRepo) FindByID(ctx context.Context, id int64) (*model.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.facilities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r facilityRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Facility{}
	for _, f := range r.facilities {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r facilityRepo) ListPublic(ctx context.Context, q repository.FacilityListQuery) ([]model.Facility, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Facility{}
	for _, f := range r.facilities {
		if f.Status == model.FacilityStatusActive {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r facilityRepo) FindPublicByID(ctx context.Context, id int64) (*model.Facility, error) {
	f, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status != model.FacilityStatusActive {
		return nil, repository.ErrNotFound
	}
	return f, nil
}

type fieldRepo struct{ *catalog }

func (r fieldRepo) Create(ctx context.Context, f *model.Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	f.ID = r.nextID
	cp := *f
	r.fields[f.ID] = &cp
	return nil
}

func (r fieldRepo) FindByID(ctx context.Context, id int64) (*model.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	if fac, ok := r.facilities[f.FacilityID]; ok {
		fc := *fac
		cp.Facility = &fc
	}
	return &cp, nil
}

func (r fieldRepo) FindActiveWithPricingAndBookings(ctx context.Context, facilityID int64, w repository.BookingWindow) ([]model.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Field{}
	for _, f := range r.fields {
		if f.FacilityID == facilityID && f.Status == model.FieldStatusActive {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type pricingRepo struct{ *catalog }

func (r pricingRepo) ReplaceForField(ctx context.Context, fieldID int64, pricings []model.FieldPricing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[fieldID]
	if !ok {
		return repository.ErrNotFound
	}
	f.Pricings = nil
	for _, p := range pricings {
		r.nextID++
		p.ID = r.nextID
		p.FieldID = fieldID
		f.Pricings = append(f.Pricings, p)
	}
	return nil
}

func (r pricingRepo) ListByField(ctx context.Context, fieldID int64) ([]model.FieldPricing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[fieldID]
	if !ok {
		return []model.FieldPricing{}, nil
	}
	out := append([]model.FieldPricing{}, f.Pricings...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsWeekend != out[j].IsWeekend {
			return !out[i].IsWeekend
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

type reviewRepo struct{ *catalog }

func (r reviewRepo) ListByFacility(ctx context.Context, facilityID int64, page int, limit int) ([]model.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.reviews[facilityID]
	start := (page - 1) * limit
	if start >= len(all) {
		return []model.Review{}, int64(len(all)), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return append([]model.Review{}, all[start:end]...), int64(len(all)), nil
}
