package usecase_test

import (
	"context"
	"sync"
	"time"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: UserRepository
// =====================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

// =====================
// Mock: RefreshTokenRepository
// =====================

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *MockRefreshTokenRepository) RevokeIfActive(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	args := m.Called(ctx, tokenHash, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID int64, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// Mock: Facility / Field / Pricing / Review
// =====================

type MockFacilityRepository struct {
	mock.Mock
}

func (m *MockFacilityRepository) Create(ctx context.Context, f *model.Facility) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFacilityRepository) FindByID(ctx context.Context, id int64) (*model.Facility, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*model.Facility)
	return f, args.Error(1)
}

func (m *MockFacilityRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Facility, error) {
	args := m.Called(ctx, ownerID)
	fs, _ := args.Get(0).([]model.Facility)
	return fs, args.Error(1)
}

func (m *MockFacilityRepository) ListPublic(ctx context.Context, q repository.FacilityListQuery) ([]model.Facility, int64, error) {
	args := m.Called(ctx, q)
	fs, _ := args.Get(0).([]model.Facility)
	return fs, args.Get(1).(int64), args.Error(2)
}

func (m *MockFacilityRepository) FindPublicByID(ctx context.Context, id int64) (*model.Facility, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*model.Facility)
	return f, args.Error(1)
}

type MockFieldRepository struct {
	mock.Mock
}

func (m *MockFieldRepository) Create(ctx context.Context, f *model.Field) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFieldRepository) FindByID(ctx context.Context, id int64) (*model.Field, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*model.Field)
	return f, args.Error(1)
}

func (m *MockFieldRepository) FindActiveWithPricingAndBookings(ctx context.Context, facilityID int64, w repository.BookingWindow) ([]model.Field, error) {
	args := m.Called(ctx, facilityID, w)
	fs, _ := args.Get(0).([]model.Field)
	return fs, args.Error(1)
}

type MockPricingRepository struct {
	mock.Mock
}

func (m *MockPricingRepository) ReplaceForField(ctx context.Context, fieldID int64, pricings []model.FieldPricing) error {
	args := m.Called(ctx, fieldID, pricings)
	return args.Error(0)
}

func (m *MockPricingRepository) ListByField(ctx context.Context, fieldID int64) ([]model.FieldPricing, error) {
	args := m.Called(ctx, fieldID)
	ps, _ := args.Get(0).([]model.FieldPricing)
	return ps, args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) ListByFacility(ctx context.Context, facilityID int64, page int, limit int) ([]model.Review, int64, error) {
	args := m.Called(ctx, facilityID, page, limit)
	rs, _ := args.Get(0).([]model.Review)
	return rs, args.Get(1).(int64), args.Error(2)
}

// =====================
// Tx: 渡されたrepoをそのまま使う
// =====================

type stubTxRepos struct {
	users    repository.UserRepository
	tokens   repository.RefreshTokenRepository
	pricings repository.PricingRepository
}

func (r stubTxRepos) Users() repository.UserRepository                 { return r.users }
func (r stubTxRepos) RefreshTokens() repository.RefreshTokenRepository { return r.tokens }
func (r stubTxRepos) Pricings() repository.PricingRepository           { return r.pricings }

type stubTxManager struct {
	repos stubTxRepos
}

func (tm stubTxManager) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return fn(tm.repos)
}

// fnの戻り値を記録する（非nilならrollback扱い）
type recordingTxManager struct {
	repos      stubTxRepos
	calls      int
	rolledBack error
}

func (tm *recordingTxManager) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	tm.calls++
	err := fn(tm.repos)
	tm.rolledBack = err
	return err
}

// =====================
// Fake: メモリ上のリフレッシュトークンストア（並行ローテーション検証用）
// =====================

type memTokenStore struct {
	mu   sync.Mutex
	byID map[string]*model.RefreshToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{byID: map[string]*model.RefreshToken{}}
}

func (s *memTokenStore) Create(ctx context.Context, token *model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.byID {
		if t.TokenHash == token.TokenHash {
			return repository.ErrDuplicate
		}
	}
	cp := *token
	s.byID[token.ID] = &cp
	return nil
}

func (s *memTokenStore) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.byID {
		if t.TokenHash == tokenHash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memTokenStore) RevokeIfActive(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.byID {
		if t.TokenHash == tokenHash && !t.IsRevoked {
			t.IsRevoked = true
			t.RevokedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (s *memTokenStore) RevokeAllByUserID(ctx context.Context, userID int64, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, t := range s.byID {
		if t.UserID == userID && !t.IsRevoked {
			t.IsRevoked = true
			t.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (s *memTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.byID {
		if t.ExpiresAt.Before(now) {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

func (s *memTokenStore) activeFor(userID int64, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.byID {
		if t.UserID == userID && t.IsActive(now) {
			n++
		}
	}
	return n
}

// WithinTxは同じストアをそのまま渡す（条件付き失効はストア側で原子的）
func (s *memTokenStore) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return fn(stubTxRepos{tokens: s})
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
