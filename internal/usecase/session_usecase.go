package usecase

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/metrics"
	"sportsbooking/internal/repository"
	"sportsbooking/internal/token"

	"go.uber.org/zap"
)

// 検証失敗の種類（ログ/メトリクスのラベル）
const (
	failureInvalid  = "invalid"
	failureExpired  = "expired"
	failureRevoked  = "revoked"
	failureReused   = "reused"
	failureNotFound = "not_found"
)

// Tx内で条件付き失効が0件だったとき
var errTokenReused = errors.New("refresh token reused")

// ログインしている端末の情報
type SessionMeta struct {
	UserAgent string
	IP        string
}

type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"-"`
}

// リフレッシュトークンの発行・ローテーション・失効
type SessionUsecase struct {
	users   repository.UserRepository
	tokens  repository.RefreshTokenRepository
	tx      repository.TransactionManager
	access  *token.Signer
	refresh *token.Signer
	clock   Clock
	idGen   IDGenerator
	log     *zap.Logger
	metrics *metrics.Metrics
}

type SessionOption func(*SessionUsecase)

func WithSessionClock(c Clock) SessionOption {
	return func(u *SessionUsecase) { u.clock = c }
}

func WithSessionIDGenerator(g IDGenerator) SessionOption {
	return func(u *SessionUsecase) { u.idGen = g }
}

// DI
func NewSessionUsecase(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	tx repository.TransactionManager,
	access *token.Signer,
	refresh *token.Signer,
	log *zap.Logger,
	m *metrics.Metrics,
	opts ...SessionOption,
) *SessionUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	u := &SessionUsecase{
		users:   users,
		tokens:  tokens,
		tx:      tx,
		access:  access,
		refresh: refresh,
		clock:   SystemClock{},
		idGen:   UUIDGenerator{},
		log:     log.Named("session"),
		metrics: m,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// access/refreshを発行し、refreshのハッシュを保存する
func (u *SessionUsecase) Issue(ctx context.Context, user *model.User, meta SessionMeta) (TokenPair, error) {
	return u.issueWith(ctx, u.tokens, user, meta)
}

// Tx内のrepoで発行する場合はtokensを差し替える
func (u *SessionUsecase) issueWith(ctx context.Context, tokens repository.RefreshTokenRepository, user *model.User, meta SessionMeta) (TokenPair, error) {
	pair, rec, err := u.newPair(user, meta)
	if err != nil {
		return TokenPair{}, internal(err)
	}
	if err := tokens.Create(ctx, rec); err != nil {
		return TokenPair{}, internal(err)
	}
	return pair, nil
}

// 古いrefreshを1回だけ使える形で新しいペアに交換する
func (u *SessionUsecase) Rotate(ctx context.Context, raw string, meta SessionMeta) (TokenPair, *model.User, error) {
	if raw == "" {
		return TokenPair{}, nil, unauthorized("refresh token is required")
	}

	payload, err := u.refresh.Verify(raw)
	if err != nil {
		kind := token.FailureKind(err)
		u.reject(kind, 0, err)
		if kind == failureExpired {
			return TokenPair{}, nil, unauthorized("refresh token expired")
		}
		return TokenPair{}, nil, unauthorized("invalid refresh token")
	}

	hash := token.Hash(raw)
	now := u.clock.Now()

	rec, err := u.tokens.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			u.reject(failureNotFound, payload.UserID, nil)
			return TokenPair{}, nil, unauthorized("invalid refresh token")
		}
		return TokenPair{}, nil, internal(err)
	}
	// 再利用（すでにローテーション/ログアウト済み）
	if rec.IsRevoked {
		u.reject(failureRevoked, rec.UserID, nil)
		return TokenPair{}, nil, unauthorized("refresh token revoked")
	}
	//期限切れ（sweep前でも時刻で判定）
	if rec.IsExpired(now) {
		u.reject(failureExpired, rec.UserID, nil)
		return TokenPair{}, nil, unauthorized("refresh token expired")
	}
	if rec.UserID != payload.UserID {
		u.reject(failureInvalid, rec.UserID, nil)
		return TokenPair{}, nil, unauthorized("invalid refresh token")
	}

	user, err := u.users.FindByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, nil, notFound("user not found")
		}
		return TokenPair{}, nil, internal(err)
	}
	if err := checkUserStatus(user); err != nil {
		return TokenPair{}, nil, err
	}

	pair, next, err := u.newPair(user, meta)
	if err != nil {
		return TokenPair{}, nil, internal(err)
	}

	// 旧トークンの条件付き失効と新トークンの保存は同じTxで
	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		ok, err := r.RefreshTokens().RevokeIfActive(ctx, hash, now)
		if err != nil {
			return err
		}
		if !ok {
			return errTokenReused
		}
		return r.RefreshTokens().Create(ctx, next)
	})
	if err != nil {
		if errors.Is(err, errTokenReused) {
			u.reject(failureReused, user.ID, nil)
			return TokenPair{}, nil, unauthorized("refresh token reuse detected")
		}
		return TokenPair{}, nil, internal(err)
	}

	u.metrics.Rotation("ok")
	return pair, user, nil
}

// ログアウト。存在しない/失効済みでもエラーにしない
func (u *SessionUsecase) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	if _, err := u.tokens.RevokeIfActive(ctx, token.Hash(raw), u.clock.Now()); err != nil {
		return internal(err)
	}
	return nil
}

// 全端末ログアウト
func (u *SessionUsecase) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, invalidArgument("invalid user id")
	}
	n, err := u.tokens.RevokeAllByUserID(ctx, userID, u.clock.Now())
	if err != nil {
		return 0, internal(err)
	}
	u.log.Info("revoked all refresh tokens", zap.Int64("user_id", userID), zap.Int64("count", n))
	return n, nil
}

// 期限切れレコードの掃除（workerから定期実行）
func (u *SessionUsecase) SweepExpired(ctx context.Context) (int64, error) {
	n, err := u.tokens.DeleteExpired(ctx, u.clock.Now())
	if err != nil {
		return 0, err
	}
	u.metrics.Swept(n)
	return n, nil
}

func (u *SessionUsecase) newPair(user *model.User, meta SessionMeta) (TokenPair, *model.RefreshToken, error) {
	p := token.Payload{UserID: user.ID, Email: user.Email, RoleID: user.RoleID}

	accessToken, accessExp, err := u.access.Sign(p)
	if err != nil {
		return TokenPair{}, nil, err
	}
	refreshToken, refreshExp, err := u.refresh.Sign(p)
	if err != nil {
		return TokenPair{}, nil, err
	}

	rec := &model.RefreshToken{
		ID:         u.idGen.NewID(),
		UserID:     user.ID,
		TokenHash:  token.Hash(refreshToken),
		DeviceInfo: truncate(meta.UserAgent, 255),
		IPAddress:  truncate(meta.IP, 64),
		ExpiresAt:  refreshExp,
		CreatedAt:  u.clock.Now(),
	}

	return TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, rec, nil
}

func (u *SessionUsecase) reject(kind string, userID int64, err error) {
	fields := []zap.Field{zap.String("kind", kind)}
	if userID > 0 {
		fields = append(fields, zap.Int64("user_id", userID))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	u.log.Warn("refresh token rejected", fields...)
	u.metrics.TokenFailure("refresh", kind)
	u.metrics.Rotation("rejected")
}

// 停止中/承認待ちはトークンを出さない
func checkUserStatus(user *model.User) error {
	switch user.Status {
	case model.UserStatusBanned:
		return forbidden("account is banned")
	case model.UserStatusPendingApprove:
		return forbidden("account is pending approval")
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// マルチバイト文字の途中で切らない
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
