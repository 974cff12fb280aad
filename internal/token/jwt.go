package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"sportsbooking/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 検証失敗の種類。APIでは両方401になるが、ログ/メトリクスのため区別する
var (
	ErrInvalid = errors.New("token invalid")
	ErrExpired = errors.New("token expired")
)

// トークンに埋め込む情報
type Payload struct {
	UserID int64
	Email  string
	RoleID model.Role
}

type claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	RoleID int    `json:"roleId"`
	jwt.RegisteredClaims
}

// HS256で署名/検証する。access用とrefresh用で別インスタンス（別シークレット）
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Signer)

// テスト用に時刻を差し替える
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSigner(secret string, ttl time.Duration, opts ...Option) *Signer {
	s := &Signer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Signは署名済みトークンと有効期限を返す。jtiで同一秒内の発行も区別する
func (s *Signer) Sign(p Payload) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)

	c := claims{
		UserID: p.UserID,
		Email:  p.Email,
		RoleID: int(p.RoleID),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verifyは署名と期限を検証する。失敗はErrInvalid/ErrExpiredでラップして返す
func (s *Signer) Verify(raw string) (Payload, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Payload{}, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if c.UserID <= 0 {
		return Payload{}, fmt.Errorf("%w: missing user id", ErrInvalid)
	}

	return Payload{
		UserID: c.UserID,
		Email:  c.Email,
		RoleID: model.Role(c.RoleID),
	}, nil
}

// 失敗種別のラベル（ログ/メトリクス用）
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExpired):
		return "expired"
	default:
		return "invalid"
	}
}
