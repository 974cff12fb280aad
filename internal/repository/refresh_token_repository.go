package repository

import (
	"context"
	"time"

	"sportsbooking/internal/domain/model"
)

// リフレッシュトークン（ハッシュ）の保存・検索・失効・削除
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	// なければErrNotFound
	FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	// 有効（未失効）な場合だけ失効させる。更新できたらtrue
	RevokeIfActive(ctx context.Context, tokenHash string, now time.Time) (bool, error)
	// ユーザーの全トークンを失効
	RevokeAllByUserID(ctx context.Context, userID int64, now time.Time) (int64, error)
	// 期限切れを物理削除
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
