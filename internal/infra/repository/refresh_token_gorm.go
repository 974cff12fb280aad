package repository

import (
	"context"
	"errors"
	"time"

	"sportsbooking/internal/domain/model"
	repo "sportsbooking/internal/repository"

	"gorm.io/gorm"
)

type refreshTokenGormRepository struct {
	db *gorm.DB //DB接続（GORM）
}

// GORM実装
func NewRefreshTokenRepository(db *gorm.DB) repo.RefreshTokenRepository {
	return &refreshTokenGormRepository{db: db}
}

// リフレッシュトークン（ハッシュ）を保存
func (r *refreshTokenGormRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	//タイムアウトやキャンセルをDB処理に伝える
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

// token_hashで1件検索します。
func (r *refreshTokenGormRepository) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var token model.RefreshToken

	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&token).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &token, nil
}

// 未失効のときだけ is_revoked=true にする。
// 同じトークンで並行にローテーションしても更新できるのは1つだけ
func (r *refreshTokenGormRepository) RevokeIfActive(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("token_hash = ? AND is_revoked = ?", tokenHash, false).
		Updates(map[string]any{
			"is_revoked": true,
			"revoked_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	// 0件更新は「すでに失効/存在しない」
	return result.RowsAffected == 1, nil
}

// 指定ユーザーの有効なトークンをまとめて失効
func (r *refreshTokenGormRepository) RevokeAllByUserID(ctx context.Context, userID int64, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Updates(map[string]any{
			"is_revoked": true,
			"revoked_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// 期限切れ
func (r *refreshTokenGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
