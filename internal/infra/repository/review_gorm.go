package repository

import (
	"context"

	"sportsbooking/internal/domain/model"
	repo "sportsbooking/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

var _ repo.ReviewRepository = (*ReviewGormRepository)(nil)

// 施設のレビュー（新しい順）とtotal
func (r *ReviewGormRepository) ListByFacility(ctx context.Context, facilityID int64, page int, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Review{}).Where("facility_id = ?", facilityID)
	if err := tx.Count(&total).Error; err != nil {
		return []model.Review{}, 0, err
	}

	offset := (page - 1) * limit
	err := tx.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "avatar_url")
		}).
		Order("created_at desc").Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return []model.Review{}, 0, err
	}
	return reviews, total, nil
}
