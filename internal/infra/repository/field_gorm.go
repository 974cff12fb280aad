package repository

import (
	"context"

	"sportsbooking/internal/domain/model"
	repo "sportsbooking/internal/repository"

	"gorm.io/gorm"
)

type FieldGormRepository struct {
	db *gorm.DB
}

func NewFieldGormRepository(db *gorm.DB) *FieldGormRepository {
	return &FieldGormRepository{db: db}
}

var _ repo.FieldRepository = (*FieldGormRepository)(nil)

func (r *FieldGormRepository) Create(ctx context.Context, f *model.Field) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// 所有者チェックのためFacilityもpreload
func (r *FieldGormRepository) FindByID(ctx context.Context, id int64) (*model.Field, error) {
	var f model.Field
	err := r.db.WithContext(ctx).
		Preload("Facility").
		Where("id = ?", id).
		First(&f).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

// 空き状況用。activeなコート＋料金＋その日に掛かる占有中の予約
func (r *FieldGormRepository) FindActiveWithPricingAndBookings(ctx context.Context, facilityID int64, w repo.BookingWindow) ([]model.Field, error) {
	var fields []model.Field

	err := r.db.WithContext(ctx).
		Where("facility_id = ? AND status = ?", facilityID, model.FieldStatusActive).
		Order("id asc").
		Preload("Pricings", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_weekend asc").Order("start_time asc")
		}).
		Preload("Bookings", func(db *gorm.DB) *gorm.DB {
			db = db.Where("status NOT IN ?", model.NonOccupyingBookingStatuses)
			if w.Strict {
				// 旧仕様：日の中に完全に収まる予約だけ
				return db.Where("start_time > ? AND end_time < ?", w.DayStart, w.DayEnd)
			}
			// 日と少しでも重なる予約（日跨ぎも含む）
			return db.Where("start_time <= ? AND end_time > ?", w.DayEnd, w.DayStart).
				Order("start_time asc")
		}).
		Find(&fields).Error
	if err != nil {
		return []model.Field{}, err
	}
	return fields, nil
}
