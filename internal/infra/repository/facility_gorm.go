package repository

import (
	"context"
	"errors"
	"strings"

	"sportsbooking/internal/domain/model"
	repo "sportsbooking/internal/repository"

	"gorm.io/gorm"
)

type FacilityGormRepository struct {
	db *gorm.DB
}

// DI
func NewFacilityGormRepository(db *gorm.DB) *FacilityGormRepository {
	return &FacilityGormRepository{db: db}
}

var _ repo.FacilityRepository = (*FacilityGormRepository)(nil)

func (r *FacilityGormRepository) Create(ctx context.Context, f *model.Facility) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *FacilityGormRepository) FindByID(ctx context.Context, id int64) (*model.Facility, error) {
	var f model.Facility
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

// オーナーの施設（新しい順）
func (r *FacilityGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Facility, error) {
	var fs []model.Facility
	err := r.db.WithContext(ctx).
		Preload("Sport").
		Preload("Images").
		Preload("Fields").
		Where("owner_id = ?", ownerID).
		Order("created_at desc").Order("id desc").
		Find(&fs).Error
	if err != nil {
		return []model.Facility{}, err
	}
	return fs, nil
}

// 公開（status=active）の施設を検索条件で全件返す。
// minPrice/avgRatingでの並べ替えとページングはusecase側で行うので、ここではLIMITしない
func (r *FacilityGormRepository) ListPublic(ctx context.Context, q repo.FacilityListQuery) ([]model.Facility, int64, error) {
	var facilities []model.Facility
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Facility{}).
		Where("facilities.status = ?", model.FacilityStatusActive)

	// q nameを対象（大文字小文字は区別しない）
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("LOWER(facilities.name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if s := strings.TrimSpace(q.District); s != "" {
		tx = tx.Where("facilities.district = ?", s)
	}
	if s := strings.TrimSpace(q.City); s != "" {
		tx = tx.Where("facilities.city = ?", s)
	}
	if q.SportID != nil {
		tx = tx.Where("facilities.sport_id = ?", *q.SportID)
	}

	// 価格帯：どれか1つの料金枠が条件を満たせばヒット（最安値での絞り込みではない）
	if q.MinPrice != nil || q.MaxPrice != nil {
		sub := r.db.Table("field_pricings AS fp").
			Select("1").
			Joins("JOIN fields AS f ON f.id = fp.field_id").
			Where("f.facility_id = facilities.id")
		if q.MinPrice != nil {
			sub = sub.Where("fp.price_per_hour >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			sub = sub.Where("fp.price_per_hour <= ?", *q.MaxPrice)
		}
		tx = tx.Where("EXISTS (?)", sub)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Facility{}, 0, err
	}

	if q.Newest {
		tx = tx.Order("facilities.created_at desc").Order("facilities.id desc")
	} else {
		tx = tx.Order("facilities.created_at asc").Order("facilities.id asc")
	}

	err := tx.
		Preload("Sport").
		Preload("Images", "is_thumbnail = ?", true).
		Preload("Fields").
		Preload("Fields.Pricings").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "facility_id", "rating")
		}).
		Find(&facilities).Error
	if err != nil {
		return []model.Facility{}, 0, err
	}

	return facilities, total, nil
}

// 公開中の施設詳細。activeなコートと料金（平日→週末、開始時刻順）をpreload
func (r *FacilityGormRepository) FindPublicByID(ctx context.Context, id int64) (*model.Facility, error) {
	var f model.Facility
	err := r.db.WithContext(ctx).
		Preload("Sport").
		Preload("Images").
		Preload("Fields", "status = ?", model.FieldStatusActive).
		Preload("Fields.Pricings", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_weekend asc").Order("start_time asc")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "facility_id", "rating")
		}).
		Where("id = ? AND status = ?", id, model.FacilityStatusActive).
		First(&f).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}
