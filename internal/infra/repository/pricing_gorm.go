package repository

import (
	"context"

	"sportsbooking/internal/domain/model"
	repo "sportsbooking/internal/repository"

	"gorm.io/gorm"
)

type PricingGormRepository struct {
	db *gorm.DB
}

func NewPricingGormRepository(db *gorm.DB) *PricingGormRepository {
	return &PricingGormRepository{db: db}
}

var _ repo.PricingRepository = (*PricingGormRepository)(nil)

// 既存の料金を消してから入れ直す。原子性はTxManager側で担保する
func (r *PricingGormRepository) ReplaceForField(ctx context.Context, fieldID int64, pricings []model.FieldPricing) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("field_id = ?", fieldID).Delete(&model.FieldPricing{}).Error; err != nil {
		return err
	}
	if len(pricings) == 0 {
		return nil
	}

	for i := range pricings {
		pricings[i].ID = 0
		pricings[i].FieldID = fieldID
	}
	return db.Create(&pricings).Error
}

func (r *PricingGormRepository) ListByField(ctx context.Context, fieldID int64) ([]model.FieldPricing, error) {
	var ps []model.FieldPricing
	err := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("is_weekend asc").Order("start_time asc").
		Find(&ps).Error
	if err != nil {
		return []model.FieldPricing{}, err
	}
	return ps, nil
}
