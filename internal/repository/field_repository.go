package repository

import (
	"context"
	"time"

	"sportsbooking/internal/domain/model"
)

// 空き状況の計算対象とする予約の時間窓
type BookingWindow struct {
	DayStart time.Time
	DayEnd   time.Time
	// trueなら窓に完全に含まれる予約だけ（start > DayStart && end < DayEnd）
	Strict bool
}

type FieldRepository interface {
	Create(ctx context.Context, f *model.Field) error
	// Facilityもpreloadする。なければErrNotFound
	FindByID(ctx context.Context, id int64) (*model.Field, error)

	// 施設のactiveなコートを、料金と占有中の予約つきで返す
	FindActiveWithPricingAndBookings(ctx context.Context, facilityID int64, w BookingWindow) ([]model.Field, error)
}

type PricingRepository interface {
	// コートの料金を全置換（delete→insert）。呼び出し側でTx内で使う
	ReplaceForField(ctx context.Context, fieldID int64, pricings []model.FieldPricing) error
	// is_weekend asc, start_time asc
	ListByField(ctx context.Context, fieldID int64) ([]model.FieldPricing, error)
}
