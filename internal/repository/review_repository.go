package repository

import (
	"context"

	"sportsbooking/internal/domain/model"
)

type ReviewRepository interface {
	// 新しい順。totalも返す
	ListByFacility(ctx context.Context, facilityID int64, page int, limit int) ([]model.Review, int64, error)
}
