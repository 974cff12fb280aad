package repository

import (
	"context"

	"sportsbooking/internal/domain/model"
)

// 公開一覧の検索条件（ページングは含めない。派生値でのソート後にusecaseで切る）
type FacilityListQuery struct {
	Q        string
	District string
	City     string
	SportID  *int64
	MinPrice *int64
	MaxPrice *int64
	// newestのときだけcreated_at desc、それ以外はcreated_at asc
	Newest bool
}

type FacilityRepository interface {
	Create(ctx context.Context, f *model.Facility) error
	// なければErrNotFound
	FindByID(ctx context.Context, id int64) (*model.Facility, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Facility, error)

	// 公開中の施設を条件で全件取得（Sport/サムネイル/料金/評価をpreload）
	ListPublic(ctx context.Context, q FacilityListQuery) ([]model.Facility, int64, error)
	// 公開中のみ。activeなコートと料金をpreload
	FindPublicByID(ctx context.Context, id int64) (*model.Facility, error)
}
