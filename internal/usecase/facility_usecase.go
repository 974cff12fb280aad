package usecase

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/metrics"
	repo "sportsbooking/internal/repository"

	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	maxPage      = 1_000_000
)

const (
	SortNewest    = "newest"
	SortRating    = "rating"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type FacilityUsecase struct {
	facilities repo.FacilityRepository
	fields     repo.FieldRepository
	pricings   repo.PricingRepository
	reviews    repo.ReviewRepository
	tx         repo.TransactionManager
	loc        *time.Location
	// trueなら日の中に完全に収まる予約だけを見る（旧仕様）
	strictDayFilter bool
	log             *zap.Logger
	metrics         *metrics.Metrics
}

type FacilityOption func(*FacilityUsecase)

func WithLocation(loc *time.Location) FacilityOption {
	return func(u *FacilityUsecase) {
		if loc != nil {
			u.loc = loc
		}
	}
}

func WithStrictDayFilter(strict bool) FacilityOption {
	return func(u *FacilityUsecase) { u.strictDayFilter = strict }
}

// DI
func NewFacilityUsecase(
	facilities repo.FacilityRepository,
	fields repo.FieldRepository,
	pricings repo.PricingRepository,
	reviews repo.ReviewRepository,
	tx repo.TransactionManager,
	log *zap.Logger,
	m *metrics.Metrics,
	opts ...FacilityOption,
) *FacilityUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	u := &FacilityUsecase{
		facilities: facilities,
		fields:     fields,
		pricings:   pricings,
		reviews:    reviews,
		tx:         tx,
		loc:        time.UTC,
		log:        log.Named("facility"),
		metrics:    m,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// ---- 公開一覧 ----

// GET /facilitiesの入力DTO
type ListFacilitiesInput struct {
	Page     int
	Limit    int
	Q        string
	District string
	City     string
	SportID  *int64
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type FacilitySummary struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	District    string       `json:"district,omitempty"`
	City        string       `json:"city,omitempty"`
	Latitude    *float64     `json:"latitude,omitempty"`
	Longitude   *float64     `json:"longitude,omitempty"`
	OpenTime    string       `json:"openTime,omitempty"`
	CloseTime   string       `json:"closeTime,omitempty"`
	Sport       *model.Sport `json:"sport,omitempty"`
	Thumbnail   *string      `json:"thumbnail"`
	FieldCount  int          `json:"fieldCount"`
	MinPrice    *int64       `json:"minPrice"`
	AvgRating   *float64     `json:"avgRating"`
	ReviewCount int          `json:"reviewCount"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type FacilityListOutput struct {
	Data       []FacilitySummary `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

func (u *FacilityUsecase) ListPublicFacilities(ctx context.Context, in ListFacilitiesInput) (FacilityListOutput, error) {
	page, limit, err := normalizePaging(in.Page, in.Limit)
	if err != nil {
		return FacilityListOutput{}, err
	}
	if len(in.Q) > 100 {
		return FacilityListOutput{}, invalidArgument("q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return FacilityListOutput{}, invalidArgument("minPrice must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return FacilityListOutput{}, invalidArgument("maxPrice must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return FacilityListOutput{}, invalidArgument("minPrice must be <= maxPrice")
	}
	switch in.Sort {
	case "", SortNewest, SortRating, SortPriceAsc, SortPriceDesc:
	default:
		return FacilityListOutput{}, invalidArgument("invalid sort")
	}

	facilities, total, err := u.facilities.ListPublic(ctx, repo.FacilityListQuery{
		Q:        strings.TrimSpace(in.Q),
		District: strings.TrimSpace(in.District),
		City:     strings.TrimSpace(in.City),
		SportID:  in.SportID,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Newest:   in.Sort == SortNewest,
	})
	if err != nil {
		return FacilityListOutput{}, internal(err)
	}

	items := make([]FacilitySummary, 0, len(facilities))
	for i := range facilities {
		items = append(items, toFacilitySummary(&facilities[i]))
	}
	SortFacilities(items, in.Sort)

	return FacilityListOutput{
		Data: paginate(items, page, limit),
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

// 派生値（最安値/平均評価）での並べ替え。同値は取得順を保つ。
// 料金なしは+∞扱い（price_ascでは最後、price_descでは先頭）、評価なしは0扱い（ratingは昇順）
func SortFacilities(items []FacilitySummary, sortKey string) {
	switch sortKey {
	case SortPriceAsc:
		slices.SortStableFunc(items, func(a, b FacilitySummary) int {
			return comparePrice(a.MinPrice, b.MinPrice)
		})
	case SortPriceDesc:
		slices.SortStableFunc(items, func(a, b FacilitySummary) int {
			return comparePrice(b.MinPrice, a.MinPrice)
		})
	case SortRating:
		slices.SortStableFunc(items, func(a, b FacilitySummary) int {
			return cmp.Compare(ratingOrZero(a.AvgRating), ratingOrZero(b.AvgRating))
		})
	}
}

func comparePrice(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}

func ratingOrZero(r *float64) float64 {
	if r == nil {
		return 0
	}
	return *r
}

func toFacilitySummary(f *model.Facility) FacilitySummary {
	s := FacilitySummary{
		ID:         f.ID,
		Name:       f.Name,
		Address:    f.Address,
		District:   f.District,
		City:       f.City,
		Latitude:   f.Latitude,
		Longitude:  f.Longitude,
		OpenTime:   f.OpenTime,
		CloseTime:  f.CloseTime,
		Sport:      f.Sport,
		FieldCount: len(f.Fields),
		MinPrice:   minPrice(f.Fields),
		CreatedAt:  f.CreatedAt,
	}
	for _, img := range f.Images {
		if img.IsThumbnail {
			url := img.ImageURL
			s.Thumbnail = &url
			break
		}
	}
	s.AvgRating, s.ReviewCount = ratingStats(f.Reviews)
	return s
}

// 全コートの全料金枠の最安値。枠がなければnil
func minPrice(fields []model.Field) *int64 {
	var lowest *int64
	for _, f := range fields {
		for _, p := range f.Pricings {
			if lowest == nil || p.PricePerHour < *lowest {
				v := p.PricePerHour
				lowest = &v
			}
		}
	}
	return lowest
}

func ratingStats(reviews []model.Review) (*float64, int) {
	if len(reviews) == 0 {
		return nil, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return &avg, len(reviews)
}

func normalizePaging(page, limit int) (int, int, error) {
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if page < 1 || page > maxPage {
		return 0, 0, invalidArgument("invalid page")
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, invalidArgument("invalid limit")
	}
	return page, limit, nil
}

func paginate[T any](items []T, page, limit int) []T {
	// 乗算前に範囲外を弾く（オーバーフロー防止）
	if page < 1 || limit < 1 {
		return []T{}
	}
	pages := len(items) / limit
	if len(items)%limit != 0 {
		pages++
	}
	if page > pages {
		return []T{}
	}
	offset := (page - 1) * limit
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ---- 公開詳細/レビュー ----

type FacilityDetail struct {
	model.Facility
	AvgRating   *float64 `json:"avgRating"`
	ReviewCount int      `json:"reviewCount"`
}

func (u *FacilityUsecase) GetPublicFacility(ctx context.Context, id int64) (*FacilityDetail, error) {
	if id <= 0 {
		return nil, invalidArgument("invalid facility id")
	}
	f, err := u.facilities.FindPublicByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("facility not found")
		}
		return nil, internal(err)
	}
	d := &FacilityDetail{Facility: *f}
	d.AvgRating, d.ReviewCount = ratingStats(f.Reviews)
	return d, nil
}

type ReviewListOutput struct {
	Data       []model.Review `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

func (u *FacilityUsecase) GetFacilityReviews(ctx context.Context, facilityID int64, page, limit int) (ReviewListOutput, error) {
	if facilityID <= 0 {
		return ReviewListOutput{}, invalidArgument("invalid facility id")
	}
	page, limit, err := normalizePaging(page, limit)
	if err != nil {
		return ReviewListOutput{}, err
	}
	if _, err := u.facilities.FindByID(ctx, facilityID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ReviewListOutput{}, notFound("facility not found")
		}
		return ReviewListOutput{}, internal(err)
	}

	reviews, total, err := u.reviews.ListByFacility(ctx, facilityID, page, limit)
	if err != nil {
		return ReviewListOutput{}, internal(err)
	}
	return ReviewListOutput{
		Data: reviews,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

// ---- 空き状況 ----

func (u *FacilityUsecase) GetAvailability(ctx context.Context, facilityID int64, date string) ([]FieldAvailability, error) {
	day, err := ParseDate(date, u.loc)
	if err != nil {
		u.metrics.Availability("invalid_date")
		return nil, invalidArgument("invalid date format (YYYY-MM-DD)")
	}

	if _, err := u.facilities.FindByID(ctx, facilityID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			u.metrics.Availability("not_found")
			return nil, notFound("facility not found")
		}
		u.metrics.Availability("error")
		return nil, internal(err)
	}

	dayStart, dayEnd := DayWindow(day)
	fields, err := u.fields.FindActiveWithPricingAndBookings(ctx, facilityID, repo.BookingWindow{
		DayStart: dayStart,
		DayEnd:   dayEnd,
		Strict:   u.strictDayFilter,
	})
	if err != nil {
		u.metrics.Availability("error")
		return nil, internal(err)
	}

	out, err := ComputeAvailability(fields, dayStart)
	if err != nil {
		u.metrics.Availability("error")
		u.log.Error("broken pricing slot", zap.Int64("facility_id", facilityID), zap.Error(err))
		return nil, internal(err)
	}
	u.metrics.Availability("ok")
	return out, nil
}

// ---- オーナー ----

type CreateFacilityInput struct {
	Name        string
	Address     string
	Description string
	SportID     int64
	District    string
	City        string
	Latitude    *float64
	Longitude   *float64
	OpenTime    string
	CloseTime   string
	Images      []string
}

func (u *FacilityUsecase) CreateFacility(ctx context.Context, ownerID int64, in CreateFacilityInput) (*model.Facility, error) {
	if ownerID <= 0 {
		return nil, unauthorized("unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	address := strings.TrimSpace(in.Address)
	if name == "" {
		return nil, invalidArgument("name is required")
	}
	if address == "" {
		return nil, invalidArgument("address is required")
	}
	if in.SportID <= 0 {
		return nil, invalidArgument("sportId is required")
	}
	for _, t := range []string{in.OpenTime, in.CloseTime} {
		if t == "" {
			continue
		}
		if _, err := ParseClock(t); err != nil {
			return nil, invalidArgument("openTime/closeTime must be HH:MM")
		}
	}

	f := &model.Facility{
		OwnerID:     ownerID,
		SportID:     in.SportID,
		Name:        name,
		Address:     address,
		Description: in.Description,
		District:    strings.TrimSpace(in.District),
		City:        strings.TrimSpace(in.City),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		OpenTime:    in.OpenTime,
		CloseTime:   in.CloseTime,
		Status:      model.FacilityStatusActive,
	}
	// 先頭の画像をサムネイルにする
	for i, url := range in.Images {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		f.Images = append(f.Images, model.FacilityImage{ImageURL: url, IsThumbnail: i == 0})
	}

	if err := u.facilities.Create(ctx, f); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, conflict("facility already exists")
		}
		return nil, internal(err)
	}
	return f, nil
}

func (u *FacilityUsecase) MyFacilities(ctx context.Context, ownerID int64) ([]model.Facility, error) {
	if ownerID <= 0 {
		return nil, unauthorized("unauthorized")
	}
	fs, err := u.facilities.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, internal(err)
	}
	return fs, nil
}

type CreateFieldInput struct {
	Name        string
	Description string
}

func (u *FacilityUsecase) CreateField(ctx context.Context, ownerID, facilityID int64, in CreateFieldInput) (*model.Field, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	facility, err := u.facilities.FindByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("facility not found")
		}
		return nil, internal(err)
	}
	if facility.OwnerID != ownerID {
		return nil, forbidden("you do not own this facility")
	}

	field := &model.Field{
		FacilityID:  facilityID,
		Name:        name,
		Description: in.Description,
		Status:      model.FieldStatusActive,
	}
	if err := u.fields.Create(ctx, field); err != nil {
		return nil, internal(err)
	}
	return field, nil
}

type PricingSlotInput struct {
	StartTime    string
	EndTime      string
	PricePerHour int64
	IsWeekend    bool
}

// コートの料金を丸ごと置き換える（全部成功か全部失敗）
func (u *FacilityUsecase) SetFieldPrices(ctx context.Context, ownerID, fieldID int64, slots []PricingSlotInput) ([]model.FieldPricing, error) {
	pricings, err := ValidatePricingSlots(slots)
	if err != nil {
		return nil, err
	}

	field, err := u.fields.FindByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("field not found")
		}
		return nil, internal(err)
	}
	if field.Facility == nil || field.Facility.OwnerID != ownerID {
		return nil, forbidden("you do not own this field")
	}

	var out []model.FieldPricing
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Pricings().ReplaceForField(ctx, fieldID, pricings); err != nil {
			return err
		}
		out, err = r.Pricings().ListByField(ctx, fieldID)
		return err
	})
	if err != nil {
		return nil, internal(err)
	}
	return out, nil
}

// 時刻の形式、start < end、価格 >= 0、同じ区分内で重ならないこと
func ValidatePricingSlots(slots []PricingSlotInput) ([]model.FieldPricing, error) {
	type span struct {
		start, end time.Duration
		weekend    bool
	}
	spans := make([]span, 0, len(slots))
	pricings := make([]model.FieldPricing, 0, len(slots))

	for _, s := range slots {
		start, err := ParseClock(s.StartTime)
		if err != nil || start >= 24*time.Hour {
			return nil, invalidArgument("startTime must be HH:MM")
		}
		end, err := ParseClock(s.EndTime)
		if err != nil {
			return nil, invalidArgument("endTime must be HH:MM")
		}
		if end <= start {
			return nil, invalidArgument("endTime must be after startTime")
		}
		if s.PricePerHour < 0 {
			return nil, invalidArgument("pricePerHour must be >= 0")
		}
		spans = append(spans, span{start: start, end: end, weekend: s.IsWeekend})
		pricings = append(pricings, model.FieldPricing{
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			PricePerHour: s.PricePerHour,
			IsWeekend:    s.IsWeekend,
		})
	}

	slices.SortFunc(spans, func(a, b span) int {
		if a.weekend != b.weekend {
			if a.weekend {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.start, b.start)
	})
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if prev.weekend == cur.weekend && prev.end > cur.start {
			return nil, invalidArgument("pricing slots overlap")
		}
	}
	return pricings, nil
}
