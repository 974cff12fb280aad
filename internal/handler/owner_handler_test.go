package handler_test

import (
	"net/http"
	"strconv"
	"testing"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/handler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = &model.User{ID: 7, Email: "owner@example.com", RoleID: model.RoleOwner, Status: model.UserStatusActive}
	rival    = &model.User{ID: 8, Email: "rival@example.com", RoleID: model.RoleOwner, Status: model.UserStatusActive}
	customer = &model.User{ID: 9, Email: "customer@example.com", RoleID: model.RoleCustomer, Status: model.UserStatusActive}
)

func TestOwnerHandler_RequiresOwner(t *testing.T) {
	app := newTestApp(t, owner, customer)

	rec := app.do(t, http.MethodGet, "/api/owner/facilities", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/owner/facilities", nil, withAuth(app.bearer(t, customer)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/owner/facilities", nil, withAuth(app.bearer(t, owner)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOwnerHandler_FacilityFieldPricesFlow(t *testing.T) {
	app := newTestApp(t, owner, rival)
	auth := withAuth(app.bearer(t, owner))

	// 施設作成
	rec := app.do(t, http.MethodPost, "/api/owner/facilities", handler.CreateFacilityRequest{
		Name:     "Riverside Courts",
		Address:  "1 River Rd",
		SportID:  1,
		OpenTime: "06:00",
		Images:   []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
	}, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	facility := decode[model.Facility](t, rec)
	assert.Equal(t, int64(7), facility.OwnerID)
	assert.Equal(t, model.FacilityStatusActive, facility.Status)
	require.Len(t, facility.Images, 2)
	assert.True(t, facility.Images[0].IsThumbnail)

	rec = app.do(t, http.MethodGet, "/api/owner/facilities", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Facility](t, rec), 1)

	// コート作成
	rec = app.do(t, http.MethodPost, "/api/owner/facilities/"+itoa(facility.ID)+"/fields", handler.CreateFieldRequest{Name: "Court A"}, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	field := decode[model.Field](t, rec)

	// 他人の施設には作れない
	rec = app.do(t, http.MethodPost, "/api/owner/facilities/"+itoa(facility.ID)+"/fields", handler.CreateFieldRequest{Name: "Court B"}, withAuth(app.bearer(t, rival)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/owner/facilities/99999/fields", handler.CreateFieldRequest{Name: "Court B"}, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// 料金設定（weekend asc, start ascで返る）
	pricesPath := "/api/owner/fields/" + itoa(field.ID) + "/prices"
	rec = app.do(t, http.MethodPut, pricesPath, handler.SetPricesRequest{Pricings: []handler.PricingSlotRequest{
		{StartTime: "18:00", EndTime: "19:00", PricePerHour: 250000, IsWeekend: true},
		{StartTime: "19:00", EndTime: "20:00", PricePerHour: 200000},
		{StartTime: "06:00", EndTime: "07:00", PricePerHour: 100000},
	}}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	prices := decode[[]model.FieldPricing](t, rec)
	require.Len(t, prices, 3)
	assert.Equal(t, "06:00", prices[0].StartTime)
	assert.Equal(t, "19:00", prices[1].StartTime)
	assert.True(t, prices[2].IsWeekend)

	rec = app.do(t, http.MethodPut, pricesPath, handler.SetPricesRequest{Pricings: []handler.PricingSlotRequest{
		{StartTime: "06:00", EndTime: "08:00", PricePerHour: 1},
		{StartTime: "07:00", EndTime: "09:00", PricePerHour: 1},
	}}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPut, pricesPath, handler.SetPricesRequest{Pricings: []handler.PricingSlotRequest{
		{StartTime: "6pm", EndTime: "7pm", PricePerHour: 1},
	}}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPut, pricesPath, handler.SetPricesRequest{Pricings: []handler.PricingSlotRequest{
		{StartTime: "06:00", EndTime: "07:00", PricePerHour: 1},
	}}, withAuth(app.bearer(t, rival)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOwnerHandler_SetPrices_BodyKey(t *testing.T) {
	app := newTestApp(t, owner)
	auth := withAuth(app.bearer(t, owner))

	rec := app.do(t, http.MethodPost, "/api/owner/facilities", handler.CreateFacilityRequest{Name: "Hall", Address: "2 Main St", SportID: 1}, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	facility := decode[model.Facility](t, rec)
	rec = app.do(t, http.MethodPost, "/api/owner/facilities/"+itoa(facility.ID)+"/fields", handler.CreateFieldRequest{Name: "Court A"}, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	field := decode[model.Field](t, rec)
	path := "/api/owner/fields/" + itoa(field.ID) + "/prices"

	slot := map[string]any{"startTime": "08:00", "endTime": "10:00", "pricePerHour": 120000}

	rec = app.do(t, http.MethodPut, path, map[string]any{"pricings": []any{slot}}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	prices := decode[[]model.FieldPricing](t, rec)
	require.Len(t, prices, 1)
	assert.Equal(t, int64(120000), prices[0].PricePerHour)

	// 旧キーは受け付けない
	rec = app.do(t, http.MethodPut, path, map[string]any{"prices": []any{slot}}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOwnerHandler_CreateFacility_Invalid(t *testing.T) {
	app := newTestApp(t, owner)
	auth := withAuth(app.bearer(t, owner))

	cases := []handler.CreateFacilityRequest{
		{Address: "1 River Rd", SportID: 1},
		{Name: "X", SportID: 1},
		{Name: "X", Address: "1 River Rd"},
		{Name: "X", Address: "1 River Rd", SportID: 1, OpenTime: "25:00"},
		{Name: "X", Address: "1 River Rd", SportID: 1, Images: []string{"not a url"}},
	}
	for i, req := range cases {
		rec := app.do(t, http.MethodPost, "/api/owner/facilities", req, auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %d", i)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
