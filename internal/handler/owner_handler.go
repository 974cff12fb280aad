package handler

import (
	"net/http"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/middleware"
	"sportsbooking/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/owner のHTTP（OWNERのみ）
type OwnerHandler struct {
	uc *usecase.FacilityUsecase
}

// DI
func NewOwnerHandler(uc *usecase.FacilityUsecase) *OwnerHandler {
	return &OwnerHandler{uc: uc}
}

type CreateFacilityRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Address     string   `json:"address" validate:"required"`
	Description string   `json:"description"`
	SportID     int64    `json:"sportId" validate:"required,gt=0"`
	District    string   `json:"district" validate:"omitempty,max=100"`
	City        string   `json:"city" validate:"omitempty,max=100"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	OpenTime    string   `json:"openTime" validate:"omitempty,hhmm"`
	CloseTime   string   `json:"closeTime" validate:"omitempty,hhmm"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

type CreateFieldRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type PricingSlotRequest struct {
	StartTime    string `json:"startTime" validate:"required,hhmm"`
	EndTime      string `json:"endTime" validate:"required,hhmm"`
	PricePerHour int64  `json:"pricePerHour" validate:"gte=0"`
	IsWeekend    bool   `json:"isWeekend"`
}

type SetPricesRequest struct {
	Pricings []PricingSlotRequest `json:"pricings" validate:"required,dive"`
}

// /api/owner/* を登録
func (h *OwnerHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/owner")
	g.Use(guards.Auth...)
	g.Use(middleware.RequireRoles(model.RoleOwner))

	g.POST("/facilities", h.createFacility)
	g.GET("/facilities", h.myFacilities)
	g.POST("/facilities/:facilityId/fields", h.createField, middleware.RequirePermission(model.PermCreateField))
	g.PUT("/fields/:fieldId/prices", h.setPrices, middleware.RequirePermission(model.PermUpdateField))
}

func (h *OwnerHandler) createFacility(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreateFacilityRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	f, err := h.uc.CreateFacility(c.Request().Context(), userID, usecase.CreateFacilityInput{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		SportID:     req.SportID,
		District:    req.District,
		City:        req.City,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		OpenTime:    req.OpenTime,
		CloseTime:   req.CloseTime,
		Images:      req.Images,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *OwnerHandler) myFacilities(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.MyFacilities(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OwnerHandler) createField(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	facilityID, ok := parseIDParam(c, "facilityId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid facilityId"})
	}

	var req CreateFieldRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	f, err := h.uc.CreateField(c.Request().Context(), userID, facilityID, usecase.CreateFieldInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *OwnerHandler) setPrices(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	fieldID, ok := parseIDParam(c, "fieldId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid fieldId"})
	}

	var req SetPricesRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	slots := make([]usecase.PricingSlotInput, 0, len(req.Pricings))
	for _, p := range req.Pricings {
		slots = append(slots, usecase.PricingSlotInput{
			StartTime:    p.StartTime,
			EndTime:      p.EndTime,
			PricePerHour: p.PricePerHour,
			IsWeekend:    p.IsWeekend,
		})
	}

	out, err := h.uc.SetFieldPrices(c.Request().Context(), userID, fieldID, slots)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
