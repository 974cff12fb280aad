package handler

import (
	"net/http"

	"sportsbooking/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/facilities の公開API
type FacilityHandler struct {
	uc *usecase.FacilityUsecase
}

// DI
func NewFacilityHandler(uc *usecase.FacilityUsecase) *FacilityHandler {
	return &FacilityHandler{uc: uc}
}

// 公開施設のルートを登録
func (h *FacilityHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/facilities")
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/:id/reviews", h.reviews)
	g.GET("/:id/availability", h.availability)
}

func (h *FacilityHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}
	sportID, ok := queryInt64Ptr(c, "sportId")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid sportId"})
	}
	minPrice, ok := queryInt64Ptr(c, "minPrice")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid minPrice"})
	}
	maxPrice, ok := queryInt64Ptr(c, "maxPrice")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid maxPrice"})
	}

	out, err := h.uc.ListPublicFacilities(c.Request().Context(), usecase.ListFacilitiesInput{
		Page:     page,
		Limit:    limit,
		Q:        c.QueryParam("q"),
		District: c.QueryParam("district"),
		City:     c.QueryParam("city"),
		SportID:  sportID,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *FacilityHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetPublicFacility(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FacilityHandler) reviews(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.uc.GetFacilityReviews(c.Request().Context(), id, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ?date=YYYY-MM-DD
func (h *FacilityHandler) availability(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetAvailability(c.Request().Context(), id, c.QueryParam("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
