package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// ReferenceHandler serves cities and categories.
type ReferenceHandler struct {
	service ports.ReferenceService
}

func NewReferenceHandler(service ports.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

type createCityRequest struct {
	Name string  `json:"name" validate:"required"`
	Lat  float64 `json:"lat"  validate:"gte=-90,lte=90"`
	Lng  float64 `json:"lng"  validate:"gte=-180,lte=180"`
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListCities handles GET /v1/cities.
//
// @Summary      List cities
// @Tags         reference
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.City]
// @Router       /v1/cities [get]
func (h *ReferenceHandler) ListCities(c echo.Context) error {
	cities, err := h.service.ListCities(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(cities))
}

// ListCategories handles GET /v1/categories.
//
// @Summary      List categories
// @Tags         reference
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Category]
// @Router       /v1/categories [get]
func (h *ReferenceHandler) ListCategories(c echo.Context) error {
	categories, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(categories))
}

// CreateCity handles POST /v1/cities.
//
// @Summary      Add a city
// @Tags         reference
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCityRequest  true  "City"
// @Success      201   {object}  domain.City
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/cities [post]
func (h *ReferenceHandler) CreateCity(c echo.Context) error {
	var req createCityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	city, err := h.service.CreateCity(c.Request().Context(), req.Name, domain.Coordinates{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, city)
}

// CreateCategory handles POST /v1/categories.
//
// @Summary      Add a category
// @Tags         reference
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCategoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/categories [post]
func (h *ReferenceHandler) CreateCategory(c echo.Context) error {
	var req createCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.service.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}
