package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// PostHandler handles HTTP requests for job posts.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

type createPostRequest struct {
	CategoryID     string    `json:"category_id"     validate:"required"`
	LocationID     string    `json:"location_id"     validate:"required"`
	Title          string    `json:"title"           validate:"required"`
	Description    string    `json:"description"     validate:"required"`
	Type           string    `json:"type"            validate:"required"`
	Salary         string    `json:"salary"`
	NrWorkers      int       `json:"nr_workers"      validate:"required,gt=0"`
	ExpirationDate time.Time `json:"expiration_date"`
}

type listPostsQuery struct {
	CategoryID string `query:"category_id"`
	LocationID string `query:"location_id"`
	Search     string `query:"search"`
	Page       int    `query:"page"  validate:"gte=0"`
	Limit      int    `query:"limit" validate:"gte=0"`
}

type listPostsResponse struct {
	Items      []*domain.Post `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// Create handles POST /v1/posts.
//
// @Summary      Publish a job post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post details"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), caller, ports.CreatePostInput{
		CategoryID:     req.CategoryID,
		LocationID:     req.LocationID,
		Title:          req.Title,
		Description:    req.Description,
		Type:           req.Type,
		Salary:         req.Salary,
		NrWorkers:      req.NrWorkers,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// Get handles GET /v1/posts/:id.
//
// @Summary      Get a job post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  domain.Post
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// List handles GET /v1/posts.
//
// @Summary      List job posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        category_id  query     string  false  "Filter by category"
// @Param        location_id  query     string  false  "Filter by city"
// @Param        search       query     string  false  "Title search"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Page size (default 20, max 100)"
// @Success      200          {object}  listPostsResponse
// @Failure      400          {object}  errorResponse
// @Router       /v1/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	var q listPostsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), ports.ListPostsInput{
		CategoryID: q.CategoryID,
		LocationID: q.LocationID,
		Search:     q.Search,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}

	items := result.Items
	if items == nil {
		items = []*domain.Post{}
	}
	return c.JSON(http.StatusOK, listPostsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// ListMine handles GET /v1/posts/mine.
//
// @Summary      List the caller's posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Post]
// @Router       /v1/posts/mine [get]
func (h *PostHandler) ListMine(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	posts, err := h.service.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(posts))
}

// Delete handles DELETE /v1/posts/:id.
//
// @Summary      Delete one of the caller's posts
// @Description  Removes the post together with its applications and bookmarks.
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  string  true  "Post ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
