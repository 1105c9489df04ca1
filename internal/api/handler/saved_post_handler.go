package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// SavedPostHandler manages the caller's bookmarks.
type SavedPostHandler struct {
	service ports.SavedPostService
}

func NewSavedPostHandler(service ports.SavedPostService) *SavedPostHandler {
	return &SavedPostHandler{service: service}
}

// List handles GET /v1/saved-posts.
//
// @Summary      List bookmarked posts
// @Tags         saved-posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.SavedPost]
// @Router       /v1/saved-posts [get]
func (h *SavedPostHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	saved, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(saved))
}

// Save handles POST /v1/saved-posts/:post_id.
//
// @Summary      Bookmark a post
// @Tags         saved-posts
// @Security     BearerAuth
// @Param        post_id  path  string  true  "Post ID"
// @Success      204
// @Failure      404      {object}  errorResponse
// @Router       /v1/saved-posts/{post_id} [post]
func (h *SavedPostHandler) Save(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Save(c.Request().Context(), caller, c.Param("post_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Unsave handles DELETE /v1/saved-posts/:post_id.
//
// @Summary      Remove a bookmark
// @Tags         saved-posts
// @Security     BearerAuth
// @Param        post_id  path  string  true  "Post ID"
// @Success      204
// @Router       /v1/saved-posts/{post_id} [delete]
func (h *SavedPostHandler) Unsave(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Unsave(c.Request().Context(), caller, c.Param("post_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
