package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// ApplicationHandler exposes the application lifecycle over HTTP.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Apply handles POST /v1/posts/:id/applications.
//
// @Summary      Apply for a post
// @Description  Reserves one slot on the post for the caller. Requires a CV on file.
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      201  {object}  domain.Application
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/posts/{id}/applications [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	app, err := h.service.Apply(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// ListForPost handles GET /v1/posts/:id/applications.
//
// @Summary      List applications received by a post
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  listResponse[domain.Application]
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/posts/{id}/applications [get]
func (h *ApplicationHandler) ListForPost(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	apps, err := h.service.ListForPost(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(apps))
}

// ListMine handles GET /v1/applications/mine.
//
// @Summary      List the caller's applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Application]
// @Router       /v1/applications/mine [get]
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	apps, err := h.service.ListMine(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(apps))
}

// Withdraw handles DELETE /v1/applications/:id.
//
// @Summary      Withdraw an application
// @Description  Deletes the caller's application and frees its slot.
// @Tags         applications
// @Security     BearerAuth
// @Param        id   path  string  true  "Application ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/applications/{id} [delete]
func (h *ApplicationHandler) Withdraw(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Withdraw(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Accept handles POST /v1/applications/:id/accept.
//
// @Summary      Accept an application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  domain.Application
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/applications/{id}/accept [post]
func (h *ApplicationHandler) Accept(c echo.Context) error {
	return h.review(c, h.service.Accept)
}

// Reject handles POST /v1/applications/:id/reject.
//
// @Summary      Reject an application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  domain.Application
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/applications/{id}/reject [post]
func (h *ApplicationHandler) Reject(c echo.Context) error {
	return h.review(c, h.service.Reject)
}

type reviewFunc func(ctx context.Context, caller domain.Caller, applicationID string) (*domain.Application, error)

func (h *ApplicationHandler) review(c echo.Context, fn reviewFunc) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	app, err := fn(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, app)
}
