package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// CVHandler exposes the CV registry over HTTP.
type CVHandler struct {
	service ports.CVService
}

func NewCVHandler(service ports.CVService) *CVHandler {
	return &CVHandler{service: service}
}

// Get handles GET /v1/cv.
//
// @Summary      Get the caller's CV
// @Tags         cv
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.CV
// @Failure      404  {object}  errorResponse
// @Router       /v1/cv [get]
func (h *CVHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	cv, err := h.service.Get(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cv)
}

// Upload handles POST /v1/cv.
//
// @Summary      Upload a CV
// @Description  Stores a PDF of at most 2 MB. An existing CV is replaced.
// @Tags         cv
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "PDF file"
// @Success      201   {object}  domain.CV
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/cv [post]
func (h *CVHandler) Upload(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	file, err := readUpload(c, "file", domain.CVPolicy.MaxBytes)
	if err != nil {
		return err
	}

	cv, err := h.service.Upload(c.Request().Context(), caller, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cv)
}

// Replace handles PUT /v1/cv.
//
// @Summary      Replace the caller's CV
// @Tags         cv
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "PDF file"
// @Success      200   {object}  domain.CV
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/cv [put]
func (h *CVHandler) Replace(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	file, err := readUpload(c, "file", domain.CVPolicy.MaxBytes)
	if err != nil {
		return err
	}

	cv, err := h.service.Replace(c.Request().Context(), caller, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cv)
}

// Delete handles DELETE /v1/cv/:id.
//
// @Summary      Delete a CV
// @Tags         cv
// @Security     BearerAuth
// @Param        id   path  string  true  "CV ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cv/{id} [delete]
func (h *CVHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Download handles GET /v1/cv/:id/file.
//
// @Summary      Download a CV file
// @Description  Readable by the owner, admins and employers who received an application from the owner.
// @Tags         cv
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "CV ID"
// @Success      200  {file}  binary
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cv/{id}/file [get]
func (h *CVHandler) Download(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	cv, rc, err := h.service.Open(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	defer rc.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, "inline; filename="+strconv.Quote(cv.FileName))
	if cv.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(cv.Size, 10))
	}
	return c.Stream(http.StatusOK, cv.MimeType, rc)
}
