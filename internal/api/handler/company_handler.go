package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// CompanyHandler handles the employer company profile.
type CompanyHandler struct {
	service ports.CompanyService
}

func NewCompanyHandler(service ports.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

type companyRequest struct {
	Name        string `json:"name"        form:"name"`
	Description string `json:"description" form:"description"`
	Phone       string `json:"phone"       form:"phone"`
	Address     string `json:"address"     form:"address"`
	Website     string `json:"website"     form:"website"`
	Email       string `json:"email"       form:"email" validate:"omitempty,email"`
}

func (r companyRequest) input() ports.CompanyInput {
	return ports.CompanyInput{
		Name:        r.Name,
		Description: r.Description,
		Phone:       r.Phone,
		Address:     r.Address,
		Website:     r.Website,
		Email:       r.Email,
	}
}

// Create handles POST /v1/companies.
//
// @Summary      Register the caller's company
// @Tags         companies
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name         formData  string  true  "Company name"
// @Param        description  formData  string  true  "Description"
// @Param        phone        formData  string  true  "Phone"
// @Param        address      formData  string  true  "Address"
// @Param        website      formData  string  true  "Website"
// @Param        email        formData  string  true  "Contact email"
// @Param        image        formData  file    true  "Logo (jpeg, png or gif, max 10 MB)"
// @Success      201          {object}  domain.Company
// @Failure      400          {object}  errorResponse
// @Failure      409          {object}  errorResponse
// @Failure      502          {object}  errorResponse
// @Router       /v1/companies [post]
func (h *CompanyHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req companyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	image, err := readUpload(c, "image", domain.ImagePolicy.MaxBytes)
	if err != nil {
		return err
	}

	company, err := h.service.Create(c.Request().Context(), caller, req.input(), image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, company)
}

// Update handles PUT /v1/companies/:id.
//
// @Summary      Update the caller's company
// @Description  Empty name or phone keep their current values.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Company ID"
// @Param        body  body      companyRequest  true  "Company fields"
// @Success      200   {object}  domain.Company
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/companies/{id} [put]
func (h *CompanyHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var req companyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	company, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// UpdateImage handles PUT /v1/companies/:id/image.
//
// @Summary      Replace the company logo
// @Tags         companies
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Company ID"
// @Param        image  formData  file    true  "Logo (jpeg, png or gif, max 10 MB)"
// @Success      200    {object}  domain.Company
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      502    {object}  errorResponse
// @Router       /v1/companies/{id}/image [put]
func (h *CompanyHandler) UpdateImage(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	image, err := readUpload(c, "image", domain.ImagePolicy.MaxBytes)
	if err != nil {
		return err
	}

	company, err := h.service.UpdateImage(c.Request().Context(), caller, c.Param("id"), image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// Delete handles DELETE /v1/companies/:id.
//
// @Summary      Delete the caller's company
// @Tags         companies
// @Security     BearerAuth
// @Param        id   path  string  true  "Company ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/companies/{id} [delete]
func (h *CompanyHandler) Delete(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
