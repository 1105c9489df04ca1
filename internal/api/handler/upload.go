package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// readUpload loads a multipart file field into memory. At most limit+1 bytes
// are read so an oversized file is still reported as too large.
func readUpload(c echo.Context, field string, limit int64) (domain.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return domain.Upload{}, domain.NewValidationError(field, domain.ReasonRequired)
		}
		return domain.Upload{}, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart payload")
	}
	if fh.Size > limit {
		return domain.Upload{}, domain.NewValidationError(field, domain.ReasonTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read upload: %w", err)
	}
	return domain.Upload{Name: fh.Filename, Data: data}, nil
}
