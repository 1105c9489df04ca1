package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// validateUpload checks size, extension and sniffed content type against the
// policy and returns the matched MIME type.
func validateUpload(field string, policy domain.UploadPolicy, file domain.Upload) (string, error) {
	if len(file.Data) == 0 {
		return "", domain.NewValidationError(field, domain.ReasonRequired)
	}
	if int64(len(file.Data)) > policy.MaxBytes {
		return "", domain.NewValidationError(field, domain.ReasonTooLarge)
	}
	if !policy.AllowsExtension(file.Name) {
		return "", domain.NewValidationError(field, domain.ReasonUnsupportedType)
	}

	detected := mimetype.Detect(file.Data)
	for _, allowed := range policy.MimeTypes {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return "", domain.NewValidationError(field, domain.ReasonUnsupportedType)
}

// storedName builds a collision-free file name that keeps the original extension.
func storedName(original string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(original))
}

// discardFile removes a stored file on a best-effort basis. It runs detached
// from the request context so a cancelled request still cleans up.
func discardFile(ctx context.Context, files ports.FileStore, log zerolog.Logger, path string) {
	if path == "" {
		return
	}
	if err := files.Delete(context.WithoutCancel(ctx), path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove stored file")
	}
}
