package domain

import (
	"path/filepath"
	"strings"
)

// UploadPolicy describes what a file upload must look like to be accepted.
type UploadPolicy struct {
	Dir        string
	MaxBytes   int64
	MimeTypes  []string
	Extensions []string
}

var (
	// CVPolicy accepts PDF files up to 2 MB.
	CVPolicy = UploadPolicy{
		Dir:        "cv",
		MaxBytes:   2 << 20,
		MimeTypes:  []string{"application/pdf"},
		Extensions: []string{".pdf"},
	}
	// ImagePolicy accepts jpeg, png and gif images up to 10 MB.
	ImagePolicy = UploadPolicy{
		Dir:        "company",
		MaxBytes:   10 << 20,
		MimeTypes:  []string{"image/jpeg", "image/png", "image/gif"},
		Extensions: []string{".jpeg", ".jpg", ".png", ".gif"},
	}
)

// Upload is a file received from a client, fully read into memory.
type Upload struct {
	Name string
	Data []byte
}

func (p UploadPolicy) AllowsExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range p.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
