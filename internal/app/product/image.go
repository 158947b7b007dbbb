package product

import (
	"path/filepath"
	"strings"
	"time"

	"teslo/internal/pkg/errs"
)

const (
	// MaxImageSize is the largest accepted product image in bytes.
	MaxImageSize = 5 << 20

	// DownloadURLDuration is how long a presigned download link stays valid.
	DownloadURLDuration = 5 * time.Minute

	// ImageKeyPrefix namespaces product images in the bucket.
	ImageKeyPrefix = "products/"
)

// extToMIME maps accepted extensions to their MIME type.
var extToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ValidateImage checks size, extension and declared MIME type of an upload and returns the
// normalized extension.
func ValidateImage(fileName string, mimeType string, size int64) (string, *errs.CustomError) {
	if size <= 0 {
		return "", errs.NewError(errs.ErrInvalidParams)
	}
	if size > MaxImageSize {
		return "", errs.NewError(errs.ErrFileSizeTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	expected, ok := extToMIME[ext]
	if !ok {
		return "", errs.NewError(errs.ErrFileTypeInvalid)
	}

	if mimeType != "" && !strings.EqualFold(mimeType, expected) {
		return "", errs.NewError(errs.ErrFileTypeInvalid)
	}

	return ext, nil
}

// MIMEFor returns the content type for an accepted extension.
func MIMEFor(ext string) string {
	return extToMIME[ext]
}

// ValidImageKey reports whether key names an object under ImageKeyPrefix without path tricks.
func ValidImageKey(key string) bool {
	if !strings.HasPrefix(key, ImageKeyPrefix) || strings.Contains(key, "..") {
		return false
	}
	name := strings.TrimPrefix(key, ImageKeyPrefix)
	return name != "" && !strings.Contains(name, "/")
}
