/*
Package req provides helper functions for HTTP request parsing and data binding.

It wraps JSON body decoding, multipart form setup and pagination query parsing,
returning *errs.CustomError values that handlers can send as-is.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"teslo/internal/pkg/errs"
)

const (
	// MaxFormMemory is the memory ParseMultipartForm may use before spilling files to disk.
	MaxFormMemory int64 = 8 << 20 // 8 MB

	// MaxRequestFileSize caps the whole multipart body, enforced via http.MaxBytesReader.
	MaxRequestFileSize int64 = 10 << 20 // 10 MB

	// DefaultLimit and DefaultOffset apply when the query omits them.
	DefaultLimit  = 10
	DefaultOffset = 0

	// MaxLimit caps a single page.
	MaxLimit = 100
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// BindJSON decodes the request body into dst, rejecting unknown fields and trailing data.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// SetupMultipart limits the body size and parses the multipart form.
func SetupMultipart(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestFileSize)

	if err := r.ParseMultipartForm(MaxFormMemory); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}

// ParsePagination reads ?limit= and ?offset=. Limit must be 1..MaxLimit, offset non-negative.
func ParsePagination(r *http.Request) (Pagination, *errs.CustomError) {
	p := Pagination{Limit: DefaultLimit, Offset: DefaultOffset}
	query := r.URL.Query()

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return p, errs.NewError(errs.ErrInvalidParams)
		}
		p.Limit = limit
	}

	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return p, errs.NewError(errs.ErrInvalidParams)
		}
		p.Offset = offset
	}

	return p, nil
}
