package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"teslo/internal/app/product"
	"teslo/internal/pkg/errs"
	"teslo/internal/pkg/logx"
	"teslo/internal/pkg/randx"
	"teslo/internal/pkg/req"
	"teslo/internal/pkg/resp"
)

// ImageDownloadPath is the route prefix that serves uploaded product images.
const ImageDownloadPath = "/api/files/product/"

// HandleUploadProductImage stores the multipart "file" field in object storage.
func HandleUploadProductImage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		defer file.Close()

		ext, customErr := product.ValidateImage(header.Filename, header.Header.Get("Content-Type"), header.Size)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		name := randx.FileName(ext)
		fileKey := product.ImageKeyPrefix + name

		if err := deps.StorageService.Upload(r.Context(), fileKey, product.MIMEFor(ext), file); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		secureURL := deps.StorageService.PublicURL(fileKey)
		if secureURL == "" {
			secureURL = ImageDownloadPath + name
		}

		logx.Info("product image uploaded", "file_key", fileKey, "size", header.Size)

		resp.RespondCreated(w, r, map[string]any{
			"secureUrl": secureURL,
			"fileKey":   fileKey,
			"fileName":  header.Filename,
		})
	}
}

// HandleDownloadProductImage redirects to a time-limited presigned URL for the image.
func HandleDownloadProductImage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileKey := product.ImageKeyPrefix + chi.URLParam(r, "name")
		if !product.ValidImageKey(fileKey) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		url, err := deps.StorageService.PresignDownload(r.Context(), fileKey, product.DownloadURLDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}
