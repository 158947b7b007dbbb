package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"teslo/internal/app/db"
	"teslo/internal/app/product"
	"teslo/internal/pkg/errs"
	"teslo/internal/pkg/logx"
	"teslo/internal/pkg/req"
	"teslo/internal/pkg/resp"
)

// HandleCreateProduct stores a new product owned by the current user.
func HandleCreateProduct(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := CurrentUser(r)

		var input product.CreateInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		p, ok := input.Build(u.ID)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		created, err := deps.Products.CreateProduct(r.Context(), p)
		if err != nil {
			resp.RespondError(w, r, productError(err, p.Slug))
			return
		}

		logx.Info("product created", "product_id", created.ID, "slug", created.Slug, "user_id", u.ID)
		resp.RespondCreated(w, r, created)
	}
}

// HandleListProducts returns one page of products.
func HandleListProducts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, customErr := req.ParsePagination(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		items, err := deps.Products.ListProducts(r.Context(), page.Limit, page.Offset)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, items)
	}
}

// HandleFindProduct looks a product up by id, title or slug.
func HandleFindProduct(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := chi.URLParam(r, "term")

		found, err := deps.Products.FindProduct(r.Context(), term)
		if err != nil {
			resp.RespondError(w, r, productError(err, term))
			return
		}

		resp.RespondSuccess(w, r, found)
	}
}

// HandleUpdateProduct applies a partial update; a present images list replaces the set.
func HandleUpdateProduct(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !product.IsUUID(id) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidProductID))
			return
		}

		var input product.UpdateInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		current, err := deps.Products.GetProduct(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, productError(err, id))
			return
		}

		next, ok := input.Apply(current)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		updated, err := deps.Products.UpdateProduct(r.Context(), next, input.Images != nil)
		if err != nil {
			resp.RespondError(w, r, productError(err, id))
			return
		}

		resp.RespondSuccess(w, r, updated)
	}
}

// HandleDeleteProduct removes a product and its images.
func HandleDeleteProduct(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !product.IsUUID(id) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidProductID))
			return
		}

		if err := deps.Products.DeleteProduct(r.Context(), id); err != nil {
			resp.RespondError(w, r, productError(err, id))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// productError maps store errors to client errors.
func productError(err error, term string) *errs.CustomError {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return errs.NewError(errs.ErrProductNotFound, term)
	case db.IsUniqueViolation(err):
		return errs.NewError(errs.ErrProductExists)
	case db.IsInvalidText(err):
		return errs.NewError(errs.ErrInvalidParams)
	default:
		return errs.NewError(errs.ErrUnknown, err)
	}
}
