package handler

import (
	"net/http"

	"teslo/internal/app/seed"
	"teslo/internal/pkg/errs"
	"teslo/internal/pkg/logx"
	"teslo/internal/pkg/resp"
)

// HandleSeed replaces every user and product with the embedded dataset.
func HandleSeed(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset, err := seed.Load()
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		users, err := dataset.BuildUsers(deps.passwordCost())
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		products, err := dataset.BuildProducts()
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if err := deps.Seeder.Reseed(r.Context(), users, products); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("seed executed", "users", len(users), "products", len(products))
		resp.RespondSuccess(w, r, "SEED EXECUTED")
	}
}
