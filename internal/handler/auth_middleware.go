package handler

import (
	"context"
	"errors"
	"net/http"

	"teslo/internal/app/db"
	"teslo/internal/app/user"
	"teslo/internal/pkg/auth/jwt"
	"teslo/internal/pkg/errs"
	"teslo/internal/pkg/logx"
	"teslo/internal/pkg/resp"
)

type userContextKey struct{}

// RequireAuth loads the user behind the request's token and rejects the request unless the
// user is active and holds at least one of roles. No roles means any active user.
func RequireAuth(deps *AppDeps, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := jwt.GetPayloadFromContext(r)
			if payload == nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			u, err := deps.Users.GetUserByID(r.Context(), payload.ID)
			if err != nil {
				if !errors.Is(err, db.ErrNotFound) {
					logx.Error(err, "auth: failed to load user", "user_id", payload.ID)
				}
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			if !u.IsActive {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserInactive))
				return
			}

			if !u.HasAnyRole(roles...) {
				logx.Warn("auth: missing role", "user_id", u.ID, "required", roles)
				resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(r *http.Request) (user.User, bool) {
	u, ok := r.Context().Value(userContextKey{}).(user.User)
	return u, ok
}
