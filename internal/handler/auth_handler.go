/*
Package handler provides the HTTP handlers and routing for the Teslo shop server.
*/
package handler

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"teslo/internal/app/db"
	"teslo/internal/app/user"
	"teslo/internal/pkg/auth/jwt"
	"teslo/internal/pkg/errs"
	"teslo/internal/pkg/logx"
	"teslo/internal/pkg/req"
	"teslo/internal/pkg/resp"
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and signs the caller in.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := user.NormalizeEmail(input.Email)
		if !user.ValidEmail(email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		if !user.ValidPassword(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		if !user.ValidFullName(input.FullName) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidFullName))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), deps.passwordCost())
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		created, err := deps.Users.CreateUser(r.Context(), email, string(hashedPassword), input.FullName)
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("registration conflict: email already exists", "email", email)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		respondWithToken(w, r, deps, created, http.StatusCreated)
	}
}

// HandleLogin verifies credentials and issues a token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := user.NormalizeEmail(input.Email)

		found, err := deps.Users.GetUserByEmail(r.Context(), email)
		if err != nil {
			if !errors.Is(err, db.ErrNotFound) {
				logx.Error(err, "login: user fetch failed", "email", email)
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if !found.IsActive {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserInactive))
			return
		}

		respondWithToken(w, r, deps, found, http.StatusOK)
	}
}

// HandleCheckStatus returns the current user with a fresh token.
func HandleCheckStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		respondWithToken(w, r, deps, u, http.StatusOK)
	}
}

// HandlePrivate echoes the current user and the request headers.
func HandlePrivate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := CurrentUser(r)

		resp.RespondSuccess(w, r, map[string]any{
			"ok":        true,
			"user":      u,
			"userEmail": u.Email,
			"headers":   r.Header,
		})
	}
}

// HandleRoleCheck echoes the current user for role-gated test routes.
func HandleRoleCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := CurrentUser(r)

		resp.RespondSuccess(w, r, map[string]any{
			"ok":   true,
			"user": u,
		})
	}
}

func respondWithToken(w http.ResponseWriter, r *http.Request, deps *AppDeps, u user.User, status int) {
	token, err := jwt.GenerateToken(u.ID, deps.Config.JWTSecret, jwt.UserIdentityExpiration)
	if err != nil {
		logx.Error(err, "jwt generation failed", "user_id", u.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	data := map[string]any{
		"user":  u,
		"token": token,
	}

	if status == http.StatusCreated {
		resp.RespondCreated(w, r, data)
		return
	}
	resp.RespondSuccess(w, r, data)
}
