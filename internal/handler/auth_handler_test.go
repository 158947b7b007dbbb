package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teslo/internal/app/user"
	"teslo/internal/pkg/auth/jwt"
	"teslo/internal/pkg/errs"
)

type authData struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, false)

	w, res := env.do(t, http.MethodPost, "/api/auth/register", "", RegisterInput{
		Email:    " Test3@Google.com ",
		Password: "Abc123",
		FullName: "Test Three",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var data authData
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, "test3@google.com", data.User.Email)
	assert.Equal(t, []string{user.RoleUser}, data.User.Roles)
	assert.NotContains(t, string(res.Data), "password", "hash never leaves the server")

	payload, err := jwt.ParseToken(data.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, data.User.ID, payload.ID)
}

func TestRegister_Rejects(t *testing.T) {
	env := newTestEnv(t, false)
	env.users.add("taken@google.com", "Abc123", "Taken", true)

	cases := map[string]struct {
		input RegisterInput
		code  int
	}{
		"bad email":      {RegisterInput{Email: "nope", Password: "Abc123", FullName: "X"}, errs.ErrInvalidEmail},
		"weak password":  {RegisterInput{Email: "a@b.co", Password: "abc", FullName: "X"}, errs.ErrInvalidPassword},
		"blank name":     {RegisterInput{Email: "a@b.co", Password: "Abc123", FullName: " "}, errs.ErrInvalidFullName},
		"duplicate mail": {RegisterInput{Email: "taken@google.com", Password: "Abc123", FullName: "X"}, errs.ErrUserAlreadyExists},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w, res := env.do(t, http.MethodPost, "/api/auth/register", "", tc.input)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, res.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, false)
	u := env.users.add("test1@google.com", "Abc123", "Test One", true, user.RoleAdmin)
	env.users.add("gone@google.com", "Abc123", "Gone", false)

	w, res := env.do(t, http.MethodPost, "/api/auth/login", "", LoginInput{Email: "TEST1@google.com", Password: "Abc123"})
	require.Equal(t, http.StatusOK, w.Code)

	var data authData
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, u.ID, data.User.ID)
	assert.NotEmpty(t, data.Token)

	w, res = env.do(t, http.MethodPost, "/api/auth/login", "", LoginInput{Email: "test1@google.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, errs.ErrInvalidCredentials, res.Code)

	w, res = env.do(t, http.MethodPost, "/api/auth/login", "", LoginInput{Email: "nobody@google.com", Password: "Abc123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, errs.ErrInvalidCredentials, res.Code)

	_, res = env.do(t, http.MethodPost, "/api/auth/login", "", LoginInput{Email: "gone@google.com", Password: "Abc123"})
	assert.Equal(t, errs.ErrUserInactive, res.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t, false)

	var last int
	for range LoginBurst + 1 {
		w, _ := env.do(t, http.MethodPost, "/api/auth/login", "", LoginInput{Email: "x@y.co", Password: "Abc123"})
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestCheckStatus(t *testing.T) {
	env := newTestEnv(t, false)
	u := env.users.add("test1@google.com", "Abc123", "Test One", true)

	w, res := env.do(t, http.MethodGet, "/api/auth/check-status", tokenFor(t, u), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data authData
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, u.Email, data.User.Email)
	assert.NotEmpty(t, data.Token)

	w, res = env.do(t, http.MethodGet, "/api/auth/check-status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, errs.ErrUnauthorized, res.Code)

	w, _ = env.do(t, http.MethodGet, "/api/auth/check-status", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGatedRoutes(t *testing.T) {
	env := newTestEnv(t, false)
	plain := env.users.add("plain@google.com", "Abc123", "Plain", true)
	super := env.users.add("super@google.com", "Abc123", "Super", true, user.RoleSuperUser)
	admin := env.users.add("admin@google.com", "Abc123", "Admin", true, user.RoleAdmin)
	inactive := env.users.add("off@google.com", "Abc123", "Off", false, user.RoleAdmin)

	cases := []struct {
		path   string
		who    user.User
		status int
	}{
		{"/api/auth/private", plain, http.StatusOK},
		{"/api/auth/private2", plain, http.StatusForbidden},
		{"/api/auth/private2", super, http.StatusOK},
		{"/api/auth/private3", super, http.StatusForbidden},
		{"/api/auth/private3", admin, http.StatusOK},
		{"/api/auth/private3", inactive, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		w, _ := env.do(t, http.MethodGet, tc.path, tokenFor(t, tc.who), nil)
		assert.Equal(t, tc.status, w.Code, "%s as %s", tc.path, tc.who.Email)
	}
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	env := newTestEnv(t, false)
	ghost := user.User{ID: "00000000-0000-0000-0000-000000000000"}

	w, res := env.do(t, http.MethodGet, "/api/auth/private", tokenFor(t, ghost), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, errs.ErrUnauthorized, res.Code)
}
