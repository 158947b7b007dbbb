package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"teslo/internal/app/user"
	"teslo/internal/pkg/auth/jwt"
	"teslo/internal/pkg/errs"
	"teslo/internal/pkg/limiter"
	"teslo/internal/pkg/logx"
	"teslo/internal/pkg/resp"
)

const (
	LoginRate  = 0.2
	LoginBurst = 5
	WSRate     = 0.5
	WSBurst    = 10
)

// ServiceName is reported by the health endpoint.
const ServiceName = "Teslo Shop Server"

// Router sets up the HTTP routing table: global middleware, the REST API and the
// WebSocket endpoint.
func Router(deps *AppDeps) http.Handler {
	loginLimiter := limiter.NewIPRateLimiter(rate.Limit(LoginRate), LoginBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WSRate), WSBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Authentication", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":      "ok",
			"service":     ServiceName,
			"connections": deps.Gateway.Registry().Len(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", HandleRegister(deps))
			auth.With(loginLimiter.Middleware).Post("/login", HandleLogin(deps))

			auth.With(RequireAuth(deps)).Get("/check-status", HandleCheckStatus(deps))
			auth.With(RequireAuth(deps)).Get("/private", HandlePrivate())
			auth.With(RequireAuth(deps, user.RoleSuperUser)).Get("/private2", HandleRoleCheck())
			auth.With(RequireAuth(deps, user.RoleAdmin)).Get("/private3", HandleRoleCheck())
		})

		api.Route("/products", func(products chi.Router) {
			products.Get("/", HandleListProducts(deps))
			products.Get("/{term}", HandleFindProduct(deps))

			products.Group(func(admin chi.Router) {
				admin.Use(RequireAuth(deps, user.RoleAdmin))
				admin.Post("/", HandleCreateProduct(deps))
				admin.Patch("/{id}", HandleUpdateProduct(deps))
				admin.Delete("/{id}", HandleDeleteProduct(deps))
			})
		})

		api.Route("/files", func(files chi.Router) {
			if deps.StorageService == nil {
				files.HandleFunc("/*", handleFeatureDisabled)
				return
			}
			files.With(RequireAuth(deps, user.RoleAdmin)).Post("/product", HandleUploadProductImage(deps))
			files.Get("/product/{name}", HandleDownloadProductImage(deps))
		})

		if deps.Config.SeedEnabled {
			api.Get("/seed", HandleSeed(deps))
		} else {
			api.Get("/seed", handleFeatureDisabled)
		}
	})

	r.Get("/ws", HandleWebSocket(deps.Gateway, wsUpgrader, wsLimiter))

	return r
}

func handleFeatureDisabled(w http.ResponseWriter, r *http.Request) {
	resp.RespondError(w, r, errs.NewError(errs.ErrFeatureDisabled))
}
