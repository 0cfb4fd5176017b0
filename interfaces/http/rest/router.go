package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"hublens-backend/infrastructure/di"
	"hublens-backend/interfaces/http/rest/handlers"
	"hublens-backend/interfaces/http/rest/middleware"
	"hublens-backend/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	cfg := rt.container.Config
	secure := cfg.IsProduction()

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.container.Metrics))

	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	if rt.container.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.container.Metrics.Handler())
	}

	authHandler := handlers.NewAuthHandler(
		rt.container.OAuthConfig,
		rt.container.PublicTokenConfig,
		rt.container.StateSigner,
		rt.container.SessionStore,
		secure,
		rt.logger,
	)

	router.Route("/api/auth", func(r chi.Router) {
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Get("/token", authHandler.PublicToken)
		r.Get("/status", authHandler.Status)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	// Explorer routes: session-scoped and credential-gated
	router.Group(func(r chi.Router) {
		r.Use(middleware.Session(rt.container.SessionStore, secure))
		r.Use(middleware.Credentials())

		navigationHandler := handlers.NewNavigationHandler(rt.container.NavigationService, rt.logger)
		r.Route("/api/navigation", func(r chi.Router) {
			r.Get("/roots", navigationHandler.Roots)
			r.Post("/expand", navigationHandler.Expand)
			r.Post("/collapse", navigationHandler.Collapse)
		})

		modelHandler := handlers.NewModelHandler(rt.container.ModelService, rt.logger)
		r.Route("/api/model", func(r chi.Router) {
			r.Post("/select", modelHandler.Select)
			r.Get("/current", modelHandler.Current)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}
