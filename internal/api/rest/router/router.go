package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/blog-server/internal/api/rest/handler"
	"github.com/dtroode/blog-server/internal/api/rest/middleware"
	"github.com/dtroode/blog-server/internal/blog"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// Options tunes transport behaviour of the HTTP API.
type Options struct {
	Cookie            handler.CookieOptions
	MaxUploadBytes    int64
	RequestTimeout    time.Duration
	AllowedOrigins    []string
	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// Router builds the HTTP API.
type Router struct {
	authService    handler.AuthService
	profileService handler.ProfileService
	catalog        *blog.Catalog
	tokens         middleware.SessionParser
	contextManager model.ContextManager
	checks         map[string]model.Pinger
	registry       *prometheus.Registry
	opts           Options
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService handler.AuthService,
	profileService handler.ProfileService,
	catalog *blog.Catalog,
	tokens middleware.SessionParser,
	contextManager model.ContextManager,
	checks map[string]model.Pinger,
	registry *prometheus.Registry,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		profileService: profileService,
		catalog:        catalog,
		tokens:         tokens,
		contextManager: contextManager,
		checks:         checks,
		registry:       registry,
		opts:           opts,
		logger:         logger,
	}
}

// Register mounts all routes and middleware and returns the root handler.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	metrics := middleware.NewMetrics(r.registry)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	if r.opts.TrustProxyHeaders {
		mux.Use(chimw.RealIP)
	}
	mux.Use(logging.Handle)
	mux.Use(metrics.Handle)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	health := handler.NewHealth(r.checks, r.logger)
	mux.Get("/healthz/liveness", health.Liveness)
	mux.Get("/healthz/readiness", health.Readiness)
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))

	mux.Route("/api", func(api chi.Router) {
		if r.opts.RequestTimeout > 0 {
			api.Use(chimw.Timeout(r.opts.RequestTimeout))
		}
		r.registerAuthRoutes(api)
		r.registerBlogRoutes(api)
	})

	return mux
}

func (r *Router) registerAuthRoutes(api chi.Router) {
	auth := handler.NewAuth(r.authService, r.opts.Cookie, r.logger)
	profile := handler.NewProfile(r.profileService, r.contextManager, r.opts.MaxUploadBytes, r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	api.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", auth.Signup)
		ar.With(middleware.Signin()).Post("/signin", auth.Signin)
		ar.With(middleware.ForgotPassword()).Post("/forgetpassword", auth.ForgotPassword)
		ar.With(middleware.ResetPassword()).Put("/resetpassword", auth.ResetPassword)
		ar.With(middleware.ResetPassword()).Put("/resetpassword/{token}", auth.ResetPassword)

		ar.Group(func(protected chi.Router) {
			protected.Use(authenticate.Handle)
			protected.Post("/signout", auth.Signout)
			protected.Post("/profile/upload", profile.Upload)
			protected.Delete("/profile/remove", profile.Remove)
			protected.Get("/profile/photo", profile.Photo)
		})
	})
}

func (r *Router) registerBlogRoutes(api chi.Router) {
	blogHandler := handler.NewBlog(r.catalog)

	api.Route("/blog", func(br chi.Router) {
		br.Get("/", blogHandler.List)
		br.Get("/{id}", blogHandler.Get)
	})
}
