// Package api provides the REST API HTTP server.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/aistream"
	"github.com/loreleaf/loreleaf/pkg/api/auth"
	"github.com/loreleaf/loreleaf/pkg/api/handlers"
	apimw "github.com/loreleaf/loreleaf/pkg/api/middleware"
	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/links"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/metrics"
	"github.com/loreleaf/loreleaf/pkg/pages"
	syncpkg "github.com/loreleaf/loreleaf/pkg/sync"
	"github.com/loreleaf/loreleaf/pkg/workspace"
)

// Services groups the domain services the API routes over.
type Services struct {
	Store      *store.GORMStore
	Content    *contentstore.Store
	Pages      *pages.Service
	Links      *links.Service
	Workspaces *workspace.Service
	Uploader   *pages.Uploader
	Reconciler *syncpkg.Reconciler

	// Generator backs the AI generation endpoint. Nil disables it.
	Generator aistream.Generator

	// Metrics and Registry enable the /metrics endpoint. Both may be nil.
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	// Version is reported by the liveness probe.
	Version string
}

// NewRouter creates and configures the chi router with all middleware
// and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout, with the streaming generation endpoint exempt
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /metrics - Prometheus metrics (when a registry is configured)
//   - POST /api/v1/auth/login - Web or CLI authentication
//   - POST /api/v1/auth/logout - Session teardown
//   - GET /api/v1/auth/me - Current user info
//   - /api/v1/libraries/* - Library lifecycle, sync, page/file/workspace listing
//   - /api/v1/pages/* - Page CRUD, draft save, link graph
//   - /api/v1/files/* - File metadata, download, cover, reprocess
//   - /api/v1/workspaces/* - Workspace CRUD, ordered items, AI context, generation
//   - /api/v1/admin/users/* - User management (admin only)
func NewRouter(cfg Config, jwtService *auth.Service, svc Services) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metricsRecorder(svc.Metrics))
	r.Use(streamAwareTimeout(cfg.RequestTimeout))

	healthHandler := handlers.NewHealthHandler(svc.Store, svc.Version)

	// Health routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Live)
		r.Get("/ready", healthHandler.Ready)
	})

	if svc.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(svc.Registry, promhttp.HandlerOpts{}))
	}

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	authenticator := apimw.NewAuthenticator(jwtService, svc.Store, cfg.CookieName)
	authHandler := handlers.NewAuthHandler(svc.Store, jwtService, cfg.CookieName, cfg.SecureCookies)
	usersHandler := handlers.NewUsersHandler(svc.Store, svc.Content)
	librariesHandler := handlers.NewLibrariesHandler(svc.Store, svc.Content, svc.Reconciler)
	pagesHandler := handlers.NewPagesHandler(svc.Store, svc.Pages, svc.Links)
	filesHandler := handlers.NewFilesHandler(svc.Store, svc.Uploader)
	workspacesHandler := handlers.NewWorkspacesHandler(svc.Workspaces)
	generateHandler := handlers.NewGenerateHandler(svc.Pages, svc.Workspaces, svc.Generator)

	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes - login and logout are unauthenticated
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authenticator.Require)
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authenticator.Require)

			r.Route("/libraries", func(r chi.Router) {
				r.Get("/", librariesHandler.List)
				r.Post("/", librariesHandler.Create)

				r.Route("/{libraryID}", func(r chi.Router) {
					r.Get("/", librariesHandler.Get)
					r.Delete("/", librariesHandler.Delete)
					r.Post("/sync", librariesHandler.Sync)

					r.Get("/pages", pagesHandler.List)
					r.Get("/files", filesHandler.List)
					r.Post("/files", filesHandler.Upload)
					r.Get("/workspaces", workspacesHandler.List)
				})
			})

			r.Route("/pages", func(r chi.Router) {
				r.Post("/", pagesHandler.Create)

				r.Route("/{pageID}", func(r chi.Router) {
					r.Get("/", pagesHandler.Get)
					r.Put("/", pagesHandler.Update)
					r.Delete("/", pagesHandler.Delete)
					r.Post("/save", pagesHandler.SaveDraft)
					r.Get("/links", pagesHandler.Links)
					r.Get("/stats", pagesHandler.Stats)
				})
			})

			r.Route("/files/{fileID}", func(r chi.Router) {
				r.Get("/", filesHandler.Get)
				r.Delete("/", filesHandler.Delete)
				r.Get("/download", filesHandler.Download)
				r.Get("/cover", filesHandler.Cover)
				r.Post("/reprocess", filesHandler.Reprocess)
			})

			r.Route("/workspaces", func(r chi.Router) {
				r.Post("/", workspacesHandler.Create)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Get("/", workspacesHandler.Get)
					r.Delete("/", workspacesHandler.Delete)
					r.Put("/favorite", workspacesHandler.SetFavorite)
					r.Post("/duplicate", workspacesHandler.Duplicate)
					r.Get("/ai-context", workspacesHandler.AIContext)
					r.Post("/generate", generateHandler.Generate)

					r.Route("/items", func(r chi.Router) {
						r.Get("/", workspacesHandler.ListItems)
						r.Post("/", workspacesHandler.AddItem)

						r.Route("/{itemID}", func(r chi.Router) {
							r.Put("/", workspacesHandler.UpdateItem)
							r.Put("/position", workspacesHandler.MoveItem)
							r.Delete("/", workspacesHandler.RemoveItem)
						})
					})
				})
			})

			// User management (admin only)
			r.Route("/admin/users", func(r chi.Router) {
				r.Use(apimw.RequireAdmin)

				r.Get("/", usersHandler.List)
				r.Post("/", usersHandler.Create)
				r.Delete("/{username}", usersHandler.Delete)
				r.Put("/{username}/password", usersHandler.ResetPassword)
				r.Put("/{username}/quota", usersHandler.UpdateQuota)
			})
		})
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// isStreamPath returns true for endpoints that hold a long-lived event
// stream and must not run under the request timeout.
func isStreamPath(path string) bool {
	return strings.HasSuffix(path, "/generate")
}

// streamAwareTimeout applies the standard request timeout to everything
// except the streaming endpoints.
func streamAwareTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		timed := chimw.Timeout(timeout)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isStreamPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			timed.ServeHTTP(w, r)
		})
	}
}

// metricsRecorder records per-request counters and latency against the
// matched route pattern, so path parameters do not explode cardinality.
func metricsRecorder(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RecordHTTPRequest(r.Method, route, strconv.Itoa(ww.Status()), time.Since(start).Seconds())
		})
	}
}

// requestLogger is a custom middleware that logs requests using the
// internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
//   - Healthcheck requests are logged at DEBUG level to reduce noise
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimw.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		// Wrap response writer to capture status code
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		// Log healthcheck requests at DEBUG to avoid polluting logs in k8s
		if isHealthPath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}
