// Package httpapi serves the JSON API and the HTML pages of the form builder
// on a chi router.
package httpapi

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formbuilder/pkg/events"
	"github.com/goliatone/go-formbuilder/pkg/metrics"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

const (
	// OwnerHeader carries the authenticated user id set by the fronting proxy.
	OwnerHeader = "X-User-ID"
	// SessionCookie holds the fill-in session id.
	SessionCookie = "formbuilder_session"
	// AssetsPath is where renderer assets are served.
	AssetsPath = "/static"
)

// OwnerResolver extracts the authenticated owner of a request.
type OwnerResolver func(r *http.Request) (string, bool)

// HeaderOwner reads OwnerHeader.
func HeaderOwner(r *http.Request) (string, bool) {
	owner := strings.TrimSpace(r.Header.Get(OwnerHeader))
	return owner, owner != ""
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithOwnerResolver(fn OwnerResolver) Option {
	return func(s *Server) {
		if fn != nil {
			s.owner = fn
		}
	}
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Server) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithThemes enables theme selection; name and variant are the defaults used
// when a request does not pick one with ?theme= and ?variant=.
func WithThemes(themes *render.Themes, name, variant string) Option {
	return func(s *Server) {
		s.themes = themes
		s.themeName = name
		s.themeVariant = variant
	}
}

func WithSubmitTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.submitTimeout = d
		}
	}
}

func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// WithAssets serves files under AssetsPath.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// Server wires the store, session host and renderers to HTTP routes.
type Server struct {
	store     store.Store
	sessions  session.Host
	renderers *render.Registry

	owner         OwnerResolver
	publisher     events.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	themes        *render.Themes
	themeName     string
	themeVariant  string
	submitTimeout time.Duration
	sessionTTL    time.Duration
	assets        fs.FS
}

// New builds a Server. The first renderer registered in renderers is used
// when a request's Accept header matches none.
func New(st store.Store, sessions session.Host, renderers *render.Registry, options ...Option) *Server {
	s := &Server{
		store:         st,
		sessions:      sessions,
		renderers:     renderers,
		owner:         HeaderOwner,
		publisher:     events.Noop{},
		logger:        slog.Default(),
		submitTimeout: 10 * time.Second,
		sessionTTL:    30 * time.Minute,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/elements", s.listElements)
		r.Post("/elements", s.createElement)
		r.Patch("/submit", s.submitJSON)
		r.Patch("/forms/{id}/visit", s.visitForm)

		r.Group(func(r chi.Router) {
			r.Use(s.requireOwner)
			r.Get("/stats", s.stats)
			r.Route("/forms", func(r chi.Router) {
				r.Get("/", s.listForms)
				r.Post("/", s.createForm)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.getForm)
					r.Delete("/", s.deleteForm)
					r.Patch("/content", s.saveContent)
					r.Patch("/publish", s.publishForm)
					r.Get("/submissions", s.listSubmissions)
				})
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireOwner)
		r.Get("/designer/{id}", s.designerPage)
		r.Get("/designer/{id}/elements/{elementID}", s.propertiesPage)
		r.Post("/designer/{id}/elements/{elementID}", s.applyProperties)
		r.Get("/forms/{id}/submissions", s.submissionsPage)
		r.Get("/forms/{id}/openapi.json", s.openAPIDocument)
	})

	r.Get("/submit/{shareURL}", s.fillInPage)
	r.Post("/submit/{shareURL}", s.submitPage)
	r.Post("/submit/{shareURL}/fields/{elementID}", s.blurField)

	r.Get("/schema/content.json", s.contentSchema)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	if s.assets != nil {
		r.Handle(AssetsPath+"/*", http.StripPrefix(AssetsPath, http.FileServer(http.FS(s.assets))))
	}
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
