package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/samlap/samlap-web/internal/contact"
	mpchttp "github.com/samlap/samlap-web/internal/mpc/http"
	"github.com/samlap/samlap-web/internal/observability"
	"github.com/samlap/samlap-web/internal/outreach"
	"github.com/samlap/samlap-web/internal/resources"
	"github.com/samlap/samlap-web/internal/shared"
	"github.com/samlap/samlap-web/internal/team"
	"github.com/samlap/samlap-web/internal/view"
	"github.com/samlap/samlap-web/jobs"
	"github.com/samlap/samlap-web/report"
	"github.com/samlap/samlap-web/web"
)

// RouterParams groups dependencies for building the HTTP router. Nil feature
// handlers leave their routes unmounted.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	MPCHandler       *mpchttp.Handler
	TeamHandler      *team.Handler
	ResourcesHandler *resources.Handler
	OutreachHandler  *outreach.Handler
	ContactHandler   *contact.Handler

	ReportHandler *report.Handler
	JobHandler    *jobs.Handler
	Metrics       *observability.Metrics
}

// NewRouter constructs the chi.Router. Health, metrics and static assets sit
// outside the session, CSRF and rate-limit chain.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	for _, mw := range BaseMiddleware(params.Metrics) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		if err := params.Templates.Render(w, "pages/not-found.html", view.TemplateData{
			Title:       "Not Found",
			CurrentPath: r.URL.Path,
		}); err != nil {
			params.Logger.Error("render not found", slog.Any("error", err))
		}
	})

	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         params.Logger,
			Config:         params.Config,
			SessionManager: params.SessionManager,
			CSRFManager:    params.CSRFManager,
		}) {
			r.Use(mw)
		}
		r.Use(chimw.Logger)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			var flash *shared.FlashMessage
			if sess := shared.SessionFromContext(r.Context()); sess != nil {
				flash = sess.PopFlash()
			}
			data := view.TemplateData{
				Title:       "Home",
				Flash:       flash,
				CurrentPath: r.URL.Path,
			}
			if err := params.Templates.Render(w, "pages/landing.html", data); err != nil {
				params.Logger.Error("render landing", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		})

		if params.TeamHandler != nil {
			params.TeamHandler.MountRoutes(r)
		}
		if params.MPCHandler != nil {
			params.MPCHandler.MountRoutes(r)
		}
		if params.ResourcesHandler != nil {
			params.ResourcesHandler.MountRoutes(r)
		}
		if params.OutreachHandler != nil {
			params.OutreachHandler.MountRoutes(r)
		}
		if params.ContactHandler != nil {
			params.ContactHandler.MountRoutes(r)
		}
		if params.ReportHandler != nil {
			r.Route("/report", params.ReportHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}

// staticCacheHandler lets browsers and CDNs keep embedded assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
