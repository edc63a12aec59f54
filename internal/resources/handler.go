package resources

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samlap/samlap-web/internal/backend"
	"github.com/samlap/samlap-web/internal/leads"
	"github.com/samlap/samlap-web/internal/shared"
	"github.com/samlap/samlap-web/internal/view"
)

const msgSubmitFailed = "Submission failed. Please try again."

// Catalogue is what the handler needs from Service.
type Catalogue interface {
	List(ctx context.Context) ([]Resource, error)
	BySlug(ctx context.Context, slug string) (Resource, error)
	RecordDownload(ctx context.Context, payload DownloadPayload) error
}

// Tab is one category filter link.
type Tab struct {
	Label  string
	Href   string
	Active bool
}

// ListViewModel backs /ourworks.
type ListViewModel struct {
	Tabs      []Tab
	Resources []Resource
	Error     string
}

// DownloadViewModel backs the gate form and its confirmation.
type DownloadViewModel struct {
	Resource Resource
	Lead     leads.View
	// URL is set once the submission was recorded.
	URL     string
	NoLink  bool
	Error   string
	Missing bool
}

// Handler serves the works catalogue and its download gate.
type Handler struct {
	logger    *slog.Logger
	service   Catalogue
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *leads.Validator
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service Catalogue, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		validator: leads.NewValidator(),
	}
}

// MountRoutes registers resource routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ourworks", h.handleList)
	r.Get("/ourworks/{slug}/download", h.showDownload)
	r.Post("/ourworks/{slug}/download", h.handleDownload)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	active, _ := ParseCategory(r.URL.Query().Get("category"))
	vm := ListViewModel{Tabs: tabs(active)}
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Warn("load resources", slog.Any("error", err))
		vm.Error = backend.ViewMessage(err)
	} else {
		vm.Resources = Filter(items, active)
	}
	h.render(w, r, http.StatusOK, "pages/ourworks.html", "Our Works", vm, false)
}

func tabs(active Category) []Tab {
	out := []Tab{{Label: "All", Href: "/ourworks", Active: active == ""}}
	for _, c := range Categories {
		out = append(out, Tab{Label: c.Label(), Href: "/ourworks?category=" + string(c), Active: c == active})
	}
	return out
}

func (h *Handler) showDownload(w http.ResponseWriter, r *http.Request) {
	item, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "pages/download.html", item.Title, DownloadViewModel{
		Resource: item,
		Lead:     leads.NewView(leads.Form{}, ""),
	}, true)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	item, ok := h.lookup(w, r)
	if !ok {
		return
	}
	form := leads.FormFromRequest(r)
	if msg := h.validator.Check(form, false); msg != "" {
		h.render(w, r, http.StatusBadRequest, "pages/download.html", item.Title, DownloadViewModel{
			Resource: item,
			Lead:     leads.NewView(form, msg),
		}, true)
		return
	}
	if err := h.service.RecordDownload(r.Context(), NewDownloadPayload(form, item)); err != nil {
		h.logger.Warn("record download", slog.String("slug", item.Slug), slog.Any("error", err))
		h.render(w, r, http.StatusBadGateway, "pages/download.html", item.Title, DownloadViewModel{
			Resource: item,
			Lead:     leads.NewView(form, backend.Message(err, msgSubmitFailed)),
		}, true)
		return
	}
	vm := DownloadViewModel{Resource: item}
	vm.URL, ok = item.DownloadURL()
	vm.NoLink = !ok
	h.render(w, r, http.StatusOK, "pages/download-confirm.html", item.Title, vm, false)
}

// lookup resolves {slug}. It writes the response itself when it returns
// false.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (Resource, bool) {
	slug := chi.URLParam(r, "slug")
	item, err := h.service.BySlug(r.Context(), slug)
	switch {
	case err == nil:
		return item, true
	case errors.Is(err, ErrUnknownResource):
		h.render(w, r, http.StatusNotFound, "pages/not-found.html", "Not Found", nil, false)
	default:
		h.logger.Warn("resolve resource", slog.String("slug", slug), slog.Any("error", err))
		h.render(w, r, http.StatusBadGateway, "pages/download.html", "Download", DownloadViewModel{
			Error:   backend.ViewMessage(err),
			Missing: true,
		}, true)
	}
	return Resource{}, false
}

// render writes a page. Only pages carrying the form mint a CSRF token, so
// browsing the catalogue does not create a session.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, form bool) {
	sess := shared.SessionFromContext(r.Context())
	var csrfToken string
	if form {
		token, err := h.csrf.EnsureToken(r.Context(), sess)
		if err != nil {
			h.logger.Warn("csrf token unavailable", slog.Any("error", err))
		}
		csrfToken = token
	}
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, name, view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}); err != nil {
		h.logger.Error("render "+name, slog.Any("error", err))
		if status == http.StatusOK {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
