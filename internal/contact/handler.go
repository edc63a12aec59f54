// Package contact serves the contact form.
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samlap/samlap-web/internal/backend"
	"github.com/samlap/samlap-web/internal/leads"
	"github.com/samlap/samlap-web/internal/shared"
	"github.com/samlap/samlap-web/internal/view"
)

const (
	msgSuccess = "Your submission has been received. Thank you!"
	msgFailure = "An error occurred. Please try again later."
)

// Poster is the write side of the backend client.
type Poster interface {
	Post(ctx context.Context, path string, body, dest any) error
}

// Service forwards contact submissions to the API.
type Service struct {
	api Poster
}

// NewService constructs a Service.
func NewService(api Poster) *Service {
	return &Service{api: api}
}

// Submit posts one validated form.
func (s *Service) Submit(ctx context.Context, payload leads.Payload) error {
	if err := s.api.Post(ctx, "/contact/", payload, nil); err != nil {
		return fmt.Errorf("submit contact: %w", err)
	}
	return nil
}

// Submitter is what the handler needs from Service.
type Submitter interface {
	Submit(ctx context.Context, payload leads.Payload) error
}

// Handler wires the contact page.
type Handler struct {
	logger    *slog.Logger
	service   Submitter
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *leads.Validator
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service Submitter, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
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

// MountRoutes registers contact routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/contact", h.showForm)
	r.Post("/contact", h.handleSubmit)
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, leads.NewView(leads.Form{}, ""))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := leads.FormFromRequest(r)
	if msg := h.validator.Check(form, true); msg != "" {
		h.render(w, r, http.StatusBadRequest, leads.NewView(form, msg))
		return
	}
	if err := h.service.Submit(r.Context(), form.Payload()); err != nil {
		h.logger.Warn("contact submission failed", slog.Any("error", err))
		h.render(w, r, http.StatusBadGateway, leads.NewView(form, backend.Message(err, msgFailure)))
		return
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: msgSuccess})
	}
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data leads.View) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, err := h.csrf.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Warn("csrf token unavailable", slog.Any("error", err))
	}
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/contact.html", view.TemplateData{
		Title:       "Contact Us",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}); err != nil {
		h.logger.Error("render contact", slog.Any("error", err))
		if status == http.StatusOK {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
