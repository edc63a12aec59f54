// Package team serves the people directory.
package team

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"

	"github.com/samlap/samlap-web/internal/backend"
	"github.com/samlap/samlap-web/internal/shared"
	"github.com/samlap/samlap-web/internal/view"
)

const msgLoadFailed = "Failed to load team members. Please try again later."

// Category is the directory group of a member.
type Category string

const (
	Research     Category = "research"
	Collaborator Category = "collaborator"
)

// Member is one entry of /team/.
type Member struct {
	ID         int      `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Role       string   `json:"role"`
	Photo      string   `json:"photo"`
	ProfileURL *string  `json:"profileUrl"`
	AreaOfWork string   `json:"area_of_work"`
	Category   Category `json:"category"`
}

// Profile returns the profile link or "".
func (m Member) Profile() string {
	if m.ProfileURL == nil {
		return ""
	}
	return strings.TrimSpace(*m.ProfileURL)
}

// Initials is the avatar text used when a member has no photo.
func (m Member) Initials() string {
	var out []rune
	for _, part := range strings.Fields(m.Name) {
		if strings.HasSuffix(part, ".") {
			continue
		}
		out = append(out, unicode.ToUpper([]rune(part)[0]))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// Directory is the split member list.
type Directory struct {
	Research      []Member
	Collaborators []Member
}

// Split groups members by category. Members with an unknown category are
// listed with the research team.
func Split(members []Member) Directory {
	var d Directory
	for _, m := range members {
		if m.Category == Collaborator {
			d.Collaborators = append(d.Collaborators, m)
			continue
		}
		d.Research = append(d.Research, m)
	}
	return d
}

// Reader is the read side of the backend client.
type Reader interface {
	Get(ctx context.Context, path string, dest any) error
}

// Service loads the directory.
type Service struct {
	api Reader
}

// NewService constructs a Service.
func NewService(api Reader) *Service {
	return &Service{api: api}
}

// Directory loads and splits /team/.
func (s *Service) Directory(ctx context.Context) (Directory, error) {
	var members []Member
	if err := s.api.Get(ctx, "/team/", &members); err != nil {
		return Directory{}, fmt.Errorf("load team: %w", err)
	}
	return Split(members), nil
}

// ViewModel backs /team.
type ViewModel struct {
	Directory
	Error string
}

// Loader is what the handler needs from Service.
type Loader interface {
	Directory(ctx context.Context) (Directory, error)
}

// Handler serves /team.
type Handler struct {
	logger    *slog.Logger
	service   Loader
	templates *view.Engine
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service Loader, templates *view.Engine) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, templates: templates}
}

// MountRoutes registers the directory route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/team", h.handleDirectory)
}

func (h *Handler) handleDirectory(w http.ResponseWriter, r *http.Request) {
	var vm ViewModel
	dir, err := h.service.Directory(r.Context())
	if err != nil {
		h.logger.Warn("load team", slog.Any("error", err))
		vm.Error = backend.Message(err, msgLoadFailed)
	} else {
		vm.Directory = dir
	}
	var flash *shared.FlashMessage
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		flash = sess.PopFlash()
	}
	if err := h.templates.Render(w, "pages/team.html", view.TemplateData{
		Title:       "Team Members",
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        vm,
	}); err != nil {
		h.logger.Error("render team", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
