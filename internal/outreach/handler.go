package outreach

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samlap/samlap-web/internal/backend"
	"github.com/samlap/samlap-web/internal/shared"
	"github.com/samlap/samlap-web/internal/view"
)

const (
	msgPodcastsFailed = "Failed to load podcasts. Please try again."
	msgBlogsFailed    = "Failed to load blog posts. Please try again."
	msgCommentsFailed = "Failed to load comments. Please try again."
	msgCommentMissing = "Both name and comment are required."
	msgCommentFailed  = "Failed to post comment. Please try again."
)

// Content is what the handler needs from Service.
type Content interface {
	Sections(ctx context.Context, withComments bool) Sections
	PostComment(ctx context.Context, payload NewComment) (Comment, error)
}

// BlogCard is a blog post prepared for display.
type BlogCard struct {
	BlogPost
	CategoryLabel string
	Summary       string
}

// CommentForm carries the comment box state.
type CommentForm struct {
	Name  string
	Text  string
	Error string
}

// ViewModel backs /outreach.
type ViewModel struct {
	Podcasts      []Podcast
	PodcastsError string
	Blogs         []BlogCard
	BlogsError    string
	Comments      []Comment
	CommentsError string
	Form          CommentForm
}

// Handler serves the outreach page.
type Handler struct {
	logger    *slog.Logger
	service   Content
	feed      *Feed
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service Content, feed *Feed, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if feed == nil {
		feed = NewFeed()
	}
	return &Handler{logger: logger, service: service, feed: feed, templates: templates, csrf: csrf}
}

// MountRoutes registers outreach routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/outreach", h.handlePage)
	r.Post("/outreach/comments", h.handleComment)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	sections := h.service.Sections(r.Context(), true)
	vm := h.viewModel(sections)
	if sections.CommentsErr == nil {
		vm.Comments = h.feed.Merge(sections.Comments)
	} else {
		h.logger.Warn("outreach section failed", slog.Any("error", sections.CommentsErr))
		vm.CommentsError = backend.Message(sections.CommentsErr, msgCommentsFailed)
	}
	h.render(w, r, http.StatusOK, vm)
}

func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := CommentForm{
		Name: strings.TrimSpace(r.PostFormValue("name")),
		Text: strings.TrimSpace(r.PostFormValue("comment_text")),
	}
	status := http.StatusBadRequest
	if form.Name == "" || form.Text == "" {
		form.Error = msgCommentMissing
	} else {
		created, err := h.service.PostComment(r.Context(), NewComment{Name: form.Name, CommentText: form.Text})
		if err == nil {
			h.feed.Prepend(created)
			http.Redirect(w, r, "/outreach#comments", http.StatusSeeOther)
			return
		}
		h.logger.Warn("post comment", slog.Any("error", err))
		form.Error = msgCommentFailed
		status = http.StatusBadGateway
	}

	// The comment list is not re-read on a failed post.
	vm := h.viewModel(h.service.Sections(r.Context(), false))
	vm.Comments = h.feed.Last()
	vm.Form = form
	h.render(w, r, status, vm)
}

func (h *Handler) viewModel(s Sections) ViewModel {
	vm := ViewModel{Podcasts: s.Podcasts}
	if s.PodcastsErr != nil {
		h.logger.Warn("outreach section failed", slog.Any("error", s.PodcastsErr))
		vm.PodcastsError = backend.Message(s.PodcastsErr, msgPodcastsFailed)
	}
	if s.BlogsErr != nil {
		h.logger.Warn("outreach section failed", slog.Any("error", s.BlogsErr))
		vm.BlogsError = backend.Message(s.BlogsErr, msgBlogsFailed)
	}
	for _, post := range s.Blogs {
		vm.Blogs = append(vm.Blogs, BlogCard{
			BlogPost:      post,
			CategoryLabel: post.Category.Label(),
			Summary:       PlainText(post.Excerpt),
		})
	}
	return vm
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, vm ViewModel) {
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
	if err := h.templates.Render(w, "pages/outreach.html", view.TemplateData{
		Title:       "Outreach",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        vm,
	}); err != nil {
		h.logger.Error("render outreach", slog.Any("error", err))
		if status == http.StatusOK {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
