package outreach_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samlap/samlap-web/internal/backend"
	"github.com/samlap/samlap-web/internal/outreach"
	"github.com/samlap/samlap-web/internal/shared"
	"github.com/samlap/samlap-web/internal/view"
	_ "github.com/samlap/samlap-web/testing"
)

type stubContent struct {
	mu          sync.Mutex
	sections    outreach.Sections
	commentRead int
	posted      []outreach.NewComment
	postErr     error
	nextID      int
}

func (s *stubContent) Sections(ctx context.Context, withComments bool) outreach.Sections {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sections
	if withComments {
		s.commentRead++
	} else {
		out.Comments, out.CommentsErr = nil, nil
	}
	return out
}

func (s *stubContent) PostComment(ctx context.Context, payload outreach.NewComment) (outreach.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted = append(s.posted, payload)
	if s.postErr != nil {
		return outreach.Comment{}, s.postErr
	}
	s.nextID++
	return outreach.Comment{ID: 100 + s.nextID, Name: payload.Name, CommentText: payload.CommentText, CreatedAt: "2025-01-05T10:00:00Z"}, nil
}

func newRouter(t *testing.T, stub *stubContent) (chi.Router, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	templates, err := view.NewEngine()
	require.NoError(t, err)

	h := outreach.NewHandler(nil, stub, outreach.NewFeed(), templates, shared.NewCSRFManager("csrf"))
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, shared.NewSessionManager(rdb, "test_session", "secret", time.Hour, false)
}

func serve(t *testing.T, r chi.Router, sm *shared.SessionManager, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func commentRequest(name, text string) *http.Request {
	form := url.Values{"name": {name}, "comment_text": {text}}
	req := httptest.NewRequest(http.MethodPost, "/outreach/comments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func baseSections() outreach.Sections {
	return outreach.Sections{
		Podcasts: []outreach.Podcast{{ID: 1, Title: "Reading Between the Lines", EpisodeNumber: 3, Speaker: "Dr. Anya Sharma", MediaURL: "https://media.example.org/ep3.mp3"}},
		Blogs:    []outreach.BlogPost{{ID: 7, Title: "Forward Guidance in 2024", Category: outreach.PolicyUpdates, Excerpt: "<p>What the <em>minutes</em> say</p>"}},
		Comments: []outreach.Comment{{ID: 1, Name: "Ravi", CommentText: "Great podcast"}},
	}
}

func TestOutreachPageRendersAllSections(t *testing.T) {
	r, sm := newRouter(t, &stubContent{sections: baseSections()})
	rec := serve(t, r, sm, httptest.NewRequest(http.MethodGet, "/outreach", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Reading Between the Lines")
	assert.Contains(t, body, "Policy Updates")
	assert.Contains(t, body, "What the minutes say")
	assert.NotContains(t, body, "<em>minutes</em>")
	assert.Contains(t, body, "Great podcast")
}

func TestOutreachSectionsFailIndependently(t *testing.T) {
	sections := baseSections()
	sections.Blogs = nil
	sections.BlogsErr = errors.New("load blog posts: " + backend.ErrTransport.Error())
	r, sm := newRouter(t, &stubContent{sections: sections})

	rec := serve(t, r, sm, httptest.NewRequest(http.MethodGet, "/outreach", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Failed to load blog posts. Please try again.")
	assert.Contains(t, body, "Reading Between the Lines")
	assert.Contains(t, body, "Great podcast")
}

func TestCommentRequiresNameAndText(t *testing.T) {
	stub := &stubContent{sections: baseSections()}
	r, sm := newRouter(t, stub)

	rec := serve(t, r, sm, commentRequest("Ravi", "   "))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Both name and comment are required.")
	assert.Empty(t, stub.posted)
}

func TestPostedCommentIsPrependedWithoutRefetch(t *testing.T) {
	stub := &stubContent{sections: baseSections()}
	r, sm := newRouter(t, stub)
	serve(t, r, sm, httptest.NewRequest(http.MethodGet, "/outreach", nil))

	rec := serve(t, r, sm, commentRequest("  Meera ", " Loved the episode "))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, stub.posted, 1)
	assert.Equal(t, outreach.NewComment{Name: "Meera", CommentText: "Loved the episode"}, stub.posted[0])

	// The stub keeps serving the old list; the new comment still leads.
	page := serve(t, r, sm, httptest.NewRequest(http.MethodGet, "/outreach", nil))
	body := page.Body.String()
	newIdx := strings.Index(body, "Loved the episode")
	oldIdx := strings.Index(body, "Great podcast")
	require.NotEqual(t, -1, newIdx)
	require.NotEqual(t, -1, oldIdx)
	assert.Less(t, newIdx, oldIdx)
}

func TestFailedCommentKeepsInput(t *testing.T) {
	stub := &stubContent{sections: baseSections(), postErr: backend.ErrTransport}
	r, sm := newRouter(t, stub)
	serve(t, r, sm, httptest.NewRequest(http.MethodGet, "/outreach", nil))
	reads := stub.commentRead

	rec := serve(t, r, sm, commentRequest("Meera", "Hello there"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Failed to post comment. Please try again.")
	assert.Contains(t, body, "Hello there")
	assert.Contains(t, body, "Great podcast")
	assert.Equal(t, reads, stub.commentRead)
}

func TestServiceLoadsSectionsConcurrently(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/outreach/podcasts/":
			_, _ = w.Write([]byte(`[{"id":1,"title":"Ep","episode_number":1,"speaker":"S","description":"d","media_url":"https://m","thumbnail_url":null,"published_on":"2025-01-01"}]`))
		case "/api/outreach/blogs/":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/outreach/comments/":
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":9,"name":"N","avatar_url":null,"comment_text":"T","created_at":"2025-01-02T00:00:00Z"}`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(srv.Close)
	client, err := backend.New(backend.Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	svc := outreach.NewService(client)

	sections := svc.Sections(context.Background(), true)
	assert.Len(t, sections.Podcasts, 1)
	assert.Error(t, sections.BlogsErr)
	assert.NoError(t, sections.CommentsErr)
	assert.Empty(t, sections.Comments)

	created, err := svc.PostComment(context.Background(), outreach.NewComment{Name: "N", CommentText: "T"})
	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)
	assert.Len(t, paths, 4)
}
