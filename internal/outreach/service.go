package outreach

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// API is the slice of the backend client the service uses.
type API interface {
	Get(ctx context.Context, path string, dest any) error
	Post(ctx context.Context, path string, body, dest any) error
}

// Sections holds the three independently loaded lists. A failed section
// keeps its error and leaves the others intact.
type Sections struct {
	Podcasts    []Podcast
	PodcastsErr error
	Blogs       []BlogPost
	BlogsErr    error
	Comments    []Comment
	CommentsErr error
}

// Service reads and writes outreach content.
type Service struct {
	api API
}

// NewService constructs a Service.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Sections loads podcasts and blog posts concurrently, plus comments when
// withComments is set.
func (s *Service) Sections(ctx context.Context, withComments bool) Sections {
	var out Sections
	var g errgroup.Group
	g.Go(func() error {
		if err := s.api.Get(ctx, "/outreach/podcasts/", &out.Podcasts); err != nil {
			out.PodcastsErr = fmt.Errorf("load podcasts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.api.Get(ctx, "/outreach/blogs/", &out.Blogs); err != nil {
			out.BlogsErr = fmt.Errorf("load blog posts: %w", err)
		}
		return nil
	})
	if withComments {
		g.Go(func() error {
			if err := s.api.Get(ctx, "/outreach/comments/", &out.Comments); err != nil {
				out.CommentsErr = fmt.Errorf("load comments: %w", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// PostComment creates a comment and returns the stored record.
func (s *Service) PostComment(ctx context.Context, payload NewComment) (Comment, error) {
	var created Comment
	if err := s.api.Post(ctx, "/outreach/comments/", payload, &created); err != nil {
		return Comment{}, fmt.Errorf("post comment: %w", err)
	}
	return created, nil
}
