package resources

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownResource is returned by BySlug when no resource matches.
var ErrUnknownResource = errors.New("resources: unknown resource")

// API is the slice of the backend client the service uses.
type API interface {
	Get(ctx context.Context, path string, dest any) error
	Post(ctx context.Context, path string, body, dest any) error
}

// Service reads the resource catalogue and records downloads.
type Service struct {
	api API
}

// NewService constructs a Service.
func NewService(api API) *Service {
	return &Service{api: api}
}

// List loads every published resource.
func (s *Service) List(ctx context.Context) ([]Resource, error) {
	var items []Resource
	if err := s.api.Get(ctx, "/resources/", &items); err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	return items, nil
}

// BySlug finds one resource. The download link is always taken from here,
// never from the submitted form.
func (s *Service) BySlug(ctx context.Context, slug string) (Resource, error) {
	items, err := s.List(ctx)
	if err != nil {
		return Resource{}, err
	}
	for _, item := range items {
		if item.Slug == slug {
			return item, nil
		}
	}
	return Resource{}, fmt.Errorf("%w: %q", ErrUnknownResource, slug)
}

// RecordDownload posts the visitor details for one download.
func (s *Service) RecordDownload(ctx context.Context, payload DownloadPayload) error {
	if err := s.api.Post(ctx, "/downloads/", payload, nil); err != nil {
		return fmt.Errorf("record download: %w", err)
	}
	return nil
}
