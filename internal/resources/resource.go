// Package resources lists the published papers, datasets and code, and gates
// their downloads behind the visitor details form.
package resources

import "github.com/samlap/samlap-web/internal/leads"

// Category groups resources on the works page.
type Category string

const (
	Paper   Category = "paper"
	Dataset Category = "dataset"
	Code    Category = "code"
)

// Categories lists the filter tabs in display order.
var Categories = []Category{Paper, Dataset, Code}

// Label returns the badge text for c.
func (c Category) Label() string {
	switch c {
	case Paper:
		return "Research Paper"
	case Dataset:
		return "Dataset"
	case Code:
		return "Code Repository"
	}
	return string(c)
}

// ParseCategory accepts the ?category= filter; anything unknown means all.
func ParseCategory(raw string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

// Resource is one entry of /resources/.
type Resource struct {
	ID           int      `json:"id" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Category     Category `json:"category" validate:"required,oneof=paper dataset code"`
	Slug         string   `json:"slug" validate:"required"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	FileURL      *string  `json:"file_url"`
	ExternalURL  *string  `json:"external_url"`
}

// DownloadURL is the link opened after a successful submission: the hosted
// file when there is one, else the external link. ok is false when neither
// is set.
func (r Resource) DownloadURL() (string, bool) {
	if r.FileURL != nil && *r.FileURL != "" {
		return *r.FileURL, true
	}
	if r.ExternalURL != nil && *r.ExternalURL != "" {
		return *r.ExternalURL, true
	}
	return "", false
}

// Thumbnail returns the thumbnail URL or "".
func (r Resource) Thumbnail() string {
	if r.ThumbnailURL == nil {
		return ""
	}
	return *r.ThumbnailURL
}

// DownloadPayload is the body of POST /downloads/.
type DownloadPayload struct {
	leads.Payload
	ResourceType string `json:"resource_type"`
	ResourceSlug string `json:"resource_slug"`
	ResourceName string `json:"resource_name"`
}

// NewDownloadPayload records which resource the visitor asked for. The
// download form has no comment box, so the comment is always empty.
func NewDownloadPayload(f leads.Form, r Resource) DownloadPayload {
	p := f.Payload()
	p.Comment = ""
	return DownloadPayload{
		Payload:      p,
		ResourceType: string(r.Category),
		ResourceSlug: r.Slug,
		ResourceName: r.Title,
	}
}

// Filter keeps the resources in category c. An empty c keeps everything.
func Filter(items []Resource, c Category) []Resource {
	if c == "" {
		return items
	}
	out := make([]Resource, 0, len(items))
	for _, item := range items {
		if item.Category == c {
			out = append(out, item)
		}
	}
	return out
}
