// Package outreach serves the podcasts, blog posts and visitor comments page.
package outreach

import (
	"strings"
	"unicode"
)

// BlogCategory classifies blog posts.
type BlogCategory string

const (
	PolicyUpdates         BlogCategory = "policy_updates"
	CommunicationAnalysis BlogCategory = "communication_analysis"
	MediaMentions         BlogCategory = "media_mentions"
)

// Label returns the badge text for c.
func (c BlogCategory) Label() string {
	switch c {
	case PolicyUpdates:
		return "Policy Updates"
	case CommunicationAnalysis:
		return "Communication Analysis"
	case MediaMentions:
		return "Media Mentions"
	}
	return string(c)
}

// BlogPost is one entry of /outreach/blogs/.
type BlogPost struct {
	ID          int          `json:"id" validate:"required"`
	Title       string       `json:"title" validate:"required"`
	Category    BlogCategory `json:"category"`
	Excerpt     string       `json:"excerpt"`
	Slug        string       `json:"slug"`
	ImageURL    *string      `json:"image_url"`
	PublishedOn string       `json:"published_on"`
}

// Image returns the feature image URL or "".
func (p BlogPost) Image() string {
	return deref(p.ImageURL)
}

// Podcast is one entry of /outreach/podcasts/.
type Podcast struct {
	ID            int     `json:"id" validate:"required"`
	Title         string  `json:"title" validate:"required"`
	EpisodeNumber int     `json:"episode_number"`
	Speaker       string  `json:"speaker"`
	Description   string  `json:"description"`
	MediaURL      string  `json:"media_url"`
	ThumbnailURL  *string `json:"thumbnail_url"`
	PublishedOn   string  `json:"published_on"`
}

// Thumbnail returns the episode thumbnail URL or "".
func (p Podcast) Thumbnail() string {
	return deref(p.ThumbnailURL)
}

// Comment is one visitor comment.
type Comment struct {
	ID          int     `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	AvatarURL   *string `json:"avatar_url"`
	CommentText string  `json:"comment_text"`
	CreatedAt   string  `json:"created_at"`
}

// Avatar returns the avatar URL or "".
func (c Comment) Avatar() string {
	return deref(c.AvatarURL)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Initials is the fallback avatar text.
func (c Comment) Initials() string {
	var out []rune
	for _, part := range strings.Fields(c.Name) {
		r := []rune(part)[0]
		if unicode.IsLetter(r) {
			out = append(out, unicode.ToUpper(r))
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// NewComment is the body of POST /outreach/comments/.
type NewComment struct {
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	CommentText string `json:"comment_text"`
}
