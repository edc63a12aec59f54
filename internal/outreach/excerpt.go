package outreach

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from an excerpt authored in the admin's rich text
// editor and collapses whitespace. Input that fails to parse is returned
// trimmed.
func PlainText(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return strings.Join(strings.Fields(raw), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	doc.Find("script, style").Remove()
	// Block boundaries become spaces so adjacent paragraphs do not fuse.
	doc.Find("p, div, li, br, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}
