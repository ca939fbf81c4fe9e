package sanitizer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans email HTML before it is stored. Stored bodies are
// rendered to end users later, so everything not on the allowlist is
// stripped at ingest time.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New builds the sanitization policy: basic formatting tags plus the
// table/image/style elements promotional emails are built from.
func New() *Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"a", "abbr", "acronym", "b", "blockquote", "code", "em", "i",
		"li", "ol", "strong", "ul",
		"p", "div", "span", "br", "h1", "h2", "h3", "h4", "h5", "h6",
		"img", "table", "tbody", "thead", "tr", "td", "th", "style",
	)
	p.AllowAttrs("style").Globally()
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	p.AllowURLSchemes("http", "https")

	return &Sanitizer{policy: p}
}

// Clean removes scripts, iframes and tracking pixels, then applies the
// allowlist policy. On a parse failure the policy alone is applied; a
// broken message must never fail the batch.
func (s *Sanitizer) Clean(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return s.policy.Sanitize(html)
	}

	doc.Find("script, iframe").Remove()

	// 1x1 images are open trackers, not content
	doc.Find("img").Each(func(i int, img *goquery.Selection) {
		width, _ := img.Attr("width")
		height, _ := img.Attr("height")
		if width == "1" || height == "1" {
			img.Remove()
		}
	})

	body, err := doc.Find("body").Html()
	if err != nil || body == "" {
		return s.policy.Sanitize(html)
	}

	return s.policy.Sanitize(body)
}
