package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsScripts(t *testing.T) {
	s := New()

	out := s.Clean(`<p>hello</p><script>alert("x")</script>`)
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "alert")
}

func TestCleanStripsIframes(t *testing.T) {
	s := New()

	out := s.Clean(`<div>content</div><iframe src="https://evil.example.com"></iframe>`)
	assert.Contains(t, out, "content")
	assert.NotContains(t, out, "iframe")
}

func TestCleanRemovesTrackingPixels(t *testing.T) {
	s := New()

	html := `<img src="https://track.example.com/open.gif" width="1" height="1">` +
		`<img src="https://cdn.example.com/hero.jpg" width="600" height="300">`
	out := s.Clean(html)

	assert.NotContains(t, out, "open.gif")
	assert.Contains(t, out, "hero.jpg")
}

func TestCleanKeepsAllowedMarkup(t *testing.T) {
	s := New()

	html := `<table><tr><td style="color:red"><a href="https://shop.example.com" title="shop">Buy</a></td></tr></table>`
	out := s.Clean(html)

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `href="https://shop.example.com"`)
	assert.Contains(t, out, `style="color:red"`)
}

func TestCleanStripsEventHandlers(t *testing.T) {
	s := New()

	out := s.Clean(`<div onclick="steal()">click me</div>`)
	assert.Contains(t, out, "click me")
	assert.NotContains(t, out, "onclick")
}

func TestCleanStripsJavascriptURLs(t *testing.T) {
	s := New()

	out := s.Clean(`<a href="javascript:alert(1)">link</a>`)
	assert.NotContains(t, out, "javascript:")
}

func TestCleanStripsDataURLs(t *testing.T) {
	s := New()

	out := s.Clean(`<a href="data:text/html;base64,PHNjcmlwdD4=">open</a>` +
		`<img src="data:image/gif;base64,R0lGODlh">`)
	assert.Contains(t, out, "open")
	assert.NotContains(t, out, "data:")
}
