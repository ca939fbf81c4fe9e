package normalizer

import (
	"net/mail"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mailmuse/internal/brand"
	"mailmuse/internal/classifier"
	"mailmuse/internal/fetcher"
	"mailmuse/internal/models"
	"mailmuse/internal/sanitizer"
)

const previewLength = 200

// Normalizer transforms raw mail messages into the storage schema.
type Normalizer struct {
	sanitizer *sanitizer.Sanitizer
	now       func() time.Time
}

// New creates a Normalizer
func New(s *sanitizer.Sanitizer) *Normalizer {
	return &Normalizer{
		sanitizer: s,
		now:       time.Now,
	}
}

// Normalize maps one raw message into an Email row. A message without
// an HTML part is stored with HasHTML false and an empty body rather
// than rejected.
func (n *Normalizer) Normalize(raw fetcher.RawMessage) (models.Email, error) {
	if err := raw.Validate(); err != nil {
		return models.Email{}, err
	}

	subject := raw.Header("Subject")
	if subject == "" {
		subject = "no-subject"
	}
	sender := raw.Header("From")

	email := models.Email{
		GmailID:    raw.ID,
		Subject:    subject,
		Sender:     sender,
		ReceivedAt: n.parseDate(raw.Header("Date")),
	}

	if html := findHTML(raw.Parts); html != "" {
		cleaned := n.sanitizer.Clean(html)
		email.HasHTML = true
		email.HTML = cleaned
		email.Preview = previewText(cleaned)
	}

	email.Brand = brand.Extract(sender, email.HTML)
	email.Type = classifier.CampaignType(email.Subject)
	email.Industry = classifier.Industry(email.Brand, email.Subject, email.Preview)
	email.Category = classifier.Category(email.Brand, email.Industry, email.Subject, email.Preview)

	return email, nil
}

// parseDate parses the Date header, which is usually RFC 2822 rather
// than ISO 8601. Falls back to the current time like the archive has
// always done for unparseable dates.
func (n *Normalizer) parseDate(value string) time.Time {
	if value != "" {
		if t, err := mail.ParseDate(value); err == nil {
			return t
		}
	}
	return n.now().UTC()
}

// findHTML walks the body parts depth-first and returns the first
// text/html part.
func findHTML(parts []fetcher.BodyPart) string {
	for _, part := range parts {
		if part.MIMEType == "text/html" && len(part.Data) > 0 {
			return string(part.Data)
		}
		if html := findHTML(part.Parts); html != "" {
			return html
		}
	}
	return ""
}

// previewText extracts the first visible characters of the HTML body.
func previewText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	runes := []rune(text)
	if len(runes) > previewLength {
		return string(runes[:previewLength])
	}
	return text
}

// PreviewImageURL returns the src of the first image in the HTML body,
// or empty when there is none. Used by the API for list thumbnails.
func PreviewImageURL(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}
