package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		want   string
	}{
		{"known brand", "Nykaa <noreply@nykaa.com>", "Nykaa"},
		{"mapped display name", "myntra fashion <hello@example.com>", "Myntra"},
		{"mailer prefix stripped", "Noreply - Swiggy <no-reply@swiggy.in>", "Swiggy"},
		{"unknown brand titled", "Acme Stores <mail@acmestores.com>", "Acme Stores"},
		{"quoted name", `"Mamaearth" <care@mamaearth.in>`, "Mamaearth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.sender, ""))
		})
	}
}

func TestExtractFromDomain(t *testing.T) {
	tests := []struct {
		name   string
		sender string
		want   string
	}{
		{"bare address known domain", "offers@nykaa.com", "Nykaa"},
		{"subdomain", "news@mail.flipkart.com", "Flipkart"},
		{"unknown domain titled", "hi@supershop.com", "Supershop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.sender, ""))
		})
	}
}

func TestExtractFromHTML(t *testing.T) {
	html := `<html><head><title>Zomato Weekly Deals</title></head><body></body></html>`
	assert.Equal(t, "Zomato", Extract("x", html))
}

func TestExtractUnknown(t *testing.T) {
	assert.Equal(t, Unknown, Extract("", ""))
	assert.Equal(t, Unknown, Extract("x", ""))
	assert.Equal(t, Unknown, Extract("x", "<p>nothing here</p>"))
}
