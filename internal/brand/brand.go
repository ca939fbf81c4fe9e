// Package brand derives a brand name from an email sender, falling
// back to hints in the message HTML when the address alone is not
// enough.
package brand

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Unknown is returned when no brand can be derived.
const Unknown = "unknown"

// mapping of sender domains to display brand names for known D2C brands
var mapping = map[string]string{
	"nykaa":     "Nykaa",
	"myntra":    "Myntra",
	"zomato":    "Zomato",
	"swiggy":    "Swiggy",
	"meesho":    "Meesho",
	"mamaearth": "Mamaearth",
	"purplle":   "Purplle",
	"firstcry":  "FirstCry",
	"tatacliq":  "Tata CLiQ",
	"ajio":      "AJIO",
	"flipkart":  "Flipkart",
	"amazon":    "Amazon",
	"snapdeal":  "Snapdeal",
	"paytm":     "Paytm",
	"bigbasket": "BigBasket",
	"grofers":   "Grofers",
	"croma":     "Croma",
	"reliance":  "Reliance",
}

var (
	displayNameRe = regexp.MustCompile(`^([^<]+)<`)
	mailerPrefix  = regexp.MustCompile(`(?i)^(noreply|no-reply|donotreply|donot-reply|mailer|newsletter)\s*[-:]?\s*`)
	domainRe      = regexp.MustCompile(`@([\w\-]+(?:\.[\w\-]+)*)\.`)
	brandClassRe  = regexp.MustCompile(`(?i)brand|logo|company`)
)

// Extract derives a brand name from the sender address, trying the
// display name first, then the domain, then the HTML content.
func Extract(sender, html string) string {
	if sender == "" {
		return Unknown
	}

	// "Nykaa <noreply@nykaa.com>" -> "Nykaa"
	if m := displayNameRe.FindStringSubmatch(sender); m != nil {
		name := strings.Trim(strings.TrimSpace(m[1]), `"'`)
		name = strings.TrimSpace(mailerPrefix.ReplaceAllString(name, ""))
		if len(name) > 2 && !strings.Contains(name, "@") {
			if mapped := lookup(name); mapped != "" {
				return mapped
			}
			return title(name)
		}
	}

	if m := domainRe.FindStringSubmatch(strings.ToLower(sender)); m != nil {
		domain := m[1]
		parts := strings.Split(domain, ".")
		main := parts[len(parts)-1]

		if mapped, ok := mapping[main]; ok {
			return mapped
		}
		// "mail.nykaa.com" style subdomains: try the part before the TLD
		if (main == "com" || main == "in" || main == "co") && len(parts) > 1 {
			part := parts[len(parts)-2]
			if mapped, ok := mapping[part]; ok {
				return mapped
			}
			return title(part)
		}
		return title(main)
	}

	if html != "" {
		if name := fromHTML(html); name != "" {
			return name
		}
	}

	return Unknown
}

// lookup matches a free-form name against the known brand table.
func lookup(name string) string {
	lower := strings.ToLower(name)
	for domain, brandName := range mapping {
		if strings.Contains(lower, domain) {
			return brandName
		}
	}
	return ""
}

// fromHTML scans title, meta and brand-flavored elements for a known
// brand name.
func fromHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if name := lookup(doc.Find("title").First().Text()); name != "" {
		return name
	}

	var metaBrand string
	doc.Find("meta").EachWithBreak(func(i int, meta *goquery.Selection) bool {
		nameAttr, _ := meta.Attr("name")
		if !brandClassRe.MatchString(nameAttr) {
			return true
		}
		content, _ := meta.Attr("content")
		metaBrand = lookup(content)
		return metaBrand == ""
	})
	if metaBrand != "" {
		return metaBrand
	}

	var classBrand string
	count := 0
	doc.Find("[class]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		if !brandClassRe.MatchString(class) {
			return true
		}
		count++
		text := strings.TrimSpace(sel.Text())
		if text != "" && len(text) < 50 {
			classBrand = lookup(text)
			if classBrand != "" {
				return false
			}
		}
		return count < 3
	})
	return classBrand
}

// title upper-cases the first letter of each word.
func title(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
