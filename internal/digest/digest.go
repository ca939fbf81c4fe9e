// Package digest turns aggregate queries over the email archive into
// short category-tagged social drafts. Every draft waits in the queue
// for a human to post it; nothing here touches any social network.
package digest

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mailmuse/internal/config"
	"mailmuse/internal/metrics"
	"mailmuse/internal/models"
)

// Generator builds draft queue entries from the email archive.
type Generator struct {
	db      *gorm.DB
	siteURL string
	maxLen  int
	metrics *metrics.Metrics
	now     func() time.Time
	pick    func(n int) int
}

// New creates a Generator
func New(db *gorm.DB, cfg config.DigestConfig, m *metrics.Metrics) *Generator {
	maxLen := cfg.MaxLength
	if maxLen <= 0 {
		maxLen = 255
	}
	return &Generator{
		db:      db,
		siteURL: cfg.SiteURL,
		maxLen:  maxLen,
		metrics: m,
		now:     time.Now,
		pick:    rand.Intn,
	}
}

// Generate builds the draft text for the given category and writes
// exactly one new draft row. Existing rows are never touched.
func (g *Generator) Generate(category string) (models.Draft, error) {
	if !models.ValidDraftCategory(category) {
		return models.Draft{}, fmt.Errorf("unknown draft category %q, valid: %s",
			category, strings.Join(models.DraftCategories, ", "))
	}

	var body string
	var err error
	switch category {
	case models.CategoryDailyDigest:
		body, err = g.dailyDigest()
	case models.CategoryWeeklyDigest:
		body, err = g.weeklyDigest()
	case models.CategoryBrandSpotlight:
		body, err = g.brandSpotlight()
	case models.CategorySubjectLineInsight:
		body, err = g.subjectLineInsight()
	}
	if err != nil {
		return models.Draft{}, err
	}

	body = g.truncate(body)
	if g.siteURL != "" {
		body = body + "\n" + g.siteURL
	}

	draft := models.Draft{
		Content:  body,
		Category: category,
		Status:   models.StatusDraft,
	}
	if err := g.db.Create(&draft).Error; err != nil {
		return models.Draft{}, fmt.Errorf("failed to store draft: %w", err)
	}

	if g.metrics != nil {
		g.metrics.DraftsGenerated.Inc()
	}
	logrus.WithFields(logrus.Fields{"category": category, "draft_id": draft.ID}).Info("Draft generated")
	return draft, nil
}

type brandCount struct {
	Brand string
	Cnt   int64
}

// dailyDigest summarizes the busiest brands of the last 24 hours.
func (g *Generator) dailyDigest() (string, error) {
	since := g.now().Add(-24 * time.Hour)

	var rows []brandCount
	err := g.db.Model(&models.Email{}).
		Select("brand, count(id) as cnt").
		Where("received_at >= ? AND brand <> ?", since, "").
		Group("brand").
		Order("cnt DESC").
		Limit(3).
		Scan(&rows).Error
	if err != nil {
		return "", fmt.Errorf("failed to query daily digest: %w", err)
	}

	if len(rows) == 0 {
		return "Quiet day in the inbox: no campaigns tracked in the last 24 hours.", nil
	}

	var total int64
	if err := g.db.Model(&models.Email{}).Where("received_at >= ?", since).Count(&total).Error; err != nil {
		return "", fmt.Errorf("failed to count daily emails: %w", err)
	}

	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, fmt.Sprintf("%s (%d)", row.Brand, row.Cnt))
	}

	return fmt.Sprintf("Today on MailMuse: %d campaigns tracked. Busiest inboxes: %s.",
		total, strings.Join(parts, ", ")), nil
}

// weeklyDigest summarizes the last 7 days.
func (g *Generator) weeklyDigest() (string, error) {
	since := g.now().Add(-7 * 24 * time.Hour)

	var totalEmails int64
	if err := g.db.Model(&models.Email{}).Where("received_at >= ?", since).Count(&totalEmails).Error; err != nil {
		return "", fmt.Errorf("failed to count weekly emails: %w", err)
	}

	var totalBrands int64
	err := g.db.Model(&models.Email{}).
		Where("received_at >= ? AND brand <> ?", since, "").
		Distinct("brand").
		Count(&totalBrands).Error
	if err != nil {
		return "", fmt.Errorf("failed to count weekly brands: %w", err)
	}

	topBrand := "n/a"
	var top brandCount
	err = g.db.Model(&models.Email{}).
		Select("brand, count(id) as cnt").
		Where("received_at >= ? AND brand <> ?", since, "").
		Group("brand").
		Order("cnt DESC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		return "", fmt.Errorf("failed to query top brand: %w", err)
	}
	if top.Brand != "" {
		topBrand = top.Brand
	}

	trendingType := "Newsletter"
	var trending struct {
		Type string
		Cnt  int64
	}
	err = g.db.Model(&models.Email{}).
		Select("type, count(id) as cnt").
		Where("received_at >= ? AND type <> ?", since, "").
		Group("type").
		Order("cnt DESC").
		Limit(1).
		Scan(&trending).Error
	if err != nil {
		return "", fmt.Errorf("failed to query trending type: %w", err)
	}
	if trending.Type != "" {
		trendingType = trending.Type
	}

	return fmt.Sprintf("This week on MailMuse: %d campaigns tracked from %d brands. Top brand: %s. Trending campaign type: %s.",
		totalEmails, totalBrands, topBrand, trendingType), nil
}

// brandSpotlight picks a brand with 3+ emails in the last 7 days and
// summarizes its sending habits.
func (g *Generator) brandSpotlight() (string, error) {
	since := g.now().Add(-7 * 24 * time.Hour)

	var active []brandCount
	err := g.db.Model(&models.Email{}).
		Select("brand, count(id) as cnt").
		Where("received_at >= ? AND brand <> ?", since, "").
		Group("brand").
		Having("count(id) >= ?", 3).
		Scan(&active).Error
	if err != nil {
		return "", fmt.Errorf("failed to query active brands: %w", err)
	}

	if len(active) == 0 {
		return "No brand sent 3 or more emails this week, so no spotlight today.", nil
	}

	chosen := active[g.pick(len(active))]

	var emails []models.Email
	err = g.db.Where("brand = ? AND received_at >= ?", chosen.Brand, since).Find(&emails).Error
	if err != nil {
		return "", fmt.Errorf("failed to load spotlight emails: %w", err)
	}

	dayCounts := map[time.Weekday]int{}
	totalSubjectLen := 0
	for _, e := range emails {
		dayCounts[e.ReceivedAt.Weekday()]++
		totalSubjectLen += len([]rune(e.Subject))
	}

	favDay := time.Monday
	best := 0
	for day, n := range dayCounts {
		if n > best {
			best = n
			favDay = day
		}
	}

	avgLen := 0
	if len(emails) > 0 {
		avgLen = totalSubjectLen / len(emails)
	}

	return fmt.Sprintf("Brand spotlight: %s sent %d emails this week, favourite send day %s, average subject line %d characters.",
		chosen.Brand, chosen.Cnt, favDay, avgLen), nil
}

var urgencyWords = []string{"limited", "hurry", "last chance", "ending", "urgent", "now", "today only", "final"}

// subjectLineInsight analyzes subject-line patterns over the last week.
func (g *Generator) subjectLineInsight() (string, error) {
	since := g.now().Add(-7 * 24 * time.Hour)

	var subjects []string
	err := g.db.Model(&models.Email{}).
		Where("received_at >= ?", since).
		Pluck("subject", &subjects).Error
	if err != nil {
		return "", fmt.Errorf("failed to load subjects: %w", err)
	}

	if len(subjects) == 0 {
		return "No subject lines tracked in the last 7 days.", nil
	}

	total := len(subjects)
	questions, withEmoji, withNumbers, withUrgency := 0, 0, 0, 0
	for _, s := range subjects {
		if strings.Contains(s, "?") {
			questions++
		}
		if containsEmoji(s) {
			withEmoji++
		}
		if strings.ContainsAny(s, "0123456789") {
			withNumbers++
		}
		lower := strings.ToLower(s)
		for _, w := range urgencyWords {
			if strings.Contains(lower, w) {
				withUrgency++
				break
			}
		}
	}

	pct := func(n int) int { return n * 100 / total }
	return fmt.Sprintf("Subject lines this week (%d emails): %d%% ask a question, %d%% use emoji, %d%% lead with numbers, %d%% push urgency.",
		total, pct(questions), pct(withEmoji), pct(withNumbers), pct(withUrgency)), nil
}

func containsEmoji(s string) bool {
	for _, r := range s {
		if r >= 0x1F300 {
			return true
		}
	}
	return false
}

// truncate caps the draft body, leaving room for the site URL suffix.
func (g *Generator) truncate(body string) string {
	runes := []rune(body)
	if len(runes) <= g.maxLen {
		return body
	}
	return string(runes[:g.maxLen-1]) + "…"
}
