package models

import (
	"time"
)

// Email represents one archived promotional email. GmailID is the
// idempotency key: the unique index is what prevents a second ingestion
// of the same message from creating a duplicate row.
type Email struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	GmailID    string    `json:"gmail_id" gorm:"type:varchar(255);not null;uniqueIndex:uq_emails_gmail_id"`
	Subject    string    `json:"subject" gorm:"type:varchar(512);not null;index"`
	Sender     string    `json:"sender" gorm:"type:varchar(512);index"`
	Brand      string    `json:"brand" gorm:"type:varchar(255);index:ix_emails_brand_type,priority:1"`
	Category   string    `json:"category" gorm:"type:varchar(255)"`
	Type       string    `json:"type" gorm:"type:varchar(255);index:ix_emails_brand_type,priority:2"`
	Industry   string    `json:"industry" gorm:"type:varchar(255);index"`
	ReceivedAt time.Time `json:"received_at" gorm:"index"`
	HasHTML    bool      `json:"has_html"`
	HTML       string    `json:"html" gorm:"type:longtext"`
	Preview    string    `json:"preview" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Email
func (Email) TableName() string {
	return "emails"
}

// Draft statuses. The generator only ever creates rows in StatusDraft;
// a human moves them to StatusPosted or deletes them via the API.
const (
	StatusDraft  = "draft"
	StatusPosted = "posted"
)

// Draft categories
const (
	CategoryDailyDigest        = "daily_digest"
	CategoryWeeklyDigest       = "weekly_digest"
	CategoryBrandSpotlight     = "brand_spotlight"
	CategorySubjectLineInsight = "subject_line_insight"
)

// DraftCategories lists the valid draft category tags.
var DraftCategories = []string{
	CategoryDailyDigest,
	CategoryWeeklyDigest,
	CategoryBrandSpotlight,
	CategorySubjectLineInsight,
}

// ValidDraftCategory reports whether category is one of the known tags.
func ValidDraftCategory(category string) bool {
	for _, c := range DraftCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Draft represents a generated social-media draft pending human review
type Draft struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Category  string    `json:"category" gorm:"type:varchar(64);not null;index"`
	Status    string    `json:"status" gorm:"type:varchar(32);not null;default:draft;index"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Draft
func (Draft) TableName() string {
	return "drafts"
}

// EmailResponse is the API representation of a stored email
type EmailResponse struct {
	ID              uint      `json:"id"`
	GmailID         string    `json:"gmail_id"`
	Subject         string    `json:"subject"`
	Sender          string    `json:"sender"`
	Brand           string    `json:"brand,omitempty"`
	Category        string    `json:"category,omitempty"`
	Type            string    `json:"type,omitempty"`
	Industry        string    `json:"industry,omitempty"`
	ReceivedAt      time.Time `json:"received_at"`
	HasHTML         bool      `json:"has_html"`
	HTML            string    `json:"html"`
	Preview         string    `json:"preview,omitempty"`
	PreviewImageURL string    `json:"preview_image_url,omitempty"`
}

// DraftResponse is the API representation of a draft queue entry
type DraftResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Metrics   map[string]string `json:"metrics,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
