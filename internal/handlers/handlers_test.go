package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mailmuse/internal/models"
)

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Email{}, &models.Draft{}))

	router := gin.New()
	NewHandlers(db).SetupRoutes(router)
	return router, db
}

func seedEmail(t *testing.T, db *gorm.DB, id int, brand, emailType, subject string, receivedAt time.Time) models.Email {
	t.Helper()
	email := models.Email{
		GmailID:    fmt.Sprintf("gmail-%d", id),
		Subject:    subject,
		Sender:     brand + " <noreply@example.com>",
		Brand:      brand,
		Type:       emailType,
		HasHTML:    true,
		HTML:       `<p>body</p><img src="https://cdn.example.com/hero.png">`,
		Preview:    "body",
		ReceivedAt: receivedAt,
	}
	require.NoError(t, db.Create(&email).Error)
	return email
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Database)
}

func TestListEmailsNewestFirst(t *testing.T) {
	router, db := setupTest(t)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	seedEmail(t, db, 1, "Nykaa", "Sale", "old", base)
	seedEmail(t, db, 2, "Nykaa", "Sale", "new", base.Add(time.Hour))

	w := doRequest(router, http.MethodGet, "/api/v1/emails")
	require.Equal(t, http.StatusOK, w.Code)

	var emails []models.EmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &emails))
	require.Len(t, emails, 2)
	assert.Equal(t, "new", emails[0].Subject)
	assert.Equal(t, "old", emails[1].Subject)
	assert.Equal(t, "https://cdn.example.com/hero.png", emails[0].PreviewImageURL)
}

func TestListEmailsBrandFilter(t *testing.T) {
	router, db := setupTest(t)
	now := time.Now()
	seedEmail(t, db, 1, "Nykaa", "Sale", "a", now)
	seedEmail(t, db, 2, "Myntra", "Sale", "b", now)

	w := doRequest(router, http.MethodGet, "/api/v1/emails?brand=Nykaa")
	require.Equal(t, http.StatusOK, w.Code)

	var emails []models.EmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &emails))
	require.Len(t, emails, 1)
	assert.Equal(t, "Nykaa", emails[0].Brand)
}

func TestListEmailsTypeAndSearchFilters(t *testing.T) {
	router, db := setupTest(t)
	now := time.Now()
	seedEmail(t, db, 1, "Nykaa", "Sale", "Mega sale weekend", now)
	seedEmail(t, db, 2, "Nykaa", "Newsletter", "Monthly roundup", now)

	w := doRequest(router, http.MethodGet, "/api/v1/emails?type=Newsletter")
	var emails []models.EmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &emails))
	require.Len(t, emails, 1)
	assert.Equal(t, "Monthly roundup", emails[0].Subject)

	w = doRequest(router, http.MethodGet, "/api/v1/emails?q=weekend")
	emails = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &emails))
	require.Len(t, emails, 1)
	assert.Equal(t, "Mega sale weekend", emails[0].Subject)
}

func TestListEmailsPagination(t *testing.T) {
	router, db := setupTest(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedEmail(t, db, i, "Nykaa", "Sale", fmt.Sprintf("subject-%d", i), base.Add(time.Duration(i)*time.Hour))
	}

	page1 := doRequest(router, http.MethodGet, "/api/v1/emails?limit=2")
	page2 := doRequest(router, http.MethodGet, "/api/v1/emails?skip=2&limit=2")

	var first, second []models.EmailResponse
	require.NoError(t, json.Unmarshal(page1.Body.Bytes(), &first))
	require.NoError(t, json.Unmarshal(page2.Body.Bytes(), &second))

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, "subject-4", first[0].Subject)
	assert.Equal(t, "subject-3", first[1].Subject)
	assert.Equal(t, "subject-2", second[0].Subject)
	assert.Equal(t, "subject-1", second[1].Subject)
}

func TestListEmailsClampsBadPaging(t *testing.T) {
	router, db := setupTest(t)
	seedEmail(t, db, 1, "Nykaa", "Sale", "a", time.Now())

	w := doRequest(router, http.MethodGet, "/api/v1/emails?skip=-5&limit=9999")
	require.Equal(t, http.StatusOK, w.Code)

	var emails []models.EmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &emails))
	assert.Len(t, emails, 1)
}

func TestGetEmail(t *testing.T) {
	router, db := setupTest(t)
	email := seedEmail(t, db, 1, "Nykaa", "Sale", "hello", time.Now())

	w := doRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/emails/%d", email.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.EmailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, email.ID, resp.ID)
	assert.Equal(t, "hello", resp.Subject)
	assert.True(t, resp.HasHTML)
}

func TestGetEmailNotFound(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(router, http.MethodGet, "/api/v1/emails/12345")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEmailInvalidID(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(router, http.MethodGet, "/api/v1/emails/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBrands(t *testing.T) {
	router, db := setupTest(t)
	now := time.Now()
	seedEmail(t, db, 1, "Nykaa", "Sale", "a", now)
	seedEmail(t, db, 2, "Myntra", "Sale", "b", now)
	seedEmail(t, db, 3, "Nykaa", "Newsletter", "c", now)

	w := doRequest(router, http.MethodGet, "/api/v1/brands")
	require.Equal(t, http.StatusOK, w.Code)

	var brands []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &brands))
	assert.Equal(t, []string{"Myntra", "Nykaa"}, brands)
}

func TestDraftLifecycle(t *testing.T) {
	router, db := setupTest(t)
	draft := models.Draft{Content: "hello world", Category: models.CategoryDailyDigest, Status: models.StatusDraft}
	require.NoError(t, db.Create(&draft).Error)

	w := doRequest(router, http.MethodGet, "/api/v1/drafts")
	require.Equal(t, http.StatusOK, w.Code)
	var drafts []models.DraftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drafts))
	require.Len(t, drafts, 1)
	assert.Equal(t, models.StatusDraft, drafts[0].Status)

	w = doRequest(router, http.MethodPatch, fmt.Sprintf("/api/v1/drafts/%d/posted", draft.ID))
	assert.Equal(t, http.StatusNoContent, w.Code)

	var updated models.Draft
	require.NoError(t, db.First(&updated, draft.ID).Error)
	assert.Equal(t, models.StatusPosted, updated.Status)

	w = doRequest(router, http.MethodGet, "/api/v1/drafts?status=draft")
	drafts = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drafts))
	assert.Empty(t, drafts)

	w = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/v1/drafts/%d", draft.ID))
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Draft{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMarkDraftPostedNotFound(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(router, http.MethodPatch, "/api/v1/drafts/999/posted")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
