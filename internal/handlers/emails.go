package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mailmuse/internal/models"
	"mailmuse/internal/normalizer"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ListEmails returns stored emails, newest first, with optional brand,
// type and free-text filters plus skip/limit pagination. The ordering
// is fixed so consecutive pages are stable.
func (h *Handlers) ListEmails(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	query := h.db.Model(&models.Email{}).Order("received_at DESC, id DESC")

	if brand := c.Query("brand"); brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if emailType := c.Query("type"); emailType != "" {
		query = query.Where("type = ?", emailType)
	}
	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("subject LIKE ? OR preview LIKE ?", like, like)
	}

	var emails []models.Email
	if err := query.Offset(skip).Limit(limit).Find(&emails).Error; err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch emails",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	responses := make([]models.EmailResponse, 0, len(emails))
	for _, email := range emails {
		responses = append(responses, emailResponse(email))
	}

	c.JSON(http.StatusOK, responses)
}

// GetEmail returns a single stored email by row id
func (h *Handlers) GetEmail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid email ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var email models.Email
	if err := h.db.First(&email, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "Email not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch email",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, emailResponse(email))
}

// ListBrands returns the distinct brands in the archive, for the
// frontend filter dropdown.
func (h *Handlers) ListBrands(c *gin.Context) {
	var brands []string
	err := h.db.Model(&models.Email{}).
		Where("brand <> ?", "").
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch brands",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, brands)
}

func emailResponse(email models.Email) models.EmailResponse {
	return models.EmailResponse{
		ID:              email.ID,
		GmailID:         email.GmailID,
		Subject:         email.Subject,
		Sender:          email.Sender,
		Brand:           email.Brand,
		Category:        email.Category,
		Type:            email.Type,
		Industry:        email.Industry,
		ReceivedAt:      email.ReceivedAt,
		HasHTML:         email.HasHTML,
		HTML:            email.HTML,
		Preview:         email.Preview,
		PreviewImageURL: normalizer.PreviewImageURL(email.HTML),
	}
}
