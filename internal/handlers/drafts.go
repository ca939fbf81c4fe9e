package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mailmuse/internal/models"
)

// ListDrafts returns draft queue entries, newest first, optionally
// filtered by status.
func (h *Handlers) ListDrafts(c *gin.Context) {
	query := h.db.Model(&models.Draft{}).Order("created_at DESC, id DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var drafts []models.Draft
	if err := query.Find(&drafts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch drafts",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	responses := make([]models.DraftResponse, 0, len(drafts))
	for _, draft := range drafts {
		responses = append(responses, models.DraftResponse{
			ID:        draft.ID,
			Content:   draft.Content,
			Category:  draft.Category,
			Status:    draft.Status,
			CreatedAt: draft.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// MarkDraftPosted records that a human posted the draft
func (h *Handlers) MarkDraftPosted(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid draft ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	var draft models.Draft
	if err := h.db.First(&draft, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "Draft not found",
				Code:    http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to fetch draft",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	if err := h.db.Model(&draft).Update("status", models.StatusPosted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to update draft",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteDraft removes a draft from the queue
func (h *Handlers) DeleteDraft(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid draft ID",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if err := h.db.Delete(&models.Draft{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete draft",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.Status(http.StatusNoContent)
}
