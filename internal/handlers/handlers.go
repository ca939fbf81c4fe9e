package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mailmuse/internal/models"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	db *gorm.DB
}

// NewHandlers creates new HTTP handlers
func NewHandlers(db *gorm.DB) *Handlers {
	return &Handlers{db: db}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/emails", h.ListEmails)
		api.GET("/emails/:id", h.GetEmail)
		api.GET("/brands", h.ListBrands)

		api.GET("/drafts", h.ListDrafts)
		api.PATCH("/drafts/:id/posted", h.MarkDraftPosted)
		api.DELETE("/drafts/:id", h.DeleteDraft)
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
	}

	if err := h.db.Raw("SELECT 1").Error; err != nil {
		response.Status = "error"
		response.Database = "error"
		logrus.Errorf("Database health check failed: %v", err)
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
