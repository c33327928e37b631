package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/visa-admin/internal/middleware"
	"github.com/noah-isme/visa-admin/internal/models"
	"github.com/noah-isme/visa-admin/internal/view"
)

type dashboardService interface {
	Summary(ctx context.Context, user models.UserProfile) (*models.DashboardSummary, error)
}

// DashboardHandler renders the home page.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Home shows the signed-in staff member and a status breakdown per module.
func (h *DashboardHandler) Home(c *gin.Context) {
	var user models.UserProfile
	if session := middleware.CurrentSession(c); session != nil {
		user = session.User
	}
	summary, err := h.service.Summary(c.Request.Context(), user)
	if err != nil {
		renderPageError(c, err)
		return
	}
	renderPage(c, http.StatusOK, view.HomeTemplate, view.HomePage{
		Base:    baseView(c, "Home", "home"),
		Summary: summary,
	})
}
