package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/visa-admin/internal/middleware"
	"github.com/noah-isme/visa-admin/internal/models"
	"github.com/noah-isme/visa-admin/internal/service"
	"github.com/noah-isme/visa-admin/internal/view"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
	"github.com/noah-isme/visa-admin/pkg/middleware/requestid"
	"github.com/noah-isme/visa-admin/pkg/response"
)

func actorFromContext(c *gin.Context) service.Actor {
	actor := service.Actor{RequestID: requestid.Value(c)}
	if session := middleware.CurrentSession(c); session != nil {
		actor.SessionID = session.ID
		actor.UserID = session.User.ID
		actor.Email = session.User.Email
	}
	return actor
}

func baseView(c *gin.Context, title, active string) view.Base {
	base := view.Base{Title: title, Modules: models.Modules(), Active: active}
	if session := middleware.CurrentSession(c); session != nil {
		base.User = session.User
	}
	return base
}

func renderPage(c *gin.Context, status int, name string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.HTML(status, name, data)
}

// renderPageError turns a failure into a page. A rejected session sends the browser to the
// login form since the gateway has already evicted it.
func renderPageError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if errors.Is(appErr, appErrors.ErrUnauthorized) {
		middleware.RedirectToLogin(c)
		return
	}
	title := "Something went wrong"
	if appErr.Status == http.StatusNotFound {
		title = "Not found"
	}
	renderPage(c, appErr.Status, view.ErrorTemplate, view.ErrorPage{
		Base:    baseView(c, title, ""),
		Status:  appErr.Status,
		Message: appErr.Message,
	})
}

// toastError answers a page script with the error and a toast message.
func toastError(c *gin.Context, err error, extra map[string]interface{}) {
	appErr := appErrors.FromError(err)
	middleware.AddMeta(c, "toast", appErr.Message)
	for k, v := range extra {
		middleware.AddMeta(c, k, v)
	}
	response.Error(c, appErr, middleware.ExtractMeta(c))
}

func toastOK(c *gin.Context, data interface{}, message string) {
	response.Toast(c, http.StatusOK, data, message, middleware.ExtractMeta(c))
}
