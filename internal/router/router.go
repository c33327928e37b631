package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/visa-admin/api/swagger"
	"github.com/noah-isme/visa-admin/internal/handler"
	internalmiddleware "github.com/noah-isme/visa-admin/internal/middleware"
	"github.com/noah-isme/visa-admin/internal/service"
	"github.com/noah-isme/visa-admin/internal/view"
	"github.com/noah-isme/visa-admin/pkg/config"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
	"github.com/noah-isme/visa-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/visa-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/visa-admin/pkg/middleware/requestid"
	"github.com/noah-isme/visa-admin/pkg/response"
)

// Deps carries everything the HTTP surface is built from.
type Deps struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *service.MetricsService
	Auth         *service.AuthService
	Applications *service.ApplicationService
	Dashboard    *service.DashboardService
	Export       *service.ExportService
	Ready        handler.ReadinessCheck
}

// New builds the gin engine serving the dashboard pages and their JSON API.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.Metrics))
	r.Use(internalmiddleware.WithResponseMeta())
	r.SetHTMLTemplate(view.MustTemplates())

	observability := handler.NewMetricsHandler(deps.Metrics, deps.Ready)
	r.GET("/health", observability.Health)
	r.GET("/ready", observability.Ready)
	r.GET("/metrics", observability.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	cookie := internalmiddleware.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure}
	authHandler := handler.NewAuthHandler(deps.Auth, cookie)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard)
	applicationHandler := handler.NewApplicationHandler(deps.Applications, deps.Export)

	r.GET(internalmiddleware.LoginPath, internalmiddleware.RedirectIfAuthenticated(deps.Auth, cookie), authHandler.LoginPage)
	r.POST(internalmiddleware.LoginPath, authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	gate := internalmiddleware.SessionGate(deps.Auth, cookie)

	pages := r.Group("", gate)
	pages.GET("/", dashboardHandler.Home)
	pages.GET("/modules/:module", applicationHandler.ListPage)
	pages.GET("/modules/:module/export.csv", applicationHandler.ExportCSV)
	pages.GET("/modules/:module/export.pdf", applicationHandler.ExportPDF)
	pages.GET("/modules/:module/applications/:id", applicationHandler.DetailPage)

	api := r.Group("/api/v1", gate)
	apps := api.Group("/modules/:module/applications")
	apps.GET("", applicationHandler.List)
	apps.GET("/:id", applicationHandler.Detail)
	apps.PUT("/:id/status", applicationHandler.ChangeStatus)
	apps.POST("/:id/reminders/:type", applicationHandler.SendReminder)
	apps.POST("/:id/gov-ref", applicationHandler.SaveGovRef)
	apps.GET("/:id/gov-ref/:applicantType", applicationHandler.GetGovRef)
	apps.GET("/:id/gov-ref/:applicantType/:index", applicationHandler.GetGovRef)
	apps.DELETE("/:id/gov-ref/:applicantType", applicationHandler.DeleteGovRef)
	apps.DELETE("/:id/gov-ref/:applicantType/:index", applicationHandler.DeleteGovRef)

	r.NoRoute(func(c *gin.Context) {
		if internalmiddleware.WantsJSON(c) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
			return
		}
		c.HTML(http.StatusNotFound, view.ErrorTemplate, view.ErrorPage{
			Base:    view.Base{Title: "Not found"},
			Status:  http.StatusNotFound,
			Message: "The page you asked for does not exist.",
		})
	})

	return r
}
