package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-ecommerce/internal/app"
	"go-gin-ecommerce/internal/core/server"
	"go-gin-ecommerce/internal/domain"
	"go-gin-ecommerce/internal/transport/http/ez"
	"go-gin-ecommerce/internal/transport/http/handler"
	mdw "go-gin-ecommerce/internal/transport/http/middleware"
)

// NewAdminEngine builds the back-office engine. Every /admin/v1 route
// requires an enabled admin.
func NewAdminEngine(a *app.App) *gin.Engine {
	r := server.NewRouter(a.Log, a.Cfg.App.FrontendHost, a.Cfg.App.BackendHost)
	r.Use(mdw.RequestID(), mdw.Metrics())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	admin := r.Group("/admin/v1",
		mdw.Authenticate(a.Tokens, a.Details),
		mdw.RequireRole(domain.RoleAdmin),
	)

	var reg Registry
	reg.Register(handler.NewAdminHandler(a.Users, a.Products, a.Files))
	reg.MountAdmin(ez.New(admin, a.Log))

	return r
}
