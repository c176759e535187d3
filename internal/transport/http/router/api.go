package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-gin-ecommerce/internal/app"
	"go-gin-ecommerce/internal/core/server"
	"go-gin-ecommerce/internal/transport/http/ez"
	"go-gin-ecommerce/internal/transport/http/handler"
	mdw "go-gin-ecommerce/internal/transport/http/middleware"
)

// NewAPIEngine builds the public REST engine.
func NewAPIEngine(a *app.App) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(30*time.Second),
		mdw.Recovery(a.Log),
		mdw.Metrics(),
		mdw.AccessLog(a.Log),
		server.CORS(a.Cfg.App.FrontendHost, a.Cfg.App.BackendHost),
		mdw.Authenticate(a.Tokens, a.Details),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	var reg Registry
	reg.Register(
		handler.NewAuthHandler(a.Auth, a.Google, mdw.RateLimitPerIP(5, 20)),
		handler.NewFileHandler(a.Files, mdw.RequireAuth()),
		handler.NewResourceHandler(a.Users, a.Products, a.Categories, a.Orders),
	)
	reg.MountAPI(ez.New(&r.RouterGroup, a.Log))

	return r
}
