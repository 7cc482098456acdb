package route

import (
	"net/http"
	"time"

	"github.com/bassista/go_quotes/internal/api/middleware"
	"github.com/bassista/go_quotes/internal/app"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes builds the engine with every API route of the application.
func SetupRoutes(appCtx *app.App, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(logger.Writer(), "/health"))
	r.Use(middleware.HoneybadgerMiddleware(logger, appCtx.Config.Misc.HoneybadgerEnv))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(appCtx.Config.Server.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
			"quotes":  appCtx.Store.Len(),
		})
	})

	publicRouter := r.Group("")
	timeout := appCtx.Config.Server.RequestTimeout

	NewConfigurationRouter(timeout, publicRouter, appCtx.Config)
	NewQuoteRouter(timeout, publicRouter, appCtx.Store, appCtx.Index)
	NewCategoryRouter(timeout, publicRouter, appCtx.Index)
	NewDisplayRouter(timeout, publicRouter, appCtx.Picker)
	NewTransferRouter(timeout, publicRouter, appCtx.Codec)
	NewSyncRouter(syncTimeout(timeout, appCtx.Config.Sync.RequestTimeout), publicRouter, appCtx)
	NewEventsRouter(publicRouter, appCtx.Events)

	return r
}

// syncTimeout lets a manual sync run as long as the engine's own request bound.
func syncTimeout(server, sync time.Duration) time.Duration {
	if sync+time.Second > server {
		return sync + time.Second
	}
	return server
}
