package route

import (
	"time"

	"github.com/bassista/go_quotes/internal/api/controller"
	"github.com/bassista/go_quotes/internal/api/middleware"
	"github.com/bassista/go_quotes/internal/config"
	"github.com/gin-gonic/gin"
)

// NewConfigurationRouter sets up configuration-related routes.
func NewConfigurationRouter(timeout time.Duration, group *gin.RouterGroup, cfg *config.Config) {
	cc := controller.NewConfigurationController(cfg)
	group.GET("configuration", middleware.RequestTimeout(timeout), cc.GetConfiguration)
}
