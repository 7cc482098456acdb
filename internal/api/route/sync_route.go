package route

import (
	"time"

	"github.com/bassista/go_quotes/internal/api/controller"
	"github.com/bassista/go_quotes/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// NewSyncRouter registers the manual sync routes. timeout must cover a full
// push/pull round-trip, so it is usually longer than the default.
func NewSyncRouter(timeout time.Duration, group *gin.RouterGroup, s controller.Syncer) {
	sc := controller.NewSyncController(s)

	group.POST("sync", middleware.RequestTimeout(timeout), sc.Sync)
	group.GET("sync/status", sc.Status)
}
