package route

import (
	"time"

	"github.com/bassista/go_quotes/internal/api/controller"
	"github.com/bassista/go_quotes/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

func NewTransferRouter(timeout time.Duration, group *gin.RouterGroup, t controller.Transferer) {
	tc := controller.NewTransferController(t)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("export", timeoutMiddleware, tc.Export)
	group.POST("import", timeoutMiddleware, tc.Import)
}
