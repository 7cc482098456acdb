package route

import (
	"time"

	"github.com/bassista/go_quotes/internal/api/controller"
	"github.com/bassista/go_quotes/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

func NewDisplayRouter(timeout time.Duration, group *gin.RouterGroup, picker controller.QuotePicker) {
	dc := controller.NewDisplayController(picker)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("quote/random", timeoutMiddleware, dc.Random)
	group.GET("quote/last", timeoutMiddleware, dc.Last)
}
