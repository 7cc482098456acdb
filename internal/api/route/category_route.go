package route

import (
	"time"

	"github.com/bassista/go_quotes/internal/api/controller"
	"github.com/bassista/go_quotes/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

func NewCategoryRouter(timeout time.Duration, group *gin.RouterGroup, index controller.CategorySelector) {
	cc := controller.NewCategoryController(index)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("categories", timeoutMiddleware, cc.Categories)
	group.PUT("filter", timeoutMiddleware, cc.SetFilter)
}
