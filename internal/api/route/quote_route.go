package route

import (
	"time"

	"github.com/bassista/go_quotes/internal/api/controller"
	"github.com/bassista/go_quotes/internal/api/middleware"
	"github.com/bassista/go_quotes/internal/store"
	"github.com/gin-gonic/gin"
)

func NewQuoteRouter(timeout time.Duration, group *gin.RouterGroup, s store.Adder, view controller.CategoryView) {
	qc := controller.NewQuoteController(s, view)
	timeoutMiddleware := middleware.RequestTimeout(timeout)

	group.GET("quotes", timeoutMiddleware, qc.AllQuotes)
	group.POST("quote", timeoutMiddleware, qc.AddQuote)
}
