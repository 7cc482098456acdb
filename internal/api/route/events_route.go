package route

import (
	"github.com/bassista/go_quotes/internal/api/controller"
	"github.com/gin-gonic/gin"
)

// NewEventsRouter registers the SSE stream. It carries no request timeout.
func NewEventsRouter(group *gin.RouterGroup, source controller.EventSource) {
	ec := controller.NewEventsController(source)
	group.GET("events", ec.Stream)
}
