package controller

import (
	"context"
	"net/http"

	"github.com/bassista/go_quotes/internal/repository"
	"github.com/gin-gonic/gin"
)

// QuotePicker chooses what to show.
type QuotePicker interface {
	Next(ctx context.Context) (repository.Quote, error)
	Last(ctx context.Context) (repository.Quote, bool, error)
}

type DisplayController struct {
	picker QuotePicker
}

func NewDisplayController(p QuotePicker) *DisplayController {
	return &DisplayController{picker: p}
}

// Random handles GET /quote/random.
func (dc *DisplayController) Random(c *gin.Context) {
	q, err := dc.picker.Next(c.Request.Context())
	if err != nil {
		respondError(c, "display-controller", err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Last handles GET /quote/last.
func (dc *DisplayController) Last(c *gin.Context) {
	q, ok, err := dc.picker.Last(c.Request.Context())
	if err != nil {
		respondError(c, "display-controller", err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, q)
}
