package controller

import (
	"context"
	"net/http"

	"github.com/bassista/go_quotes/internal/logger"
	"github.com/gin-gonic/gin"
)

// CategorySelector is the category index API used by the filter handlers.
type CategorySelector interface {
	Categories() []string
	Selected() string
	Select(ctx context.Context, category string) error
}

// CategoriesResponse lists the selectable values and the active one.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Selected   string   `json:"selected"`
}

// FilterRequest is the body of PUT /filter.
type FilterRequest struct {
	Category string `json:"category" binding:"required"`
}

type CategoryController struct {
	index CategorySelector
}

func NewCategoryController(index CategorySelector) *CategoryController {
	return &CategoryController{index: index}
}

// Categories handles GET /categories.
func (cc *CategoryController) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, cc.response())
}

// SetFilter handles PUT /filter.
func (cc *CategoryController) SetFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := cc.index.Select(c.Request.Context(), req.Category); err != nil {
		respondError(c, "category-controller", err)
		return
	}
	logger.WithComponent("category-controller").Debugf("filter changed to '%s'", req.Category)
	c.JSON(http.StatusOK, cc.response())
}

func (cc *CategoryController) response() CategoriesResponse {
	return CategoriesResponse{Categories: cc.index.Categories(), Selected: cc.index.Selected()}
}
