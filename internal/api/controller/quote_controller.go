package controller

import (
	"net/http"

	"github.com/bassista/go_quotes/internal/logger"
	"github.com/bassista/go_quotes/internal/repository"
	"github.com/bassista/go_quotes/internal/store"
	"github.com/gin-gonic/gin"
)

// CategoryView is the part of the category index the quote handlers read.
type CategoryView interface {
	ByCategory(selection string) []repository.Quote
}

// AddQuoteRequest is the body of POST /quote.
type AddQuoteRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// QuoteController handles listing and adding quotes.
type QuoteController struct {
	store store.Adder
	view  CategoryView
}

func NewQuoteController(s store.Adder, view CategoryView) *QuoteController {
	return &QuoteController{store: s, view: view}
}

// AllQuotes handles GET /quotes, optionally filtered by ?category=.
func (qc *QuoteController) AllQuotes(c *gin.Context) {
	selection := c.Query("category")
	logger.WithComponent("quote-controller").Debugf("GET /quotes handler called (category '%s')", selection)
	if selection == "" {
		c.JSON(http.StatusOK, qc.store.All())
		return
	}
	c.JSON(http.StatusOK, qc.view.ByCategory(selection))
}

// AddQuote handles POST /quote.
func (qc *QuoteController) AddQuote(c *gin.Context) {
	var req AddQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithComponent("quote-controller").Debugf("add quote: invalid payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	q, err := qc.store.Add(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		respondError(c, "quote-controller", err)
		return
	}
	c.JSON(http.StatusCreated, q)
}
