package controller

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/bassista/go_quotes/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteRouter(f fixture) *gin.Engine {
	r := gin.New()
	qc := NewQuoteController(f.store, f.index)
	r.GET("/quotes", qc.AllQuotes)
	r.POST("/quote", qc.AddQuote)
	return r
}

func TestQuoteController_AllQuotes(t *testing.T) {
	f := newFixture(t, []repository.Quote{{Text: "a", Category: "X"}, {Text: "b", Category: "Y"}})
	r := quoteRouter(f)

	tests := []struct {
		name string
		path string
		want []repository.Quote
	}{
		{"all", "/quotes", f.store.All()},
		{"filtered", "/quotes?category=Y", []repository.Quote{{Text: "b", Category: "Y"}}},
		{"sentinel", "/quotes?category=all", f.store.All()},
		{"unknown", "/quotes?category=Z", []repository.Quote{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, tt.path, nil, "")
			require.Equal(t, http.StatusOK, w.Code)

			var got []repository.Quote
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteController_AddQuote(t *testing.T) {
	f := newFixture(t, []repository.Quote{})
	r := quoteRouter(f)

	w := doRequest(r, http.MethodPost, "/quote", strings.NewReader(`{"text":"  New one ","category":"Mine"}`), "application/json")

	require.Equal(t, http.StatusCreated, w.Code)
	var got repository.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, repository.Quote{Text: "New one", Category: "Mine"}, got)
	assert.Equal(t, []repository.Quote{got}, f.store.All())
	assert.True(t, f.index.Has("Mine"))
}

func TestQuoteController_AddQuote_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"empty text", `{"text":"","category":"Mine"}`, "text"},
		{"blank category", `{"text":"x","category":"   "}`, "category"},
		{"bad json", `{"text":`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, []repository.Quote{})
			w := doRequest(quoteRouter(f), http.MethodPost, "/quote", strings.NewReader(tt.body), "application/json")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantField)
			assert.Empty(t, f.store.All())
		})
	}
}
