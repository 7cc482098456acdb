package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bassista/go_quotes/internal/category"
	"github.com/bassista/go_quotes/internal/repository"
	"github.com/bassista/go_quotes/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fixture wires a store and category index over in-memory storage.
type fixture struct {
	storage *repository.MemoryStorage
	store   *store.QuoteStore
	index   *category.Index
}

func newFixture(t *testing.T, quotes []repository.Quote) fixture {
	t.Helper()
	mem := repository.NewMemoryStorage()
	data, err := json.Marshal(quotes)
	require.NoError(t, err)
	require.NoError(t, mem.Set(context.Background(), "quotes", data))

	s := store.NewQuoteStore(mem, "quotes", nil)
	idx := category.NewIndex(mem, "lastCategoryFilter", nil)
	s.OnChange(idx.Refresh)
	require.NoError(t, s.Load(context.Background()))
	return fixture{storage: mem, store: s, index: idx}
}

func doRequest(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
