package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(allowed string) *gin.Engine {
	r := gin.New()
	r.Use(CORSMiddleware(allowed))
	r.GET("/quotes", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/quote", func(c *gin.Context) { c.String(http.StatusCreated, "ok") })
	return r
}

func TestCORSMiddleware_Origins(t *testing.T) {
	tests := []struct {
		name        string
		allowed     string
		origin      string
		wantOrigin  string
		wantVary    string
		wantCreds   string
		wantMethods bool
	}{
		{name: "wildcard", allowed: "*", origin: "http://ui.local", wantOrigin: "*", wantMethods: true},
		{name: "listed origin", allowed: "http://ui.local,http://admin.local", origin: "http://admin.local",
			wantOrigin: "http://admin.local", wantVary: "Origin", wantCreds: "true", wantMethods: true},
		{name: "unlisted origin", allowed: "http://ui.local", origin: "http://evil.local"},
		{name: "no origin header", allowed: "http://ui.local"},
		{name: "nothing allowed", allowed: "", origin: "http://ui.local"},
		{name: "whitespace trimmed", allowed: "  http://a.local  ,  http://b.local ", origin: "http://b.local",
			wantOrigin: "http://b.local", wantVary: "Origin", wantCreds: "true", wantMethods: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/quotes", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()

			corsRouter(tt.allowed).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code, "CORS never blocks the request itself")
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantVary, w.Header().Get("Vary"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, tt.wantMethods, w.Header().Get("Access-Control-Allow-Methods") != "")
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	t.Run("default headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/quote", nil)
		req.Header.Set("Origin", "http://ui.local")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()

		corsRouter("*").ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, corsAllowMethods, w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, corsAllowHeaders, w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("requested headers echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/quote", nil)
		req.Header.Set("Origin", "http://ui.local")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Request-Id")
		w := httptest.NewRecorder()

		corsRouter("http://ui.local").ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "Content-Type, X-Request-Id", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("unlisted origin falls through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/quote", nil)
		req.Header.Set("Origin", "http://evil.local")
		w := httptest.NewRecorder()

		corsRouter("http://ui.local").ServeHTTP(w, req)

		assert.NotEqual(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
