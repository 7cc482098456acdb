package controller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/bassista/go_quotes/internal/codec"
	"github.com/bassista/go_quotes/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferRouter(f fixture) *gin.Engine {
	r := gin.New()
	tc := NewTransferController(codec.New(f.store, nil))
	r.GET("/export", tc.Export)
	r.POST("/import", tc.Import)
	return r
}

func TestTransferController_Export(t *testing.T) {
	f := newFixture(t, []repository.Quote{{Text: "Hi", Category: "A"}})

	w := doRequest(transferRouter(f), http.MethodGet, "/export", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="quotes.json"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[{"text":"Hi","category":"A"}]`, w.Body.String())
}

func TestTransferController_ImportRawBody(t *testing.T) {
	f := newFixture(t, []repository.Quote{{Text: "Hi", Category: "A"}})

	w := doRequest(transferRouter(f), http.MethodPost, "/import",
		strings.NewReader(`[{"text":"Hi","category":"B"},{"text":"Bye","category":"B"}]`), "application/json")

	require.Equal(t, http.StatusOK, w.Code)
	var res codec.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, codec.Result{Added: 1, Ignored: 1, Total: 2}, res)
}

func TestTransferController_ImportMultipart(t *testing.T) {
	f := newFixture(t, []repository.Quote{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "quotes.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`[{"text":"Uploaded","category":"Files"}]`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := doRequest(transferRouter(f), http.MethodPost, "/import", &buf, mw.FormDataContentType())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []repository.Quote{{Text: "Uploaded", Category: "Files"}}, f.store.All())
}

func TestTransferController_ImportMultipartMissingFile(t *testing.T) {
	f := newFixture(t, []repository.Quote{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	w := doRequest(transferRouter(f), http.MethodPost, "/import", &buf, mw.FormDataContentType())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransferController_ImportRejected(t *testing.T) {
	f := newFixture(t, []repository.Quote{{Text: "Hi", Category: "A"}})

	w := doRequest(transferRouter(f), http.MethodPost, "/import", strings.NewReader(`{"text":"Hi"}`), "application/json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "import rejected")
	assert.Equal(t, []repository.Quote{{Text: "Hi", Category: "A"}}, f.store.All())
}
