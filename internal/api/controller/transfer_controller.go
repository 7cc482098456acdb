package controller

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bassista/go_quotes/internal/codec"
	"github.com/bassista/go_quotes/internal/logger"
	"github.com/gin-gonic/gin"
)

// Transferer exports and imports whole documents.
type Transferer interface {
	Export() ([]byte, error)
	Import(ctx context.Context, r io.Reader) (codec.Result, error)
}

// TransferController handles export downloads and import uploads.
type TransferController struct {
	codec Transferer
}

func NewTransferController(t Transferer) *TransferController {
	return &TransferController{codec: t}
}

// Export handles GET /export.
func (tc *TransferController) Export(c *gin.Context) {
	data, err := tc.codec.Export()
	if err != nil {
		respondError(c, "transfer-controller", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", codec.Filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Import handles POST /import with either a multipart "file" field or a raw JSON body.
func (tc *TransferController) Import(c *gin.Context) {
	body := io.Reader(c.Request.Body)
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, "transfer-controller", err)
			return
		}
		defer f.Close()
		body = f
		logger.WithComponent("transfer-controller").Debugf("importing uploaded file '%s' (%d bytes)", fh.Filename, fh.Size)
	}

	res, err := tc.codec.Import(c.Request.Context(), body)
	if err != nil {
		respondError(c, "transfer-controller", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
