package controller

import (
	"context"
	"net/http"

	"github.com/bassista/go_quotes/internal/syncengine"
	"github.com/gin-gonic/gin"
)

// Syncer runs manual ticks and reports the last outcome.
type Syncer interface {
	SyncEnabled() bool
	SyncNow(ctx context.Context) (syncengine.Result, error)
	LastSyncResult() (syncengine.Result, bool)
}

// SyncStatusResponse is the body of GET /sync/status.
type SyncStatusResponse struct {
	Enabled bool               `json:"enabled"`
	Last    *syncengine.Result `json:"last"`
}

type SyncController struct {
	syncer Syncer
}

func NewSyncController(s Syncer) *SyncController {
	return &SyncController{syncer: s}
}

// Sync handles POST /sync.
func (sc *SyncController) Sync(c *gin.Context) {
	res, err := sc.syncer.SyncNow(c.Request.Context())
	if err != nil {
		if res.TickID != "" {
			// The tick ran and failed at the remote; report its outcome.
			c.JSON(http.StatusBadGateway, res)
			return
		}
		respondError(c, "sync-controller", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Status handles GET /sync/status.
func (sc *SyncController) Status(c *gin.Context) {
	resp := SyncStatusResponse{Enabled: sc.syncer.SyncEnabled()}
	if last, ok := sc.syncer.LastSyncResult(); ok {
		resp.Last = &last
	}
	c.JSON(http.StatusOK, resp)
}
