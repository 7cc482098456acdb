package controller

import (
	"net/http"

	"github.com/bassista/go_quotes/internal/category"
	"github.com/bassista/go_quotes/internal/config"
	"github.com/gin-gonic/gin"
)

// ConfigurationResponse is the client-facing subset of the configuration.
type ConfigurationResponse struct {
	SyncEnabled     bool   `json:"syncEnabled"`
	SyncIntervalSec int    `json:"syncIntervalSec"`
	SyncCategory    string `json:"syncCategory"`
	AllCategory     string `json:"allCategory"`
}

// ConfigurationController handles configuration-related API endpoints.
type ConfigurationController struct {
	config *config.Config
}

func NewConfigurationController(cfg *config.Config) *ConfigurationController {
	return &ConfigurationController{config: cfg}
}

// GetConfiguration handles GET /configuration.
func (cc *ConfigurationController) GetConfiguration(c *gin.Context) {
	c.JSON(http.StatusOK, ConfigurationResponse{
		SyncEnabled:     cc.config.Sync.Enabled,
		SyncIntervalSec: int(cc.config.Sync.Interval.Seconds()),
		SyncCategory:    cc.config.Sync.Category,
		AllCategory:     category.All,
	})
}
