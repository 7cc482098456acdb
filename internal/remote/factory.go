package remote

import (
	"fmt"

	"github.com/bassista/go_quotes/internal/config"
)

// NewSourceFromConfig creates the Source selected by cfg.SourceType.
// "memory" starts empty; "http" (the default) targets cfg.URL and cfg.PushURL.
func NewSourceFromConfig(cfg config.SyncConfig) (Source, error) {
	switch cfg.SourceType {
	case config.SourceTypeMemory:
		return NewMemorySource(), nil
	case config.SourceTypeHTTP, "":
		if cfg.URL == "" {
			return nil, fmt.Errorf("sync url is required for %s source", config.SourceTypeHTTP)
		}
		return NewHTTPSource(cfg.URL, cfg.PushURL, cfg.PullLimit, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown sync source type: %s (supported: %s, %s)", cfg.SourceType, config.SourceTypeHTTP, config.SourceTypeMemory)
	}
}
