package driven

import (
	"context"

	"github.com/alorle/m3u8-grabber/internal/site"
)

// SiteSource defines the interface for loading the configured sites.
type SiteSource interface {
	// LoadSites returns every site in configuration order.
	LoadSites(ctx context.Context) ([]site.Site, error)
}
