package driven

import (
	"github.com/alorle/m3u8-grabber/internal/memory"
	port "github.com/alorle/m3u8-grabber/internal/port/driven"
)

// Compile-time check that StreamResolverHTTP implements StreamResolver interface
var _ port.StreamResolver = (*StreamResolverHTTP)(nil)

// Compile-time check that PlaylistHTTPFetcher implements PlaylistFetcher interface
var _ port.PlaylistFetcher = (*PlaylistHTTPFetcher)(nil)

// Compile-time check that PlaylistFileStore implements PlaylistStore interface
var _ port.PlaylistStore = (*PlaylistFileStore)(nil)

// Compile-time check that SiteJSONSource implements SiteSource interface
var _ port.SiteSource = (*SiteJSONSource)(nil)

// Compile-time checks that both history backends implement OutcomeRepository interface
var (
	_ port.OutcomeRepository = (*OutcomeBoltDBRepository)(nil)
	_ port.OutcomeRepository = (*memory.OutcomeRepository)(nil)
)
