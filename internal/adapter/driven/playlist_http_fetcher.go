package driven

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alorle/m3u8-grabber/internal/grab"
	"github.com/alorle/m3u8-grabber/internal/playlist"
	"github.com/alorle/m3u8-grabber/metrics"
)

const kindPlaylist = "playlist"

// PlaylistHTTPFetcher implements the PlaylistFetcher port by downloading a
// playlist and rewriting its URI lines to absolute URLs.
type PlaylistHTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// NewPlaylistHTTPFetcher creates a new fetcher sharing httpClient.
func NewPlaylistHTTPFetcher(httpClient *http.Client, userAgent string, logger *slog.Logger) *PlaylistHTTPFetcher {
	return &PlaylistHTTPFetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Fetch downloads playlistURL and returns its rewritten text. Only a 200
// response is accepted.
func (f *PlaylistHTTPFetcher) Fetch(ctx context.Context, playlistURL string) (string, error) {
	text, err := f.fetch(ctx, playlistURL)
	if err != nil {
		metrics.RecordUpstreamError(kindPlaylist, grab.Reason(err))
		return "", err
	}
	return text, nil
}

func (f *PlaylistHTTPFetcher) fetch(ctx context.Context, playlistURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, playlistURL, nil)
	if err != nil {
		f.logger.Error("failed to build playlist request", "url", playlistURL, "error", err)
		return "", fmt.Errorf("%w: building request: %w", grab.ErrTransport, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	f.logger.Debug("fetching playlist", "url", playlistURL)

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(kindPlaylist, time.Since(start))
		f.logger.Error("failed to fetch playlist", "url", playlistURL, "error", err)
		return "", fmt.Errorf("%w: %w", grab.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveUpstream(kindPlaylist, time.Since(start))
		f.logger.Error("playlist returned error", "url", playlistURL, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: %d", grab.ErrBadStatus, resp.StatusCode)
	}

	text, err := playlist.Rewrite(playlistURL, resp.Body)
	metrics.ObserveUpstream(kindPlaylist, time.Since(start))
	if err != nil {
		f.logger.Error("failed to process playlist", "url", playlistURL, "error", err)
		return "", err
	}

	return text, nil
}
