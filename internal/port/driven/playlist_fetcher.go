package driven

import "context"

// PlaylistFetcher defines the interface for downloading a variant playlist and
// rewriting its URI lines to absolute URLs.
type PlaylistFetcher interface {
	// Fetch returns the rewritten playlist text. Failures wrap one of the
	// grab.Err* reasons.
	Fetch(ctx context.Context, playlistURL string) (string, error)
}
