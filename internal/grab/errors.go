package grab

import "errors"

// Failure reasons for a single channel. Adapters wrap these with context;
// callers branch on them with errors.Is.
var (
	ErrUnsupportedMethod = errors.New("unsupported request method")
	ErrNoMatch           = errors.New("no result found in response")
	ErrBadPattern        = errors.New("invalid extraction pattern")
	ErrTransport         = errors.New("transport error")
	ErrBadStatus         = errors.New("unexpected HTTP status")
	ErrDecode            = errors.New("response is not valid UTF-8")
	ErrFiltered          = errors.New("stream URL rejected by output filter")
	ErrUnknownMode       = errors.New("wrong or missing playlist mode")
	ErrEmptyPlaylist     = errors.New("playlist text is empty")
	ErrEmptySlug         = errors.New("channel name produces an empty file name")
)

// ErrOutcomeNotFound is returned by history lookups for unseen channels.
var ErrOutcomeNotFound = errors.New("outcome not found")

// reasons maps each failure to the label used in logs, metrics and history.
var reasons = []struct {
	err   error
	label string
}{
	{ErrUnsupportedMethod, "unsupported_method"},
	{ErrNoMatch, "no_match"},
	{ErrBadPattern, "bad_pattern"},
	{ErrTransport, "transport"},
	{ErrBadStatus, "bad_status"},
	{ErrDecode, "decode"},
	{ErrFiltered, "filtered"},
	{ErrUnknownMode, "unknown_mode"},
	{ErrEmptyPlaylist, "empty_playlist"},
	{ErrEmptySlug, "empty_slug"},
}

// Reason returns a stable label for err. Errors outside the taxonomy map to
// "io" since the only other failures left are filesystem ones.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "io"
}
