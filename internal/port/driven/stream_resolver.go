package driven

import "context"

// ResolveRequest describes the single HTTP exchange a site uses to publish
// its stream URL.
type ResolveRequest struct {
	URL     string
	Pattern string
	Method  string
	Headers map[string]string
	// Body is the JSON document sent with POST requests. Ignored for GET.
	Body []byte
}

// StreamResolver defines the interface for extracting a stream URL from an
// upstream page or API response.
// This is a driven port that will be implemented by concrete adapters (e.g., HTTP client).
type StreamResolver interface {
	// Resolve performs the request and returns the first capture group of the
	// first pattern match. Failures wrap one of the grab.Err* reasons.
	Resolve(ctx context.Context, req ResolveRequest) (string, error)
}
