package driven

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/alorle/m3u8-grabber/internal/grab"
	"github.com/alorle/m3u8-grabber/internal/port/driven"
	"github.com/alorle/m3u8-grabber/metrics"
)

const kindResolve = "resolve"

// StreamResolverHTTP implements the StreamResolver port. It issues a single
// request to the site and extracts the stream URL from the response body
// with the site's regular expression.
type StreamResolverHTTP struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// NewStreamResolverHTTP creates a resolver sharing httpClient. userAgent is
// sent unless the site's own headers set one.
func NewStreamResolverHTTP(httpClient *http.Client, userAgent string, logger *slog.Logger) *StreamResolverHTTP {
	return &StreamResolverHTTP{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Resolve returns the first capture group of the first match of req.Pattern
// in the response body, or the whole match when the pattern has no groups.
func (r *StreamResolverHTTP) Resolve(ctx context.Context, req driven.ResolveRequest) (string, error) {
	streamURL, err := r.resolve(ctx, req)
	if err != nil {
		metrics.RecordUpstreamError(kindResolve, grab.Reason(err))
		return "", err
	}
	return streamURL, nil
}

func (r *StreamResolverHTTP) resolve(ctx context.Context, req driven.ResolveRequest) (string, error) {
	var body io.Reader
	switch req.Method {
	case http.MethodGet:
	case http.MethodPost:
		payload := req.Body
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		body = bytes.NewReader(payload)
	default:
		r.logger.Error("unsupported request method", "method", req.Method, "url", req.URL)
		return "", fmt.Errorf("%w: %q", grab.ErrUnsupportedMethod, req.Method)
	}

	re, err := regexp.Compile(req.Pattern)
	if err != nil {
		r.logger.Error("invalid extraction pattern", "pattern", req.Pattern, "error", err)
		return "", fmt.Errorf("%w: %w", grab.ErrBadPattern, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		r.logger.Error("failed to build request", "url", req.URL, "error", err)
		return "", fmt.Errorf("%w: building request: %w", grab.ErrTransport, err)
	}
	httpReq.Header.Set("User-Agent", r.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	r.logger.Debug("requesting stream page", "method", req.Method, "url", req.URL)

	start := time.Now()
	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		metrics.ObserveUpstream(kindResolve, time.Since(start))
		r.logger.Error("failed to reach site", "url", req.URL, "error", err)
		return "", fmt.Errorf("%w: %w", grab.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	metrics.ObserveUpstream(kindResolve, time.Since(start))
	if err != nil {
		r.logger.Error("failed to read site response", "url", req.URL, "error", err)
		return "", fmt.Errorf("%w: reading response: %w", grab.ErrTransport, err)
	}

	match := re.FindSubmatch(data)
	if match == nil {
		r.logger.Warn("no result found", "url", req.URL, "status", resp.StatusCode)
		return "", grab.ErrNoMatch
	}

	result := match[0]
	if len(match) > 1 {
		result = match[1]
	}
	if len(result) == 0 {
		r.logger.Warn("pattern matched an empty result", "url", req.URL)
		return "", grab.ErrNoMatch
	}

	return string(result), nil
}
