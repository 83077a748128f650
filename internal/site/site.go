package site

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// Domain errors
var (
	ErrEmptySlug         = errors.New("site slug cannot be empty")
	ErrUnsafeSlug        = errors.New("site slug must be a relative path inside the output directory")
	ErrEmptyURL          = errors.New("site url cannot be empty")
	ErrEmptyPattern      = errors.New("site pattern cannot be empty")
	ErrNegativeBandwidth = errors.New("site bandwidth cannot be negative")
)

// Mode selects how a resolved stream URL becomes a playlist file.
type Mode string

const (
	// ModeVariant fetches the resolved playlist and rewrites it.
	ModeVariant Mode = "variant"
	// ModeMaster synthesizes a master playlist pointing at the resolved URL.
	ModeMaster Mode = "master"
)

// Params carries the raw values a Site is built from.
type Params struct {
	Slug         string
	URL          string
	Pattern      string
	Mode         string
	OutputFilter string
	Bandwidth    int
	Method       string
	Headers      map[string]string
	Body         []byte
	Channels     []Channel
}

// Site is one configured stream source: a URL template, an extraction
// pattern and a playback mode shared by its channels.
type Site struct {
	slug         string
	urlTemplate  string
	pattern      string
	mode         Mode
	outputFilter string
	bandwidth    int
	method       string
	headers      map[string]string
	body         []byte
	channels     []Channel
}

// NewSite validates p and builds a Site.
// The mode and pattern are kept as given: an unknown mode or a pattern that
// does not compile fails each channel at run time, not the whole config.
func NewSite(p Params) (Site, error) {
	slug := strings.TrimSpace(p.Slug)
	if slug == "" {
		return Site{}, ErrEmptySlug
	}
	if !filepath.IsLocal(slug) {
		return Site{}, ErrUnsafeSlug
	}
	if strings.TrimSpace(p.URL) == "" {
		return Site{}, ErrEmptyURL
	}
	if p.Pattern == "" {
		return Site{}, ErrEmptyPattern
	}
	if p.Bandwidth < 0 {
		return Site{}, ErrNegativeBandwidth
	}

	method := p.Method
	if method == "" {
		method = http.MethodGet
	}

	headers := make(map[string]string, len(p.Headers))
	for k, v := range p.Headers {
		headers[k] = v
	}

	return Site{
		slug:         slug,
		urlTemplate:  p.URL,
		pattern:      p.Pattern,
		mode:         Mode(p.Mode),
		outputFilter: p.OutputFilter,
		bandwidth:    p.Bandwidth,
		method:       method,
		headers:      headers,
		body:         p.Body,
		channels:     append([]Channel(nil), p.Channels...),
	}, nil
}

func (s Site) Slug() string               { return s.slug }
func (s Site) Pattern() string            { return s.pattern }
func (s Site) Mode() Mode                 { return s.mode }
func (s Site) OutputFilter() string       { return s.outputFilter }
func (s Site) Bandwidth() int             { return s.bandwidth }
func (s Site) Method() string             { return s.method }
func (s Site) Headers() map[string]string { return s.headers }
func (s Site) Body() []byte               { return s.body }
func (s Site) Channels() []Channel        { return s.channels }

// ChannelURL expands the site's URL template for ch.
func (s Site) ChannelURL(ch Channel) string {
	return ch.Substitutions().Apply(s.urlTemplate)
}

// Accepts reports whether streamURL passes the site's output filter.
// A site without a filter accepts everything.
func (s Site) Accepts(streamURL string) bool {
	if s.outputFilter == "" {
		return true
	}
	return strings.Contains(streamURL, s.outputFilter)
}
