package playlist

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/alorle/m3u8-grabber/internal/grab"
)

// Rewrite processes playlist content line by line and resolves every URI line
// against playlistURL, so the result can be served from anywhere.
//
// Lines starting with "#" (tags, comments, the #EXTM3U header) are copied
// verbatim. Empty lines are dropped. Every kept line is terminated by "\n".
// A line that does not parse as a URL reference is copied unchanged.
func Rewrite(playlistURL string, r io.Reader) (string, error) {
	base, err := url.Parse(playlistURL)
	if err != nil {
		return "", fmt.Errorf("parse playlist url %q: %w", playlistURL, err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: reading playlist: %w", grab.ErrTransport, err)
	}
	if !utf8.Valid(body) {
		return "", grab.ErrDecode
	}

	// Splitting on both CR and LF and discarding empty fields handles LF,
	// CRLF and bare CR endings alike.
	lines := strings.FieldsFunc(string(body), func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	var result strings.Builder
	for _, line := range lines {
		result.WriteString(rewriteLine(base, line))
		result.WriteString("\n")
	}

	return result.String(), nil
}

// rewriteLine returns line unchanged when it is a tag, a comment or already
// absolute, otherwise its absolute form relative to base. Resolution works on
// the text as written so characters the line carries (spaces, "|" header
// suffixes, existing escapes) are not re-encoded.
func rewriteLine(base *url.URL, line string) string {
	if strings.HasPrefix(line, "#") {
		return line
	}
	ref, err := url.Parse(line)
	if err != nil || ref.IsAbs() {
		return line
	}

	origin := (&url.URL{Scheme: base.Scheme, User: base.User, Host: base.Host}).String()
	if strings.HasPrefix(line, "//") {
		return base.Scheme + ":" + line
	}

	refPath, suffix := line, ""
	if i := strings.IndexAny(line, "?#"); i >= 0 {
		refPath, suffix = line[:i], line[i:]
	}

	basePath := base.EscapedPath()
	if basePath == "" {
		basePath = "/"
	}

	switch {
	case refPath == "":
		// Query or fragment only: the base path stays, a bare fragment also
		// keeps the base query.
		if strings.HasPrefix(suffix, "#") && base.RawQuery != "" {
			suffix = "?" + base.RawQuery + suffix
		}
		return origin + basePath + suffix
	case strings.HasPrefix(refPath, "/"):
		return origin + removeDotSegments(refPath) + suffix
	default:
		dir := basePath[:strings.LastIndex(basePath, "/")+1]
		return origin + removeDotSegments(dir+refPath) + suffix
	}
}

// removeDotSegments drops "." and ".." segments from an absolute path
// without touching anything else, unlike path.Clean which also collapses
// empty segments.
func removeDotSegments(p string) string {
	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs))
	for i, seg := range segs {
		last := i == len(segs)-1
		switch seg {
		case ".":
			if last {
				out = append(out, "")
			}
		case "..":
			if len(out) > 1 {
				out = out[:len(out)-1]
			}
			if last {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}
