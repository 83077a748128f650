package driven

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alorle/m3u8-grabber/internal/grab"
)

func newTestFetcher() *PlaylistHTTPFetcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPlaylistHTTPFetcher(http.DefaultClient, testUserAgent, logger)
}

func TestPlaylistHTTPFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != testUserAgent {
			t.Errorf("expected user agent %q, got %q", testUserAgent, got)
		}
		switch r.URL.Path {
		case "/live/index.m3u8":
			_, _ = w.Write([]byte("#EXTM3U\n#EXTINF:4,\nseg-1.ts\n\n#EXTINF:4,\n/root/seg-2.ts\n"))
		case "/binary.m3u8":
			_, _ = w.Write([]byte{'#', 'E', 'X', 'T', '\n', 0xff, 0xfe, '\n'})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	t.Run("rewrites relative lines", func(t *testing.T) {
		got, err := newTestFetcher().Fetch(context.Background(), server.URL+"/live/index.m3u8")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "#EXTM3U\n#EXTINF:4,\n" + server.URL + "/live/seg-1.ts\n#EXTINF:4,\n" + server.URL + "/root/seg-2.ts\n"
		if got != want {
			t.Errorf("unexpected playlist:\n got: %q\nwant: %q", got, want)
		}
	})

	t.Run("non-200 is a status error", func(t *testing.T) {
		_, err := newTestFetcher().Fetch(context.Background(), server.URL+"/missing.m3u8")
		if !errors.Is(err, grab.ErrBadStatus) {
			t.Errorf("expected ErrBadStatus, got %v", err)
		}
	})

	t.Run("invalid UTF-8 is a decode error", func(t *testing.T) {
		_, err := newTestFetcher().Fetch(context.Background(), server.URL+"/binary.m3u8")
		if !errors.Is(err, grab.ErrDecode) {
			t.Errorf("expected ErrDecode, got %v", err)
		}
	})
}

func TestPlaylistHTTPFetcher_Fetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestFetcher().Fetch(context.Background(), url+"/index.m3u8")
	if !errors.Is(err, grab.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}
