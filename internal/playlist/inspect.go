package playlist

import (
	"fmt"
	"strings"

	"github.com/grafov/m3u8"
)

// Kind labels the type of an HLS playlist.
type Kind string

const (
	KindMedia   Kind = "media"
	KindMaster  Kind = "master"
	KindUnknown Kind = "unknown"
)

// Info summarizes a playlist for logging and metrics.
type Info struct {
	Kind     Kind
	Segments int
	Variants int
}

// Inspect decodes text leniently and reports what kind of playlist it is.
// It never alters the text; callers treat a decode error as informational.
func Inspect(text string) (Info, error) {
	pl, listType, err := m3u8.DecodeFrom(strings.NewReader(text), false)
	if err != nil {
		return Info{Kind: KindUnknown}, fmt.Errorf("decoding playlist: %w", err)
	}

	switch listType {
	case m3u8.MEDIA:
		media := pl.(*m3u8.MediaPlaylist)
		return Info{Kind: KindMedia, Segments: int(media.Count())}, nil
	case m3u8.MASTER:
		master := pl.(*m3u8.MasterPlaylist)
		return Info{Kind: KindMaster, Variants: len(master.Variants)}, nil
	default:
		return Info{Kind: KindUnknown}, nil
	}
}
