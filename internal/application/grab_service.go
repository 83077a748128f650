package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alorle/m3u8-grabber/internal/grab"
	"github.com/alorle/m3u8-grabber/internal/playlist"
	"github.com/alorle/m3u8-grabber/internal/port/driven"
	"github.com/alorle/m3u8-grabber/internal/site"
	"github.com/alorle/m3u8-grabber/metrics"
)

// GrabService orchestrates one grab run: load sites, resolve every channel's
// stream URL, turn it into a playlist and keep the output file in sync.
type GrabService struct {
	sites    driven.SiteSource
	resolver driven.StreamResolver
	fetcher  driven.PlaylistFetcher
	store    driven.PlaylistStore
	history  driven.OutcomeRepository
	logger   *slog.Logger

	now      func() time.Time
	newRunID func() string
}

// NewGrabService creates a new grab service with the required dependencies.
func NewGrabService(
	sites driven.SiteSource,
	resolver driven.StreamResolver,
	fetcher driven.PlaylistFetcher,
	store driven.PlaylistStore,
	history driven.OutcomeRepository,
	logger *slog.Logger,
) *GrabService {
	return &GrabService{
		sites:    sites,
		resolver: resolver,
		fetcher:  fetcher,
		store:    store,
		history:  history,
		logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// Run processes every site and channel sequentially.
//
// Per-channel failures are logged, recorded and never stop the run. Only a
// site load failure or a cancelled context returns an error; in the latter
// case the summary covers the channels processed so far.
//
// Cancellation is observed between channels only: the channel in flight runs
// to completion on a context detached from ctx.
func (s *GrabService) Run(ctx context.Context) (grab.Summary, error) {
	summary := grab.Summary{RunID: s.newRunID()}
	start := s.now()
	logger := s.logger.With("run_id", summary.RunID)

	sites, err := s.sites.LoadSites(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to load sites: %w", err)
	}

	logger.Info("run started", "sites", len(sites))

	defer func() {
		finished := s.now()
		metrics.RecordRun(finished, finished.Sub(start))
	}()

	for _, st := range sites {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Sites++
		metrics.RecordSite()

		if err := s.store.Prepare(st.Slug()); err != nil {
			logger.Error("failed to prepare site directory, skipping site", "site", st.Slug(), "error", err)
			continue
		}

		logger.Info("processing site", "site", st.Slug(), "channels", len(st.Channels()), "mode", st.Mode())

		for _, ch := range st.Channels() {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			chCtx := context.WithoutCancel(ctx)
			o := s.processChannel(chCtx, logger, st, ch, summary.RunID)
			s.record(chCtx, logger, o)
			summary.Add(o)
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	logger.Info("run finished",
		"sites", summary.Sites,
		"written", summary.Written,
		"removed", summary.Removed,
		"duration", s.now().Sub(start),
	)

	return summary, nil
}

// processChannel runs the resolve, filter, render and store steps for one
// channel and returns its outcome.
func (s *GrabService) processChannel(ctx context.Context, logger *slog.Logger, st site.Site, ch site.Channel, runID string) grab.Outcome {
	fileName := ch.FileName()
	logger = logger.With("site", st.Slug(), "channel", ch.Name())

	if fileName == "" {
		logger.Error("channel name produces an empty file name, skipping")
		return grab.Removed(st.Slug(), "", "", runID, s.now(), grab.ErrEmptySlug)
	}

	channelURL := st.ChannelURL(ch)
	streamURL, err := s.resolver.Resolve(ctx, driven.ResolveRequest{
		URL:     channelURL,
		Pattern: st.Pattern(),
		Method:  st.Method(),
		Headers: st.Headers(),
		Body:    st.Body(),
	})
	if err != nil {
		return s.discard(logger, st, fileName, "", runID, err)
	}

	if !st.Accepts(streamURL) {
		err := fmt.Errorf("%w: %q does not contain %q", grab.ErrFiltered, streamURL, st.OutputFilter())
		return s.discard(logger, st, fileName, streamURL, runID, err)
	}

	text, err := s.render(ctx, st, streamURL)
	if err != nil {
		return s.discard(logger, st, fileName, streamURL, runID, err)
	}
	if text == "" {
		return s.discard(logger, st, fileName, streamURL, runID, grab.ErrEmptyPlaylist)
	}

	if err := s.store.Write(st.Slug(), fileName, text); err != nil {
		return s.discard(logger, st, fileName, streamURL, runID, err)
	}

	info, err := playlist.Inspect(text)
	if err != nil {
		logger.Debug("written playlist is not decodable", "error", err)
	}
	metrics.RecordPlaylistWritten(string(info.Kind))

	logger.Info("playlist written",
		"file", fileName,
		"stream_url", streamURL,
		"kind", info.Kind,
		"segments", info.Segments,
		"variants", info.Variants,
	)

	return grab.Written(st.Slug(), fileName, streamURL, runID, s.now())
}

// render turns a resolved stream URL into playlist text according to the
// site's mode.
func (s *GrabService) render(ctx context.Context, st site.Site, streamURL string) (string, error) {
	switch st.Mode() {
	case site.ModeVariant:
		return s.fetcher.Fetch(ctx, streamURL)
	case site.ModeMaster:
		return playlist.Master(streamURL, st.Bandwidth()), nil
	default:
		return "", fmt.Errorf("%w: %q", grab.ErrUnknownMode, st.Mode())
	}
}

// discard removes any stale output for the channel and builds the failed
// outcome. A failing removal is logged; the outcome keeps the original cause.
func (s *GrabService) discard(logger *slog.Logger, st site.Site, fileName, streamURL, runID string, cause error) grab.Outcome {
	logger.Warn("channel failed, removing output", "file", fileName, "reason", grab.Reason(cause), "error", cause)

	if err := s.store.Remove(st.Slug(), fileName); err != nil {
		logger.Error("failed to remove stale playlist", "file", fileName, "error", err)
	}

	return grab.Removed(st.Slug(), fileName, streamURL, runID, s.now(), cause)
}

// record publishes the outcome to metrics and run history and logs a state
// change against the previous run.
func (s *GrabService) record(ctx context.Context, logger *slog.Logger, o grab.Outcome) {
	metrics.RecordChannel(o.Site(), string(o.Status()), o.Reason())

	// No output file, nothing to track
	if o.Channel() == "" {
		return
	}

	prev, err := s.history.FindLast(ctx, o.Key())
	switch {
	case errors.Is(err, grab.ErrOutcomeNotFound):
	case err != nil:
		logger.Warn("failed to read channel history", "key", o.Key(), "error", err)
	case prev.Status() != o.Status():
		if o.Status() == grab.StatusWritten {
			logger.Info("channel recovered", "key", o.Key(), "previous_reason", prev.Reason(), "previous_run", prev.RunID())
		} else {
			logger.Warn("channel lost", "key", o.Key(), "reason", o.Reason(), "previous_run", prev.RunID())
		}
	}

	if err := s.history.Save(ctx, o); err != nil {
		logger.Warn("failed to save channel history", "key", o.Key(), "error", err)
	}
}
