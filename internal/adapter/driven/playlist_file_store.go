package driven

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// PlaylistFileStore implements the PlaylistStore port on the local
// filesystem, laid out as <root>/<site slug>/<file>.
type PlaylistFileStore struct {
	root   string
	logger *slog.Logger
}

// NewPlaylistFileStore creates a store rooted at root.
func NewPlaylistFileStore(root string, logger *slog.Logger) *PlaylistFileStore {
	return &PlaylistFileStore{
		root:   root,
		logger: logger,
	}
}

func (s *PlaylistFileStore) path(siteSlug, fileName string) (string, error) {
	if fileName == "" || filepath.Base(fileName) != fileName {
		return "", fmt.Errorf("invalid playlist file name %q", fileName)
	}
	return filepath.Join(s.root, siteSlug, fileName), nil
}

// Prepare creates the site directory if it does not exist.
func (s *PlaylistFileStore) Prepare(siteSlug string) error {
	dir := filepath.Join(s.root, siteSlug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating site directory %s: %w", dir, err)
	}
	return nil
}

// Write replaces the playlist file with text. The content goes to a
// temporary file in the same directory first and is renamed over the
// target, so readers never observe a partial playlist.
func (s *PlaylistFileStore) Write(siteSlug, fileName, text string) error {
	target, err := s.path(siteSlug, fileName)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", target, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", target, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", target, err)
	}

	s.logger.Debug("playlist written", "path", target, "bytes", len(text))
	return nil
}

// Remove deletes the playlist file. A missing file is not an error, and
// anything that is not a regular file is left alone.
func (s *PlaylistFileStore) Remove(siteSlug, fileName string) error {
	target, err := s.path(siteSlug, fileName)
	if err != nil {
		return err
	}

	info, err := os.Lstat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", target, err)
	}
	if !info.Mode().IsRegular() {
		s.logger.Warn("refusing to remove non-regular file", "path", target)
		return nil
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", target, err)
	}

	s.logger.Debug("playlist removed", "path", target)
	return nil
}
