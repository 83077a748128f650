package driven

// PlaylistStore defines the interface for persisting per-channel playlist files.
// Files are grouped in one directory per site slug.
type PlaylistStore interface {
	// Prepare ensures the directory for a site exists.
	Prepare(siteSlug string) error

	// Write replaces the content of a channel's playlist file.
	Write(siteSlug, fileName, text string) error

	// Remove deletes a channel's playlist file. Removing a file that does not
	// exist is not an error.
	Remove(siteSlug, fileName string) error
}
