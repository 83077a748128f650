package playlist

import "strconv"

// Master synthesizes a single-variant master playlist that points players at
// streamURL. The doubled "#" on the version line and the missing trailing
// newline are part of the format existing consumers read.
func Master(streamURL string, bandwidth int) string {
	return "#EXTM3U\n" +
		"##EXT-X-VERSION:3\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=" + strconv.Itoa(bandwidth) + "\n" +
		streamURL
}
