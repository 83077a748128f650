package grab

import (
	"strings"
	"time"
)

// Status is the binary state of a channel's output file after a run.
type Status string

const (
	StatusWritten Status = "written"
	StatusRemoved Status = "removed"
)

// Outcome is the result of processing one channel in one run.
// It is an immutable value object.
type Outcome struct {
	site       string
	channel    string
	status     Status
	reason     string
	streamURL  string
	runID      string
	recordedAt time.Time
}

// Written builds the outcome of a channel whose playlist was stored.
func Written(site, channel, streamURL, runID string, at time.Time) Outcome {
	return Outcome{
		site:       strings.TrimSpace(site),
		channel:    strings.TrimSpace(channel),
		status:     StatusWritten,
		streamURL:  streamURL,
		runID:      runID,
		recordedAt: at,
	}
}

// Removed builds the outcome of a channel that failed with cause.
// streamURL may be empty when resolution itself failed.
func Removed(site, channel, streamURL, runID string, at time.Time, cause error) Outcome {
	return Outcome{
		site:       strings.TrimSpace(site),
		channel:    strings.TrimSpace(channel),
		status:     StatusRemoved,
		reason:     Reason(cause),
		streamURL:  streamURL,
		runID:      runID,
		recordedAt: at,
	}
}

// ReconstructOutcome rebuilds an Outcome from persisted state.
// Intended for repository adapters only.
func ReconstructOutcome(site, channel string, status Status, reason, streamURL, runID string, at time.Time) Outcome {
	return Outcome{
		site:       site,
		channel:    channel,
		status:     status,
		reason:     reason,
		streamURL:  streamURL,
		runID:      runID,
		recordedAt: at,
	}
}

func (o Outcome) Site() string          { return o.site }
func (o Outcome) Channel() string       { return o.channel }
func (o Outcome) Status() Status        { return o.status }
func (o Outcome) Reason() string        { return o.reason }
func (o Outcome) StreamURL() string     { return o.streamURL }
func (o Outcome) RunID() string         { return o.runID }
func (o Outcome) RecordedAt() time.Time { return o.recordedAt }

// Key identifies the output file the outcome refers to.
func (o Outcome) Key() string {
	return o.site + "/" + o.channel
}

// Summary counts channel outcomes for one run.
type Summary struct {
	RunID   string
	Sites   int
	Written int
	Removed int
	// Reasons counts removed channels per reason label.
	Reasons map[string]int
}

// Add folds o into the summary.
func (s *Summary) Add(o Outcome) {
	switch o.Status() {
	case StatusWritten:
		s.Written++
	case StatusRemoved:
		s.Removed++
		if s.Reasons == nil {
			s.Reasons = make(map[string]int)
		}
		s.Reasons[o.Reason()]++
	}
}
