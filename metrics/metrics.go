package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every grabber collector. It is kept apart from the default
// registry so a textfile dump only carries run metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// ChannelsProcessed tracks channel outcomes per site, status and reason
	ChannelsProcessed = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "grabber_channels_processed_total",
		Help: "Total number of channels processed by outcome",
	}, []string{"site", "status", "reason"})

	// SitesProcessed tracks how many sites were walked
	SitesProcessed = factory.NewCounter(prometheus.CounterOpts{
		Name: "grabber_sites_processed_total",
		Help: "Total number of sites processed",
	})

	// UpstreamRequestDuration tracks upstream HTTP latency by request kind
	// (resolve, playlist)
	UpstreamRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grabber_upstream_request_duration_seconds",
		Help:    "Duration of upstream HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// UpstreamErrors tracks upstream failures by request kind and reason
	UpstreamErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "grabber_upstream_errors_total",
		Help: "Total number of upstream request failures",
	}, []string{"kind", "reason"})

	// PlaylistsWritten tracks written playlists by detected playlist kind
	PlaylistsWritten = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "grabber_playlists_written_total",
		Help: "Total number of playlist files written by playlist kind",
	}, []string{"kind"})

	// LastRunTimestamp is the unix time the last run finished
	LastRunTimestamp = factory.NewGauge(prometheus.GaugeOpts{
		Name: "grabber_last_run_timestamp_seconds",
		Help: "Unix timestamp of the last finished run",
	})

	// LastRunDuration is the wall time of the last run
	LastRunDuration = factory.NewGauge(prometheus.GaugeOpts{
		Name: "grabber_last_run_duration_seconds",
		Help: "Duration of the last run",
	})
)

// RecordChannel increments the outcome counter for a channel
func RecordChannel(site, status, reason string) {
	ChannelsProcessed.WithLabelValues(site, status, reason).Inc()
}

// RecordSite increments the processed sites counter
func RecordSite() {
	SitesProcessed.Inc()
}

// ObserveUpstream records the duration of an upstream request of kind
func ObserveUpstream(kind string, d time.Duration) {
	UpstreamRequestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordUpstreamError increments the error counter for a request kind and reason
func RecordUpstreamError(kind, reason string) {
	UpstreamErrors.WithLabelValues(kind, reason).Inc()
}

// RecordPlaylistWritten increments the written counter for a playlist kind
func RecordPlaylistWritten(kind string) {
	PlaylistsWritten.WithLabelValues(kind).Inc()
}

// RecordRun sets the last run gauges
func RecordRun(finished time.Time, d time.Duration) {
	LastRunTimestamp.Set(float64(finished.Unix()))
	LastRunDuration.Set(d.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format to path,
// for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
