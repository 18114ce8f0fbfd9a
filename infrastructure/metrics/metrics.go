package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts upload workflow outcomes in its own registry.
// The CLI is short lived, so the registry is written out with WriteTextfile
// for a node_exporter textfile collector instead of being scraped.
type Recorder struct {
	registry *prometheus.Registry

	uploads       *prometheus.CounterVec
	attempts      *prometheus.HistogramVec
	sweptFiles    *prometheus.CounterVec
	sweepFailures *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewRecorder creates a recorder with all collectors registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drive_share",
			Name:      "uploads_total",
			Help:      "Upload pipeline runs by product and outcome.",
		}, []string{"product", "outcome"}),
		attempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "drive_share",
			Name:      "upload_attempts",
			Help:      "Attempts used by the upload pipeline.",
			Buckets:   []float64{1, 2, 3, 5},
		}, []string{"product"}),
		sweptFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drive_share",
			Name:      "swept_files_total",
			Help:      "Files deleted by the retention sweep.",
		}, []string{"product"}),
		sweepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drive_share",
			Name:      "sweep_delete_failures_total",
			Help:      "Files the retention sweep failed to delete.",
		}, []string{"product"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drive_share",
			Name:      "notifications_total",
			Help:      "Share emails by product and outcome.",
		}, []string{"product", "outcome"}),
	}

	r.registry.MustRegister(r.uploads, r.attempts, r.sweptFiles, r.sweepFailures, r.notifications)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveUpload records the outcome of an upload pipeline
func (r *Recorder) ObserveUpload(product string, attempts int, err error) {
	r.uploads.WithLabelValues(product, outcome(err)).Inc()
	if attempts > 0 {
		r.attempts.WithLabelValues(product).Observe(float64(attempts))
	}
}

// ObserveSweep records the files deleted and failed by a sweep
func (r *Recorder) ObserveSweep(product string, deleted, failed int) {
	r.sweptFiles.WithLabelValues(product).Add(float64(deleted))
	r.sweepFailures.WithLabelValues(product).Add(float64(failed))
}

// ObserveNotification records the outcome of a share email
func (r *Recorder) ObserveNotification(product string, err error) {
	r.notifications.WithLabelValues(product, outcome(err)).Inc()
}

// WriteTextfile writes the current values in the text exposition format.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
