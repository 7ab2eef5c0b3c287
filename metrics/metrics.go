// Package metrics holds the Prometheus collectors for post publishing.
// HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsdesk"

// Submission results.
const (
	ResultCreated = "created"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
)

var (
	BlogSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blog_submissions_total",
			Help:      "Blog submissions by result (created, invalid, failed)",
		},
		[]string{"result"},
	)

	ImageUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_uploads_total",
			Help:      "Images stored by object storage backend",
		},
		[]string{"backend"},
	)

	Announcements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcements_total",
			Help:      "Post announcements by outcome (sent, failed)",
		},
		[]string{"outcome"},
	)
)

// ObserveSubmission counts one submission with the given result.
func ObserveSubmission(result string) {
	BlogSubmissions.WithLabelValues(result).Inc()
}

// ObserveUpload counts one stored image.
func ObserveUpload(backend string) {
	ImageUploads.WithLabelValues(backend).Inc()
}

// ObserveAnnouncement counts one announcement attempt.
func ObserveAnnouncement(err error) {
	if err != nil {
		Announcements.WithLabelValues("failed").Inc()
		return
	}
	Announcements.WithLabelValues("sent").Inc()
}
