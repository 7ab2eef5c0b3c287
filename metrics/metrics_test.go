package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSubmission(t *testing.T) {
	before := testutil.ToFloat64(BlogSubmissions.WithLabelValues(ResultCreated))
	ObserveSubmission(ResultCreated)
	assert.Equal(t, before+1, testutil.ToFloat64(BlogSubmissions.WithLabelValues(ResultCreated)))
}

func TestObserveUpload(t *testing.T) {
	before := testutil.ToFloat64(ImageUploads.WithLabelValues("local"))
	ObserveUpload("local")
	ObserveUpload("local")
	assert.Equal(t, before+2, testutil.ToFloat64(ImageUploads.WithLabelValues("local")))
}

func TestObserveAnnouncement(t *testing.T) {
	sent := testutil.ToFloat64(Announcements.WithLabelValues("sent"))
	failed := testutil.ToFloat64(Announcements.WithLabelValues("failed"))

	ObserveAnnouncement(nil)
	ObserveAnnouncement(errors.New("broker down"))

	assert.Equal(t, sent+1, testutil.ToFloat64(Announcements.WithLabelValues("sent")))
	assert.Equal(t, failed+1, testutil.ToFloat64(Announcements.WithLabelValues("failed")))
}
