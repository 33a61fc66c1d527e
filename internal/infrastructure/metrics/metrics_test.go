package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetDefaultMetrics_Singleton(t *testing.T) {
	assert.Same(t, GetDefaultMetrics(), GetDefaultMetrics())
}

func TestMetrics_RecordDownload(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.DownloadsTotal.WithLabelValues("audio", "ok"))
	bytesBefore := testutil.ToFloat64(DefaultMetrics.UploadedBytes.WithLabelValues("audio"))

	DefaultMetrics.RecordDownload("audio", 12.5, 2048)
	DefaultMetrics.RecordDownload("audio", 1, 0)

	assert.Equal(t, before+2, testutil.ToFloat64(DefaultMetrics.DownloadsTotal.WithLabelValues("audio", "ok")))
	assert.Equal(t, bytesBefore+2048, testutil.ToFloat64(DefaultMetrics.UploadedBytes.WithLabelValues("audio")))
}

func TestMetrics_RecordDownloadError(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.DownloadsTotal.WithLabelValues("video", "unknown"))

	DefaultMetrics.RecordDownloadError("video", "unavailable")
	DefaultMetrics.RecordDownloadError("video", "")

	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.DownloadsTotal.WithLabelValues("video", "unknown")))
}

func TestMetrics_SetSessions(t *testing.T) {
	DefaultMetrics.SetSessions(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(DefaultMetrics.Sessions))
}

// The remaining recorders only need to not panic
func TestMetrics_Recorders(t *testing.T) {
	DefaultMetrics.RecordFormatListing("ok")
	DefaultMetrics.RecordUnknownCallback()
	DefaultMetrics.RecordDroppedProgressEvent()
	DefaultMetrics.RecordKafkaMessage(0.01)
	DefaultMetrics.RecordKafkaError("")
}
