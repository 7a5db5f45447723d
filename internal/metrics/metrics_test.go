package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOperation(t *testing.T) {
	m := NewUnregistered()

	m.RecordOperation("create", "success")
	m.RecordOperation("create", "success")
	m.RecordOperation("create", "UPLOAD_ERROR")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("create", "UPLOAD_ERROR")))
}

func TestRecordBestEffortFailure(t *testing.T) {
	m := NewUnregistered()

	m.RecordBestEffortFailure("image_remove")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BestEffortFailures.WithLabelValues("image_remove")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BestEffortFailures.WithLabelValues("tag_resolve")))
}

func TestRecordCacheLookup(t *testing.T) {
	m := NewUnregistered()

	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}

func TestObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("GET", "/v1/articles", "200", 15*time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "article_cms_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
