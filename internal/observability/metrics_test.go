package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetGeolocationBackend(t *testing.T) {
	m := NewMetricsForTesting()
	all := []string{"proj4", "gctpc", "internal", "not_used"}

	m.SetGeolocationBackend("gctpc", all)

	assert.InDelta(t, 1, testutil.ToFloat64(m.GeolocationBackend.WithLabelValues("gctpc")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.GeolocationBackend.WithLabelValues("proj4")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.GeolocationBackend.WithLabelValues("not_used")), 0)

	m.SetGeolocationBackend("not_used", all)
	assert.InDelta(t, 0, testutil.ToFloat64(m.GeolocationBackend.WithLabelValues("gctpc")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GeolocationBackend.WithLabelValues("not_used")), 0)
}
