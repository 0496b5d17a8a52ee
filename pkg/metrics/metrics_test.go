package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.IncBillsGenerated("persist")
	m.IncBillsGenerated("persist")
	m.IncBillsGenerated("preview")
	m.AddBackingsReplaced("deleted", 2)
	m.AddBackingsReplaced("ended", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BillsGenerated.WithLabelValues("persist")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BillsGenerated.WithLabelValues("preview")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BackingsReplaced.WithLabelValues("deleted")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncBillsGenerated("persist")
		m.IncCapacityChange("saved")
		m.AddBackingsReplaced("created", 1)
		m.IncNotification("welcome", "ok")
		m.IncBookingsCreated("pending")
		m.IncPaymentRecorded("refund")
	})
}
