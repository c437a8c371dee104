package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheus(reg)

	rec.RequestSent()
	rec.RequestSent()
	rec.RequestFailed()
	rec.AdmissionWait(10)
	rec.AdmissionWait(10)
	rec.WindowDepth(42)

	if got := testutil.ToFloat64(rec.requestsSent); got != 2 {
		t.Errorf("requests_sent_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.requestsFailed); got != 1 {
		t.Errorf("requests_failed_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.admissionWait); got != 20 {
		t.Errorf("admission_wait_seconds_total = %v, want 20", got)
	}
	if got := testutil.ToFloat64(rec.windowDepth); got != 42 {
		t.Errorf("rate_window_entries = %v, want 42", got)
	}
}

func TestNopRecorderIsSafe(t *testing.T) {
	var rec Recorder = Nop{}
	rec.RequestSent()
	rec.RequestFailed()
	rec.AdmissionWait(1)
	rec.WindowDepth(1)
}
