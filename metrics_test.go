package authkit

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricAuthorizeLatency, 3*time.Millisecond)

	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("expected disabled metrics to ignore Inc")
	}
	snapshot := m.Snapshot()
	if len(snapshot.Histograms) != 0 {
		t.Fatal("expected no histograms from disabled metrics")
	}
	for id, v := range snapshot.Counters {
		if v != 0 {
			t.Fatalf("expected zero counter %d, got %d", id, v)
		}
	}
}

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricTokenIssued)

	if m.Value(MetricLoginSuccess) != 2 {
		t.Fatalf("expected 2, got %d", m.Value(MetricLoginSuccess))
	}

	snapshot := m.Snapshot()
	if snapshot.Counters[MetricLoginSuccess] != 2 {
		t.Fatalf("expected snapshot counter 2, got %d", snapshot.Counters[MetricLoginSuccess])
	}
	if snapshot.Counters[MetricTokenIssued] != 1 {
		t.Fatalf("expected snapshot counter 1, got %d", snapshot.Counters[MetricTokenIssued])
	}
	if snapshot.Counters[MetricRegisterSuccess] != 0 {
		t.Fatal("expected untouched counters to read zero")
	}
}

func TestMetricsObserveRequiresLatencyEnabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Observe(MetricAuthorizeLatency, 3*time.Millisecond)
	if len(m.Snapshot().Histograms) != 0 {
		t.Fatal("expected no histogram without EnableLatencyHistograms")
	}

	m = NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	m.Observe(MetricAuthorizeLatency, 3*time.Millisecond)
	m.Observe(MetricAuthorizeLatency, 700*time.Millisecond)

	buckets := m.Snapshot().Histograms[MetricAuthorizeLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}
	if buckets[0] != 1 {
		t.Fatalf("expected one observation in the first bucket, got %d", buckets[0])
	}
	if buckets[histBucketCount-1] != 1 {
		t.Fatalf("expected one observation in the overflow bucket, got %d", buckets[histBucketCount-1])
	}
}

func TestBucketIndexBoundaries(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{5 * time.Millisecond, 0},
		{6 * time.Millisecond, 1},
		{10 * time.Millisecond, 1},
		{25 * time.Millisecond, 2},
		{50 * time.Millisecond, 3},
		{100 * time.Millisecond, 4},
		{250 * time.Millisecond, 5},
		{500 * time.Millisecond, 6},
		{501 * time.Millisecond, 7},
		{time.Minute, 7},
	}
	for _, tc := range cases {
		if got := bucketIndex(tc.d); got != tc.want {
			t.Fatalf("bucketIndex(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricAuthorizeSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricAuthorizeSuccess); got != goroutines*perGoroutine {
		t.Fatalf("expected %d, got %d", goroutines*perGoroutine, got)
	}
}

func TestMetricsNilReceiverSafe(t *testing.T) {
	var m *Metrics

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricAuthorizeLatency, time.Millisecond)
	if m.Enabled() || m.LatencyEnabled() {
		t.Fatal("expected nil metrics to report disabled")
	}
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("expected zero value from nil metrics")
	}
	if got := m.Snapshot(); len(got.Counters) != 0 {
		t.Fatal("expected empty snapshot from nil metrics")
	}
}
