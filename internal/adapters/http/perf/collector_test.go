package perf

import (
	"math"
	"sync"
	"testing"
	"time"
)

// TestCollector_Snapshot verifies requests, queries and jobs are grouped and averaged apart.
func TestCollector_Snapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	for _, e := range []Entry{
		{Kind: KindRequest, Path: "GET /admin/menu", StatusCode: 200, DurationMs: 10},
		{Kind: KindRequest, Path: "GET /admin/menu", StatusCode: 200, DurationMs: 30},
		{Kind: KindRequest, Path: "POST /admin/send-email", StatusCode: 502, DurationMs: 90},
		{Kind: KindQuery, Path: "QueryContext", DurationMs: 5},
		{Kind: KindJob, Path: "newsletter_campaign", DurationMs: 40},
		{Kind: KindJob, Path: "newsletter_campaign", Failed: true, DurationMs: 80},
	} {
		e.Timestamp = now
		c.Record(e)
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 6 || snap.ServerErrors != 1 {
		t.Errorf("TotalRecorded = %d ServerErrors = %d, want 6 and 1", snap.TotalRecorded, snap.ServerErrors)
	}
	if len(snap.SlowestPaths) != 2 {
		t.Fatalf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if first := snap.SlowestPaths[0]; first.Path != "POST /admin/send-email" || first.Failed != 1 {
		t.Errorf("slowest = %+v, want the failed send-email", first)
	}
	if menu := snap.SlowestPaths[1]; menu.AvgMs != 20 || menu.MaxMs != 30 || menu.Count != 2 {
		t.Errorf("menu stat = %+v, want avg 20 max 30 count 2", menu)
	}
	if len(snap.SlowestQueries) != 1 {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
	if len(snap.Jobs) != 1 {
		t.Fatalf("Jobs = %+v", snap.Jobs)
	}
	if job := snap.Jobs[0]; job.Count != 2 || job.Failed != 1 || job.AvgMs != 60 {
		t.Errorf("job stat = %+v, want count 2 failed 1 avg 60", job)
	}
}

// TestCollector_SnapshotWindow verifies the since cutoff, the ring capacity and the top-N cap.
func TestCollector_SnapshotWindow(t *testing.T) {
	now := time.Now()

	t.Run("since", func(t *testing.T) {
		c := NewCollector(10)
		c.Record(Entry{Kind: KindRequest, Path: "GET /admin/orders", DurationMs: 100, Timestamp: now.Add(-2 * time.Hour)})
		c.Record(Entry{Kind: KindRequest, Path: "GET /admin/users", DurationMs: 10, Timestamp: now})
		snap := c.Snapshot(now.Add(-time.Hour), 10)
		if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "GET /admin/users" {
			t.Errorf("SlowestPaths = %+v, want only the recent entry", snap.SlowestPaths)
		}
	})

	t.Run("ring overwrites oldest", func(t *testing.T) {
		c := NewCollector(3)
		for i := 0; i < 5; i++ {
			c.Record(Entry{Kind: KindRequest, Path: "GET /admin", DurationMs: float64(i), Timestamp: now})
		}
		snap := c.Snapshot(now.Add(-time.Minute), 10)
		if c.TotalRecorded() != 5 || snap.SlowestPaths[0].Count != 3 || snap.SlowestPaths[0].AvgMs != 3 {
			t.Errorf("total = %d stat = %+v, want 5 written and entries 2..4 kept", c.TotalRecorded(), snap.SlowestPaths[0])
		}
	})

	t.Run("top n", func(t *testing.T) {
		c := NewCollector(10)
		for i, p := range []string{"GET /a", "GET /b", "GET /c"} {
			c.Record(Entry{Kind: KindRequest, Path: p, DurationMs: float64(i + 1), Timestamp: now})
		}
		snap := c.Snapshot(now.Add(-time.Minute), 2)
		if len(snap.SlowestPaths) != 2 || snap.SlowestPaths[0].Path != "GET /c" {
			t.Errorf("SlowestPaths = %+v, want GET /c first and two entries", snap.SlowestPaths)
		}
	})
}

// TestPercentile verifies interpolation between ranks.
func TestPercentile(t *testing.T) {
	hundred := make([]float64, 100)
	for i := range hundred {
		hundred[i] = float64(i + 1)
	}
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 50, 0},
		{"single", []float64{7}, 99, 7},
		{"median of two", []float64{10, 20}, 50, 15},
		{"p50 of 1..100", hundred, 50, 50.5},
		{"p95 of 1..100", hundred, 95, 95.05},
		{"p100", hundred, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.sorted, tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("percentile = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCollector_NilSafe verifies recording on a nil collector is a no-op.
func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.Record(Entry{Kind: KindRequest, Path: "GET /", Timestamp: time.Now()})
	c.RecordJob("newsletter_campaign", time.Now(), nil)
}

// TestCollector_ConcurrentWrites verifies Record is safe from many goroutines.
func TestCollector_ConcurrentWrites(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Record(Entry{Kind: KindQuery, Path: "ExecContext", DurationMs: 1, Timestamp: now})
			}
		}()
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}

// BenchmarkCollectorSnapshot measures a full-buffer snapshot.
func BenchmarkCollectorSnapshot(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	now := time.Now()
	for i := 0; i < DefaultRingSize; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /admin/menu", StatusCode: 200, DurationMs: float64(i % 100), Timestamp: now})
	}
	since := now.Add(-time.Hour)
	b.ReportAllocs()
	for b.Loop() {
		c.Snapshot(since, 10)
	}
}
