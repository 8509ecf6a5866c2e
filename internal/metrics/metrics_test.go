package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLatencyStats_Snapshot(t *testing.T) {
	s := NewLatencyStats(time.Hour)
	for _, ms := range []int64{40, 10, 30, 20} {
		s.Record(time.Duration(ms)*time.Millisecond, ms == 40)
	}

	snap := s.Snapshot()
	if snap.Count != 4 || snap.Failed != 1 {
		t.Fatalf("expected 4 samples with 1 failure, got %+v", snap)
	}
	if snap.MinMs != 10 || snap.MaxMs != 40 {
		t.Errorf("unexpected min/max %d/%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 25 {
		t.Errorf("expected avg 25, got %v", snap.AvgMs)
	}
	if snap.P50Ms != 25 {
		t.Errorf("expected p50 25, got %v", snap.P50Ms)
	}
}

func TestLatencyStats_Prunes(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewLatencyStats(time.Minute)
	s.now = func() time.Time { return now }

	s.Record(100*time.Millisecond, false)
	now = now.Add(2 * time.Minute)
	s.Record(200*time.Millisecond, false)

	snap := s.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 {
		t.Errorf("expected only the recent sample, got %+v", snap)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveDeck("pptx", 3)
	m.ObserveLine(true, 150*time.Millisecond)
	m.ObserveLine(false, 50*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`slidecast_decks_generated_total{format="pptx"} 1`,
		`slidecast_slides_rendered_total 3`,
		`slidecast_speech_lines_total{result="ok"} 1`,
		`slidecast_speech_lines_total{result="failed"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
	if got := m.Latency.Snapshot().Count; got != 2 {
		t.Errorf("expected 2 latency samples, got %d", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveDeck("pptx", 1)
	m.ObserveLine(true, time.Second)
}
