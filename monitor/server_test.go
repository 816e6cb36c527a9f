package monitor

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"training.pl/warehouse/concurrency"
)

type fakeSource struct {
	stats concurrency.QueueStats
	ok    bool
}

func (f *fakeSource) Stats() (concurrency.QueueStats, bool) { return f.stats, f.ok }
func (f *fakeSource) RunID() string                         { return "run-1" }

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	s := NewServer(&fakeSource{}, NewMetrics())
	rec := get(t, s.Handler(), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestServer_Stats(t *testing.T) {
	t.Run("before any run", func(t *testing.T) {
		s := NewServer(&fakeSource{}, NewMetrics())
		if rec := get(t, s.Handler(), "/stats"); rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("during a run", func(t *testing.T) {
		source := &fakeSource{ok: true, stats: concurrency.QueueStats{Capacity: 10, Length: 3, Puts: 5, Takes: 2}}
		s := NewServer(source, NewMetrics())
		rec := get(t, s.Handler(), "/stats")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body struct {
			RunID string                 `json:"run_id"`
			Queue concurrency.QueueStats `json:"queue"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.RunID != "run-1" || body.Queue != source.stats {
			t.Fatalf("unexpected stats body: %+v", body)
		}
	})
}

func TestServer_MetricsFromHarnessRun(t *testing.T) {
	metrics := NewMetrics()
	harness := concurrency.NewHarness(concurrency.WithPacing(0, 0), concurrency.WithHarnessObserver(metrics))
	if _, err := harness.Run(context.Background(), 2, []concurrency.WorkerSpec{{Count: 4}}, []concurrency.WorkerSpec{{Count: 3}}); err != nil {
		t.Fatalf("run: %v", err)
	}

	s := NewServer(harness, metrics)
	rec := get(t, s.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"warehouse_orders_put_total 4", "warehouse_orders_taken_total 3", "warehouse_queue_length 1", "warehouse_queue_capacity 2"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, body)
		}
	}

	rec = get(t, s.Handler(), "/stats")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"length":1`) {
		t.Fatalf("unexpected stats response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_StartStopsWithContext(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := NewServer(&fakeSource{}, NewMetrics())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
