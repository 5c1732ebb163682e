package telemetry

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/utkarsh5026/threadpool/pool"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestHealthz(t *testing.T) {
	s, err := New(quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	s, err := New(quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestMetricsExposesPoolSeries(t *testing.T) {
	m := pool.NewMetrics("threadpool", "")
	s, err := New(quietLogger(), m)
	if err != nil {
		t.Fatal(err)
	}

	p, err := pool.New(1, pool.WithName("http"), pool.WithMetrics(m), pool.WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	_, _ = p.Execute(func() {})
	p.Release()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`threadpool_tasks_completed_total{pool="http"} 1`,
		`threadpool_tasks_submitted_total{pool="http"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewDuplicateCollector(t *testing.T) {
	m := pool.NewMetrics("dup", "")
	if _, err := New(quietLogger(), m, m); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, err := New(quietLogger())
	if err != nil {
		t.Fatal(err)
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("server not reachable: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestListenAndServeBadAddr(t *testing.T) {
	s, err := New(quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ListenAndServe(context.Background(), "not-an-address"); err == nil {
		t.Error("expected listen error")
	}
}
