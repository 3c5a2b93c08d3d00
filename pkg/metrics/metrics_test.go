package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_CountersAndGauges(t *testing.T) {
	r := NewRegistry()
	r.IncCounter(OpsTotal, map[string]string{"op": "insert", "result": "ok"}, 1)
	r.IncCounter(OpsTotal, map[string]string{"op": "insert", "result": "ok"}, 2)
	r.IncCounter(OpsTotal, map[string]string{"op": "delete", "result": "error"}, 1)
	r.IncCounter(ShiftedTotal, nil, 4)
	r.SetGauge(Widgets, nil, 5)
	r.SetGauge(Widgets, nil, 4)

	if got := r.Value(OpsTotal, map[string]string{"op": "insert", "result": "ok"}); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if got := r.Value(ShiftedTotal, nil); got != 4 {
		t.Fatalf("expected 4 shifted, got %v", got)
	}
	if got := r.Value(Widgets, nil); got != 4 {
		t.Fatalf("expected gauge 4, got %v", got)
	}
	if got := testutil.ToFloat64(r.counters[OpsTotal].WithLabelValues("delete", "error")); got != 1 {
		t.Fatalf("expected 1 failed delete, got %v", got)
	}
}

func TestRegistry_IgnoresUnknownAndMislabeled(t *testing.T) {
	r := NewRegistry()
	r.IncCounter("no_such_counter", nil, 1)
	r.IncCounter(OpsTotal, map[string]string{"op": "insert"}, 1)
	r.SetGauge(Widgets, map[string]string{"extra": "x"}, 1)

	if got := r.Value(OpsTotal, map[string]string{"op": "insert", "result": "ok"}); got != 0 {
		t.Fatalf("mislabeled increment was counted: %v", got)
	}
	if got := r.Value(Widgets, nil); got != 0 {
		t.Fatalf("mislabeled gauge was set: %v", got)
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.IncCounter(OpsTotal, map[string]string{"op": `we"ird`, "result": "ok"}, 1)
	r.SetGauge(NextZ, nil, 7)

	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"# TYPE widgetdb_ops_total counter",
		`widgetdb_ops_total{op="we\"ird",result="ok"} 1`,
		"widgetdb_next_z 7",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output lacks %q:\n%s", want, body)
		}
	}
}

func TestNop(t *testing.T) {
	Nop.IncCounter("x", nil, 1)
	Nop.SetGauge("x", nil, 1)
}
